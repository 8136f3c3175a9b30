// Package instr models compiled method bodies as addressable instruction
// sequences.
//
// An Instruction pairs an Opcode from a closed set with an Operand: a
// reference to a field, method, type, or property in some module's
// metadata. The reference types in this package are the operand
// vocabulary; declared members and resolution live in package metadata.
//
// The core invariant is that an instruction's operand kind always matches
// what its opcode expects. Rewriters therefore never assign Opcode and
// Operand independently when the kind changes; they use ReplaceWithCall
// and the Set* helpers, which keep the pair consistent.
package instr
