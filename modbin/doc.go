// Package modbin implements the compiled-module interchange format: a
// schema-versioned msgpack encoding of module metadata including
// instruction streams.
//
// The format exists so tooling (the modcompat CLI, test fixtures, the
// report cache) can pass compiled-module metadata around without linking
// the host's assembly loader. Decode enforces the instruction invariant
// that an operand's kind matches its opcode, so a module that round-trips
// through modbin is structurally sound.
package modbin
