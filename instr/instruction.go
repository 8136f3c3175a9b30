package instr

import "fmt"

// Instruction represents one decoded operation in a method body.
//
// Operand holds the reference the operation acts on: *FieldRef, *MethodRef,
// *TypeRef, *PropertyRef, or nil. The operand kind must always match what
// the opcode expects; mutations that change the kind go through the
// Replace* methods so opcode and operand change together.
type Instruction struct {
	Operand any
	Opcode  Opcode
}

// OperandKindOf classifies an operand value.
func OperandKindOf(operand any) OperandKind {
	switch operand.(type) {
	case nil:
		return OperandNone
	case *FieldRef:
		return OperandField
	case *MethodRef:
		return OperandMethod
	case *TypeRef:
		return OperandType
	case *PropertyRef:
		return OperandProperty
	}
	return OperandNone
}

// OperandKind returns the kind of the instruction's current operand.
func (i *Instruction) OperandKind() OperandKind {
	return OperandKindOf(i.Operand)
}

// Valid reports whether the operand kind matches the opcode's expectation.
func (i *Instruction) Valid() bool {
	return i.Opcode.Accepts(i.OperandKind())
}

// FieldRef returns the operand as a field reference, if it is one.
func (i *Instruction) FieldRef() (*FieldRef, bool) {
	ref, ok := i.Operand.(*FieldRef)
	return ref, ok
}

// MethodRef returns the operand as a method reference, if it is one.
func (i *Instruction) MethodRef() (*MethodRef, bool) {
	ref, ok := i.Operand.(*MethodRef)
	return ref, ok
}

// TypeRef returns the operand as a type reference, if it is one.
func (i *Instruction) TypeRef() (*TypeRef, bool) {
	ref, ok := i.Operand.(*TypeRef)
	return ref, ok
}

// PropertyRef returns the operand as a property reference, if it is one.
func (i *Instruction) PropertyRef() (*PropertyRef, bool) {
	ref, ok := i.Operand.(*PropertyRef)
	return ref, ok
}

// OperandType returns the declaring type of a member operand, or the type
// itself for a type operand. Returns nil for nop.
func (i *Instruction) OperandType() *TypeRef {
	switch ref := i.Operand.(type) {
	case *FieldRef:
		return ref.DeclaringType
	case *MethodRef:
		return ref.DeclaringType
	case *PropertyRef:
		return ref.DeclaringType
	case *TypeRef:
		return ref
	}
	return nil
}

// ReplaceWithCall rewrites the instruction into a call to m, replacing
// opcode and operand atomically.
func (i *Instruction) ReplaceWithCall(m *MethodRef) {
	i.Opcode = OpCall
	i.Operand = m
}

// SetFieldRef retargets a field instruction at a different field. The
// opcode is left unchanged, so this is only valid on field opcodes.
func (i *Instruction) SetFieldRef(f *FieldRef) {
	i.Operand = f
}

// SetMethodRef retargets a call instruction at a different method. The
// opcode is left unchanged, so this is only valid on call opcodes.
func (i *Instruction) SetMethodRef(m *MethodRef) {
	i.Operand = m
}

// SetTypeRef retargets a type instruction at a different type.
func (i *Instruction) SetTypeRef(t *TypeRef) {
	i.Operand = t
}

// Clone returns a deep copy of the instruction. Operand references are
// copied so mutating the clone never aliases the original.
func (i *Instruction) Clone() *Instruction {
	c := &Instruction{Opcode: i.Opcode}
	switch ref := i.Operand.(type) {
	case *FieldRef:
		c.Operand = ref.Clone()
	case *MethodRef:
		c.Operand = ref.Clone()
	case *TypeRef:
		c.Operand = ref.Clone()
	case *PropertyRef:
		c.Operand = ref.Clone()
	}
	return c
}

// String renders the instruction for logs and the inspect command.
func (i *Instruction) String() string {
	switch ref := i.Operand.(type) {
	case *FieldRef:
		return fmt.Sprintf("%s %s", i.Opcode, ref.FullName())
	case *MethodRef:
		return fmt.Sprintf("%s %s", i.Opcode, ref.FullName())
	case *TypeRef:
		return fmt.Sprintf("%s %s", i.Opcode, ref.FullName())
	case *PropertyRef:
		return fmt.Sprintf("%s %s", i.Opcode, ref.FullName())
	}
	return i.Opcode.String()
}
