package instr

// Body is the ordered instruction sequence of one method. Rewriters mutate
// instructions in place; they never insert or remove entries.
type Body struct {
	Instructions []*Instruction
}

// NewBody creates a body from the given instructions.
func NewBody(ins ...*Instruction) *Body {
	return &Body{Instructions: ins}
}

// Snapshot returns a copy of the instruction slice. Handlers may change an
// instruction's operand kind mid-walk, so the pipeline iterates a snapshot
// rather than the live slice.
func (b *Body) Snapshot() []*Instruction {
	out := make([]*Instruction, len(b.Instructions))
	copy(out, b.Instructions)
	return out
}

// Clone returns a deep copy of the body.
func (b *Body) Clone() *Body {
	if b == nil {
		return nil
	}
	out := make([]*Instruction, len(b.Instructions))
	for i, ins := range b.Instructions {
		out[i] = ins.Clone()
	}
	return &Body{Instructions: out}
}

// Len returns the number of instructions in the body.
func (b *Body) Len() int {
	return len(b.Instructions)
}
