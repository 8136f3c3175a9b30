package instr_test

import (
	"testing"

	"github.com/hostbridge/modcompat/instr"
)

func typeRef(scope, name string) *instr.TypeRef {
	return &instr.TypeRef{Scope: scope, Name: name}
}

func TestOpcodeAccepts(t *testing.T) {
	tests := []struct {
		opcode instr.Opcode
		kind   instr.OperandKind
		want   bool
	}{
		{instr.OpNop, instr.OperandNone, true},
		{instr.OpNop, instr.OperandField, false},
		{instr.OpLoadField, instr.OperandField, true},
		{instr.OpLoadStaticField, instr.OperandField, true},
		{instr.OpStoreField, instr.OperandField, true},
		{instr.OpStoreStaticField, instr.OperandField, true},
		{instr.OpLoadField, instr.OperandMethod, false},
		{instr.OpCall, instr.OperandMethod, true},
		{instr.OpCallVirt, instr.OperandMethod, true},
		{instr.OpNewObject, instr.OperandMethod, true},
		{instr.OpCall, instr.OperandField, false},
		{instr.OpIsInstance, instr.OperandType, true},
		{instr.OpCastClass, instr.OperandType, true},
		{instr.OpNewArray, instr.OperandType, true},
		{instr.OpBox, instr.OperandType, true},
		{instr.OpBox, instr.OperandMethod, false},
		{instr.OpLoadToken, instr.OperandField, true},
		{instr.OpLoadToken, instr.OperandMethod, true},
		{instr.OpLoadToken, instr.OperandType, true},
		{instr.OpLoadToken, instr.OperandProperty, true},
		{instr.OpLoadToken, instr.OperandNone, false},
	}

	for _, tt := range tests {
		if got := tt.opcode.Accepts(tt.kind); got != tt.want {
			t.Errorf("%s.Accepts(%s) = %v, want %v", tt.opcode, tt.kind, got, tt.want)
		}
	}
}

func TestInstructionValid(t *testing.T) {
	field := &instr.FieldRef{DeclaringType: typeRef("Host", "Alpha"), Name: "Bar"}
	method := &instr.MethodRef{DeclaringType: typeRef("Host", "Alpha"), Name: "Ping"}

	tests := []struct {
		name string
		ins  instr.Instruction
		want bool
	}{
		{"field load with field operand", instr.Instruction{Opcode: instr.OpLoadField, Operand: field}, true},
		{"field load with method operand", instr.Instruction{Opcode: instr.OpLoadField, Operand: method}, false},
		{"call with method operand", instr.Instruction{Opcode: instr.OpCall, Operand: method}, true},
		{"call without operand", instr.Instruction{Opcode: instr.OpCall}, false},
		{"nop without operand", instr.Instruction{Opcode: instr.OpNop}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ins.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReplaceWithCallKeepsPairConsistent(t *testing.T) {
	ins := &instr.Instruction{
		Opcode:  instr.OpLoadField,
		Operand: &instr.FieldRef{DeclaringType: typeRef("Host", "Alpha"), Name: "Bar"},
	}
	getter := &instr.MethodRef{DeclaringType: typeRef("Host", "Alpha"), Name: "get_Bar"}

	ins.ReplaceWithCall(getter)

	if ins.Opcode != instr.OpCall {
		t.Errorf("opcode = %s, want call", ins.Opcode)
	}
	if !ins.Valid() {
		t.Error("instruction invalid after ReplaceWithCall")
	}
	if mref, ok := ins.MethodRef(); !ok || mref.Name != "get_Bar" {
		t.Errorf("operand = %v, want get_Bar method ref", ins.Operand)
	}
	if _, ok := ins.FieldRef(); ok {
		t.Error("field ref still visible after rewrite")
	}
}

func TestInstructionCloneIsIndependent(t *testing.T) {
	orig := &instr.Instruction{
		Opcode: instr.OpStoreField,
		Operand: &instr.FieldRef{
			DeclaringType: typeRef("Host", "Alpha"),
			Name:          "Bar",
			FieldType:     "int32",
		},
	}

	clone := orig.Clone()
	clone.ReplaceWithCall(&instr.MethodRef{DeclaringType: typeRef("Host", "Alpha"), Name: "set_Bar"})

	if orig.Opcode != instr.OpStoreField {
		t.Errorf("original opcode changed to %s", orig.Opcode)
	}
	fref, ok := orig.FieldRef()
	if !ok || fref.Name != "Bar" {
		t.Errorf("original operand changed: %v", orig.Operand)
	}

	clone2 := orig.Clone()
	f2, _ := clone2.FieldRef()
	f2.DeclaringType.Name = "Beta"
	if fref.DeclaringType.Name != "Alpha" {
		t.Error("clone aliases the original declaring type")
	}
}

func TestOperandType(t *testing.T) {
	alpha := typeRef("Host", "Alpha")
	tests := []struct {
		name string
		ins  instr.Instruction
		want *instr.TypeRef
	}{
		{"field", instr.Instruction{Opcode: instr.OpLoadField, Operand: &instr.FieldRef{DeclaringType: alpha, Name: "Bar"}}, alpha},
		{"method", instr.Instruction{Opcode: instr.OpCall, Operand: &instr.MethodRef{DeclaringType: alpha, Name: "Ping"}}, alpha},
		{"type", instr.Instruction{Opcode: instr.OpIsInstance, Operand: alpha}, alpha},
		{"none", instr.Instruction{Opcode: instr.OpNop}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ins.OperandType(); got != tt.want {
				t.Errorf("OperandType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstructionString(t *testing.T) {
	ins := instr.Instruction{
		Opcode:  instr.OpLoadField,
		Operand: &instr.FieldRef{DeclaringType: typeRef("Host", "Alpha"), Name: "Bar"},
	}
	if got, want := ins.String(), "load-field Alpha.Bar"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	nop := instr.Instruction{Opcode: instr.OpNop}
	if got, want := nop.String(), "nop"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBodySnapshotIsACopy(t *testing.T) {
	a := &instr.Instruction{Opcode: instr.OpNop}
	b := &instr.Instruction{Opcode: instr.OpNop}
	body := instr.NewBody(a, b)

	snap := body.Snapshot()
	snap[0] = nil

	if body.Instructions[0] != a {
		t.Error("mutating the snapshot slice affected the body")
	}
	if body.Len() != 2 {
		t.Errorf("Len() = %d, want 2", body.Len())
	}
}

func TestMethodRefKeyIncludesParams(t *testing.T) {
	base := &instr.MethodRef{DeclaringType: typeRef("Host", "Alpha"), Name: "Ping"}
	overload := &instr.MethodRef{DeclaringType: typeRef("Host", "Alpha"), Name: "Ping", Params: []string{"int32"}}

	if base.Key() == overload.Key() {
		t.Errorf("overloads share key %q", base.Key())
	}
}
