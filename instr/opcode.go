package instr

import "fmt"

// Opcode identifies the operation performed by an instruction. The set is
// closed: decoders reject anything outside it.
type Opcode uint8

const (
	OpNop Opcode = iota
	OpLoadField
	OpLoadStaticField
	OpStoreField
	OpStoreStaticField
	OpCall
	OpCallVirt
	OpNewObject
	OpNewArray
	OpIsInstance
	OpCastClass
	OpBox
	OpLoadToken
)

// opcodeNames maps opcodes to their display names.
var opcodeNames = map[Opcode]string{
	OpNop:              "nop",
	OpLoadField:        "load-field",
	OpLoadStaticField:  "load-static-field",
	OpStoreField:       "store-field",
	OpStoreStaticField: "store-static-field",
	OpCall:             "call",
	OpCallVirt:         "call-virt",
	OpNewObject:        "new-object",
	OpNewArray:         "new-array",
	OpIsInstance:       "is-instance",
	OpCastClass:        "cast-class",
	OpBox:              "box",
	OpLoadToken:        "load-token",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// Known reports whether the opcode is part of the closed set.
func (op Opcode) Known() bool {
	_, ok := opcodeNames[op]
	return ok
}

// OperandKind describes which reference variant an operand holds.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandField
	OperandMethod
	OperandType
	OperandProperty
)

func (k OperandKind) String() string {
	switch k {
	case OperandNone:
		return "none"
	case OperandField:
		return "field"
	case OperandMethod:
		return "method"
	case OperandType:
		return "type"
	case OperandProperty:
		return "property"
	}
	return fmt.Sprintf("operand-kind(%d)", uint8(k))
}

// Accepts reports whether an operand of kind k is valid for the opcode.
// load-token accepts any metadata token; everything else expects exactly
// one kind.
func (op Opcode) Accepts(k OperandKind) bool {
	switch op {
	case OpNop:
		return k == OperandNone
	case OpLoadField, OpLoadStaticField, OpStoreField, OpStoreStaticField:
		return k == OperandField
	case OpCall, OpCallVirt, OpNewObject:
		return k == OperandMethod
	case OpNewArray, OpIsInstance, OpCastClass, OpBox:
		return k == OperandType
	case OpLoadToken:
		return k == OperandField || k == OperandMethod || k == OperandType || k == OperandProperty
	}
	return false
}

// IsFieldLoad reports whether the opcode reads a field value.
func (op Opcode) IsFieldLoad() bool {
	return op == OpLoadField || op == OpLoadStaticField
}

// IsFieldStore reports whether the opcode writes a field value.
func (op Opcode) IsFieldStore() bool {
	return op == OpStoreField || op == OpStoreStaticField
}

// IsCall reports whether the opcode invokes a method.
func (op Opcode) IsCall() bool {
	return op == OpCall || op == OpCallVirt || op == OpNewObject
}
