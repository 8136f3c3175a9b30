package modbin

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/hostbridge/modcompat/errors"
	"github.com/hostbridge/modcompat/instr"
	"github.com/hostbridge/modcompat/metadata"
)

// SchemaVersion is the current interchange schema. Increment when the
// payload format changes.
const SchemaVersion uint16 = 1

// Payload shapes. These mirror the metadata model but stay flat and
// self-contained so the format survives refactors of the in-memory types.
type modulePayload struct {
	Schema uint16
	Name   string
	Types  []typePayload
}

type typePayload struct {
	Name       string
	Scope      string
	Fields     []fieldPayload
	Properties []propertyPayload
	Methods    []methodPayload
}

type fieldPayload struct {
	Name string
	Type string
}

type propertyPayload struct {
	Name      string
	Type      string
	HasGetter bool
	HasSetter bool
}

type methodPayload struct {
	Name       string
	ReturnType string
	Params     []string
	HasBody    bool
	Body       []instructionPayload
}

type instructionPayload struct {
	Opcode      uint8
	OperandKind uint8

	// Reference payload; which fields are meaningful depends on the kind.
	Scope      string
	Type       string
	Name       string
	MemberType string
	Params     []string
}

// Encode serializes a module, including instruction streams, to the
// msgpack interchange format.
func Encode(m *metadata.Module) ([]byte, error) {
	payload := modulePayload{
		Schema: SchemaVersion,
		Name:   m.Name,
	}
	for _, t := range m.Types {
		tp := typePayload{Name: t.Name, Scope: t.Scope}
		for _, f := range t.Fields {
			tp.Fields = append(tp.Fields, fieldPayload{Name: f.Name, Type: f.Type})
		}
		for _, p := range t.Properties {
			tp.Properties = append(tp.Properties, propertyPayload{
				Name: p.Name, Type: p.Type, HasGetter: p.HasGetter, HasSetter: p.HasSetter,
			})
		}
		for _, method := range t.Methods {
			mp := methodPayload{
				Name:       method.Name,
				ReturnType: method.ReturnType,
				Params:     method.Params,
				HasBody:    method.Body != nil,
			}
			if method.Body != nil {
				for _, ins := range method.Body.Instructions {
					ip, err := encodeInstruction(ins)
					if err != nil {
						return nil, err
					}
					mp.Body = append(mp.Body, ip)
				}
			}
			tp.Methods = append(tp.Methods, mp)
		}
		payload.Types = append(payload.Types, tp)
	}

	data, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "marshal module")
	}
	return data, nil
}

func encodeInstruction(ins *instr.Instruction) (instructionPayload, error) {
	ip := instructionPayload{
		Opcode:      uint8(ins.Opcode),
		OperandKind: uint8(ins.OperandKind()),
	}
	if !ins.Valid() {
		return ip, errors.OperandKind(ins.String(),
			"operand kind "+ins.OperandKind().String()+" does not match opcode")
	}
	switch ref := ins.Operand.(type) {
	case *instr.FieldRef:
		ip.Scope = ref.DeclaringType.Scope
		ip.Type = ref.DeclaringType.Name
		ip.Name = ref.Name
		ip.MemberType = ref.FieldType
	case *instr.MethodRef:
		ip.Scope = ref.DeclaringType.Scope
		ip.Type = ref.DeclaringType.Name
		ip.Name = ref.Name
		ip.MemberType = ref.ReturnType
		ip.Params = ref.Params
	case *instr.PropertyRef:
		ip.Scope = ref.DeclaringType.Scope
		ip.Type = ref.DeclaringType.Name
		ip.Name = ref.Name
		ip.MemberType = ref.PropertyType
	case *instr.TypeRef:
		ip.Scope = ref.Scope
		ip.Type = ref.Name
	}
	return ip, nil
}

// Decode deserializes a module from the msgpack interchange format. A
// schema version other than the current one is rejected rather than
// guessed at.
func Decode(data []byte) (*metadata.Module, error) {
	var payload modulePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "unmarshal module")
	}
	if payload.Schema != SchemaVersion {
		return nil, errors.SchemaVersion(errors.PhaseDecode, payload.Schema, SchemaVersion)
	}

	mod := metadata.NewModule(payload.Name)
	for _, tp := range payload.Types {
		t := &metadata.Type{Name: tp.Name, Scope: tp.Scope}
		for _, f := range tp.Fields {
			t.Fields = append(t.Fields, &metadata.Field{Name: f.Name, Type: f.Type})
		}
		for _, p := range tp.Properties {
			t.Properties = append(t.Properties, &metadata.Property{
				Name: p.Name, Type: p.Type, HasGetter: p.HasGetter, HasSetter: p.HasSetter,
			})
		}
		for _, mp := range tp.Methods {
			method := &metadata.Method{
				Name:       mp.Name,
				ReturnType: mp.ReturnType,
				Params:     mp.Params,
			}
			if mp.HasBody {
				body := instr.NewBody()
				for _, ip := range mp.Body {
					ins, err := decodeInstruction(ip)
					if err != nil {
						return nil, err
					}
					body.Instructions = append(body.Instructions, ins)
				}
				method.Body = body
			}
			t.Methods = append(t.Methods, method)
		}
		mod.Types = append(mod.Types, t)
	}
	return mod, nil
}

func decodeInstruction(ip instructionPayload) (*instr.Instruction, error) {
	ins := &instr.Instruction{Opcode: instr.Opcode(ip.Opcode)}
	if !ins.Opcode.Known() {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "unknown opcode "+ins.Opcode.String())
	}

	declaring := &instr.TypeRef{Scope: ip.Scope, Name: ip.Type}
	switch instr.OperandKind(ip.OperandKind) {
	case instr.OperandNone:
	case instr.OperandField:
		ins.Operand = &instr.FieldRef{DeclaringType: declaring, Name: ip.Name, FieldType: ip.MemberType}
	case instr.OperandMethod:
		ins.Operand = &instr.MethodRef{DeclaringType: declaring, Name: ip.Name, ReturnType: ip.MemberType, Params: ip.Params}
	case instr.OperandProperty:
		ins.Operand = &instr.PropertyRef{DeclaringType: declaring, Name: ip.Name, PropertyType: ip.MemberType}
	case instr.OperandType:
		ins.Operand = declaring
	default:
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "unknown operand kind")
	}

	if !ins.Valid() {
		return nil, errors.OperandKind(ins.String(),
			"operand kind "+ins.OperandKind().String()+" does not match opcode")
	}
	return ins, nil
}
