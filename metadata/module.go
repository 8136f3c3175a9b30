package metadata

import "github.com/hostbridge/modcompat/instr"

// Field is a field declared on a type. Type is the field's declared type
// by name.
type Field struct {
	Name string
	Type string
}

// Property is a property declared on a type. Accessor presence is tracked
// explicitly: a get-only property has no setter to rewrite stores to.
type Property struct {
	Name      string
	Type      string
	HasGetter bool
	HasSetter bool
}

// GetterRef returns a reference to the property's getter on the given
// declaring type, using the conventional get_ accessor name.
func (p *Property) GetterRef(declaring *instr.TypeRef) *instr.MethodRef {
	return &instr.MethodRef{
		DeclaringType: declaring.Clone(),
		Name:          "get_" + p.Name,
		ReturnType:    p.Type,
	}
}

// SetterRef returns a reference to the property's setter on the given
// declaring type, using the conventional set_ accessor name.
func (p *Property) SetterRef(declaring *instr.TypeRef) *instr.MethodRef {
	return &instr.MethodRef{
		DeclaringType: declaring.Clone(),
		Name:          "set_" + p.Name,
		Params:        []string{p.Type},
	}
}

// Method is a method declared on a type, with its compiled body. Declared
// methods without a body (abstract, external) carry a nil Body.
type Method struct {
	Name       string
	ReturnType string
	Params     []string
	Body       *instr.Body
}

// Type is the metadata of one declared type. Scope is the name of the
// module that declares it.
type Type struct {
	Name       string
	Scope      string
	Fields     []*Field
	Properties []*Property
	Methods    []*Method
}

// Ref returns a reference to this type.
func (t *Type) Ref() *instr.TypeRef {
	return &instr.TypeRef{Scope: t.Scope, Name: t.Name}
}

// Field returns the declared field with the given name, or nil.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Property returns the declared property with the given name, or nil.
func (t *Type) Property(name string) *Property {
	for _, p := range t.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Method returns the first declared method matching name and arity, or
// nil. An arity of -1 matches any parameter count. Overload sets are
// resolved first-match; callers relying on a specific overload must check
// the result themselves.
func (t *Type) Method(name string, arity int) *Method {
	for _, m := range t.Methods {
		if m.Name != name {
			continue
		}
		if arity >= 0 && len(m.Params) != arity {
			continue
		}
		return m
	}
	return nil
}

// Module is one compiled unit: a set of declared types plus the table of
// references it imports from other modules. A Module is mutable and owned
// by a single rewrite run at a time.
type Module struct {
	Name  string
	Types []*Type

	importedMethods map[string]*instr.MethodRef
	importedTypes   map[string]*instr.TypeRef
	methodOrder     []string
	typeOrder       []string
}

// NewModule creates a module with the given declared types.
func NewModule(name string, types ...*Type) *Module {
	return &Module{Name: name, Types: types}
}

// Type returns the declared type with the given name, or nil.
func (m *Module) Type(name string) *Type {
	for _, t := range m.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// ImportMethod records ref in the module's reference table and returns the
// module-local reference. Importing the same method twice returns the same
// local reference.
func (m *Module) ImportMethod(ref *instr.MethodRef) *instr.MethodRef {
	if m.importedMethods == nil {
		m.importedMethods = make(map[string]*instr.MethodRef)
	}
	key := ref.Key()
	if local, ok := m.importedMethods[key]; ok {
		return local
	}
	local := ref.Clone()
	m.importedMethods[key] = local
	m.methodOrder = append(m.methodOrder, key)
	return local
}

// ImportType records ref in the module's reference table and returns the
// module-local reference, deduped by full name.
func (m *Module) ImportType(ref *instr.TypeRef) *instr.TypeRef {
	if m.importedTypes == nil {
		m.importedTypes = make(map[string]*instr.TypeRef)
	}
	key := ref.FullName()
	if local, ok := m.importedTypes[key]; ok {
		return local
	}
	local := ref.Clone()
	m.importedTypes[key] = local
	m.typeOrder = append(m.typeOrder, key)
	return local
}

// ImportedMethods returns the imported method references in import order.
func (m *Module) ImportedMethods() []*instr.MethodRef {
	out := make([]*instr.MethodRef, 0, len(m.methodOrder))
	for _, key := range m.methodOrder {
		if ref, ok := m.importedMethods[key]; ok {
			out = append(out, ref)
		}
	}
	return out
}

// ImportedTypes returns the imported type references in import order.
func (m *Module) ImportedTypes() []*instr.TypeRef {
	out := make([]*instr.TypeRef, 0, len(m.typeOrder))
	for _, key := range m.typeOrder {
		if ref, ok := m.importedTypes[key]; ok {
			out = append(out, ref)
		}
	}
	return out
}
