package instr

// TypeRef names a type declared in some module's metadata.
// Scope is the name of the module that declares the type.
type TypeRef struct {
	Scope string
	Name  string
}

// FullName returns the scope-qualified type name.
func (t *TypeRef) FullName() string {
	if t.Scope == "" {
		return t.Name
	}
	return t.Scope + "!" + t.Name
}

// Is reports whether the reference names the given scope and type.
func (t *TypeRef) Is(scope, name string) bool {
	return t.Scope == scope && t.Name == name
}

// Clone returns an independent copy of the reference.
func (t *TypeRef) Clone() *TypeRef {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// FieldRef names a field declared on some type.
// FieldType is the declared type of the field by name; empty when the
// compiler did not record it.
type FieldRef struct {
	DeclaringType *TypeRef
	Name          string
	FieldType     string
}

// FullName returns "<Type>.<Field>" for display and dedup.
func (f *FieldRef) FullName() string {
	return f.DeclaringType.Name + "." + f.Name
}

// Clone returns an independent copy of the reference.
func (f *FieldRef) Clone() *FieldRef {
	if f == nil {
		return nil
	}
	c := *f
	c.DeclaringType = f.DeclaringType.Clone()
	return &c
}

// MethodRef names a method declared on some type.
type MethodRef struct {
	DeclaringType *TypeRef
	Name          string
	ReturnType    string
	Params        []string
}

// FullName returns "<Type>.<Method>" for display.
func (m *MethodRef) FullName() string {
	return m.DeclaringType.Name + "." + m.Name
}

// Key returns a string that identifies the referenced method uniquely
// within loaded metadata, including its parameter list.
func (m *MethodRef) Key() string {
	k := m.DeclaringType.FullName() + "." + m.Name + "("
	for i, p := range m.Params {
		if i > 0 {
			k += ","
		}
		k += p
	}
	return k + ")"
}

// Clone returns an independent copy of the reference.
func (m *MethodRef) Clone() *MethodRef {
	if m == nil {
		return nil
	}
	c := *m
	c.DeclaringType = m.DeclaringType.Clone()
	c.Params = append([]string(nil), m.Params...)
	return &c
}

// PropertyRef names a property declared on some type. Compiled bodies
// rarely reference properties directly, but metadata tokens can.
type PropertyRef struct {
	DeclaringType *TypeRef
	Name          string
	PropertyType  string
}

// FullName returns "<Type>.<Property>" for display.
func (p *PropertyRef) FullName() string {
	return p.DeclaringType.Name + "." + p.Name
}

// Clone returns an independent copy of the reference.
func (p *PropertyRef) Clone() *PropertyRef {
	if p == nil {
		return nil
	}
	c := *p
	c.DeclaringType = p.DeclaringType.Clone()
	return &c
}
