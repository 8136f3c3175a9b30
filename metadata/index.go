package metadata

import (
	"strings"

	"github.com/hostbridge/modcompat/instr"
)

// Index is the set of currently loaded metadata, queryable by scope and
// name. Resolution is side-effect free and never errors: a missing scope,
// type, or member is simply an unresolved reference.
//
// Index is safe for concurrent lookups once registration is done.
type Index struct {
	modules map[string]*Module
}

// NewIndex creates an index over the given modules.
func NewIndex(mods ...*Module) *Index {
	x := &Index{modules: make(map[string]*Module, len(mods))}
	for _, m := range mods {
		x.Register(m)
	}
	return x
}

// Register makes a module's declared types resolvable under its name.
// Registering a module twice replaces the earlier registration.
func (x *Index) Register(m *Module) {
	x.modules[m.Name] = m
}

// ResolveType looks up the declared type a reference points at.
func (x *Index) ResolveType(ref *instr.TypeRef) (*Type, bool) {
	if ref == nil {
		return nil, false
	}
	mod, ok := x.modules[ref.Scope]
	if !ok {
		return nil, false
	}
	t := mod.Type(ref.Name)
	if t == nil {
		return nil, false
	}
	return t, true
}

// ResolveField looks up the declared field a reference points at.
func (x *Index) ResolveField(ref *instr.FieldRef) (*Field, bool) {
	if ref == nil {
		return nil, false
	}
	t, ok := x.ResolveType(ref.DeclaringType)
	if !ok {
		return nil, false
	}
	f := t.Field(ref.Name)
	if f == nil {
		return nil, false
	}
	return f, true
}

// ResolveProperty looks up the declared property a reference points at.
func (x *Index) ResolveProperty(ref *instr.PropertyRef) (*Property, bool) {
	if ref == nil {
		return nil, false
	}
	t, ok := x.ResolveType(ref.DeclaringType)
	if !ok {
		return nil, false
	}
	p := t.Property(ref.Name)
	if p == nil {
		return nil, false
	}
	return p, true
}

// ResolveMethod looks up the declared method a reference points at,
// matching by name and arity. Property accessors are not declared methods;
// use MethodResolves when accessor calls should count as resolved.
func (x *Index) ResolveMethod(ref *instr.MethodRef) (*Method, bool) {
	if ref == nil {
		return nil, false
	}
	t, ok := x.ResolveType(ref.DeclaringType)
	if !ok {
		return nil, false
	}
	m := t.Method(ref.Name, len(ref.Params))
	if m == nil {
		return nil, false
	}
	return m, true
}

// MethodResolves reports whether a method reference resolves against
// loaded metadata, counting property accessors: a reference named get_X or
// set_X resolves when property X declares the matching accessor. Rewritten
// field accesses resolve through this path on later runs.
func (x *Index) MethodResolves(ref *instr.MethodRef) bool {
	if _, ok := x.ResolveMethod(ref); ok {
		return true
	}
	if ref == nil {
		return false
	}
	t, ok := x.ResolveType(ref.DeclaringType)
	if !ok {
		return false
	}
	if name, ok := strings.CutPrefix(ref.Name, "get_"); ok {
		if p := t.Property(name); p != nil && p.HasGetter {
			return true
		}
	}
	if name, ok := strings.CutPrefix(ref.Name, "set_"); ok {
		if p := t.Property(name); p != nil && p.HasSetter {
			return true
		}
	}
	return false
}
