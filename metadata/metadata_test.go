package metadata_test

import (
	"testing"

	"github.com/hostbridge/modcompat/instr"
	"github.com/hostbridge/modcompat/metadata"
)

func hostModule() *metadata.Module {
	return metadata.NewModule("HostCore",
		&metadata.Type{
			Name:  "Alpha",
			Scope: "HostCore",
			Fields: []*metadata.Field{
				{Name: "Keep", Type: "int32"},
			},
			Properties: []*metadata.Property{
				{Name: "Bar", Type: "int32", HasGetter: true, HasSetter: true},
				{Name: "Baz", Type: "string", HasGetter: true},
			},
			Methods: []*metadata.Method{
				{Name: "Ping"},
				{Name: "Ping", Params: []string{"int32"}},
			},
		},
	)
}

func TestIndexResolution(t *testing.T) {
	index := metadata.NewIndex(hostModule())
	alpha := &instr.TypeRef{Scope: "HostCore", Name: "Alpha"}

	if _, ok := index.ResolveType(alpha); !ok {
		t.Error("Alpha did not resolve")
	}
	if _, ok := index.ResolveType(&instr.TypeRef{Scope: "HostCore", Name: "Gone"}); ok {
		t.Error("unknown type resolved")
	}
	if _, ok := index.ResolveType(&instr.TypeRef{Scope: "Elsewhere", Name: "Alpha"}); ok {
		t.Error("unknown scope resolved")
	}

	if _, ok := index.ResolveField(&instr.FieldRef{DeclaringType: alpha, Name: "Keep"}); !ok {
		t.Error("Alpha.Keep did not resolve")
	}
	if _, ok := index.ResolveField(&instr.FieldRef{DeclaringType: alpha, Name: "Bar"}); ok {
		t.Error("removed field Alpha.Bar resolved")
	}

	if _, ok := index.ResolveMethod(&instr.MethodRef{DeclaringType: alpha, Name: "Ping"}); !ok {
		t.Error("Alpha.Ping did not resolve")
	}
	if _, ok := index.ResolveMethod(&instr.MethodRef{DeclaringType: alpha, Name: "Ping", Params: []string{"int32", "int32"}}); ok {
		t.Error("Ping with wrong arity resolved")
	}
}

func TestMethodResolvesCountsAccessors(t *testing.T) {
	index := metadata.NewIndex(hostModule())
	alpha := &instr.TypeRef{Scope: "HostCore", Name: "Alpha"}

	tests := []struct {
		name string
		ref  *instr.MethodRef
		want bool
	}{
		{"declared method", &instr.MethodRef{DeclaringType: alpha, Name: "Ping"}, true},
		{"getter of read-write property", &instr.MethodRef{DeclaringType: alpha, Name: "get_Bar"}, true},
		{"setter of read-write property", &instr.MethodRef{DeclaringType: alpha, Name: "set_Bar", Params: []string{"int32"}}, true},
		{"getter of get-only property", &instr.MethodRef{DeclaringType: alpha, Name: "get_Baz"}, true},
		{"setter of get-only property", &instr.MethodRef{DeclaringType: alpha, Name: "set_Baz", Params: []string{"string"}}, false},
		{"accessor of unknown property", &instr.MethodRef{DeclaringType: alpha, Name: "get_Gone"}, false},
		{"unknown method", &instr.MethodRef{DeclaringType: alpha, Name: "Pong"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := index.MethodResolves(tt.ref); got != tt.want {
				t.Errorf("MethodResolves(%s) = %v, want %v", tt.ref.FullName(), got, tt.want)
			}
		})
	}
}

func TestTypeMethodOverloadFirstMatch(t *testing.T) {
	mod := hostModule()
	alpha := mod.Type("Alpha")

	m := alpha.Method("Ping", -1)
	if m == nil || len(m.Params) != 0 {
		t.Errorf("Method(Ping, -1) = %+v, want the first declared overload", m)
	}
	if m := alpha.Method("Ping", 1); m == nil || len(m.Params) != 1 {
		t.Errorf("Method(Ping, 1) = %+v, want the one-arg overload", m)
	}
	if alpha.Method("Ping", 2) != nil {
		t.Error("Method(Ping, 2) matched a missing overload")
	}
}

func TestImportMethodDedups(t *testing.T) {
	mod := metadata.NewModule("SomeMod")
	getter := &instr.MethodRef{
		DeclaringType: &instr.TypeRef{Scope: "HostCore", Name: "Alpha"},
		Name:          "get_Bar",
		ReturnType:    "int32",
	}

	first := mod.ImportMethod(getter)
	second := mod.ImportMethod(getter.Clone())

	if first != second {
		t.Error("importing the same method twice produced distinct local refs")
	}
	if imports := mod.ImportedMethods(); len(imports) != 1 {
		t.Errorf("imported %d methods, want 1", len(imports))
	}

	// The local ref must be independent of the caller's copy.
	getter.Name = "mutated"
	if first.Name != "get_Bar" {
		t.Error("local ref aliases the imported reference")
	}
}

func TestImportTypeDedups(t *testing.T) {
	mod := metadata.NewModule("SomeMod")
	ref := &instr.TypeRef{Scope: "HostUtil", Name: "Util"}

	first := mod.ImportType(ref)
	second := mod.ImportType(&instr.TypeRef{Scope: "HostUtil", Name: "Util"})
	if first != second {
		t.Error("importing the same type twice produced distinct local refs")
	}
	if imports := mod.ImportedTypes(); len(imports) != 1 {
		t.Errorf("imported %d types, want 1", len(imports))
	}
}

func TestImportedTypesPreserveOrder(t *testing.T) {
	mod := metadata.NewModule("SomeMod")
	mod.ImportType(&instr.TypeRef{Scope: "HostUtil", Name: "Util"})
	mod.ImportType(&instr.TypeRef{Scope: "HostCore", Name: "Alpha"})
	mod.ImportType(&instr.TypeRef{Scope: "HostUtil", Name: "Util"})

	imports := mod.ImportedTypes()
	if len(imports) != 2 {
		t.Fatalf("imported %d types, want 2", len(imports))
	}
	if imports[0].Name != "Util" || imports[1].Name != "Alpha" {
		t.Errorf("import order = [%s %s], want [Util Alpha]", imports[0].Name, imports[1].Name)
	}
}

func TestPropertyAccessorRefs(t *testing.T) {
	prop := &metadata.Property{Name: "Bar", Type: "int32", HasGetter: true, HasSetter: true}
	alpha := &instr.TypeRef{Scope: "HostCore", Name: "Alpha"}

	getter := prop.GetterRef(alpha)
	if getter.Name != "get_Bar" || getter.ReturnType != "int32" || len(getter.Params) != 0 {
		t.Errorf("GetterRef = %+v", getter)
	}
	setter := prop.SetterRef(alpha)
	if setter.Name != "set_Bar" || len(setter.Params) != 1 || setter.Params[0] != "int32" {
		t.Errorf("SetterRef = %+v", setter)
	}
	if getter.DeclaringType == alpha {
		t.Error("accessor ref aliases the caller's type ref")
	}
}
