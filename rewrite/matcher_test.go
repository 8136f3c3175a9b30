package rewrite

import (
	"testing"

	"github.com/hostbridge/modcompat/instr"
)

func TestTypeMatcher(t *testing.T) {
	m := newTypeMatcher([]string{"Console", "System.IO.*", "PatchLib", "HostCore!Alpha"})

	tests := []struct {
		name string
		ref  *instr.TypeRef
		want bool
	}{
		{"exact type name", &instr.TypeRef{Scope: "Runtime", Name: "Console"}, true},
		{"exact scope name", &instr.TypeRef{Scope: "PatchLib", Name: "Patcher"}, true},
		{"qualified name", &instr.TypeRef{Scope: "HostCore", Name: "Alpha"}, true},
		{"namespace prefix", &instr.TypeRef{Scope: "Runtime", Name: "System.IO.File"}, true},
		{"prefix without dot boundary", &instr.TypeRef{Scope: "Runtime", Name: "System.IOX"}, false},
		{"unrelated type", &instr.TypeRef{Scope: "HostCore", Name: "Beta"}, false},
		{"nil type", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Match(tt.ref); got != tt.want {
				t.Errorf("Match(%v) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}
