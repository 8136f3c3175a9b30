package rewrite

import (
	"strings"

	"github.com/hostbridge/modcompat/instr"
)

// typeMatcher matches declaring types against configured patterns.
//
// Supported patterns:
//   - "Name" - matches a type name or a scope name exactly
//   - "Scope!Name" - matches one fully qualified type
//   - "Prefix.*" - matches any type name starting with "Prefix."
type typeMatcher struct {
	exact    map[string]bool
	prefixes []string
}

func newTypeMatcher(patterns []string) *typeMatcher {
	m := &typeMatcher{exact: make(map[string]bool)}
	for _, p := range patterns {
		if rest, ok := strings.CutSuffix(p, ".*"); ok {
			m.prefixes = append(m.prefixes, rest+".")
		} else {
			m.exact[p] = true
		}
	}
	return m
}

// Match reports whether the type matches any pattern.
func (m *typeMatcher) Match(t *instr.TypeRef) bool {
	if t == nil {
		return false
	}
	if m.exact[t.Name] || m.exact[t.Scope] || m.exact[t.FullName()] {
		return true
	}
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(t.Name, prefix) {
			return true
		}
	}
	return false
}

// scopeSet builds a membership set over watched scope names.
func scopeSet(scopes []string) map[string]bool {
	s := make(map[string]bool, len(scopes))
	for _, scope := range scopes {
		s[scope] = true
	}
	return s
}
