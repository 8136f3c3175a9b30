package rewrite

import (
	"fmt"
	"strings"

	"github.com/hostbridge/modcompat/instr"
	"github.com/hostbridge/modcompat/metadata"
)

// missingMemberFinder flags references into watched scopes that no longer
// resolve and that no rewriter repaired. Runs after every rewriter so
// already-repaired references are never flagged.
type missingMemberFinder struct {
	baseHandler
	index   *metadata.Index
	watched map[string]bool
}

func newMissingMemberFinder(index *metadata.Index, watched map[string]bool) *missingMemberFinder {
	return &missingMemberFinder{
		baseHandler: newBase("missing-member-finder"),
		index:       index,
		watched:     watched,
	}
}

func (h *missingMemberFinder) Handle(_ *metadata.Module, _ *instr.Body, ins *instr.Instruction) bool {
	declaring := ins.OperandType()
	if declaring == nil || !h.watched[declaring.Scope] {
		return false
	}

	switch ref := ins.Operand.(type) {
	case *instr.FieldRef:
		if _, ok := h.index.ResolveField(ref); !ok {
			return h.mark(OutcomeMissingMember, fmt.Sprintf("%s (no such field)", ref.FullName()))
		}
	case *instr.MethodRef:
		if !h.index.MethodResolves(ref) {
			return h.mark(OutcomeMissingMember, fmt.Sprintf("%s (no such method)", ref.FullName()))
		}
	case *instr.PropertyRef:
		if _, ok := h.index.ResolveProperty(ref); !ok {
			return h.mark(OutcomeMissingMember, fmt.Sprintf("%s (no such property)", ref.FullName()))
		}
	case *instr.TypeRef:
		if _, ok := h.index.ResolveType(ref); !ok {
			return h.mark(OutcomeMissingMember, fmt.Sprintf("%s (no such type)", ref.FullName()))
		}
	}
	return false
}

// memberTypeMismatchFinder flags references that resolve, but to a member
// whose declared type no longer matches what the mod was compiled against.
type memberTypeMismatchFinder struct {
	baseHandler
	index   *metadata.Index
	watched map[string]bool
}

func newMemberTypeMismatchFinder(index *metadata.Index, watched map[string]bool) *memberTypeMismatchFinder {
	return &memberTypeMismatchFinder{
		baseHandler: newBase("member-type-mismatch-finder"),
		index:       index,
		watched:     watched,
	}
}

func (h *memberTypeMismatchFinder) Handle(_ *metadata.Module, _ *instr.Body, ins *instr.Instruction) bool {
	declaring := ins.OperandType()
	if declaring == nil || !h.watched[declaring.Scope] {
		return false
	}

	switch ref := ins.Operand.(type) {
	case *instr.FieldRef:
		if ref.FieldType == "" {
			return false
		}
		if f, ok := h.index.ResolveField(ref); ok && f.Type != ref.FieldType {
			return h.mark(OutcomeTypeMismatch, fmt.Sprintf("%s (expected type %s, found %s)",
				ref.FullName(), ref.FieldType, f.Type))
		}
	case *instr.MethodRef:
		if ref.ReturnType == "" {
			return false
		}
		if m, ok := h.index.ResolveMethod(ref); ok && m.ReturnType != ref.ReturnType {
			return h.mark(OutcomeTypeMismatch, fmt.Sprintf("%s (expected return type %s, found %s)",
				ref.FullName(), ref.ReturnType, m.ReturnType))
		}
	}
	return false
}

// unvalidatedHookPrefix matches compiled event subscriptions to the host's
// unvalidated lifecycle hooks (add_UnvalidatedTicked and friends).
const unvalidatedHookPrefix = "add_Unvalidated"

// unvalidatedHookFinder flags mods that subscribe to lifecycle hooks the
// host fires before validating game state.
type unvalidatedHookFinder struct {
	baseHandler
	watched map[string]bool
}

func newUnvalidatedHookFinder(watched map[string]bool) *unvalidatedHookFinder {
	return &unvalidatedHookFinder{
		baseHandler: newBase("unvalidated-hook-finder"),
		watched:     watched,
	}
}

func (h *unvalidatedHookFinder) Handle(_ *metadata.Module, _ *instr.Body, ins *instr.Instruction) bool {
	if !ins.Opcode.IsCall() {
		return false
	}
	mref, ok := ins.MethodRef()
	if !ok || !h.watched[mref.DeclaringType.Scope] {
		return false
	}
	if !strings.HasPrefix(mref.Name, unvalidatedHookPrefix) {
		return false
	}
	return h.mark(OutcomeDetectedUnvalidatedHook, fmt.Sprintf("%s (unvalidated lifecycle hook)", mref.FullName()))
}

// riskFinder flags calls into a configured set of operationally risky
// types: filesystem, shell, console, dynamic invocation, patch engine.
// Detection only; the construct itself is structurally valid.
type riskFinder struct {
	baseHandler
	outcome Outcome
	noun    string
	matcher *typeMatcher
}

func newRiskFinder(name string, outcome Outcome, noun string, patterns []string) *riskFinder {
	return &riskFinder{
		baseHandler: newBase(name),
		outcome:     outcome,
		noun:        noun,
		matcher:     newTypeMatcher(patterns),
	}
}

func (h *riskFinder) Handle(_ *metadata.Module, _ *instr.Body, ins *instr.Instruction) bool {
	if !ins.Opcode.IsCall() {
		return false
	}
	mref, ok := ins.MethodRef()
	if !ok || !h.matcher.Match(mref.DeclaringType) {
		return false
	}
	return h.mark(h.outcome, fmt.Sprintf("%s (%s)", mref.FullName(), h.noun))
}
