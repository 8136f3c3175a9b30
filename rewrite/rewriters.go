package rewrite

import (
	"fmt"

	"github.com/hostbridge/modcompat/hostapi"
	"github.com/hostbridge/modcompat/instr"
	"github.com/hostbridge/modcompat/metadata"
)

// fieldToPropertyRewriter is the heuristic fallback: it repairs references
// to a field that was removed and replaced by a same-named property,
// without an explicit per-symbol mapping.
//
// The watched-scope gate keeps the heuristic away from third-party
// references, and the resolution gate keeps it away from anything that
// still exists. After a successful rewrite the operand is a method
// reference, so a second pass over the instruction is a no-op by
// construction.
type fieldToPropertyRewriter struct {
	baseHandler
	index   *metadata.Index
	watched map[string]bool
}

func newFieldToPropertyRewriter(index *metadata.Index, watched map[string]bool) *fieldToPropertyRewriter {
	return &fieldToPropertyRewriter{
		baseHandler: newBase("field-to-property-heuristic"),
		index:       index,
		watched:     watched,
	}
}

func (h *fieldToPropertyRewriter) Handle(mod *metadata.Module, _ *instr.Body, ins *instr.Instruction) bool {
	fref, ok := ins.FieldRef()
	if !ok || !h.watched[fref.DeclaringType.Scope] {
		return false
	}
	if _, ok := h.index.ResolveField(fref); ok {
		return false // still declared, nothing broken
	}
	typ, ok := h.index.ResolveType(fref.DeclaringType)
	if !ok {
		return false
	}
	prop := typ.Property(fref.Name)
	if prop == nil {
		return false
	}

	var accessor *instr.MethodRef
	switch {
	case ins.Opcode.IsFieldLoad() && prop.HasGetter:
		accessor = prop.GetterRef(fref.DeclaringType)
	case ins.Opcode.IsFieldStore() && prop.HasSetter:
		accessor = prop.SetterRef(fref.DeclaringType)
	default:
		return false // leave broken for the missing-member finder
	}

	ins.ReplaceWithCall(mod.ImportMethod(accessor))
	return h.mark(OutcomeRewritten, fmt.Sprintf("%s.%s (field => property)", fref.DeclaringType.Name, fref.Name))
}

// fieldReplaceRewriter applies one exact field-to-field delta: the field
// was renamed and/or moved to another type.
type fieldReplaceRewriter struct {
	baseHandler
	delta hostapi.Delta
}

func newFieldReplaceRewriter(d hostapi.Delta) *fieldReplaceRewriter {
	return &fieldReplaceRewriter{
		baseHandler: newBase("field-replace:" + d.Type + "." + d.Name),
		delta:       d,
	}
}

func (h *fieldReplaceRewriter) Handle(mod *metadata.Module, _ *instr.Body, ins *instr.Instruction) bool {
	fref, ok := ins.FieldRef()
	if !ok || !fref.DeclaringType.Is(h.delta.Scope, h.delta.Type) || fref.Name != h.delta.Name {
		return false
	}

	newRef := &instr.FieldRef{
		DeclaringType: deltaTargetType(h.delta, fref.DeclaringType),
		Name:          h.delta.NewName,
		FieldType:     fref.FieldType,
	}
	if newRef.Name == "" {
		newRef.Name = fref.Name
	}
	if newRef.DeclaringType.Scope != fref.DeclaringType.Scope || newRef.DeclaringType.Name != fref.DeclaringType.Name {
		mod.ImportType(newRef.DeclaringType)
	}
	ins.SetFieldRef(newRef)
	return h.mark(OutcomeRewritten, fmt.Sprintf("%s.%s (field => %s.%s)",
		fref.DeclaringType.Name, fref.Name, newRef.DeclaringType.Name, newRef.Name))
}

// fieldAccessorRewriter applies one exact field-to-property delta. Unlike
// the heuristic it does not require the field to be gone; the delta is the
// authority.
type fieldAccessorRewriter struct {
	baseHandler
	index *metadata.Index
	delta hostapi.Delta
}

func newFieldAccessorRewriter(d hostapi.Delta, index *metadata.Index) *fieldAccessorRewriter {
	return &fieldAccessorRewriter{
		baseHandler: newBase("field-to-property:" + d.Type + "." + d.Name),
		index:       index,
		delta:       d,
	}
}

func (h *fieldAccessorRewriter) Handle(mod *metadata.Module, _ *instr.Body, ins *instr.Instruction) bool {
	fref, ok := ins.FieldRef()
	if !ok || !fref.DeclaringType.Is(h.delta.Scope, h.delta.Type) || fref.Name != h.delta.Name {
		return false
	}

	target := deltaTargetType(h.delta, fref.DeclaringType)
	propName := h.delta.NewName
	if propName == "" {
		propName = fref.Name
	}
	typ, ok := h.index.ResolveType(target)
	if !ok {
		return false
	}
	prop := typ.Property(propName)
	if prop == nil {
		return false
	}

	var accessor *instr.MethodRef
	switch {
	case ins.Opcode.IsFieldLoad() && prop.HasGetter:
		accessor = prop.GetterRef(target)
	case ins.Opcode.IsFieldStore() && prop.HasSetter:
		accessor = prop.SetterRef(target)
	default:
		return false
	}

	ins.ReplaceWithCall(mod.ImportMethod(accessor))
	return h.mark(OutcomeRewritten, fmt.Sprintf("%s.%s (field => property)", fref.DeclaringType.Name, fref.Name))
}

// typeMoveRewriter applies one type-move delta: the type now lives under a
// new scope and/or name. It retargets type operands and the declaring type
// of member operands.
type typeMoveRewriter struct {
	baseHandler
	delta hostapi.Delta
}

func newTypeMoveRewriter(d hostapi.Delta) *typeMoveRewriter {
	return &typeMoveRewriter{
		baseHandler: newBase("type-move:" + d.Type),
		delta:       d,
	}
}

func (h *typeMoveRewriter) Handle(mod *metadata.Module, _ *instr.Body, ins *instr.Instruction) bool {
	moved := func(t *instr.TypeRef) *instr.TypeRef {
		if t == nil || !t.Is(h.delta.Scope, h.delta.Type) {
			return nil
		}
		return deltaTargetType(h.delta, t)
	}

	switch ref := ins.Operand.(type) {
	case *instr.TypeRef:
		target := moved(ref)
		if target == nil {
			return false
		}
		ins.SetTypeRef(mod.ImportType(target))
		return h.mark(OutcomeRewritten, fmt.Sprintf("%s (type => %s)", ref.FullName(), target.FullName()))
	case *instr.FieldRef:
		target := moved(ref.DeclaringType)
		if target == nil {
			return false
		}
		newRef := ref.Clone()
		newRef.DeclaringType = mod.ImportType(target)
		ins.SetFieldRef(newRef)
		return h.mark(OutcomeRewritten, fmt.Sprintf("%s (type => %s)", ref.DeclaringType.FullName(), target.FullName()))
	case *instr.MethodRef:
		target := moved(ref.DeclaringType)
		if target == nil {
			return false
		}
		newRef := ref.Clone()
		newRef.DeclaringType = target
		ins.SetMethodRef(mod.ImportMethod(newRef))
		return h.mark(OutcomeRewritten, fmt.Sprintf("%s (type => %s)", ref.DeclaringType.FullName(), target.FullName()))
	}
	return false
}

// methodShimRewriter redirects calls to one host method into a
// platform-specific shim type. Only registered when the environment needs
// the cross-platform rewrite.
type methodShimRewriter struct {
	baseHandler
	delta hostapi.Delta
}

func newMethodShimRewriter(d hostapi.Delta) *methodShimRewriter {
	return &methodShimRewriter{
		baseHandler: newBase("method-shim:" + d.Type + "." + d.Name),
		delta:       d,
	}
}

func (h *methodShimRewriter) Handle(mod *metadata.Module, _ *instr.Body, ins *instr.Instruction) bool {
	if !ins.Opcode.IsCall() {
		return false
	}
	mref, ok := ins.MethodRef()
	if !ok || !mref.DeclaringType.Is(h.delta.Scope, h.delta.Type) || mref.Name != h.delta.Name {
		return false
	}

	newRef := mref.Clone()
	newRef.DeclaringType = deltaTargetType(h.delta, mref.DeclaringType)
	if h.delta.NewName != "" {
		newRef.Name = h.delta.NewName
	}
	ins.SetMethodRef(mod.ImportMethod(newRef))
	return h.mark(OutcomeRewritten, fmt.Sprintf("%s.%s (redirected to %s)",
		mref.DeclaringType.Name, mref.Name, newRef.DeclaringType.Name))
}

// patchShimRewriter redirects patch-engine entry points to a compatibility
// shim. Only registered when the real patch engine is unavailable; the
// redirect keeps such mods loadable in degraded mode, and the detection
// flag tells the loader to warn.
type patchShimRewriter struct {
	baseHandler
	delta hostapi.Delta
}

func newPatchShimRewriter(d hostapi.Delta) *patchShimRewriter {
	return &patchShimRewriter{
		baseHandler: newBase("patch-shim:" + d.Type + "." + d.Name),
		delta:       d,
	}
}

func (h *patchShimRewriter) Handle(mod *metadata.Module, _ *instr.Body, ins *instr.Instruction) bool {
	if !ins.Opcode.IsCall() {
		return false
	}
	mref, ok := ins.MethodRef()
	if !ok || !mref.DeclaringType.Is(h.delta.Scope, h.delta.Type) || mref.Name != h.delta.Name {
		return false
	}

	newRef := mref.Clone()
	newRef.DeclaringType = deltaTargetType(h.delta, mref.DeclaringType)
	if h.delta.NewName != "" {
		newRef.Name = h.delta.NewName
	}
	ins.SetMethodRef(mod.ImportMethod(newRef))
	h.results.Add(OutcomeDetectedPatchEngine)
	return h.mark(OutcomeRewritten, fmt.Sprintf("%s.%s (patch engine shim)", mref.DeclaringType.Name, mref.Name))
}

// deltaTargetType builds the relocated declaring type for a delta,
// defaulting to the old scope/name where the delta leaves them unset.
func deltaTargetType(d hostapi.Delta, old *instr.TypeRef) *instr.TypeRef {
	target := &instr.TypeRef{Scope: d.NewScope, Name: d.NewType}
	if target.Scope == "" {
		target.Scope = old.Scope
	}
	if target.Name == "" {
		target.Name = old.Name
	}
	return target
}
