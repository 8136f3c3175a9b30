package rewrite

import (
	"github.com/hostbridge/modcompat/instr"
	"github.com/hostbridge/modcompat/metadata"
)

// Handler is the unit of rewriting and detection logic. Implementations
// come in two variants: rewriters mutate the offered instruction to repair
// a broken reference, finders only classify.
//
// Handle must return true iff the instruction matched the handler's
// condition and the corresponding effect was applied; a true return
// records at least one phrase and updates the result set. Returning false
// means the instruction was left completely untouched with no other
// observable state change.
//
// Handler instances accumulate per-run state. A fresh set is constructed
// for every module rewrite; instances are never reused across modules.
type Handler interface {
	// Name identifies the handler in logs.
	Name() string
	// Handle offers one instruction to the handler. It may read any
	// reachable metadata, mutate only the offered instruction, and import
	// new references into mod to satisfy a new operand.
	Handle(mod *metadata.Module, body *instr.Body, ins *instr.Instruction) bool
	// Phrases returns the human-readable descriptions accumulated so far.
	Phrases() []string
	// Results returns the outcome categories accumulated so far.
	Results() OutcomeSet
}

// baseHandler carries the per-run accumulation shared by every handler.
type baseHandler struct {
	name    string
	phrases []string
	results OutcomeSet
}

func newBase(name string) baseHandler {
	return baseHandler{name: name, results: NewOutcomeSet()}
}

func (h *baseHandler) Name() string {
	return h.name
}

func (h *baseHandler) Phrases() []string {
	return h.phrases
}

func (h *baseHandler) Results() OutcomeSet {
	return h.results
}

// mark records a phrase and an outcome, and returns true so handlers can
// end Handle with "return h.mark(...)".
func (h *baseHandler) mark(o Outcome, phrase string) bool {
	h.phrases = append(h.phrases, phrase)
	h.results.Add(o)
	return true
}
