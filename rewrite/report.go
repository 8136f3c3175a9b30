package rewrite

import "sort"

// Outcome categorizes one detected condition during a rewrite run.
type Outcome uint8

const (
	// OutcomeRewritten marks that at least one instruction was repaired.
	OutcomeRewritten Outcome = iota
	// OutcomeMissingMember marks an unresolved reference no rewriter could
	// fix. Fatal: the module cannot run.
	OutcomeMissingMember
	// OutcomeTypeMismatch marks a reference that resolves to a member with
	// an unexpected declared type. Fatal.
	OutcomeTypeMismatch
	// OutcomeDetectedDynamicCall marks reflection-based dynamic invocation.
	OutcomeDetectedDynamicCall
	// OutcomeDetectedFilesystemAccess marks direct filesystem access.
	OutcomeDetectedFilesystemAccess
	// OutcomeDetectedShellAccess marks process or shell access.
	OutcomeDetectedShellAccess
	// OutcomeDetectedConsoleAccess marks direct console access.
	OutcomeDetectedConsoleAccess
	// OutcomeDetectedPatchEngine marks direct patch-engine usage.
	OutcomeDetectedPatchEngine
	// OutcomeDetectedUnvalidatedHook marks subscription to an unvalidated
	// lifecycle hook.
	OutcomeDetectedUnvalidatedHook
)

var outcomeNames = map[Outcome]string{
	OutcomeRewritten:                "rewritten",
	OutcomeMissingMember:            "missing-member",
	OutcomeTypeMismatch:             "type-mismatch",
	OutcomeDetectedDynamicCall:      "detected-dynamic-call",
	OutcomeDetectedFilesystemAccess: "detected-filesystem-access",
	OutcomeDetectedShellAccess:      "detected-shell-access",
	OutcomeDetectedConsoleAccess:    "detected-console-access",
	OutcomeDetectedPatchEngine:      "detected-patch-engine",
	OutcomeDetectedUnvalidatedHook:  "detected-unvalidated-hook",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "outcome(?)"
}

// Fatal reports whether the outcome forces the loader to reject the module.
func (o Outcome) Fatal() bool {
	return o == OutcomeMissingMember || o == OutcomeTypeMismatch
}

// OutcomeSet is an unordered set of outcome categories.
type OutcomeSet map[Outcome]struct{}

// NewOutcomeSet creates a set with the given members.
func NewOutcomeSet(outcomes ...Outcome) OutcomeSet {
	s := make(OutcomeSet, len(outcomes))
	for _, o := range outcomes {
		s.Add(o)
	}
	return s
}

// Add inserts an outcome into the set.
func (s OutcomeSet) Add(o Outcome) {
	s[o] = struct{}{}
}

// Has reports whether the set contains the outcome.
func (s OutcomeSet) Has(o Outcome) bool {
	_, ok := s[o]
	return ok
}

// Empty reports whether the set has no members.
func (s OutcomeSet) Empty() bool {
	return len(s) == 0
}

// Merge adds every member of other into the set.
func (s OutcomeSet) Merge(other OutcomeSet) {
	for o := range other {
		s.Add(o)
	}
}

// List returns the outcomes in ascending order for deterministic output.
func (s OutcomeSet) List() []Outcome {
	out := make([]Outcome, 0, len(s))
	for o := range s {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Disposition is the loader-facing verdict derived from a report.
type Disposition uint8

const (
	// DispositionAccept loads the module silently.
	DispositionAccept Disposition = iota
	// DispositionWarn loads the module and surfaces the report.
	DispositionWarn
	// DispositionReject refuses to run the module.
	DispositionReject
)

func (d Disposition) String() string {
	switch d {
	case DispositionAccept:
		return "accept"
	case DispositionWarn:
		return "warn"
	case DispositionReject:
		return "reject"
	}
	return "disposition(?)"
}

// Report is the aggregated output of one rewrite run over one module:
// human-readable phrases in handler order plus the outcome category set.
// Immutable once the pipeline returns it.
type Report struct {
	Phrases []string
	Results OutcomeSet
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{Results: NewOutcomeSet()}
}

// Empty reports whether the run changed nothing and detected nothing: the
// module is fully compatible as-is.
func (r *Report) Empty() bool {
	return len(r.Phrases) == 0 && r.Results.Empty()
}

// Disposition collapses the report into the loader verdict: reject on any
// fatal outcome, accept on an empty report, warn otherwise.
func (r *Report) Disposition() Disposition {
	for o := range r.Results {
		if o.Fatal() {
			return DispositionReject
		}
	}
	if r.Empty() {
		return DispositionAccept
	}
	return DispositionWarn
}
