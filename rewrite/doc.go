// Package rewrite is the bytecode compatibility engine: it inspects every
// instruction in a mod's compiled method bodies, repairs references broken
// by host API evolution, and classifies constructs that are incompatible
// or operationally risky.
//
// # Handlers
//
// The unit of logic is the Handler, in two variants: rewriters mutate an
// instruction to restore a valid reference, finders only record a
// detection. Handlers accumulate human-readable phrases and outcome
// categories as per-run instance state, so the Registry constructs a fresh
// handler set for every module rewrite.
//
// # Composition
//
// NewRegistry takes a Config carrying the loaded metadata index, the host
// API delta table, watched scopes, risk lists, and three environment
// flags. Handler order is fixed by the registry: exact delta rewriters,
// then the field-to-property heuristic, then detectors, so precise fixes
// are never second-guessed and repaired references are never flagged.
//
// # Running
//
//	reg := rewrite.NewRegistry(rewrite.ConfigFromFile(file, index, target))
//	report := rewrite.NewPipeline(reg).Run(mod)
//	switch report.Disposition() {
//	case rewrite.DispositionAccept: // load silently
//	case rewrite.DispositionWarn:   // load, surface report.Phrases
//	case rewrite.DispositionReject: // refuse to run the module
//	}
//
// The module is mutated in place; there is no rollback for abandoned runs.
package rewrite
