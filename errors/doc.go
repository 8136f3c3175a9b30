// Package errors provides structured error types for the modcompat library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: a field path, the symbol
// involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConfig, errors.KindInvalidDelta).
//		Path("delta[3]").
//		Symbol("Alpha.Bar").
//		Detail("unknown delta kind %q", kind).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SchemaVersion(errors.PhaseDecode, got, want)
//	err := errors.InvalidDelta(3, "missing new-type")
//
// All errors implement the standard error interface and support errors.Is/As.
// Note that reference resolution inside the rewrite pipeline never produces
// errors at all: a failed lookup is an unresolved reference, not a fault.
package errors
