// Package modcompat keeps third-party compiled extensions ("mods") working
// across host application API changes without recompiling them.
//
// The core is a bytecode compatibility rewriting engine: it inspects every
// instruction in every loaded mod's compiled method bodies, heuristically
// repairs references broken by host API evolution (for example a public
// field turned into a property), and flags constructs that are either
// guaranteed-incompatible or operationally risky.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	modcompat/           Root package (this overview)
//	├── instr/           Instruction model: opcodes, operands, method bodies
//	├── metadata/        Module/type/member metadata and reference resolution
//	├── rewrite/         Handlers, registry, pipeline, and the rewrite report
//	├── hostapi/         Host API delta tables and engine flags (TOML)
//	├── modbin/          Compiled-module interchange format (msgpack)
//	├── repcache/        On-disk rewrite-report cache
//	├── errors/          Structured error types for debugging
//	└── cmd/modcompat/   CLI: inspect and rewrite commands
//
// # Quick Start
//
// Rewrite one mod module against the current host metadata:
//
//	file, err := hostapi.Load("deltas.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	index := metadata.NewIndex(hostModule, modModule)
//
//	reg := rewrite.NewRegistry(rewrite.ConfigFromFile(file, index, nil))
//	report := rewrite.NewPipeline(reg).Run(modModule)
//
//	switch report.Disposition() {
//	case rewrite.DispositionAccept:
//	    // load silently
//	case rewrite.DispositionWarn:
//	    // load, surface report.Phrases to the user
//	case rewrite.DispositionReject:
//	    // refuse to run the module
//	}
//
// # Thread Safety
//
// A rewrite run is synchronous and single-threaded per module. Distinct
// modules may be rewritten in parallel because every run constructs its
// own handler instances and mutates only its own module. The metadata
// Index is safe for concurrent lookups once registration is complete.
//
// # Mutation Model
//
// The pipeline mutates the module in place and provides no rollback: a
// run either completes or the caller discards the module entirely.
package modcompat
