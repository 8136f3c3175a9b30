package rewrite

import (
	"go.uber.org/zap"

	"github.com/hostbridge/modcompat/metadata"
)

// Pipeline walks every instruction of every method of every type in a
// module, offers each instruction to the registry's handlers in order, and
// aggregates one Report per run.
//
// A run is synchronous and single-threaded; distinct modules may be
// rewritten in parallel by an external driver because every run gets fresh
// handler instances and mutates only its own module.
type Pipeline struct {
	reg *Registry
}

// NewPipeline creates a pipeline over the given registry.
func NewPipeline(reg *Registry) *Pipeline {
	return &Pipeline{reg: reg}
}

// Run rewrites mod in place and returns the aggregated report. The first
// handler to return true claims an instruction; remaining handlers are
// skipped for it. There is no rollback: if the caller abandons a run, the
// module must be treated as unusable.
func (p *Pipeline) Run(mod *metadata.Module) *Report {
	log := Logger()
	handlers := p.reg.Handlers()

	for _, t := range mod.Types {
		for _, method := range t.Methods {
			if method.Body == nil {
				continue
			}
			// Iterate a snapshot: handlers may change operand kinds but
			// never the sequence length.
			for _, ins := range method.Body.Snapshot() {
				for _, h := range handlers {
					if h.Handle(mod, method.Body, ins) {
						log.Debug("instruction claimed",
							zap.String("module", mod.Name),
							zap.String("type", t.Name),
							zap.String("method", method.Name),
							zap.String("handler", h.Name()),
							zap.String("instruction", ins.String()))
						break
					}
				}
			}
		}
	}

	report := NewReport()
	for _, h := range handlers {
		report.Phrases = append(report.Phrases, h.Phrases()...)
		report.Results.Merge(h.Results())
	}

	log.Info("rewrite run complete",
		zap.String("module", mod.Name),
		zap.Int("phrases", len(report.Phrases)),
		zap.Stringer("disposition", report.Disposition()))
	return report
}
