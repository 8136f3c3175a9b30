package rewrite

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/coreos/go-semver/semver"

	"github.com/hostbridge/modcompat/hostapi"
	"github.com/hostbridge/modcompat/metadata"
)

// Config parameterizes handler composition for rewrite runs. The three
// environment flags are plain fields, decided by the host before a run
// starts; there are no global toggles.
type Config struct {
	// Index is the currently loaded metadata to resolve against.
	Index *metadata.Index
	// Deltas is the static table of known host API relocations.
	Deltas *hostapi.DeltaTable
	// WatchedScopes are the host assemblies whose references the engine
	// repairs and validates. References outside them are left alone.
	WatchedScopes []string
	// Risk configures the paranoid finders.
	Risk hostapi.Risk
	// TargetHostVersion is the host version the mod was built against,
	// when its manifest records one. Gates which deltas apply.
	TargetHostVersion *semver.Version

	CrossPlatformRewrite bool
	ParanoidScan         bool
	PatchEngineAvailable bool
}

// ConfigFromFile builds a Config from a parsed host API file.
func ConfigFromFile(f *hostapi.File, index *metadata.Index, target *semver.Version) Config {
	return Config{
		Index:                index,
		Deltas:               &f.Deltas,
		WatchedScopes:        f.Engine.WatchedScopes,
		Risk:                 f.Risk,
		TargetHostVersion:    target,
		CrossPlatformRewrite: f.Engine.CrossPlatformRewrite,
		ParanoidScan:         f.Engine.ParanoidScan,
		PatchEngineAvailable: f.Engine.PatchEngineAvailable,
	}
}

// Fingerprint returns a stable digest of every configuration input that
// can change a run's report: engine flags, watched scopes, risk lists,
// the target host version, and the delta table. Cache keys must include
// it alongside the module bytes, or a later run with different flags
// would be served a stale disposition. The metadata index is not
// covered; callers hash the host modules they registered separately.
func (c Config) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "flags:%t,%t,%t\n", c.CrossPlatformRewrite, c.ParanoidScan, c.PatchEngineAvailable)
	fmt.Fprintf(h, "scopes:%s\n", strings.Join(c.WatchedScopes, ","))
	for _, list := range [][]string{c.Risk.Filesystem, c.Risk.Shell, c.Risk.Console, c.Risk.Dynamic, c.Risk.PatchEngine} {
		fmt.Fprintf(h, "risk:%s\n", strings.Join(list, ","))
	}
	if c.TargetHostVersion != nil {
		fmt.Fprintf(h, "target:%s\n", c.TargetHostVersion)
	}
	fmt.Fprintf(h, "deltas:%s\n", c.Deltas.Fingerprint())
	return hex.EncodeToString(h.Sum(nil))
}

// Registry builds the ordered handler list for rewrite runs.
type Registry struct {
	cfg Config
}

// NewRegistry creates a registry over the given configuration.
func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg}
}

// Handlers constructs a fresh ordered handler set for one rewrite run.
// Instances accumulate phrases and results, so every run gets new ones.
//
// Order is significant: exact delta rewriters run before the heuristic so
// known fixes are never second-guessed, and detectors run last so they
// observe the post-rewrite state.
func (r *Registry) Handlers() []Handler {
	watched := scopeSet(r.cfg.WatchedScopes)
	var hs []Handler

	for _, d := range r.cfg.Deltas.Applicable(r.cfg.TargetHostVersion) {
		switch d.Kind {
		case hostapi.DeltaFieldToField:
			hs = append(hs, newFieldReplaceRewriter(d))
		case hostapi.DeltaFieldToProperty:
			hs = append(hs, newFieldAccessorRewriter(d, r.cfg.Index))
		case hostapi.DeltaTypeMove:
			hs = append(hs, newTypeMoveRewriter(d))
		case hostapi.DeltaMethodToShim:
			if r.cfg.CrossPlatformRewrite {
				hs = append(hs, newMethodShimRewriter(d))
			}
		case hostapi.DeltaPatchShim:
			if !r.cfg.PatchEngineAvailable {
				hs = append(hs, newPatchShimRewriter(d))
			}
		}
	}

	hs = append(hs, newFieldToPropertyRewriter(r.cfg.Index, watched))

	hs = append(hs,
		newMemberTypeMismatchFinder(r.cfg.Index, watched),
		newMissingMemberFinder(r.cfg.Index, watched),
		newUnvalidatedHookFinder(watched),
	)
	if r.cfg.PatchEngineAvailable && len(r.cfg.Risk.PatchEngine) > 0 {
		hs = append(hs, newRiskFinder("patch-engine-finder", OutcomeDetectedPatchEngine,
			"patch engine usage", r.cfg.Risk.PatchEngine))
	}
	if r.cfg.ParanoidScan {
		hs = append(hs,
			newRiskFinder("dynamic-call-finder", OutcomeDetectedDynamicCall,
				"dynamic call", r.cfg.Risk.Dynamic),
			newRiskFinder("filesystem-finder", OutcomeDetectedFilesystemAccess,
				"filesystem access", r.cfg.Risk.Filesystem),
			newRiskFinder("shell-finder", OutcomeDetectedShellAccess,
				"shell access", r.cfg.Risk.Shell),
			newRiskFinder("console-finder", OutcomeDetectedConsoleAccess,
				"console access", r.cfg.Risk.Console),
		)
	}
	return hs
}
