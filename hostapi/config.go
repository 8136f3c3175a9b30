package hostapi

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/coreos/go-semver/semver"

	"github.com/hostbridge/modcompat/errors"
)

// SchemaVersion is the current host API config schema. Increment when the
// file format changes incompatibly.
const SchemaVersion = 1

// Engine holds the flags and scope sets that drive handler composition.
type Engine struct {
	CrossPlatformRewrite bool
	ParanoidScan         bool
	PatchEngineAvailable bool
	WatchedScopes        []string
}

// Risk lists the scopes and type names the paranoid finders watch for.
// Entries match a declaring type's name, its scope, or, with a trailing
// ".*", a name prefix. Each base list left empty in the config falls back
// to its DefaultRisk entries independently; PatchEngine has no default
// because patch-engine types are host-specific.
type Risk struct {
	Filesystem  []string
	Shell       []string
	Console     []string
	Dynamic     []string
	PatchEngine []string
}

// DefaultRisk returns the stock risk lists for hosts that do not override
// them.
func DefaultRisk() Risk {
	return Risk{
		Filesystem: []string{"System.IO.*", "File", "Directory", "FileSystemWatcher"},
		Shell:      []string{"System.Diagnostics.Process", "Process", "ProcessStartInfo"},
		Console:    []string{"Console"},
		Dynamic:    []string{"Activator", "MethodBase", "DynamicMethod", "AppDomain"},
	}
}

// File is a parsed host API configuration: engine flags, risk lists, and
// the delta table.
type File struct {
	Engine Engine
	Risk   Risk
	Deltas DeltaTable
}

// On-disk TOML shape.
type fileTOML struct {
	Schema int         `toml:"schema"`
	Engine engineTOML  `toml:"engine"`
	Risk   riskTOML    `toml:"risk"`
	Deltas []deltaTOML `toml:"delta"`
}

type engineTOML struct {
	CrossPlatformRewrite bool     `toml:"cross-platform-rewrite"`
	ParanoidScan         bool     `toml:"paranoid-scan"`
	PatchEngineAvailable bool     `toml:"patch-engine-available"`
	WatchedScopes        []string `toml:"watched-scopes"`
}

type riskTOML struct {
	Filesystem  []string `toml:"filesystem"`
	Shell       []string `toml:"shell"`
	Console     []string `toml:"console"`
	Dynamic     []string `toml:"dynamic"`
	PatchEngine []string `toml:"patch-engine"`
}

type deltaTOML struct {
	Kind     string `toml:"kind"`
	Scope    string `toml:"scope"`
	Type     string `toml:"type"`
	Name     string `toml:"name"`
	NewScope string `toml:"new-scope"`
	NewType  string `toml:"new-type"`
	NewName  string `toml:"new-name"`
	Since    string `toml:"since"`
}

// Load reads and parses a host API config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read config")
	}
	return Parse(data)
}

// Parse parses a host API config from TOML.
func Parse(data []byte) (*File, error) {
	var raw fileTOML
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse config")
	}
	if raw.Schema != SchemaVersion {
		return nil, errors.SchemaVersion(errors.PhaseConfig, uint16(raw.Schema), SchemaVersion)
	}

	f := &File{
		Engine: Engine{
			CrossPlatformRewrite: raw.Engine.CrossPlatformRewrite,
			ParanoidScan:         raw.Engine.ParanoidScan,
			PatchEngineAvailable: raw.Engine.PatchEngineAvailable,
			WatchedScopes:        raw.Engine.WatchedScopes,
		},
		Risk: Risk{
			Filesystem:  raw.Risk.Filesystem,
			Shell:       raw.Risk.Shell,
			Console:     raw.Risk.Console,
			Dynamic:     raw.Risk.Dynamic,
			PatchEngine: raw.Risk.PatchEngine,
		},
	}
	def := DefaultRisk()
	if len(f.Risk.Filesystem) == 0 {
		f.Risk.Filesystem = def.Filesystem
	}
	if len(f.Risk.Shell) == 0 {
		f.Risk.Shell = def.Shell
	}
	if len(f.Risk.Console) == 0 {
		f.Risk.Console = def.Console
	}
	if len(f.Risk.Dynamic) == 0 {
		f.Risk.Dynamic = def.Dynamic
	}

	for i, d := range raw.Deltas {
		delta, err := parseDelta(i, d)
		if err != nil {
			return nil, err
		}
		f.Deltas.Deltas = append(f.Deltas.Deltas, delta)
	}
	return f, nil
}

func parseDelta(index int, d deltaTOML) (Delta, error) {
	kind := DeltaKind(d.Kind)
	if !kind.Valid() {
		return Delta{}, errors.InvalidDelta(index, "unknown kind "+d.Kind)
	}
	if d.Scope == "" || d.Type == "" {
		return Delta{}, errors.InvalidDelta(index, "scope and type are required")
	}
	if kind != DeltaTypeMove && d.Name == "" {
		return Delta{}, errors.InvalidDelta(index, "name is required for "+d.Kind)
	}
	switch kind {
	case DeltaTypeMove, DeltaMethodToShim, DeltaPatchShim:
		if d.NewType == "" {
			return Delta{}, errors.InvalidDelta(index, "new-type is required for "+d.Kind)
		}
	case DeltaFieldToField:
		if d.NewName == "" && d.NewType == "" {
			return Delta{}, errors.InvalidDelta(index, "new-name or new-type is required for "+d.Kind)
		}
	}

	delta := Delta{
		Kind:     kind,
		Scope:    d.Scope,
		Type:     d.Type,
		Name:     d.Name,
		NewScope: d.NewScope,
		NewType:  d.NewType,
		NewName:  d.NewName,
	}
	if d.Since != "" {
		v, err := semver.NewVersion(d.Since)
		if err != nil {
			return Delta{}, errors.BadVersion(errors.PhaseConfig, d.Since, err)
		}
		delta.Since = v
	}
	return delta, nil
}
