package hostapi_test

import (
	goerrors "errors"
	"testing"

	"github.com/coreos/go-semver/semver"

	"github.com/hostbridge/modcompat/errors"
	"github.com/hostbridge/modcompat/hostapi"
)

const validConfig = `
schema = 1

[engine]
cross-platform-rewrite = true
paranoid-scan = false
patch-engine-available = true
watched-scopes = ["HostCore", "HostUtil"]

[risk]
filesystem = ["System.IO.*"]
shell = ["Process"]
console = ["Console"]
dynamic = ["Activator"]
patch-engine = ["PatchLib"]

[[delta]]
kind = "field-to-property"
scope = "HostCore"
type = "Alpha"
name = "Bar"

[[delta]]
kind = "type-move"
scope = "HostCore"
type = "Utility"
new-scope = "HostUtil"
new-type = "Util"
since = "2.0.0"
`

func TestParseValidConfig(t *testing.T) {
	f, err := hostapi.Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !f.Engine.CrossPlatformRewrite || f.Engine.ParanoidScan || !f.Engine.PatchEngineAvailable {
		t.Errorf("engine flags = %+v", f.Engine)
	}
	if len(f.Engine.WatchedScopes) != 2 || f.Engine.WatchedScopes[0] != "HostCore" {
		t.Errorf("watched scopes = %v", f.Engine.WatchedScopes)
	}
	if len(f.Risk.Filesystem) != 1 || f.Risk.Filesystem[0] != "System.IO.*" {
		t.Errorf("risk.filesystem = %v", f.Risk.Filesystem)
	}
	if len(f.Risk.PatchEngine) != 1 || f.Risk.PatchEngine[0] != "PatchLib" {
		t.Errorf("risk.patch-engine = %v", f.Risk.PatchEngine)
	}

	if len(f.Deltas.Deltas) != 2 {
		t.Fatalf("parsed %d deltas, want 2", len(f.Deltas.Deltas))
	}
	first := f.Deltas.Deltas[0]
	if first.Kind != hostapi.DeltaFieldToProperty || first.Type != "Alpha" || first.Name != "Bar" {
		t.Errorf("first delta = %+v", first)
	}
	if first.Since != nil {
		t.Error("first delta should have no version gate")
	}
	second := f.Deltas.Deltas[1]
	if second.Kind != hostapi.DeltaTypeMove || second.NewScope != "HostUtil" || second.NewType != "Util" {
		t.Errorf("second delta = %+v", second)
	}
	if second.Since == nil || second.Since.String() != "2.0.0" {
		t.Errorf("second delta since = %v", second.Since)
	}
}

func TestParseDefaultsRiskWhenOmitted(t *testing.T) {
	f, err := hostapi.Parse([]byte("schema = 1\n\n[engine]\nwatched-scopes = [\"HostCore\"]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := hostapi.DefaultRisk()
	if len(f.Risk.Filesystem) != len(def.Filesystem) || len(f.Risk.Dynamic) != len(def.Dynamic) {
		t.Errorf("risk = %+v, want defaults", f.Risk)
	}
}

func TestParsePartialRiskKeepsOtherDefaults(t *testing.T) {
	src := "schema = 1\n\n[risk]\nfilesystem = [\"MyVFS\"]\n"
	f, err := hostapi.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Risk.Filesystem) != 1 || f.Risk.Filesystem[0] != "MyVFS" {
		t.Errorf("risk.filesystem = %v, want the configured override", f.Risk.Filesystem)
	}
	def := hostapi.DefaultRisk()
	if len(f.Risk.Shell) != len(def.Shell) {
		t.Errorf("risk.shell = %v, want defaults", f.Risk.Shell)
	}
	if len(f.Risk.Console) != len(def.Console) {
		t.Errorf("risk.console = %v, want defaults", f.Risk.Console)
	}
	if len(f.Risk.Dynamic) != len(def.Dynamic) {
		t.Errorf("risk.dynamic = %v, want defaults", f.Risk.Dynamic)
	}
}

func TestParseKeepsPatchEngineWithDefaultRisk(t *testing.T) {
	src := "schema = 1\n\n[risk]\npatch-engine = [\"PatchLib\"]\n"
	f, err := hostapi.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Risk.Filesystem) == 0 {
		t.Error("base risk lists were not defaulted")
	}
	if len(f.Risk.PatchEngine) != 1 || f.Risk.PatchEngine[0] != "PatchLib" {
		t.Errorf("risk.patch-engine = %v", f.Risk.PatchEngine)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want errors.Kind
	}{
		{
			"malformed toml",
			"schema = [",
			errors.KindInvalidData,
		},
		{
			"wrong schema",
			"schema = 99\n",
			errors.KindSchemaVersion,
		},
		{
			"unknown delta kind",
			"schema = 1\n[[delta]]\nkind = \"field-to-banana\"\nscope = \"HostCore\"\ntype = \"Alpha\"\nname = \"Bar\"\n",
			errors.KindInvalidDelta,
		},
		{
			"missing scope",
			"schema = 1\n[[delta]]\nkind = \"field-to-property\"\ntype = \"Alpha\"\nname = \"Bar\"\n",
			errors.KindInvalidDelta,
		},
		{
			"missing name",
			"schema = 1\n[[delta]]\nkind = \"field-to-property\"\nscope = \"HostCore\"\ntype = \"Alpha\"\n",
			errors.KindInvalidDelta,
		},
		{
			"type move without new type",
			"schema = 1\n[[delta]]\nkind = \"type-move\"\nscope = \"HostCore\"\ntype = \"Utility\"\n",
			errors.KindInvalidDelta,
		},
		{
			"field rename without target",
			"schema = 1\n[[delta]]\nkind = \"field-to-field\"\nscope = \"HostCore\"\ntype = \"Alpha\"\nname = \"Speed\"\n",
			errors.KindInvalidDelta,
		},
		{
			"bad since version",
			"schema = 1\n[[delta]]\nkind = \"field-to-property\"\nscope = \"HostCore\"\ntype = \"Alpha\"\nname = \"Bar\"\nsince = \"two.oh\"\n",
			errors.KindBadVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hostapi.Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("Parse accepted bad input")
			}
			if !goerrors.Is(err, errors.New(errors.PhaseConfig, tt.want).Build()) {
				t.Errorf("Parse error = %v, want kind %s", err, tt.want)
			}
		})
	}
}

func TestDeltaAppliesTo(t *testing.T) {
	gated := hostapi.Delta{Kind: hostapi.DeltaFieldToProperty, Since: semver.New("2.0.0")}
	open := hostapi.Delta{Kind: hostapi.DeltaFieldToProperty}

	tests := []struct {
		name   string
		delta  hostapi.Delta
		target *semver.Version
		want   bool
	}{
		{"no gate, no target", open, nil, true},
		{"no gate, new target", open, semver.New("9.0.0"), true},
		{"gated, unknown target", gated, nil, true},
		{"gated, older target", gated, semver.New("1.9.9"), true},
		{"gated, exact target", gated, semver.New("2.0.0"), false},
		{"gated, newer target", gated, semver.New("2.0.1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.delta.AppliesTo(tt.target); got != tt.want {
				t.Errorf("AppliesTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeltaTableApplicable(t *testing.T) {
	table := &hostapi.DeltaTable{Deltas: []hostapi.Delta{
		{Kind: hostapi.DeltaFieldToProperty, Name: "Bar"},
		{Kind: hostapi.DeltaFieldToField, Name: "Speed", Since: semver.New("2.0.0")},
		{Kind: hostapi.DeltaTypeMove, Type: "Utility", Since: semver.New("1.0.0")},
	}}

	got := table.Applicable(semver.New("1.5.0"))
	if len(got) != 2 {
		t.Fatalf("Applicable returned %d deltas, want 2", len(got))
	}
	if got[0].Name != "Bar" || got[1].Name != "Speed" {
		t.Errorf("Applicable did not preserve table order: %+v", got)
	}

	var nilTable *hostapi.DeltaTable
	if nilTable.Applicable(nil) != nil {
		t.Error("nil table should yield no deltas")
	}
}

func TestDeltaTableFingerprint(t *testing.T) {
	base := &hostapi.DeltaTable{Deltas: []hostapi.Delta{
		{Kind: hostapi.DeltaFieldToProperty, Scope: "HostCore", Type: "Alpha", Name: "Bar"},
	}}

	if base.Fingerprint() != base.Fingerprint() {
		t.Error("fingerprint is not stable")
	}

	changed := &hostapi.DeltaTable{Deltas: []hostapi.Delta{
		{Kind: hostapi.DeltaFieldToProperty, Scope: "HostCore", Type: "Alpha", Name: "Baz"},
	}}
	if base.Fingerprint() == changed.Fingerprint() {
		t.Error("fingerprint did not change with delta contents")
	}

	gated := &hostapi.DeltaTable{Deltas: []hostapi.Delta{
		{Kind: hostapi.DeltaFieldToProperty, Scope: "HostCore", Type: "Alpha", Name: "Bar", Since: semver.New("2.0.0")},
	}}
	if base.Fingerprint() == gated.Fingerprint() {
		t.Error("fingerprint did not change with the version gate")
	}
}
