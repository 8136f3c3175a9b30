package rewrite_test

import (
	"testing"

	"github.com/coreos/go-semver/semver"

	"github.com/hostbridge/modcompat/hostapi"
	"github.com/hostbridge/modcompat/metadata"
	"github.com/hostbridge/modcompat/rewrite"
)

func TestConfigFingerprint(t *testing.T) {
	base := func() rewrite.Config {
		return rewrite.Config{
			Index:                metadata.NewIndex(),
			Deltas:               &hostapi.DeltaTable{},
			WatchedScopes:        []string{hostScope},
			Risk:                 hostapi.DefaultRisk(),
			PatchEngineAvailable: true,
		}
	}

	if base().Fingerprint() != base().Fingerprint() {
		t.Fatal("fingerprint is not stable")
	}

	tests := []struct {
		name   string
		mutate func(*rewrite.Config)
	}{
		{"paranoid scan", func(c *rewrite.Config) { c.ParanoidScan = true }},
		{"cross-platform rewrite", func(c *rewrite.Config) { c.CrossPlatformRewrite = true }},
		{"patch engine availability", func(c *rewrite.Config) { c.PatchEngineAvailable = false }},
		{"target host version", func(c *rewrite.Config) { c.TargetHostVersion = semver.New("2.0.0") }},
		{"watched scopes", func(c *rewrite.Config) { c.WatchedScopes = append(c.WatchedScopes, "HostUtil") }},
		{"risk lists", func(c *rewrite.Config) { c.Risk.PatchEngine = []string{"PatchLib"} }},
		{"delta table", func(c *rewrite.Config) {
			c.Deltas = &hostapi.DeltaTable{Deltas: []hostapi.Delta{
				{Kind: hostapi.DeltaFieldToProperty, Scope: hostScope, Type: "Alpha", Name: "Bar"},
			}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			if cfg.Fingerprint() == base().Fingerprint() {
				t.Error("fingerprint did not change with the configuration")
			}
		})
	}
}

// A scan cached under one configuration must never answer for another:
// the same module bytes with the paranoid flag flipped yield a distinct
// fingerprint and therefore a distinct cache key.
func TestConfigFingerprintSeparatesScans(t *testing.T) {
	quiet := rewrite.Config{
		Deltas:        &hostapi.DeltaTable{},
		WatchedScopes: []string{hostScope},
		Risk:          hostapi.DefaultRisk(),
	}
	paranoid := quiet
	paranoid.ParanoidScan = true

	if quiet.Fingerprint() == paranoid.Fingerprint() {
		t.Error("paranoid and non-paranoid scans share a fingerprint")
	}
}
