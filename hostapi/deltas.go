package hostapi

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/coreos/go-semver/semver"
)

// DeltaKind identifies how a host API symbol was relocated.
type DeltaKind string

const (
	// DeltaFieldToField renames a field, optionally moving it to a new type.
	DeltaFieldToField DeltaKind = "field-to-field"
	// DeltaFieldToProperty replaces a removed field with a named property.
	DeltaFieldToProperty DeltaKind = "field-to-property"
	// DeltaTypeMove relocates a type to a new scope and/or name.
	DeltaTypeMove DeltaKind = "type-move"
	// DeltaMethodToShim redirects a method call into a platform shim type.
	DeltaMethodToShim DeltaKind = "method-to-shim"
	// DeltaPatchShim redirects a patch-engine entry point to a
	// compatibility shim when the real engine is unavailable.
	DeltaPatchShim DeltaKind = "patch-shim"
)

// Valid reports whether the kind is one of the known delta kinds.
func (k DeltaKind) Valid() bool {
	switch k {
	case DeltaFieldToField, DeltaFieldToProperty, DeltaTypeMove, DeltaMethodToShim, DeltaPatchShim:
		return true
	}
	return false
}

// Delta is one known symbol relocation in the host API, supplied as
// configuration ahead of a rewrite run. Scope/Type/Name identify the old
// symbol; the New* fields identify its replacement. Since is the host
// version that introduced the break; nil means the delta always applies.
type Delta struct {
	Kind     DeltaKind
	Scope    string
	Type     string
	Name     string
	NewScope string
	NewType  string
	NewName  string
	Since    *semver.Version
}

// AppliesTo reports whether the delta applies to a mod built against the
// given host version. Mods built at or after Since already use the new
// symbol; an unknown target version gets every delta.
func (d Delta) AppliesTo(target *semver.Version) bool {
	if d.Since == nil || target == nil {
		return true
	}
	return target.LessThan(*d.Since)
}

// DeltaTable is the static set of known host API relocations.
type DeltaTable struct {
	Deltas []Delta
}

// Applicable returns the deltas that apply to a mod built against the
// given host version, preserving table order.
func (t *DeltaTable) Applicable(target *semver.Version) []Delta {
	if t == nil {
		return nil
	}
	out := make([]Delta, 0, len(t.Deltas))
	for _, d := range t.Deltas {
		if d.AppliesTo(target) {
			out = append(out, d)
		}
	}
	return out
}

// Fingerprint returns a stable digest of the table contents, used to key
// cached reports so a delta change invalidates them.
func (t *DeltaTable) Fingerprint() string {
	h := sha256.New()
	if t != nil {
		for _, d := range t.Deltas {
			parts := []string{
				string(d.Kind), d.Scope, d.Type, d.Name,
				d.NewScope, d.NewType, d.NewName,
			}
			if d.Since != nil {
				parts = append(parts, d.Since.String())
			}
			h.Write([]byte(strings.Join(parts, "\x00")))
			h.Write([]byte{0xff})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
