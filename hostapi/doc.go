// Package hostapi describes how the host application's API surface has
// evolved: a static, configuration-supplied table of symbol relocations
// (deltas), the engine flags that gate handler composition, and the risk
// lists consumed by the paranoid scan.
//
// Deltas are declared in a TOML file and gated by the host version that
// introduced each break, so a mod built against a recent host is not
// rewritten for changes that predate it.
package hostapi
