// Package repcache caches rewrite reports on disk so the loader can skip
// re-scanning mods whose content and delta table have not changed.
//
// Entries are keyed by sha256 over the module's encoded bytes plus the
// delta table fingerprint, and carry a schema version; anything stale or
// unreadable is treated as a miss and evicted.
package repcache
