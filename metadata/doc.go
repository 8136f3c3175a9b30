// Package metadata models the declared surface of compiled modules: types,
// fields, properties, and methods, plus the per-module table of references
// imported from other modules.
//
// The Index aggregates every loaded module and answers resolution queries
// for the references defined in package instr. Resolution is a pure
// lookup: it never mutates anything and never fails with an error, it only
// reports whether a matching member is currently declared.
package metadata
