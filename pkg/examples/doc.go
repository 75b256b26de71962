// Package examples holds the example registry: an immutable mapping from
// upper-case names (USER, FACILITY, ...) to payload values, plus the source,
// loader and importer contracts used to populate it before any render call.
// Registries are built once through a Builder and then shared by reference.
package examples
