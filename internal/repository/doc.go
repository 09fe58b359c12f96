// Package repository defines the data access interfaces for hostlookup.
//
// Host data is never stored: every search goes to its source. The only
// persisted state is the set of saved searches, named (source, srchparam)
// pairs that can be re-run on demand.
//
// The sqlite subpackage implements SavedSearches on SQLite (pure Go driver,
// WAL mode) and migrates its schema on open. Lookups of missing rows return
// domain.ErrNotFound.
package repository
