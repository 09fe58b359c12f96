// Package domain defines the core types shared by host sources, the service
// layer and the HTTP API.
//
// # Core Types
//
// HostRecord is the normalized view of a host: host name, primary address and
// an optional action URL (out-of-band console or cloud console link).
//
// HostLookup maps host name to HostRecord. It is the only artifact a search
// returns. Records without a host name or address are never stored.
//
// HostList is the ordered key/value collection a source returns when asked to
// list what can be searched (deployments, scan targets, inventory groups).
//
// SearchInput and InputDescriptor describe how a caller parameterizes a
// search. SavedSearch is a persisted (source, srchparam) pair.
//
// # Design Principles
//
// - No database or transport dependencies
// - Value types with explicit validity rules
package domain
