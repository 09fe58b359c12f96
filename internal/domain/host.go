package domain

import (
	"sort"
	"strings"
)

// HostRecord is the normalized view of a single host returned by a host source
type HostRecord struct {
	HostName  string `json:"host_name" yaml:"host_name"`
	Address   string `json:"address" yaml:"address"`
	ActionURL string `json:"action_url,omitempty" yaml:"action_url,omitempty"`
}

// Valid reports whether the record carries the identity fields every
// emitted record must have
func (h HostRecord) Valid() bool {
	return strings.TrimSpace(h.HostName) != "" && strings.TrimSpace(h.Address) != ""
}

// HostLookup maps host name to host record
type HostLookup map[string]HostRecord

// NewHostLookup creates an empty lookup
func NewHostLookup() HostLookup {
	return make(HostLookup)
}

// Add stores a record under its host name. Invalid records are ignored and
// reported as not added. A later record with the same host name replaces
// the earlier one.
func (l HostLookup) Add(rec HostRecord) bool {
	if !rec.Valid() {
		return false
	}
	l[rec.HostName] = rec
	return true
}

// Merge copies all records from other into l (last write wins)
func (l HostLookup) Merge(other HostLookup) {
	for name, rec := range other {
		l[name] = rec
	}
}

// Names returns the host names in ascending order
func (l HostLookup) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sorted returns the records ordered by host name
func (l HostLookup) Sorted() []HostRecord {
	out := make([]HostRecord, 0, len(l))
	for _, name := range l.Names() {
		out = append(out, l[name])
	}
	return out
}
