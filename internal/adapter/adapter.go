package adapter

import (
	"context"

	"hostlookup/internal/domain"
)

// SourceKind identifies the backing inventory behind a host source
type SourceKind string

const (
	// SourceKindCMDB - configuration management database queried over HTTP
	SourceKindCMDB SourceKind = "cmdb"
	// SourceKindNmap - live network scan
	SourceKindNmap SourceKind = "nmap"
	// SourceKindFile - static YAML inventory file
	SourceKindFile SourceKind = "file"
)

// HostSource is the capability every inventory provider implements. Calls
// are synchronous and perform at most one backend operation each.
type HostSource interface {
	// Name returns the unique identifier for this source
	Name() string

	// Kind returns the backing inventory type
	Kind() SourceKind

	// GetList returns what can be searched (deployments, targets, groups),
	// sorted ascending by value
	GetList(ctx context.Context) (*domain.HostList, error)

	// GetInput returns the structured input a search needs, or nil when a
	// single free-text srchparam is enough
	GetInput() *domain.InputDescriptor

	// GetSearchResults runs a search and returns hosts keyed by host name
	GetSearchResults(ctx context.Context, input domain.SearchInput) (domain.HostLookup, error)
}

// SourceInfo provides read-only information about a registered source
type SourceInfo struct {
	Name        string                  `json:"name"`
	Kind        SourceKind              `json:"kind"`
	Description string                  `json:"description,omitempty"`
	Input       *domain.InputDescriptor `json:"input,omitempty"`
}
