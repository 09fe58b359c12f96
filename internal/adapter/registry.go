package adapter

import (
	"context"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"hostlookup/internal/domain"
)

// Registry holds the configured host sources by name
type Registry struct {
	mu           sync.RWMutex
	sources      map[string]HostSource
	descriptions map[string]string
	log          *zap.Logger
}

// NewRegistry creates an empty source registry
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		sources:      make(map[string]HostSource),
		descriptions: make(map[string]string),
		log:          log,
	}
}

// Register adds a source to the registry
func (r *Registry) Register(src HostSource, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := src.Name()
	if name == "" {
		return errors.New("source name is empty")
	}
	if _, exists := r.sources[name]; exists {
		return errors.Errorf("source %s already registered", name)
	}

	r.sources[name] = src
	r.descriptions[name] = description
	r.log.Info("registered source", zap.String("name", name), zap.String("kind", string(src.Kind())))

	return nil
}

// Get returns the named source
func (r *Registry) Get(name string) (HostSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src, ok := r.sources[name]
	if !ok {
		return nil, errors.Wrapf(domain.ErrNotFound, "source %s", name)
	}
	return src, nil
}

// Names returns the registered source names in ascending order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.sources)
	sort.Strings(names)
	return names
}

// List returns information about registered sources ordered by name
func (r *Registry) List() []SourceInfo {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.FilterMap(names, func(name string, _ int) (SourceInfo, bool) {
		src, ok := r.sources[name]
		if !ok {
			return SourceInfo{}, false
		}
		return SourceInfo{
			Name:        name,
			Kind:        src.Kind(),
			Description: r.descriptions[name],
			Input:       src.GetInput(),
		}, true
	})
}

// SearchAll runs the search against every source in name order and merges
// the results; a host reported by several sources keeps the record of the
// last one. Failed sources are collected into the returned error alongside
// whatever the other sources found.
func (r *Registry) SearchAll(ctx context.Context, input domain.SearchInput) (domain.HostLookup, error) {
	merged := domain.NewHostLookup()
	var result *multierror.Error

	for _, name := range r.Names() {
		src, err := r.Get(name)
		if err != nil {
			continue
		}

		hosts, err := src.GetSearchResults(ctx, input)
		if err != nil {
			r.log.Warn("source search failed", zap.String("source", name), zap.Error(err))
			result = multierror.Append(result, errors.Wrapf(err, "source %s", name))
			continue
		}
		merged.Merge(hosts)
	}

	return merged, result.ErrorOrNil()
}
