package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hostlookup/internal/adapter"
	"hostlookup/internal/domain"
	"hostlookup/internal/repository"
)

// AllSources names the merged search across every registered source
const AllSources = "*"

// HostService provides host lookups across the registered sources and
// manages saved searches
type HostService struct {
	registry *adapter.Registry
	repo     repository.SavedSearches
	eventBus *EventBus
	log      *zap.Logger
	now      func() time.Time
}

// NewHostService creates a new host service
func NewHostService(registry *adapter.Registry, repo repository.SavedSearches, eventBus *EventBus, log *zap.Logger) *HostService {
	if log == nil {
		log = zap.NewNop()
	}
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	return &HostService{
		registry: registry,
		repo:     repo,
		eventBus: eventBus,
		log:      log,
		now:      time.Now,
	}
}

// Sources returns the registered sources
func (s *HostService) Sources() []adapter.SourceInfo {
	return s.registry.List()
}

// List returns what can be searched in a source
func (s *HostService) List(ctx context.Context, source string) (*domain.HostList, error) {
	src, err := s.registry.Get(source)
	if err != nil {
		return nil, err
	}
	return src.GetList(ctx)
}

// Input returns the input descriptor of a source (nil when srchparam is
// the only input)
func (s *HostService) Input(source string) (*domain.InputDescriptor, error) {
	src, err := s.registry.Get(source)
	if err != nil {
		return nil, err
	}
	return src.GetInput(), nil
}

// Search runs a search against one source, or against every source when
// source is AllSources
func (s *HostService) Search(ctx context.Context, source string, input domain.SearchInput) (domain.HostLookup, error) {
	var (
		hosts domain.HostLookup
		err   error
	)

	if source == AllSources {
		hosts, err = s.registry.SearchAll(ctx, input)
	} else {
		var src adapter.HostSource
		src, err = s.registry.Get(source)
		if err != nil {
			return nil, err
		}
		hosts, err = src.GetSearchResults(ctx, input)
	}

	payload := SearchPayload{Source: source, SrchParam: input.Param(), Hosts: len(hosts)}
	if err != nil {
		payload.Error = err.Error()
		s.log.Warn("search failed", zap.String("source", source), zap.String("srchparam", input.Param()), zap.Error(err))
		s.eventBus.Publish(Event{Type: EventSearchFailed, Payload: payload})
		return hosts, err
	}

	s.log.Debug("search complete", zap.String("source", source), zap.Int("hosts", len(hosts)))
	s.eventBus.Publish(Event{Type: EventSearchCompleted, Payload: payload})
	return hosts, nil
}

// ListSavedSearches returns all saved searches
func (s *HostService) ListSavedSearches(ctx context.Context) ([]domain.SavedSearch, error) {
	return s.repo.ListSavedSearches(ctx)
}

// GetSavedSearch returns one saved search
func (s *HostService) GetSavedSearch(ctx context.Context, id string) (*domain.SavedSearch, error) {
	return s.repo.GetSavedSearch(ctx, id)
}

// CreateSavedSearch stores a new saved search
func (s *HostService) CreateSavedSearch(ctx context.Context, saved *domain.SavedSearch) error {
	if err := s.validateSavedSearch(saved); err != nil {
		return err
	}
	if err := s.repo.CreateSavedSearch(ctx, saved); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventSavedSearchCreated,
		Payload: map[string]string{"id": saved.ID, "name": saved.Name},
	})
	return nil
}

// UpdateSavedSearch replaces the name, source and srchparam of a saved search
func (s *HostService) UpdateSavedSearch(ctx context.Context, saved *domain.SavedSearch) error {
	if err := s.validateSavedSearch(saved); err != nil {
		return err
	}
	if err := s.repo.UpdateSavedSearch(ctx, saved); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventSavedSearchUpdated,
		Payload: map[string]string{"id": saved.ID, "name": saved.Name},
	})
	return nil
}

// DeleteSavedSearch removes a saved search
func (s *HostService) DeleteSavedSearch(ctx context.Context, id string) error {
	if err := s.repo.DeleteSavedSearch(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventSavedSearchDeleted,
		Payload: map[string]string{"id": id},
	})
	return nil
}

// RunSavedSearch executes a saved search and records the run
func (s *HostService) RunSavedSearch(ctx context.Context, id string) (*domain.SavedSearch, domain.HostLookup, error) {
	saved, err := s.repo.GetSavedSearch(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	hosts, err := s.Search(ctx, saved.Source, saved.Input())
	if err != nil {
		return saved, hosts, err
	}

	at := s.now().UTC()
	if err := s.repo.MarkRun(ctx, saved.ID, at, len(hosts)); err != nil {
		// The search itself succeeded
		s.log.Warn("failed to record saved search run", zap.String("id", saved.ID), zap.Error(err))
	} else {
		saved.LastRunAt = &at
		saved.LastHostCount = len(hosts)
	}

	return saved, hosts, nil
}

// SourceReloaded announces that a file-backed source changed on disk
func (s *HostService) SourceReloaded(name, path string) {
	s.log.Info("source reloaded", zap.String("source", name), zap.String("path", path))
	s.eventBus.Publish(Event{
		Type:    EventSourceReloaded,
		Payload: map[string]string{"source": name, "path": path},
	})
}

// validateSavedSearch checks the fields and that the source exists
func (s *HostService) validateSavedSearch(saved *domain.SavedSearch) error {
	if err := saved.Validate(); err != nil {
		return err
	}
	if saved.Source == AllSources {
		return nil
	}
	if _, err := s.registry.Get(saved.Source); err != nil {
		return errors.Wrapf(domain.ErrInvalidInput, "unknown source %s", saved.Source)
	}
	return nil
}
