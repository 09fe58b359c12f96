package repository

import (
	"context"
	"time"

	"hostlookup/internal/domain"
)

// SavedSearches defines data access for persisted searches
type SavedSearches interface {
	// Read operations
	GetSavedSearch(ctx context.Context, id string) (*domain.SavedSearch, error)
	ListSavedSearches(ctx context.Context) ([]domain.SavedSearch, error)

	// Write operations
	CreateSavedSearch(ctx context.Context, s *domain.SavedSearch) error
	UpdateSavedSearch(ctx context.Context, s *domain.SavedSearch) error
	DeleteSavedSearch(ctx context.Context, id string) error

	// MarkRun records when a saved search last ran and how many hosts it found
	MarkRun(ctx context.Context, id string, at time.Time, hostCount int) error

	// Close releases resources
	Close() error
}
