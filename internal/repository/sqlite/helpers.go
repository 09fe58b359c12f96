package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"hostlookup/internal/domain"
)

// Timestamps are stored as RFC 3339 text in UTC
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// nullToTimePtr parses a nullable timestamp column
func nullToTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// savedSearchRow holds all columns from a saved search query for scanning
type savedSearchRow struct {
	ID            string
	Name          string
	Source        string
	SrchParam     string
	CreatedAt     string
	UpdatedAt     string
	LastRunAt     sql.NullString
	LastHostCount int
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match savedSearchColumns order exactly
func (r *savedSearchRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.Name,
		&r.Source,
		&r.SrchParam,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.LastRunAt,
		&r.LastHostCount,
	}
}

// toDomain converts the scanned row to a domain.SavedSearch
func (r *savedSearchRow) toDomain() (*domain.SavedSearch, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	lastRun, err := nullToTimePtr(r.LastRunAt)
	if err != nil {
		return nil, fmt.Errorf("parse last_run_at: %w", err)
	}

	return &domain.SavedSearch{
		ID:            r.ID,
		Name:          r.Name,
		Source:        r.Source,
		SrchParam:     r.SrchParam,
		CreatedAt:     created,
		UpdatedAt:     updated,
		LastRunAt:     lastRun,
		LastHostCount: r.LastHostCount,
	}, nil
}

// savedSearchColumns is the SELECT column list for saved search queries
const savedSearchColumns = `id, name, source, srchparam, created_at, updated_at, last_run_at, last_host_count`
