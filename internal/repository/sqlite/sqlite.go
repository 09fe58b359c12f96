package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"hostlookup/internal/domain"
)

// Repository implements repository.SavedSearches using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := r.db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS saved_searches (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		srchparam TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		last_run_at TEXT,
		last_host_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_saved_searches_source ON saved_searches(source);
	`

	_, err := r.db.Exec(schema)
	return err
}

// GetSavedSearch loads one saved search by id
func (r *Repository) GetSavedSearch(ctx context.Context, id string) (*domain.SavedSearch, error) {
	var row savedSearchRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+savedSearchColumns+` FROM saved_searches WHERE id = ?`, id,
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("saved search %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query saved search: %w", err)
	}

	return row.toDomain()
}

// ListSavedSearches returns all saved searches ordered by name
func (r *Repository) ListSavedSearches(ctx context.Context) ([]domain.SavedSearch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+savedSearchColumns+` FROM saved_searches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved searches: %w", err)
	}
	defer rows.Close()

	searches := []domain.SavedSearch{}
	for rows.Next() {
		var row savedSearchRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan saved search: %w", err)
		}
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		searches = append(searches, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved searches: %w", err)
	}

	return searches, nil
}

// CreateSavedSearch inserts a saved search, assigning its id and timestamps
func (r *Repository) CreateSavedSearch(ctx context.Context, s *domain.SavedSearch) error {
	if err := s.Validate(); err != nil {
		return err
	}

	now := r.now().UTC()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	s.LastRunAt = nil
	s.LastHostCount = 0

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO saved_searches (id, name, source, srchparam, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.Name, s.Source, s.SrchParam, formatTime(now), formatTime(now))
	if err != nil {
		return translateError(err, s.Name)
	}

	return nil
}

// UpdateSavedSearch changes the name, source and srchparam of a saved search
func (r *Repository) UpdateSavedSearch(ctx context.Context, s *domain.SavedSearch) error {
	if err := s.Validate(); err != nil {
		return err
	}

	now := r.now().UTC()
	result, err := r.db.ExecContext(ctx, `
		UPDATE saved_searches SET name = ?, source = ?, srchparam = ?, updated_at = ?
		WHERE id = ?
	`, s.Name, s.Source, s.SrchParam, formatTime(now), s.ID)
	if err != nil {
		return translateError(err, s.Name)
	}
	if err := requireRow(result, s.ID); err != nil {
		return err
	}

	s.UpdatedAt = now
	return nil
}

// DeleteSavedSearch removes a saved search
func (r *Repository) DeleteSavedSearch(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saved_searches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved search: %w", err)
	}
	return requireRow(result, id)
}

// MarkRun records the outcome of the latest run
func (r *Repository) MarkRun(ctx context.Context, id string, at time.Time, hostCount int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE saved_searches SET last_run_at = ?, last_host_count = ? WHERE id = ?
	`, formatTime(at), hostCount, id)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return requireRow(result, id)
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func requireRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("saved search %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// translateError maps unique constraint violations to domain.ErrConflict
func translateError(err error, name string) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed: saved_searches.name") {
		return fmt.Errorf("saved search name %q already exists: %w", name, domain.ErrConflict)
	}
	return fmt.Errorf("failed to write saved search: %w", err)
}
