package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SearchParamField is the name of the single free-text search parameter
const SearchParamField = "srchparam"

var (
	// ErrInvalidInput is returned when a search input cannot be used
	ErrInvalidInput = errors.New("invalid search input")
	// ErrNotFound is returned when a source or saved search does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write collides with an existing record
	ErrConflict = errors.New("conflict")
)

// SearchInput carries the caller-supplied search parameter
type SearchInput struct {
	SrchParam string `json:"srchparam" yaml:"srchparam"`
}

// Param returns the trimmed search parameter
func (in SearchInput) Param() string {
	return strings.TrimSpace(in.SrchParam)
}

// InputField describes one field a caller should prompt for
type InputField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// InputDescriptor describes the structured input a source expects for a
// search. A nil descriptor means the caller prompts for SearchParamField only.
type InputDescriptor struct {
	Fields []InputField `json:"fields"`
}

// SavedSearch is a named, persisted search against one source
type SavedSearch struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Source        string     `json:"source"`
	SrchParam     string     `json:"srchparam"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	LastHostCount int        `json:"last_host_count"`
}

// Validate checks the fields a caller must supply
func (s SavedSearch) Validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case strings.TrimSpace(s.Source) == "":
		return fmt.Errorf("%w: source is required", ErrInvalidInput)
	case s.Input().Param() == "":
		return fmt.Errorf("%w: srchparam is required", ErrInvalidInput)
	}
	return nil
}

// Input returns the search input for this saved search
func (s SavedSearch) Input() SearchInput {
	return SearchInput{SrchParam: s.SrchParam}
}
