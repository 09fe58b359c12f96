package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"hostlookup/internal/cmdb"
	"hostlookup/internal/codec"
	"hostlookup/internal/domain"
	"hostlookup/internal/service"
)

// HeaderSourceErrors carries the number of sources that failed during a
// search across all sources
const HeaderSourceErrors = "X-Source-Errors"

// HostHandler handles host lookup API requests
type HostHandler struct {
	svc *service.HostService
	log *zap.Logger
}

// NewHostHandler creates a new host handler
func NewHostHandler(svc *service.HostService, log *zap.Logger) *HostHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HostHandler{svc: svc, log: log}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RunResponse is the reply of a saved search run
type RunResponse struct {
	SavedSearch *domain.SavedSearch `json:"saved_search"`
	Hosts       domain.HostLookup   `json:"hosts"`
}

// Health reports liveness and the number of registered sources
func (h *HostHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"status":  "ok",
		"sources": len(h.svc.Sources()),
	}, http.StatusOK)
}

// ListSources returns the registered sources
func (h *HostHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.svc.Sources(), http.StatusOK)
}

// GetList returns what can be searched in a source
func (h *HostHandler) GetList(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")

	list, err := h.svc.List(r.Context(), source)
	if err != nil {
		h.writeServiceError(w, "Failed to list source", err, http.StatusBadGateway)
		return
	}

	h.writeJSON(w, list, http.StatusOK)
}

// GetInput returns the input descriptor of a source, or 204 when the
// source takes a single srchparam
func (h *HostHandler) GetInput(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")

	input, err := h.svc.Input(source)
	if err != nil {
		h.writeServiceError(w, "Failed to get input", err, http.StatusInternalServerError)
		return
	}
	if input == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, input, http.StatusOK)
}

// Search runs a search against one source. srchparam comes from the query
// string or, for POST, from a JSON body.
func (h *HostHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, chi.URLParam(r, "source"))
}

// SearchAll runs a search against every source
func (h *HostHandler) SearchAll(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, service.AllSources)
}

func (h *HostHandler) search(w http.ResponseWriter, r *http.Request, source string) {
	exporter, err := codec.ExporterFor(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}

	input, err := decodeSearchInput(r)
	if err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	hosts, err := h.svc.Search(r.Context(), source, input)
	if err != nil {
		var merr *multierror.Error
		if source != service.AllSources || !errors.As(err, &merr) {
			h.writeServiceError(w, "Search failed", err, http.StatusBadGateway)
			return
		}
		if len(hosts) == 0 {
			status := mergedStatus(merr)
			if status >= http.StatusInternalServerError {
				h.log.Error("Search failed", zap.Error(err))
			}
			h.writeError(w, "Search failed", err.Error(), status)
			return
		}
		// Partial result across sources
		w.Header().Set(HeaderSourceErrors, strconv.Itoa(len(merr.Errors)))
	}

	h.writeExport(w, exporter, hosts)
}

// ListSavedSearches returns all saved searches
func (h *HostHandler) ListSavedSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.svc.ListSavedSearches(r.Context())
	if err != nil {
		h.writeServiceError(w, "Failed to list saved searches", err, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, searches, http.StatusOK)
}

// GetSavedSearch returns a single saved search
func (h *HostHandler) GetSavedSearch(w http.ResponseWriter, r *http.Request) {
	saved, err := h.svc.GetSavedSearch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get saved search", err, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, saved, http.StatusOK)
}

// CreateSavedSearch creates a new saved search
func (h *HostHandler) CreateSavedSearch(w http.ResponseWriter, r *http.Request) {
	var saved domain.SavedSearch
	if err := json.NewDecoder(r.Body).Decode(&saved); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	saved.ID = ""

	if err := h.svc.CreateSavedSearch(r.Context(), &saved); err != nil {
		h.writeServiceError(w, "Failed to create saved search", err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", "/api/v1/saved-searches/"+saved.ID)
	h.writeJSON(w, saved, http.StatusCreated)
}

// UpdateSavedSearch replaces a saved search
func (h *HostHandler) UpdateSavedSearch(w http.ResponseWriter, r *http.Request) {
	var saved domain.SavedSearch
	if err := json.NewDecoder(r.Body).Decode(&saved); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	saved.ID = chi.URLParam(r, "id")

	if err := h.svc.UpdateSavedSearch(r.Context(), &saved); err != nil {
		h.writeServiceError(w, "Failed to update saved search", err, http.StatusInternalServerError)
		return
	}

	updated, err := h.svc.GetSavedSearch(r.Context(), saved.ID)
	if err != nil {
		h.writeServiceError(w, "Failed to get saved search", err, http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, updated, http.StatusOK)
}

// DeleteSavedSearch removes a saved search
func (h *HostHandler) DeleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSavedSearch(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, "Failed to delete saved search", err, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RunSavedSearch executes a saved search
func (h *HostHandler) RunSavedSearch(w http.ResponseWriter, r *http.Request) {
	saved, hosts, err := h.svc.RunSavedSearch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Saved search failed", err, http.StatusBadGateway)
		return
	}

	h.writeJSON(w, RunResponse{SavedSearch: saved, Hosts: hosts}, http.StatusOK)
}

// decodeSearchInput reads srchparam from the query string, or from the
// JSON body of a POST
func decodeSearchInput(r *http.Request) (domain.SearchInput, error) {
	input := domain.SearchInput{SrchParam: r.URL.Query().Get(domain.SearchParamField)}
	if r.Method != http.MethodPost || r.ContentLength == 0 {
		return input, nil
	}

	var body domain.SearchInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return input, err
	}
	if body.Param() != "" {
		input = body
	}
	return input, nil
}

// Helper methods

func (h *HostHandler) writeExport(w http.ResponseWriter, exporter codec.Exporter, hosts domain.HostLookup) {
	var buf bytes.Buffer
	if err := exporter.Export(hosts, &buf); err != nil {
		h.log.Error("failed to export hosts", zap.String("format", exporter.Format()), zap.Error(err))
		h.writeError(w, "Failed to export hosts", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(exporter.Format()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *HostHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode JSON", zap.Error(err))
	}
}

func (h *HostHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.log.Error("failed to encode error response", zap.Error(err))
	}
}

// writeServiceError maps domain and backend errors to status codes; errors
// of no known kind get fallback
func (h *HostHandler) writeServiceError(w http.ResponseWriter, msg string, err error, fallback int) {
	status := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		h.log.Error(msg, zap.Error(err))
	}
	h.writeError(w, msg, err.Error(), status)
}

func statusFor(err error, fallback int) int {
	var remote *cmdb.RemoteQueryError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &remote):
		return http.StatusBadGateway
	}
	return fallback
}

// mergedStatus maps a search across all sources that found nothing. It is
// 400 only when every source rejected the input.
func mergedStatus(merr *multierror.Error) int {
	for _, err := range merr.Errors {
		if !errors.Is(err, domain.ErrInvalidInput) {
			return http.StatusBadGateway
		}
	}
	return http.StatusBadRequest
}

func contentType(format string) string {
	if strings.HasPrefix(format, "json") {
		return "application/json"
	}
	return "application/yaml"
}
