package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig holds the pieces the router mounts
type RouterConfig struct {
	Hosts          *HostHandler
	Events         http.Handler // server-sent event stream, optional
	Log            *zap.Logger
	RequestTimeout time.Duration
}

// NewRouter builds the root router and mounts the API under /api/v1
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	h := cfg.Hosts

	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, "Not found", "Use a versioned path like /api/v1/...", http.StatusNotFound)
	})

	r.Route("/api/v1", func(api chi.Router) {
		// The event stream is long-lived and stays outside the timeout
		if cfg.Events != nil {
			api.Get("/events", cfg.Events.ServeHTTP)
		}

		api.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(timeout))

			api.Get("/sources", h.ListSources)
			api.Route("/sources/{source}", func(src chi.Router) {
				src.Get("/list", h.GetList)
				src.Get("/input", h.GetInput)
				src.Get("/search", h.Search)
				src.Post("/search", h.Search)
			})

			api.Get("/search", h.SearchAll)
			api.Post("/search", h.SearchAll)

			api.Route("/saved-searches", func(ss chi.Router) {
				ss.Get("/", h.ListSavedSearches)
				ss.Post("/", h.CreateSavedSearch)
				ss.Get("/{id}", h.GetSavedSearch)
				ss.Put("/{id}", h.UpdateSavedSearch)
				ss.Delete("/{id}", h.DeleteSavedSearch)
				ss.Post("/{id}/run", h.RunSavedSearch)
			})
		})
	})

	return r
}
