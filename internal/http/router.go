package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/guiafaen/guia/internal/libs/metrics"
	"github.com/guiafaen/guia/internal/libs/obs"
	"github.com/guiafaen/guia/internal/scope/auth"
)

// NewRouter wires the API routes. Editing routes require an admin token
// checked by verifier; a nil verifier disables them.
func NewRouter(h *Handler, verifier *auth.Verifier, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(obs.RequestLogger(logger))
	r.Use(metrics.Middleware())

	// Routes
	r.Get("/health", h.HandleHealth)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/search", h.HandleSearch)
	r.Get("/tables", h.HandleTables)
	r.Get("/content/{table}", h.HandleListContent)
	r.Get("/content/{table}/{id}", h.HandleGetContent)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(verifier))
		r.Post("/search/reload", h.HandleReload)
		r.Patch("/content/{table}/{id}", h.HandleUpdateContent)
		r.Post("/images", h.HandleUploadImage)
	})

	return r
}
