package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sitefrag/internal/siteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *siteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	fh := NewFragmentHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/pages", h.Pages)
	r.Get("/runs", h.Runs)
	r.Get("/nav/{id}", h.Nav)

	r.Post("/inline", h.Inline)
	r.Post("/extract", h.Extract)

	r.Get("/fragments/{name}", fh.Get)
	r.Put("/fragments/{name}", fh.Put)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
