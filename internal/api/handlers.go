package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sitefrag/internal/models"
	"github.com/starford/sitefrag/internal/siteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *siteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *siteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// Pages handles GET /api/pages.
//
//	@Summary		List pages with their journal state
//	@Tags			pages
//	@Produce		json
//	@Success		200	{object}	PagesResponse
//	@Security		BearerAuth
//	@Router			/pages [get]
func (h *Handler) Pages(w http.ResponseWriter, _ *http.Request) {
	statuses, err := h.svc.Status()
	if err != nil {
		writeError(w, "page status", err)
		return
	}
	writeJSON(w, http.StatusOK, PagesResponse{Pages: nonNil(statuses)})
}

// Runs handles GET /api/runs.
//
//	@Summary		Recent extraction and inlining runs
//	@Tags			runs
//	@Produce		json
//	@Param			limit	query		int	false	"Max runs"
//	@Success		200		{object}	RunsResponse
//	@Security		BearerAuth
//	@Router			/runs [get]
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := h.svc.Runs(limit)
	if err != nil {
		writeError(w, "list runs", err)
		return
	}
	runs := make([]RunItem, len(rows))
	for i, row := range rows {
		runs[i] = RunItem{
			ID:        row.ID,
			Kind:      row.Kind,
			StartedAt: row.StartedAt,
			Updated:   row.Updated,
			Unchanged: row.Unchanged,
			Failed:    row.Failed,
		}
		if row.FinishedAt.Valid {
			t := row.FinishedAt.Time
			runs[i].FinishedAt = &t
		}
	}
	writeJSON(w, http.StatusOK, RunsResponse{Runs: runs})
}

// Nav handles GET /api/nav/{id}.
//
//	@Summary		Resolve a navigation entry for both page modes
//	@Tags			navigation
//	@Produce		json
//	@Param			id	path		string	true	"Entry id"
//	@Success		200	{object}	NavLinks
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/nav/{id} [get]
func (h *Handler) Nav(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	links, err := h.svc.Resolve(id)
	if err != nil {
		writeError(w, "resolve", err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// Inline handles POST /api/inline.
//
//	@Summary		Embed the shared header and footer into every page
//	@Tags			passes
//	@Produce		json
//	@Success		200	{object}	RunResponse
//	@Failure		422	{object}	RunResponse
//	@Security		BearerAuth
//	@Router			/inline [post]
func (h *Handler) Inline(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.Inline(r.Context())
	h.writeRun(w, run, err)
}

// Extract handles POST /api/extract.
//
//	@Summary		Replace live header and footer markup with loader placeholders
//	@Tags			passes
//	@Produce		json
//	@Success		200	{object}	RunResponse
//	@Failure		422	{object}	RunResponse
//	@Security		BearerAuth
//	@Router			/extract [post]
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.Extract(r.Context())
	h.writeRun(w, run, err)
}

func (h *Handler) writeRun(w http.ResponseWriter, run *models.RunSummary, err error) {
	switch {
	case run == nil && err != nil:
		writeError(w, "run", err)
	case err != nil || run.Count(models.OutcomeFailed) > 0:
		resp := newRunResponse(run)
		if err != nil {
			resp.Error = err.Error()
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		writeJSON(w, http.StatusOK, newRunResponse(run))
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
