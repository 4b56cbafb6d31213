package api

import (
	"time"

	"github.com/starford/sitefrag/internal/index"
	"github.com/starford/sitefrag/internal/models"
	"github.com/starford/sitefrag/internal/siteservice"
)

// PagesResponse lists every page with its journal state.
type PagesResponse struct {
	Pages []index.PageStatus `json:"pages" validate:"required"`
}

// RunItem is one journal run.
type RunItem struct {
	ID         string         `json:"id" example:"5f0c2c1e-..." validate:"required"`
	Kind       models.RunKind `json:"kind" example:"inline" validate:"required"`
	StartedAt  time.Time      `json:"started_at" validate:"required"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Updated    int            `json:"updated" example:"9"`
	Unchanged  int            `json:"unchanged" example:"1"`
	Failed     int            `json:"failed" example:"0"`
}

// RunsResponse wraps the recent runs.
type RunsResponse struct {
	Runs []RunItem `json:"runs" validate:"required"`
}

// RunResponse is returned by the pass endpoints.
type RunResponse struct {
	ID        string              `json:"id" validate:"required"`
	Kind      models.RunKind      `json:"kind" example:"extract" validate:"required"`
	Updated   int                 `json:"updated"`
	Unchanged int                 `json:"unchanged"`
	Failed    int                 `json:"failed"`
	Results   []models.PageResult `json:"results" validate:"required"`
	Error     string              `json:"error,omitempty"`
}

func newRunResponse(run *models.RunSummary) RunResponse {
	return RunResponse{
		ID:        run.ID,
		Kind:      run.Kind,
		Updated:   run.Count(models.OutcomeUpdated),
		Unchanged: run.Count(models.OutcomeUnchanged),
		Failed:    run.Count(models.OutcomeFailed),
		Results:   nonNil(run.Results),
	}
}

// NavLinks is the resolved navigation entry (aliased from the domain layer).
type NavLinks = siteservice.NavLinks

// FragmentResponse is returned by GET /api/fragments/{name}.
type FragmentResponse struct {
	Name     string `json:"name" example:"header" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Checksum string `json:"checksum" example:"9f86d0..." validate:"required"`
}

// UpdateFragmentRequest is the request body for replacing a fragment.
type UpdateFragmentRequest struct {
	Content string `json:"content" example:"<header>...</header>" validate:"required"`
}
