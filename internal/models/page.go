// Package models defines the domain types for sitefrag.
package models

import "time"

// Mode is the path-resolution context of a page.
type Mode string

const (
	// ModeHome is the site root page (depth 0).
	ModeHome Mode = "home"
	// ModeSubpage is a page under the subpages directory (depth 1).
	ModeSubpage Mode = "subpage"
)

// Prefix returns the relative prefix that leads from a page in this mode
// back to the site root.
func (m Mode) Prefix() string {
	if m == ModeSubpage {
		return "../"
	}
	return ""
}

// Page is an HTML file of the site.
type Page struct {
	Path string `json:"path"` // relative to the site root, slash separated
	Name string `json:"name"` // base filename, decides the active nav entry
	Mode Mode   `json:"mode"`
}

// PageMetadata is a lightweight representation returned by list operations.
type PageMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Outcome is the result of one pass over one page.
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
)

// PageResult records what a pass did to a page.
type PageResult struct {
	Page     Page    `json:"page"`
	Outcome  Outcome `json:"outcome"`
	Checksum string  `json:"checksum,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// RunKind names a batch pass.
type RunKind string

const (
	RunExtract RunKind = "extract"
	RunInline  RunKind = "inline"
)

// RunSummary aggregates a batch pass.
type RunSummary struct {
	ID        string       `json:"id"`
	Kind      RunKind      `json:"kind"`
	StartedAt time.Time    `json:"started_at"`
	Results   []PageResult `json:"results"`
}

// Count returns the number of results with the given outcome.
func (s *RunSummary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}
