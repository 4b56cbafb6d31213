package index

import (
	"sort"

	"github.com/starford/sitefrag/internal/models"
)

// State describes how a page on disk relates to the journal.
type State string

const (
	// StateInSync means the page still has the checksum sitefrag last wrote.
	StateInSync State = "in-sync"
	// StateModified means the page was edited after the last pass.
	StateModified State = "modified"
	// StateUntracked means no pass has written the page yet.
	StateUntracked State = "untracked"
	// StateMissing means the journal knows the page but it is gone from disk.
	StateMissing State = "missing"
)

// PageStatus is one line of the status report.
type PageStatus struct {
	Path     string         `json:"path"`
	State    State          `json:"state"`
	Checksum string         `json:"checksum,omitempty"`
	LastKind models.RunKind `json:"last_kind,omitempty"`
	LastRun  string         `json:"last_run,omitempty"`
}

// Compare matches the pages found on disk against the journal. The result is
// sorted by path.
func Compare(j Journal, disk []models.PageMetadata) ([]PageStatus, error) {
	recorded, err := j.AllPages()
	if err != nil {
		return nil, err
	}

	out := make([]PageStatus, 0, len(disk)+len(recorded))
	seen := make(map[string]struct{}, len(disk))
	for _, m := range disk {
		seen[m.Path] = struct{}{}
		st := PageStatus{Path: m.Path, Checksum: m.Checksum, State: StateUntracked}
		if row, ok := recorded[m.Path]; ok {
			st.LastKind = row.Kind
			st.LastRun = row.RunID
			st.State = StateModified
			if row.Checksum == m.Checksum {
				st.State = StateInSync
			}
		}
		out = append(out, st)
	}
	for p, row := range recorded {
		if _, ok := seen[p]; ok {
			continue
		}
		out = append(out, PageStatus{
			Path:     p,
			State:    StateMissing,
			Checksum: row.Checksum,
			LastKind: row.Kind,
			LastRun:  row.RunID,
		})
	}

	sort.Slice(out, func(i, k int) bool { return out[i].Path < out[k].Path })
	return out, nil
}
