package index

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/sitefrag/internal/models"
)

// PageRow represents a row in the pages table: the last checksum sitefrag
// wrote for a page.
type PageRow struct {
	Path      string
	Checksum  string
	Kind      models.RunKind
	RunID     string
	UpdatedAt time.Time
}

// RunRow represents a row in the runs table.
type RunRow struct {
	ID         string
	Kind       models.RunKind
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Updated    int
	Unchanged  int
	Failed     int
}

// BeginRun records the start of a batch pass and returns its summary with
// a fresh run id.
func (db *DB) BeginRun(kind models.RunKind) (*models.RunSummary, error) {
	run := &models.RunSummary{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: time.Now().UTC(),
	}
	_, err := db.conn.Exec(`INSERT INTO runs (id, kind, started_at) VALUES (?, ?, ?)`,
		run.ID, string(run.Kind), run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("index: begin run: %w", err)
	}
	return run, nil
}

// FinishRun stores the outcome counts of a run.
func (db *DB) FinishRun(run *models.RunSummary) error {
	_, err := db.conn.Exec(`
		UPDATE runs SET finished_at = ?, updated = ?, unchanged = ?, failed = ?
		WHERE id = ?
	`, time.Now().UTC(),
		run.Count(models.OutcomeUpdated),
		run.Count(models.OutcomeUnchanged),
		run.Count(models.OutcomeFailed),
		run.ID)
	if err != nil {
		return fmt.Errorf("index: finish run: %w", err)
	}
	return nil
}

// RecordPage upserts the checksum written for a page.
func (db *DB) RecordPage(row PageRow) error {
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now().UTC()
	}
	_, err := db.conn.Exec(`
		INSERT INTO pages (path, checksum, kind, run_id, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum   = excluded.checksum,
			kind       = excluded.kind,
			run_id     = excluded.run_id,
			updated_at = excluded.updated_at
	`, row.Path, row.Checksum, string(row.Kind), row.RunID, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: record page: %w", err)
	}
	return nil
}

// AllPages returns every recorded page keyed by path.
func (db *DB) AllPages() (map[string]PageRow, error) {
	rows, err := db.conn.Query(`SELECT path, checksum, kind, run_id, updated_at FROM pages`)
	if err != nil {
		return nil, fmt.Errorf("index: all pages: %w", err)
	}
	defer rows.Close()
	out := make(map[string]PageRow)
	for rows.Next() {
		var r PageRow
		var kind string
		if err := rows.Scan(&r.Path, &r.Checksum, &kind, &r.RunID, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.Kind = models.RunKind(kind)
		out[r.Path] = r
	}
	return out, rows.Err()
}

// RecentRuns returns the latest runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.conn.Query(`
		SELECT id, kind, started_at, finished_at, updated, unchanged, failed
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("index: recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		var kind string
		if err := rows.Scan(&r.ID, &kind, &r.StartedAt, &r.FinishedAt, &r.Updated, &r.Unchanged, &r.Failed); err != nil {
			return nil, err
		}
		r.Kind = models.RunKind(kind)
		out = append(out, r)
	}
	return out, rows.Err()
}
