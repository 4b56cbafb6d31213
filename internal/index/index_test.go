package index

import (
	"os"
	"testing"
	"time"

	"github.com/starford/sitefrag/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "sitefrag-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM runs`).Scan(&count); err != nil {
		t.Fatalf("runs table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM pages`).Scan(&count); err != nil {
		t.Fatalf("pages table missing: %v", err)
	}
}

func TestRecordPage(t *testing.T) {
	db := testDB(t)
	row := PageRow{Path: "pages/about.html", Checksum: "abc123", Kind: models.RunInline, RunID: "r1"}
	if err := db.RecordPage(row); err != nil {
		t.Fatalf("RecordPage: %v", err)
	}
	all, err := db.AllPages()
	if err != nil {
		t.Fatalf("AllPages: %v", err)
	}
	got, ok := all["pages/about.html"]
	if !ok || got.Checksum != "abc123" || got.UpdatedAt.IsZero() {
		t.Errorf("row = %+v, ok = %v", got, ok)
	}
}

func TestRecordPageUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC()
	_ = db.RecordPage(PageRow{Path: "index.html", Checksum: "1", Kind: models.RunInline, RunID: "a", UpdatedAt: now})
	_ = db.RecordPage(PageRow{Path: "index.html", Checksum: "2", Kind: models.RunExtract, RunID: "b", UpdatedAt: now})

	all, err := db.AllPages()
	if err != nil {
		t.Fatalf("AllPages: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 row, got %d", len(all))
	}
	got := all["index.html"]
	if got.Checksum != "2" || got.Kind != models.RunExtract || got.RunID != "b" {
		t.Errorf("row = %+v, want checksum 2 from extract run b", got)
	}
}

func TestAllPages_Empty(t *testing.T) {
	db := testDB(t)
	all, err := db.AllPages()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no rows, got %v", all)
	}
}

func TestRunLifecycle(t *testing.T) {
	db := testDB(t)
	run, err := db.BeginRun(models.RunExtract)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("run id should be set")
	}
	run.Results = []models.PageResult{
		{Outcome: models.OutcomeUpdated},
		{Outcome: models.OutcomeUnchanged},
		{Outcome: models.OutcomeFailed},
		{Outcome: models.OutcomeUpdated},
	}
	if err := db.FinishRun(run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := db.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.ID != run.ID || r.Kind != models.RunExtract {
		t.Errorf("run = %+v", r)
	}
	if r.Updated != 2 || r.Unchanged != 1 || r.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", r.Updated, r.Unchanged, r.Failed)
	}
	if !r.FinishedAt.Valid {
		t.Error("finished_at should be set")
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	db := testDB(t)
	first, _ := db.BeginRun(models.RunExtract)
	time.Sleep(5 * time.Millisecond)
	second, _ := db.BeginRun(models.RunInline)

	runs, err := db.RecentRuns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Errorf("runs out of order: %+v", runs)
	}
}

func TestCompare(t *testing.T) {
	db := testDB(t)
	_ = db.RecordPage(PageRow{Path: "index.html", Checksum: "same", Kind: models.RunInline})
	_ = db.RecordPage(PageRow{Path: "pages/about.html", Checksum: "old", Kind: models.RunInline})
	_ = db.RecordPage(PageRow{Path: "pages/gone.html", Checksum: "x", Kind: models.RunExtract})

	disk := []models.PageMetadata{
		{Path: "index.html", Checksum: "same"},
		{Path: "pages/about.html", Checksum: "edited"},
		{Path: "pages/new.html", Checksum: "n"},
	}
	got, err := Compare(db, disk)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	want := map[string]State{
		"index.html":       StateInSync,
		"pages/about.html": StateModified,
		"pages/gone.html":  StateMissing,
		"pages/new.html":   StateUntracked,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d statuses, want %d: %+v", len(got), len(want), got)
	}
	for i, st := range got {
		if want[st.Path] != st.State {
			t.Errorf("%s: state = %s, want %s", st.Path, st.State, want[st.Path])
		}
		if i > 0 && got[i-1].Path > st.Path {
			t.Error("statuses should be sorted by path")
		}
	}
}
