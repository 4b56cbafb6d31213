package index

import "github.com/starford/sitefrag/internal/models"

// Journal defines the interface for rewrite journal operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Journal interface {
	BeginRun(kind models.RunKind) (*models.RunSummary, error)
	FinishRun(run *models.RunSummary) error
	RecordPage(row PageRow) error
	AllPages() (map[string]PageRow, error)
	RecentRuns(limit int) ([]RunRow, error)
	Close() error
}

// Verify *DB satisfies Journal at compile time.
var _ Journal = (*DB)(nil)
