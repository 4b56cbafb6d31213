// Package report prints the human progress lines of a batch pass.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/starford/sitefrag/internal/models"
)

const ruleWidth = 60

// Printer writes progress lines. The zero value discards output.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// New returns a Printer writing to w. A nil w discards output.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) printf(format string, args ...any) {
	if p == nil || p.w == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

// Rule prints a separator line.
func (p *Printer) Rule() {
	p.printf("%s\n", strings.Repeat("=", ruleWidth))
}

// Line prints a free-form line.
func (p *Printer) Line(format string, args ...any) {
	p.printf(format+"\n", args...)
}

func (p *Printer) Processing(path string) { p.printf("Processing: %s\n", path) }
func (p *Printer) Updated(path string)    { p.printf("✓ Updated: %s\n", path) }
func (p *Printer) Unchanged(path string)  { p.printf("• Unchanged: %s\n", path) }

// Failed prints the per-file error line of the extractor.
func (p *Printer) Failed(name string, err error) {
	p.printf("✗ Error processing %s: %v\n", name, err)
}

// Summary prints the closing block of a run.
func (p *Printer) Summary(s *models.RunSummary) {
	p.Rule()
	failed := s.Count(models.OutcomeFailed)
	mark := "✓"
	if failed > 0 {
		mark = "✗"
	}
	p.printf("%s %s finished: %d updated, %d unchanged, %d failed\n",
		mark, s.Kind, s.Count(models.OutcomeUpdated), s.Count(models.OutcomeUnchanged), failed)
}
