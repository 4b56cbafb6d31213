// Package siteservice runs the extraction and inlining passes over a site
// and keeps the rewrite journal up to date.
package siteservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"sync"

	"github.com/starford/sitefrag/internal/apperr"
	"github.com/starford/sitefrag/internal/checksum"
	"github.com/starford/sitefrag/internal/index"
	"github.com/starford/sitefrag/internal/models"
	"github.com/starford/sitefrag/internal/navigation"
	"github.com/starford/sitefrag/internal/report"
	"github.com/starford/sitefrag/internal/rewrite"
	"github.com/starford/sitefrag/internal/storage"
)

// Fragment names accepted by Fragment and WriteFragment.
const (
	FragmentHeader = "header"
	FragmentFooter = "footer"
)

// Layout describes where things live inside the site root. All paths are
// slash separated and relative to the root.
type Layout struct {
	HomePage       string
	PagesDir       string
	IncludesDir    string
	HeaderFragment string
	FooterFragment string
	LoaderScript   string
}

// DefaultLayout returns the layout of the shipped site.
func DefaultLayout() Layout {
	return Layout{
		HomePage:       "index.html",
		PagesDir:       "pages",
		IncludesDir:    "includes",
		HeaderFragment: "header.html",
		FooterFragment: "footer.html",
		LoaderScript:   "js/header-footer-loader.js",
	}
}

// FragmentPath returns the site-relative path of the named fragment.
func (l Layout) FragmentPath(name string) (string, bool) {
	switch name {
	case FragmentHeader:
		return path.Join(l.IncludesDir, l.HeaderFragment), true
	case FragmentFooter:
		return path.Join(l.IncludesDir, l.FooterFragment), true
	}
	return "", false
}

// NavLinks are the resolved hrefs of one navigation entry.
type NavLinks struct {
	ID      string `json:"id"`
	Page    string `json:"page"`
	Home    string `json:"home"`
	Subpage string `json:"subpage"`
}

// Notifier receives every page a pass rewrote.
type Notifier func(kind models.RunKind, res models.PageResult)

// Option configures a Service.
type Option func(*Service)

// WithPrinter sets the human progress printer.
func WithPrinter(p *report.Printer) Option {
	return func(s *Service) { s.printer = p }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithExtractOptions sets the trailer written by the extraction pass.
func WithExtractOptions(o rewrite.ExtractOptions) Option {
	return func(s *Service) { s.extractor = rewrite.NewExtractor(o) }
}

// WithNotifier registers a callback for rewritten pages.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// Service coordinates storage, the rewrite passes and the journal.
type Service struct {
	store     storage.Provider
	journal   index.Journal
	table     *navigation.Table
	layout    Layout
	extractor *rewrite.Extractor
	printer   *report.Printer
	logger    *slog.Logger
	notify    Notifier

	// mu serialises passes and fragment writes.
	mu sync.Mutex
}

// NewService creates a new site service.
func NewService(store storage.Provider, journal index.Journal, table *navigation.Table, layout Layout, opts ...Option) *Service {
	s := &Service{
		store:     store,
		journal:   journal,
		table:     table,
		layout:    layout,
		extractor: rewrite.NewExtractor(rewrite.DefaultExtractOptions()),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the navigation table.
func (s *Service) Table() *navigation.Table {
	return s.table
}

// Subpages returns every subpage in lexical order.
func (s *Service) Subpages() ([]models.Page, error) {
	metas, err := s.store.List(s.layout.PagesDir)
	if err != nil {
		return nil, err
	}
	pages := make([]models.Page, len(metas))
	for i, m := range metas {
		pages[i] = models.Page{Path: m.Path, Name: path.Base(m.Path), Mode: models.ModeSubpage}
	}
	return pages, nil
}

// Pages returns the home page followed by every subpage.
func (s *Service) Pages() ([]models.Page, error) {
	sub, err := s.Subpages()
	if err != nil {
		return nil, err
	}
	home := models.Page{Path: s.layout.HomePage, Name: path.Base(s.layout.HomePage), Mode: models.ModeHome}
	return append([]models.Page{home}, sub...), nil
}

// Extract runs the extraction pass over every subpage. A failing page is
// reported and skipped; the caller decides what a non-zero failure count
// means. The returned error is reserved for failures of the run itself.
func (s *Service) Extract(ctx context.Context) (*models.RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pages, err := s.Subpages()
	if err != nil {
		return nil, fmt.Errorf("extract: list pages: %w", err)
	}
	run, err := s.journal.BeginRun(models.RunExtract)
	if err != nil {
		return nil, err
	}

	s.printer.Line("Found %d HTML files to process", len(pages))
	s.printer.Rule()
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			s.finish(run)
			return run, err
		}
		if err := s.apply(run, p, s.extractor.Extract); err != nil {
			s.printer.Failed(p.Name, err)
			s.logger.Warn("extract: page failed", slog.String("path", p.Path), slog.String("error", err.Error()))
		}
	}
	s.finish(run)
	return run, nil
}

// Inline embeds page-specific copies of the shared fragments into the home
// page and then every subpage. The first failure aborts the run; pages
// already written stay written.
func (s *Service) Inline(ctx context.Context) (*models.RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.printer.Line("Reading master header and footer...")
	frags, err := s.loadFragments()
	if err != nil {
		return nil, err
	}
	inliner := rewrite.NewInliner(s.table, frags, s.layout.LoaderScript)

	pages, err := s.Pages()
	if err != nil {
		return nil, fmt.Errorf("inline: list pages: %w", err)
	}
	run, err := s.journal.BeginRun(models.RunInline)
	if err != nil {
		return nil, err
	}

	s.printer.Rule()
	s.printer.Line("Updating all pages with embedded header and footer...")
	s.printer.Rule()
	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			s.finish(run)
			return run, err
		}
		err := s.apply(run, p, func(src []byte) ([]byte, error) {
			return inliner.Inline(src, p)
		})
		if err != nil {
			s.printer.Failed(p.Path, err)
			s.finish(run)
			return run, fmt.Errorf("inline %s: %w", p.Path, err)
		}
	}
	s.finish(run)
	return run, nil
}

// apply reads one page, transforms it and writes it back when it changed.
// The outcome is appended to run.
func (s *Service) apply(run *models.RunSummary, p models.Page, fn func([]byte) ([]byte, error)) error {
	s.printer.Processing(p.Path)
	res := models.PageResult{Page: p}

	out, err := s.transform(p, fn)
	if err != nil {
		res.Outcome = models.OutcomeFailed
		res.Error = err.Error()
		run.Results = append(run.Results, res)
		return err
	}

	res.Checksum = checksum.Sum(out.data)
	if out.changed {
		res.Outcome = models.OutcomeUpdated
		s.printer.Updated(p.Path)
		s.logger.Debug("page written",
			slog.String("path", p.Path),
			slog.String("run", run.ID),
			slog.String("checksum", checksum.Short(res.Checksum)))
	} else {
		res.Outcome = models.OutcomeUnchanged
		s.printer.Unchanged(p.Path)
	}
	run.Results = append(run.Results, res)

	if err := s.journal.RecordPage(index.PageRow{
		Path:     p.Path,
		Checksum: res.Checksum,
		Kind:     run.Kind,
		RunID:    run.ID,
	}); err != nil {
		s.logger.Warn("journal: record page failed", slog.String("path", p.Path), slog.String("error", err.Error()))
	}
	if res.Outcome == models.OutcomeUpdated && s.notify != nil {
		s.notify(run.Kind, res)
	}
	return nil
}

type transformed struct {
	data    []byte
	changed bool
}

func (s *Service) transform(p models.Page, fn func([]byte) ([]byte, error)) (transformed, error) {
	src, err := s.store.Read(p.Path)
	if err != nil {
		return transformed{}, err
	}
	out, err := fn(src)
	if err != nil {
		return transformed{}, err
	}
	if string(out) == string(src) {
		return transformed{data: src}, nil
	}
	if err := s.store.Write(p.Path, out); err != nil {
		return transformed{}, err
	}
	return transformed{data: out, changed: true}, nil
}

func (s *Service) finish(run *models.RunSummary) {
	if err := s.journal.FinishRun(run); err != nil {
		s.logger.Warn("journal: finish run failed", slog.String("run", run.ID), slog.String("error", err.Error()))
	}
	s.printer.Summary(run)
	s.logger.Info("run finished",
		slog.String("run", run.ID),
		slog.String("kind", string(run.Kind)),
		slog.Int("updated", run.Count(models.OutcomeUpdated)),
		slog.Int("unchanged", run.Count(models.OutcomeUnchanged)),
		slog.Int("failed", run.Count(models.OutcomeFailed)))
}

func (s *Service) loadFragments() (rewrite.Fragments, error) {
	header, err := s.readFragment(FragmentHeader)
	if err != nil {
		return rewrite.Fragments{}, err
	}
	footer, err := s.readFragment(FragmentFooter)
	if err != nil {
		return rewrite.Fragments{}, err
	}
	return rewrite.Fragments{Header: header, Footer: footer}, nil
}

// Fragment returns the raw markup of the named fragment.
func (s *Service) Fragment(name string) (string, error) {
	return s.readFragment(name)
}

func (s *Service) readFragment(name string) (string, error) {
	p, ok := s.layout.FragmentPath(name)
	if !ok {
		return "", fmt.Errorf("fragment %q: %w", name, apperr.ErrNotFound)
	}
	data, err := s.store.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("fragment %s: %w", p, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("fragment %s: %w", p, err)
	}
	return string(data), nil
}

// WriteFragment replaces the named fragment. A non-empty ifMatch must equal
// the checksum of the current content.
func (s *Service) WriteFragment(name string, content []byte, ifMatch string) error {
	p, ok := s.layout.FragmentPath(name)
	if !ok {
		return fmt.Errorf("fragment %q: %w", name, apperr.ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ifMatch != "" {
		cur, err := s.store.Read(p)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if checksum.Sum(cur) != ifMatch {
			return fmt.Errorf("fragment %s: %w", p, apperr.ErrConflict)
		}
	}
	return s.store.Write(p, content)
}

// Status compares the pages on disk with the journal.
func (s *Service) Status() ([]index.PageStatus, error) {
	root, err := s.store.List(path.Dir(s.layout.HomePage))
	if err != nil {
		return nil, err
	}
	var disk []models.PageMetadata
	for _, m := range root {
		if m.Path == s.layout.HomePage {
			disk = append(disk, m)
		}
	}
	sub, err := s.store.List(s.layout.PagesDir)
	if err != nil {
		return nil, err
	}
	return index.Compare(s.journal, append(disk, sub...))
}

// Runs returns the most recent runs from the journal.
func (s *Service) Runs(limit int) ([]index.RunRow, error) {
	return s.journal.RecentRuns(limit)
}

// Resolve returns the hrefs of a navigation entry in both modes.
func (s *Service) Resolve(id string) (NavLinks, error) {
	e, ok := s.table.Lookup(id)
	if !ok {
		return NavLinks{}, fmt.Errorf("%q: %w", id, apperr.ErrUnknownEntry)
	}
	home, _ := s.table.Href(id, models.ModeHome)
	sub, _ := s.table.Href(id, models.ModeSubpage)
	return NavLinks{ID: e.ID, Page: e.Page, Home: home, Subpage: sub}, nil
}
