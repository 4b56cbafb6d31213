// Package internal provides the application bootstrap and the commands
// behind the sitefrag CLI.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/sitefrag/internal/index"
	"github.com/starford/sitefrag/internal/models"
	"github.com/starford/sitefrag/internal/report"
	"github.com/starford/sitefrag/internal/siteservice"
	"github.com/starford/sitefrag/internal/storage"
)

// ErrPagesFailed is returned by RunExtract when at least one page could not
// be rewritten.
var ErrPagesFailed = errors.New("pages failed")

type site struct {
	svc   *siteservice.Service
	store *storage.FS
	db    *index.DB
}

func (s *site) Close() {
	if err := s.db.Close(); err != nil {
		slog.Warn("close index", slog.String("error", err.Error()))
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		version: "dev",
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	slog.SetDefault(newLogger(app.stderr, app.config.App))
	return app, nil
}

func newLogger(w io.Writer, cfg ApplicationConfig) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// openSite wires storage, the journal and the service for one command.
// printer may be nil to keep stdout free.
func (a *application) openSite(printer *report.Printer, extra ...siteservice.Option) (*site, error) {
	cfg := a.config
	logger := slog.Default()

	logger.Debug("Configuration loaded",
		slog.String("site_root", cfg.Site.Root),
		slog.String("index_path", cfg.Index.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize storage.
	store, err := storage.NewFS(cfg.Site.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// Initialize the rewrite journal.
	if dir := filepath.Dir(cfg.Index.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index dir: %w", err)
		}
	}
	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	opts := []siteservice.Option{
		siteservice.WithPrinter(printer),
		siteservice.WithLogger(logger),
		siteservice.WithExtractOptions(cfg.Extract.Options()),
	}
	svc := siteservice.NewService(store, db, cfg.NavigationTable(), cfg.Site.Layout(), append(opts, extra...)...)
	return &site{svc: svc, store: store, db: db}, nil
}

// RunExtract replaces the literal header and footer of every subpage with
// loader placeholders. It fails with ErrPagesFailed when any page failed.
func RunExtract(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	s, err := app.openSite(report.New(app.stdout))
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.svc.Extract(ctx)
	if err != nil {
		return err
	}
	if n := run.Count(models.OutcomeFailed); n > 0 {
		return fmt.Errorf("%d of %d: %w", n, len(run.Results), ErrPagesFailed)
	}
	return nil
}

// RunInline embeds the shared header and footer into every page.
func RunInline(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	s, err := app.openSite(report.New(app.stdout))
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = s.svc.Inline(ctx)
	return err
}

// RunStatus prints every page with its state against the journal, followed
// by the most recent runs.
func RunStatus(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	s, err := app.openSite(nil)
	if err != nil {
		return err
	}
	defer s.Close()

	statuses, err := s.svc.Status()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	for _, st := range statuses {
		fmt.Fprintf(app.stdout, "%-10s %s\n", st.State, st.Path)
	}

	runs, err := s.svc.Runs(5)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if len(runs) == 0 {
		return nil
	}
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, "Recent runs:")
	for _, r := range runs {
		fmt.Fprintf(app.stdout, "  %s  %-7s  %d updated, %d unchanged, %d failed\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Kind, r.Updated, r.Unchanged, r.Failed)
	}
	return nil
}

// RunResolve prints the hrefs of a navigation entry on the home page and on
// a subpage.
func RunResolve(_ context.Context, id string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	s, err := app.openSite(nil)
	if err != nil {
		return err
	}
	defer s.Close()

	links, err := s.svc.Resolve(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "page:    %s\nhome:    %s\nsubpage: %s\n", links.Page, links.Home, links.Subpage)
	return nil
}
