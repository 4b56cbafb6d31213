package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/sitefrag/internal/api"
	"github.com/starford/sitefrag/internal/mcpserver"
	"github.com/starford/sitefrag/internal/models"
	"github.com/starford/sitefrag/internal/report"
	"github.com/starford/sitefrag/internal/siteservice"
	"github.com/starford/sitefrag/internal/sse"
	"github.com/starford/sitefrag/internal/watcher"
)

// watchFragments re-runs the inliner whenever the header or footer include
// changes. onErr, if set, is told about failed runs.
func (a *application) watchFragments(ctx context.Context, svc *siteservice.Service, onErr func(error)) error {
	site := a.config.Site
	dir := filepath.Join(site.Root, filepath.FromSlash(site.IncludesDir))
	names := []string{site.HeaderFragment, site.FooterFragment}

	return watcher.Watch(ctx, dir, names, a.config.Watch.Debounce, slog.Default(), func(ctx context.Context, changed []string) {
		slog.Info("fragments changed", slog.Any("files", changed))
		if _, err := svc.Inline(ctx); err != nil {
			slog.Error("inline after change failed", slog.String("error", err.Error()))
			if onErr != nil {
				onErr(err)
			}
		}
	})
}

// RunWatch re-runs the inliner on every fragment change until interrupted.
func RunWatch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	s, err := app.openSite(report.New(app.stdout))
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.watchFragments(ctx, s.svc, nil); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	slog.Info("Watcher stopped")
	return nil
}

// RunServe starts the preview server: the site root as static files, the
// API under /api and the fragment watcher, with live events for every
// rewritten page.
func RunServe(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := slog.Default()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	s, err := app.openSite(report.New(app.stdout),
		siteservice.WithNotifier(func(kind models.RunKind, res models.PageResult) {
			broker.PublishPageEvent(sse.PageEvent{
				Path:     res.Page.Path,
				Pass:     string(kind),
				Checksum: res.Checksum,
			})
		}),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := s.svc.Runs(1); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(s.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))
	r.Handle("/*", api.StaticHandler(s.store.Root(), app.hiddenPaths()...))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	// Re-inline on fragment changes; failures go out as run.failed.
	g.Go(func() error {
		return app.watchFragments(gCtx, s.svc, func(err error) {
			broker.Publish(sse.Event{Type: sse.EventRunFailed, Data: map[string]string{"error": err.Error()}})
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server",
			slog.String("address", cfg.App.HTTP.Address()),
			slog.String("site_root", s.store.Root()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Shut down on signal or when another goroutine fails.
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// hiddenPaths lists the non-site files that may live under the site root:
// the journal and the config file with its directory.
func (a *application) hiddenPaths() []string {
	hidden := []string{a.config.Index.Path}
	if a.configFile != "" {
		hidden = append(hidden, a.configFile, filepath.Dir(a.configFile))
	}
	return hidden
}

// RunMCP serves the passes as MCP tools over stdio. Progress lines are
// suppressed because stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	s, err := app.openSite(nil)
	if err != nil {
		return err
	}
	defer s.Close()

	slog.Info("MCP server starting", slog.String("site_root", s.store.Root()))
	if err := mcpserver.New(s.svc, app.version).ServeStdio(); err != nil {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
