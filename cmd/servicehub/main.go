package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container; HTTPS probes need them.

	"github.com/ericfisherdev/servicehub/internal/adapter/driven/probe"
	httphandler "github.com/ericfisherdev/servicehub/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/servicehub/internal/adapter/driving/web"
	"github.com/ericfisherdev/servicehub/internal/application"
	"github.com/ericfisherdev/servicehub/internal/config"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
	"github.com/ericfisherdev/servicehub/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"store", cfg.Store,
		"data_dir", cfg.DataDir,
		"db_path", cfg.DBPath,
		"poll_interval", cfg.PollInterval,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the document store (JSON files or SQLite, seeded from JSON).
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := backend.Close(); closeErr != nil {
			slog.Error("error closing store", "error", closeErr)
		}
	}()

	// 4. Wire application services.
	categorySvc := application.NewCategoryService(backend.Store)
	catalog := application.NewServiceCatalog(backend.Store)

	if _, err := catalog.EnsureIDs(ctx); err != nil {
		return err
	}

	// 5. Create and start the status poller.
	statusSvc := application.NewStatusService(
		probe.NewHTTPProber(cfg.ProbeTimeout),
		backend.Store,
		application.StatusOptions{
			Interval:         cfg.PollInterval,
			Concurrency:      cfg.ProbeConcurrency,
			SkipCategories:   cfg.SkipCategories,
			SkipNameKeywords: cfg.SkipNameKeywords,
		},
	)
	go statusSvc.Start(ctx)

	// 5b. Re-probe when the documents are edited outside the app.
	if backend.Watcher != nil {
		go func() {
			err := backend.Watcher.Watch(ctx, onDocumentChange(ctx, catalog, statusSvc))
			if err != nil {
				slog.Warn("document watcher stopped", "error", err)
			}
		}()
	}

	// 6. Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(categorySvc, catalog, statusSvc, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	// 7. Create web handler and register GUI routes.
	webHandler := webhandler.NewHandler(categorySvc, catalog, statusSvc, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("servicehub started",
		"listen_addr", cfg.ListenAddr,
		"store", cfg.Store,
		"poll_interval", cfg.PollInterval,
	)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

type idAssigner interface {
	EnsureIDs(ctx context.Context) (int, error)
}

type refresher interface {
	TriggerRefresh()
}

// onDocumentChange returns the watcher callback. A hand-edited services
// document gets ids for new entries, then any change schedules a re-probe.
// The id write fires the watcher again, but finds nothing left to assign.
func onDocumentChange(ctx context.Context, ids idAssigner, status refresher) func(document string) {
	return func(document string) {
		slog.Info("document edited externally", "document", document)

		if document == driven.DocumentServices {
			if _, err := ids.EnsureIDs(ctx); err != nil {
				slog.Error("failed to assign service ids", "error", err)
			}
		}
		status.TriggerRefresh()
	}
}
