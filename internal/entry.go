// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/maribelle/cosgo/internal/api"
	"github.com/maribelle/cosgo/internal/cosense"
	"github.com/maribelle/cosgo/internal/markdown"
	"github.com/maribelle/cosgo/internal/mcpserver"
	"github.com/maribelle/cosgo/internal/pageservice"
)

func buildService(cfg *Config) *pageservice.Service {
	client := cosense.New(cfg.Cosense.BaseURL, cfg.Cosense.SID)
	return pageservice.NewService(client, markdown.Passthrough{})
}

func initLogger(cfg *Config, w *os.File) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// RunMCP starts the MCP server on stdin/stdout. Logs go to stderr so
// the stdio transport stays clean.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := initLogger(cfg, os.Stderr)
	logger.Info("Configuration loaded",
		slog.String("project", cfg.Cosense.Project),
		slog.String("base_url", cfg.Cosense.BaseURL),
		slog.Bool("authenticated", cfg.Cosense.SID != ""),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc := buildService(cfg)
	srv := mcpserver.New(svc, mcpserver.Config{
		Project:              cfg.Cosense.Project,
		ServiceLabel:         cfg.Cosense.ServiceLabel,
		ToolSuffix:           cfg.Cosense.ToolSuffix,
		PageLimit:            cfg.Cosense.PageLimit,
		SortMethod:           cfg.Cosense.SortMethod,
		ExcludePinned:        cfg.Cosense.ExcludePinned,
		ConvertNumberedLists: cfg.Markdown.ConvertNumberedLists,
	})

	// Pre-fetch the page resources before the transport comes up.
	if err := srv.BootstrapResources(ctx); err != nil {
		logger.Warn("resource bootstrap failed", slog.String("error", err.Error()))
	}

	logger.Info("MCP server starting on stdio", slog.String("project", cfg.Cosense.Project))
	return srv.ServeStdio()
}

// Run starts the REST facade with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := initLogger(cfg, os.Stdout)
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("project", cfg.Cosense.Project),
		slog.String("base_url", cfg.Cosense.BaseURL),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc := buildService(cfg)
	apiRouter := api.NewRouter(svc, cfg.Cosense.Project, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

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
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

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
