package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubescout/app/api"
	"tubescout/app/browser"
	"tubescout/app/cache"
	"tubescout/app/cfg"
	"tubescout/app/database"
	"tubescout/app/scrape"
)

// sessionSource adapts the browser manager to the provider interface the
// scrape pipelines consume.
type sessionSource struct {
	manager *browser.Manager
}

func (s *sessionSource) Acquire(ctx context.Context) (scrape.Session, error) {
	session, err := s.manager.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting TubeScout server", "version", appCfg.Version, "environment", appCfg.Environment)

	store := cache.NewCache(appCfg.RedisAddr)
	defer store.Close()

	db, err := database.NewConnection(appCfg.HistoryDBPath)
	if err != nil {
		slog.Error("Failed to open history database", "path", appCfg.HistoryDBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("History database ready", "path", appCfg.HistoryDBPath, "schema_version", version, "dirty", dirty)

	searchRepo := database.NewSearchRepository(db)

	selectors, err := scrape.LoadSelectors()
	if err != nil {
		slog.Error("Failed to load selector profile", "error", err)
		os.Exit(1)
	}
	slog.Info("Selector profile loaded", "version", selectors.Version)

	sessions := &sessionSource{manager: browser.NewManager()}
	pipeline := scrape.NewPipeline(sessions, store, selectors)

	handler := api.NewHandler(pipeline, searchRepo, store, selectors.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:    ":" + appCfg.Port,
		Handler: server,
		// Searches render pages, so write timeouts must cover a full scrape run.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		slog.Info("Endpoints available",
			"youtube", fmt.Sprintf("POST http://localhost:%s/youtube", appCfg.Port),
			"instagram", fmt.Sprintf("POST http://localhost:%s/instagram", appCfg.Port),
			"health", fmt.Sprintf("GET http://localhost:%s/health", appCfg.Port))
		if appCfg.APIAccessKey == "" {
			slog.Info("History API disabled (API_ACCESS_KEY not set)")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
