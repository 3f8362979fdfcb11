// Package main provides the entry point for the multi-CURIE query API
// server.
//
// The server answers TRAPI /query requests that ask "which concepts are most
// similar to this set of member terms", backed by the upstream Monarch
// semantic-similarity search service.
//
// Usage:
//
//	go run ./cmd/api
//
// Environment variables are documented in internal/config.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/monarch-initiative/semsim-mcq/internal/api"
	"github.com/monarch-initiative/semsim-mcq/internal/config"
	"github.com/monarch-initiative/semsim-mcq/internal/querylog"
	"github.com/monarch-initiative/semsim-mcq/internal/similarity"
)

func main() {
	cfg := config.MustLoad()

	queryLogs := querylog.NewStore()
	logger := config.NewLogger(
		string(cfg.App.Environment), cfg.App.LogLevel, cfg.App.LogFilePath,
		cfg.App.LogMaxSizeMB, cfg.App.LogMaxBackups, cfg.App.LogMaxAgeDays,
	).WithQueryLogStore(queryLogs)

	cfg.LogConfig(logger.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	simClient := similarity.NewClient(cfg.Similarity, similarity.WithLogger(logger.Logger))
	server := api.NewServer(cfg, logger, simClient, queryLogs)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	case err := <-errCh:
		logger.Error("server error", "error", err)
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("API server stopped")
}
