package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/archivepulse/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve trend analyses over an HTTP JSON API",
	Long: `Start an HTTP server exposing the pipeline.

Endpoints:
  GET /api/health
  GET /api/trend?url=...&fill=...&policy=...&as_of=...
  GET /api/summary?url=...
  GET /api/narrative?url=...
  GET /metrics

Flags and config values act as defaults that each request can override.

Examples:
  archivepulse serve --addr :8080 --cache-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.ListenAndServe(ctx, cfg.Addr, server.New(cfg, cacheManager, version))
	},
}
