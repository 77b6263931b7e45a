package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jadabouassaly/PDF-Splitting/internal/config"
	"github.com/jadabouassaly/PDF-Splitting/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pdfsplit server",
	Long: `Start the pdfsplit HTTP server.

The server accepts multipart PDF uploads and returns either the split
archive or a grouping report:
  - POST /api/split/call-list    - zip of call lists, one per depot
  - POST /api/split/group-list   - zip of group lists, one per shipping point
  - POST /api/report/call-list   - grouping report as JSON, no archive
  - POST /api/report/group-list  - grouping report as JSON, no archive
  - GET  /health                 - server health check

Examples:
  pdfsplit serve                 # Start on default port 8080
  pdfsplit serve --port 3000     # Start on custom port
  pdfsplit serve --host 0.0.0.0  # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()
		cfg := cfgMgr.Get()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		}))

		host := serveHost
		if host == "" {
			host = cfg.Server.Host
		}
		port := servePort
		if port == "" {
			port = cfg.Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: cfgMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: from config)")

	rootCmd.AddCommand(serveCmd)
}
