package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmagro/evm-tx-analyzer/internal/analyzer"
	"github.com/dmagro/evm-tx-analyzer/internal/i18n"
	"github.com/dmagro/evm-tx-analyzer/internal/server"
)

func serveCmd(global *globalOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer as a web page and JSON API",
		Long: `Start an HTTP server with:
  GET /              form for endpoint URL and transaction hash
  GET /analyze       rendered analysis (?rpc= or ?endpoint=, ?hash=, ?lang=)
  GET /api/analyze   the same analysis as JSON
  GET /metrics       Prometheus metrics (server.metrics)
  GET /health        liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			log, err := global.logger(cfg)
			if err != nil {
				return err
			}
			catalog, err := i18n.Load()
			if err != nil {
				return err
			}

			addr := cfg.Server.Listen
			if listen != "" {
				addr = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := analyzer.New(analyzer.OptionsFromConfig(cfg.Defaults), log)
			return server.New(cfg, a, catalog, log).Start(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default: server.listen)")
	return cmd
}
