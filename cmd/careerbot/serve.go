package main

import (
	"os"

	"github.com/aretw0/careerbot"
	"github.com/aretw0/careerbot/internal/cli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the bot over HTTP: POST /api/messages runs a turn, GET and DELETE
/api/conversations/{id} inspect and reset a conversation, and
/api/conversations/{id}/events streams turns as server-sent events.
Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, map[string]string{"port": "http.port", "cors-origin": "http.cors_origins"}, os.Stderr)
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		rt, err := cli.Build(sigCtx, cfg, logger, reg)
		if err != nil {
			return err
		}
		defer rt.Close()

		handler, err := cli.NewHTTPHandler(rt, cfg.HTTP, logger, reg, careerbot.Version)
		if err != nil {
			return err
		}
		return cli.RunServe(sigCtx, handler, cfg.HTTP.Port, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 3978, "Port to listen on")
	serveCmd.Flags().StringSlice("cors-origin", nil, "Allowed browser origin (repeatable)")
}
