package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/graft/internal/cli"
	httpAdapter "github.com/aretw0/graft/pkg/adapters/http"
	"github.com/aretw0/graft/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP inspector",
	Long: `Serves containers over HTTP: open a container, POST trees to it and read back
the committed snapshot, outline or a live stream of commits. Prometheus metrics are
exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := cfg.HTTP.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		reg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(reg)

		ws, closeStore, err := newWorkspace(cfg, metrics.Hooks(), observability.LogHooks(logger))
		if err != nil {
			return err
		}
		defer closeStore()

		r := chi.NewRouter()
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		r.Mount("/", httpAdapter.NewHandler(ws, httpAdapter.WithLogger(logger)))

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		shutdown := cli.OnSignal(context.Background())
		defer shutdown.Stop()

		logger.Info("Starting Graft Server", "address", srv.Addr, "store", cfg.Store.Driver)
		if err := shutdown.Serve(srv, 5*time.Second, logger); err != nil {
			return err
		}
		logger.Info("Graft Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides GRAFT_HTTP_PORT)")
}
