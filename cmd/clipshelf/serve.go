package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/backend"
	"github.com/its-jojoo/clipshelf/internal/adapter/suggest"
	shelfserver "github.com/its-jojoo/clipshelf/internal/server"
	"github.com/its-jojoo/clipshelf/internal/usecase/reconcile"
)

func (a *app) serveCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the library as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = a.cfg.MetricsAddr
			}

			st, err := backend.Open(a.cfg, a.log)
			if err != nil {
				return err
			}
			defer st.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			lib := reconcile.New(st, reconcile.WithLogger(a.log), reconcile.WithRegisterer(reg))

			followDone := make(chan struct{})
			go func() {
				defer close(followDone)
				_ = lib.Follow(ctx, a.session())
			}()
			defer func() {
				cancel()
				<-followDone
				drain(lib, a.log)
			}()

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           metricsMux(reg),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					a.log.Info("metrics listening", "addr", metricsAddr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.log.Error("metrics server failed", "error", err)
					}
				}()
				defer func() {
					sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer scancel()
					_ = srv.Shutdown(sctx)
				}()
			}

			var s suggest.Suggester
			if oa, err := a.suggester(); err != nil {
				a.log.Warn("suggestions disabled", "error", err)
			} else {
				s = oa
			}

			return mcpserver.ServeStdio(shelfserver.New(lib, s))
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}

func metricsMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}
