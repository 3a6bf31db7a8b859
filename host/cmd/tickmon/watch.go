package main

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"avrtick/host/monitor"
	"avrtick/host/serial"
)

func watchCmd() *cobra.Command {
	var (
		metricsAddr string
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream clock reports and print drift",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}

			cfg := serial.DefaultConfig(device)
			cfg.Baud = baud
			port, err := serial.Open(cfg)
			if err != nil {
				return err
			}
			defer port.Close()
			if err := port.Flush(); err != nil {
				logger.Warn("failed to flush serial input", "error", err)
			}

			mon := monitor.New(monitor.Options{
				Logger: logger,
				OnSample: func(s monitor.Sample) {
					if quiet {
						return
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s seq=%-2d ms=%-10d us=%-10d drift=%+.1fppm pending=%d dropped=%d\n",
						s.HostTime.Format(time.TimeOnly), s.Report.Seq, s.Report.Millis, s.Report.Micros,
						s.DriftPPM, s.Report.Pending, s.Report.Dropped)
				},
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				srv, err := serveMetrics(metricsAddr, mon.Metrics(), logger)
				if err != nil {
					return err
				}
				defer srv.Shutdown(context.Background())
			}

			logger.Info("watching", "device", cfg.Device, "baud", cfg.Baud)
			err = mon.Run(ctx, port)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9110)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print samples")

	return cmd
}

func serveMetrics(addr string, metrics *monitor.Metrics, logger *slog.Logger) (*http.Server, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(metrics); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	return srv, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
