package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paw-chain/zkmarket/api"
	"github.com/paw-chain/zkmarket/api/health"
	"github.com/paw-chain/zkmarket/app"
	"github.com/paw-chain/zkmarket/app/telemetry"
	"github.com/paw-chain/zkmarket/client"
)

const shutdownTimeout = 10 * time.Second

// StartCmd runs the node: it applies genesis on first start and serves the
// REST API and Prometheus metrics until interrupted.
func StartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the marketplace node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, _ := cmd.Flags().GetString(client.FlagHome)
			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			return runNode(cmd.Context(), home, cfg)
		},
	}
}

func runNode(ctx context.Context, home string, cfg app.Config) error {
	logger := cfg.NewLogger()

	tp, err := telemetry.NewProvider(telemetry.Config{
		Enabled:           cfg.Telemetry.TracingEnabled,
		OTLPEndpoint:      cfg.Telemetry.OTLPEndpoint,
		SampleRate:        cfg.Telemetry.SampleRate,
		Environment:       cfg.Telemetry.Environment,
		NodeID:            home,
		PrometheusEnabled: cfg.Telemetry.PrometheusEnabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "err", err)
		}
	}()

	recorder, err := telemetry.NewOperationRecorder(tp.Meter())
	if err != nil {
		return err
	}

	a, err := client.OpenApp(cfg, logger,
		app.WithTracer(tp.Tracer()),
		app.WithOperationRecorder(recorder),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close database", "err", err)
		}
	}()

	if err := client.InitChainIfNeeded(ctx, a, home); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.API.Enable {
		server := api.NewServer(a, api.NewConfig(cfg.API), logger)
		server.Health().RegisterCheck("telemetry", health.DependencyCheck("telemetry", func(context.Context) (bool, error) {
			return true, tp.HealthCheck()
		}))
		g.Go(func() error { return server.Start(gctx) })
	}

	if cfg.Telemetry.PrometheusEnabled {
		g.Go(func() error { return serveMetrics(gctx, cfg.Telemetry.MetricsAddress, cfg.API.CORSOrigins, logger) })
	}

	logger.Info("node started", "home", home, "api", cfg.API.Enable, "metrics", cfg.Telemetry.PrometheusEnabled)
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	err = g.Wait()
	logger.Info("node stopped")
	return err
}
