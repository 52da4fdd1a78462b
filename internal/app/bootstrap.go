package app

import (
	"context"
	"log/slog"
	"time"

	"minecalc/internal/api"
	"minecalc/internal/infra"
	"minecalc/internal/service"

	"golang.org/x/sync/errgroup"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Metrics *infra.Metrics
	Fetcher *infra.NetworkStatsClient
	Service *service.ProfitabilityService
	Server  *api.Server
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration and builds every component.
// A non-zero port overrides the configured one.
func (b *Bootstrap) Initialize(configPath string, port int) error {
	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	if port > 0 {
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	b.Config = cfg

	// 2. Setup Logger
	slog.SetDefault(infra.NewLogger(cfg))
	slog.Info("🚀 Bootstrapping minecalc...", slog.String("version", cfg.App.Version))

	// 3. Metrics and network fetcher
	b.Metrics = infra.NewMetrics()
	b.Fetcher = infra.NewNetworkStatsClient(cfg, b.Metrics)
	slog.Info("✅ Network stats client ready",
		slog.String("url", cfg.Network.StatsURL),
		slog.String("block_reward_source", cfg.Network.BlockRewardSource),
	)

	// 4. Service and HTTP server
	b.Service = service.NewProfitabilityService(b.Fetcher, b.Metrics)
	b.Server = api.NewServer(cfg, b.Service, b.Metrics)
	slog.Info("✅ HTTP server configured", slog.String("addr", cfg.Addr()))

	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (b *Bootstrap) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(b.Server.Start)

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("👋 Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), b.shutdownTimeout())
		defer cancel()
		return b.Server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("✓ Server exited cleanly")
	return nil
}

func (b *Bootstrap) shutdownTimeout() time.Duration {
	if d := b.Config.ShutdownTimeout(); d > 0 {
		return d
	}
	return 10 * time.Second
}
