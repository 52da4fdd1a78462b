package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"minecalc/internal/app"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP calculator service",
	Long: `Start the HTTP service exposing /calculate, /network, /health, /metrics
and the /ws/calculate websocket stream.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(cfgFile, port); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.InfoContext(ctx, "✨ minecalc fully operational. Press Ctrl+C to exit.")
	return bootstrap.Run(ctx)
}
