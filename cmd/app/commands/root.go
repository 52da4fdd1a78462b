package commands

import (
	"fmt"
	"log/slog"
	"os"

	"minecalc/internal/infra"

	"github.com/spf13/cobra"
)

const Version = "1.0.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "minecalc",
	Short: "Bitcoin mining profitability calculator",
	Long: `minecalc estimates the daily, monthly and yearly economics of a mining rig
from its hash rate, power draw, electricity price and hardware investment,
priced against live network statistics.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", infra.DefaultConfigPath, "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate("minecalc {{.Version}}\n")
}

// cliLogger keeps one-shot commands quiet on stderr unless --verbose is set.
func cliLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
