package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/logger"
)

var (
	version = "dev"
	commit  = "unknown"

	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "adify-rewards",
	Short:         "Coin valuation and revenue pool distribution for Adify",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		setupLogger(cfg.Log)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", slog.String("type", "error"), slog.Any("error", err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.toml", "path to config")
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s {{.Version}} (%s)\n", config.AppName, commit))
}

func setupLogger(c config.LogConfig) {
	var handler slog.Handler
	if c.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.Level, AddSource: c.AddSource})
	} else {
		handler = logger.NewHandler("Adify", logger.WithLevel(c.Level))
	}
	slog.SetDefault(slog.New(handler))
}
