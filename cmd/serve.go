package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adify/rewards/internal/api"
	"github.com/adify/rewards/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API with the valuation updater and pool scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		slog.Info("Starting "+config.AppName,
			slog.String("version", version),
			slog.String("commit", commit))

		svc, err := newServices(ctx, cfg)
		if err != nil {
			return err
		}
		defer svc.close(context.Background())

		go svc.refresher.Start(ctx)
		go svc.poolCheck.Start(ctx)

		server := api.New(cfg.API, api.Deps{
			DB:          svc.db,
			Pools:       svc.poolRepo,
			Builder:     svc.builder,
			Distributor: svc.distribute,
			Valuations:  svc.valuations,
			Refresher:   svc.refresher,
			Rates:       svc.currency,
			Metrics:     svc.metrics,
		}, version)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Listen()
		}()

		select {
		case err := <-errCh:
			stop()
			return err
		case <-ctx.Done():
		}

		slog.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", slog.Any("error", err))
		}
		slog.Info("Shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
