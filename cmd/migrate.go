package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/adify/rewards/internal/gateways/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables, indexes and unique constraints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			slog.Error("Failed to connect to database", slog.Any("error", err))
			return err
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			slog.Error("Migration failed", slog.Any("error", err))
			return err
		}

		v, err := db.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		slog.Info("Migration completed successfully", slog.Int("schema_version", v))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
