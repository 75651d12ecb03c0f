package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/domain/pools"
)

var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "Build, list and distribute monthly revenue pools",
}

var (
	poolMonth string
	poolID    int64
)

var poolsBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Create the revenue pools for a month (default: previous month)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.PoolBuildTimeout)
		defer cancel()

		svc, err := newServices(ctx, cfg)
		if err != nil {
			return err
		}
		defer svc.close(context.Background())

		month := poolMonth
		if month == "" {
			month = pools.PreviousMonth(time.Now())
		}
		result, err := svc.builder.BuildMonthlyPools(ctx, month)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var poolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List revenue pools",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newServices(ctx, cfg)
		if err != nil {
			return err
		}
		defer svc.close(context.Background())

		list, err := svc.poolRepo.ListPools(ctx, poolMonth)
		if err != nil {
			return err
		}
		return printJSON(list)
	},
}

var poolsDistributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Credit users from a revenue pool; rerun to resume a partial run",
	RunE: func(cmd *cobra.Command, args []string) error {
		if poolID <= 0 {
			return errors.New("--id is required")
		}
		ctx := cmd.Context()
		svc, err := newServices(ctx, cfg)
		if err != nil {
			return err
		}
		defer svc.close(context.Background())

		result, err := svc.distribute.Distribute(ctx, poolID)
		if errors.Is(err, pools.ErrDistributionIncomplete) {
			slog.Warn("Distribution paused, run again to resume",
				slog.Int64("pool_id", poolID),
				slog.Int("remaining", result.UsersRemaining))
			return printJSON(result)
		}
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	poolsBuildCmd.Flags().StringVar(&poolMonth, "month", "", "month to build (YYYY-MM)")
	poolsListCmd.Flags().StringVar(&poolMonth, "month", "", "only pools for this month (YYYY-MM)")
	poolsDistributeCmd.Flags().Int64Var(&poolID, "id", 0, "revenue pool id")
	poolsCmd.AddCommand(poolsBuildCmd, poolsListCmd, poolsDistributeCmd)
	rootCmd.AddCommand(poolsCmd)
}
