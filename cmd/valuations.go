package cmd

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adify/rewards/internal/config"
)

var valuationsCmd = &cobra.Command{
	Use:   "valuations",
	Short: "Inspect and refresh coin valuations",
}

var refreshCountry string

var valuationsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute and store coin valuations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.ValuationRefreshTimeout)
		defer cancel()

		svc, err := newServices(ctx, cfg)
		if err != nil {
			return err
		}
		defer svc.close(context.Background())

		if refreshCountry != "" {
			v, err := svc.valuations.Refresh(ctx, strings.ToUpper(refreshCountry), time.Now())
			if err != nil {
				return err
			}
			return printJSON(v)
		}

		stored, err := svc.refresher.RunOnce(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]int{"updated": stored})
	},
}

var valuationsShowCmd = &cobra.Command{
	Use:   "show [country]",
	Short: "Print the latest valuation for one country, or all stored valuations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := newServices(ctx, cfg)
		if err != nil {
			return err
		}
		defer svc.close(context.Background())

		if len(args) == 1 {
			v, err := svc.valuations.Latest(ctx, args[0], time.Now())
			if err != nil {
				return err
			}
			return printJSON(v)
		}

		all, err := svc.valuations.All(ctx)
		if err != nil {
			return err
		}
		return printJSON(all)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	valuationsRefreshCmd.Flags().StringVar(&refreshCountry, "country", "", "refresh a single country (ISO alpha-2)")
	valuationsCmd.AddCommand(valuationsRefreshCmd, valuationsShowCmd)
	rootCmd.AddCommand(valuationsCmd)
}
