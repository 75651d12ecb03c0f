package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/adify/rewards/internal/config"
)

var (
	rateBase      string
	rateTarget    string
	rateValue     string
	rateEffective string
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Manage persisted exchange rates",
}

var ratesSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Record an exchange rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := decimal.NewFromString(rateValue)
		if err != nil {
			return fmt.Errorf("invalid --rate %q: %w", rateValue, err)
		}
		var effective time.Time
		if rateEffective != "" {
			if effective, err = time.Parse(time.DateOnly, rateEffective); err != nil {
				return fmt.Errorf("invalid --effective %q: %w", rateEffective, err)
			}
		}

		ctx := cmd.Context()
		svc, err := newServices(ctx, cfg)
		if err != nil {
			return err
		}
		defer svc.close(ctx)

		rate, err := svc.currency.RecordRate(ctx, rateBase, rateTarget, value, effective)
		if err != nil {
			return err
		}
		return printJSON(rate)
	},
}

func init() {
	ratesSetCmd.Flags().StringVar(&rateBase, "base", config.SettlementCurrency, "base currency")
	ratesSetCmd.Flags().StringVar(&rateTarget, "target", "", "target currency")
	ratesSetCmd.Flags().StringVar(&rateValue, "rate", "", "units of target per one base")
	ratesSetCmd.Flags().StringVar(&rateEffective, "effective", "", "effective date (YYYY-MM-DD, default today)")
	_ = ratesSetCmd.MarkFlagRequired("target")
	_ = ratesSetCmd.MarkFlagRequired("rate")
	ratesCmd.AddCommand(ratesSetCmd)
	rootCmd.AddCommand(ratesCmd)
}
