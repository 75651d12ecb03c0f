package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/domain/pools"
	"github.com/adify/rewards/internal/domain/valuation"
	"github.com/adify/rewards/internal/gateways/database/models"
)

func newCapturingNotifier(err error) (*Notifier, *[]discord.WebhookMessageCreate) {
	var sent []discord.WebhookMessageCreate
	return &Notifier{
		send: func(msg discord.WebhookMessageCreate) error {
			sent = append(sent, msg)
			return err
		},
	}, &sent
}

func TestNewDiscordNotifier_Disabled(t *testing.T) {
	n, err := NewDiscordNotifier(config.NotifyConfig{})
	require.NoError(t, err)
	assert.Nil(t, n)

	// A nil notifier is a valid no-op observer.
	n.RefreshCompleted(valuation.RefreshReport{})
	n.PoolsBuilt(&pools.BuildResult{})
}

func TestNotifier_PoolDistributed(t *testing.T) {
	n, sent := newCapturingNotifier(nil)

	pool := &models.RevenuePool{ID: 7, Month: "2024-01", CountryCode: "ZA"}
	n.PoolDistributed(pool, &pools.DistributionResult{
		Completed:       false,
		UsersSettled:    3,
		UsersRemaining:  2,
		CashDistributed: decimal.RequireFromString("6.5"),
		LocalCurrency:   "ZAR",
		ExchangeRate:    decimal.RequireFromString("18.5"),
	})

	require.Len(t, *sent, 1)
	msg := (*sent)[0]
	assert.Equal(t, config.AppName, msg.Username)
	require.Len(t, msg.Embeds, 1)
	embed := msg.Embeds[0]
	assert.Equal(t, "Pool #7 partially distributed", embed.Title)
	assert.Equal(t, colorWarning, embed.Color)
	require.Len(t, embed.Fields, 5)
	assert.Equal(t, "6.50 USD", embed.Fields[3].Value)
}

func TestNotifier_RefreshAndBuild(t *testing.T) {
	n, sent := newCapturingNotifier(errors.New("webhook down"))

	n.RefreshCompleted(valuation.RefreshReport{Countries: 3, Stored: 2, Failed: []string{"NG"}, Took: 2 * time.Second})
	n.PoolsBuilt(&pools.BuildResult{
		Month: "2024-01",
		Created: []*models.RevenuePool{{
			CountryCode:  "ZA",
			TotalRevenue: decimal.RequireFromString("10"),
			UserShare:    decimal.RequireFromString("8.5"),
			TotalCoins:   decimal.RequireFromString("5000"),
		}},
		Skipped: []string{"NG"},
	})

	require.Len(t, *sent, 2)
	refresh := (*sent)[0].Embeds[0]
	assert.Contains(t, refresh.Description, "Stored 2 of 3")
	assert.Equal(t, "NG", refresh.Fields[0].Value)

	build := (*sent)[1].Embeds[0]
	assert.Equal(t, "Revenue pools for 2024-01", build.Title)
	assert.Equal(t, "ZA", build.Fields[0].Name)
}
