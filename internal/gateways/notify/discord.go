package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/webhook"

	"github.com/adify/rewards/internal/config"
	"github.com/adify/rewards/internal/domain/pools"
	"github.com/adify/rewards/internal/domain/valuation"
	"github.com/adify/rewards/internal/gateways/database/models"
)

const (
	colorInfo    = 0x2b2d31
	colorSuccess = 0x57f287
	colorWarning = 0xfee75c
)

// Notifier posts operator summaries to a Discord webhook.
// Delivery failures are logged and never reach the caller.
type Notifier struct {
	send   func(discord.WebhookMessageCreate) error
	closer func(context.Context)
}

// NewDiscordNotifier returns nil when no webhook URL is configured.
func NewDiscordNotifier(cfg config.NotifyConfig) (*Notifier, error) {
	if cfg.DiscordWebhookURL == "" {
		return nil, nil
	}

	client, err := webhook.NewWithURL(cfg.DiscordWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord webhook client: %w", err)
	}

	return &Notifier{
		send: func(msg discord.WebhookMessageCreate) error {
			_, err := client.CreateMessage(msg)
			return err
		},
		closer: client.Close,
	}, nil
}

func (n *Notifier) Close(ctx context.Context) {
	if n != nil && n.closer != nil {
		n.closer(ctx)
	}
}

func (n *Notifier) ValuationStored(*valuation.Valuation) {}

func (n *Notifier) RefreshCompleted(report valuation.RefreshReport) {
	n.post("valuation refresh", refreshEmbed(report))
}

func (n *Notifier) PoolsBuilt(result *pools.BuildResult) {
	n.post("pools built", buildEmbed(result))
}

func (n *Notifier) PoolDistributed(pool *models.RevenuePool, result *pools.DistributionResult) {
	n.post("pool distributed", distributionEmbed(pool, result))
}

func (n *Notifier) post(event string, embed discord.Embed) {
	if n == nil || n.send == nil {
		return
	}
	err := n.send(discord.WebhookMessageCreate{
		Username: config.AppName,
		Embeds:   []discord.Embed{embed},
	})
	if err != nil {
		slog.Error("Failed to send discord notification",
			slog.String("type", "sys"),
			slog.String("event", event),
			slog.Any("error", err))
	}
}

func refreshEmbed(report valuation.RefreshReport) discord.Embed {
	color := colorSuccess
	if len(report.Failed) > 0 {
		color = colorWarning
	}

	b := discord.NewEmbedBuilder().
		SetTitle("Coin valuations refreshed").
		SetDescription(fmt.Sprintf("Stored %d of %d country valuations in %s.",
			report.Stored, report.Countries, report.Took.Round(time.Millisecond))).
		SetColor(color)
	if len(report.Failed) > 0 {
		b.AddField("Failed", strings.Join(report.Failed, ", "), false)
	}
	return b.Build()
}

func buildEmbed(result *pools.BuildResult) discord.Embed {
	b := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("Revenue pools for %s", result.Month)).
		SetDescription(fmt.Sprintf("Created %d pools, skipped %d existing.",
			len(result.Created), len(result.Skipped))).
		SetColor(colorInfo)

	for _, p := range result.Created {
		b.AddField(p.CountryCode,
			fmt.Sprintf("Revenue %s %s\nUser share %s\nCoins %s",
				p.TotalRevenue.StringFixed(2), config.SettlementCurrency,
				p.UserShare.StringFixed(2), p.TotalCoins.String()),
			true)
	}
	return b.Build()
}

func distributionEmbed(pool *models.RevenuePool, result *pools.DistributionResult) discord.Embed {
	color := colorSuccess
	title := fmt.Sprintf("Pool #%d distributed", pool.ID)
	if !result.Completed {
		color = colorWarning
		title = fmt.Sprintf("Pool #%d partially distributed", pool.ID)
	}

	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(fmt.Sprintf("%s %s", pool.CountryCode, pool.Month)).
		SetColor(color).
		AddField("Users settled", fmt.Sprintf("%d", result.UsersSettled), true).
		AddField("Already settled", fmt.Sprintf("%d", result.UsersAlreadySettled), true).
		AddField("Remaining", fmt.Sprintf("%d", result.UsersRemaining), true).
		AddField("Cash", fmt.Sprintf("%s %s", result.CashDistributed.StringFixed(2), config.SettlementCurrency), true).
		AddField("Local rate", fmt.Sprintf("%s %s (%s)", result.ExchangeRate.String(), result.LocalCurrency, result.RateSource), true).
		Build()
}
