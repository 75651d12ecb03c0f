package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(v decimal.Decimal) *decimal.Decimal {
	return &v
}

func TestComputeTrend(t *testing.T) {
	tests := []struct {
		name       string
		previous   *decimal.Decimal
		current    decimal.Decimal
		wantTrend  Trend
		wantChange string
	}{
		{name: "up two percent", previous: ptr(d("100")), current: d("102"), wantTrend: TrendUp, wantChange: "2"},
		{name: "half percent is stable", previous: ptr(d("100")), current: d("100.5"), wantTrend: TrendStable, wantChange: "0.5"},
		{name: "down", previous: ptr(d("100")), current: d("95"), wantTrend: TrendDown, wantChange: "-5"},
		{name: "just under band going down", previous: ptr(d("100")), current: d("99.01"), wantTrend: TrendStable, wantChange: "-0.99"},
		{name: "exactly one percent is up", previous: ptr(d("100")), current: d("101"), wantTrend: TrendUp, wantChange: "1"},
		{name: "rounds to two places", previous: ptr(d("18")), current: d("18.5"), wantTrend: TrendUp, wantChange: "2.78"},
		{name: "no previous", previous: nil, current: d("18.5"), wantTrend: TrendStable, wantChange: "0"},
		{name: "zero previous", previous: ptr(decimal.Zero), current: d("18.5"), wantTrend: TrendStable, wantChange: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend, change := ComputeTrend(tt.previous, tt.current)
			assert.Equal(t, tt.wantTrend, trend)
			assert.True(t, change.Equal(d(tt.wantChange)), "change = %s, want %s", change, tt.wantChange)
		})
	}
}

func TestValuePer100Coins(t *testing.T) {
	tests := []struct {
		name    string
		revenue string
		coins   string
		rate    string
		want    string
	}{
		{name: "south africa", revenue: "0.8", coins: "80", rate: "18.5", want: "18.5000"},
		{name: "usd identity", revenue: "1.25", coins: "250", rate: "1", want: "0.5000"},
		{name: "rounds to four places", revenue: "1", coins: "3", rate: "1", want: "33.3333"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValuePer100Coins(d(tt.revenue), d(tt.coins), d(tt.rate))
			assert.Equal(t, tt.want, got.StringFixed(4))
		})
	}
}
