package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// staticRates is the last-resort rate table, keyed "FROM-TO".
var staticRates = map[string]decimal.Decimal{
	"USD-GBP": decimal.RequireFromString("0.79"),
	"USD-EUR": decimal.RequireFromString("0.92"),
	"USD-CAD": decimal.RequireFromString("1.36"),
	"USD-AUD": decimal.RequireFromString("1.52"),
	"USD-NZD": decimal.RequireFromString("1.64"),
	"USD-ZAR": decimal.RequireFromString("18.5"),
	"USD-NGN": decimal.RequireFromString("1550"),
	"USD-KES": decimal.RequireFromString("129"),
	"USD-GHS": decimal.RequireFromString("15.5"),
	"USD-EGP": decimal.RequireFromString("48.5"),
	"USD-INR": decimal.RequireFromString("83.2"),
	"USD-PHP": decimal.RequireFromString("56"),
	"USD-IDR": decimal.RequireFromString("15700"),
	"USD-JPY": decimal.RequireFromString("150"),
	"USD-BRL": decimal.RequireFromString("5.0"),
	"USD-MXN": decimal.RequireFromString("17.1"),
}

func pairKey(from, to string) string {
	return strings.ToUpper(from) + "-" + strings.ToUpper(to)
}

// StaticRate looks up the fallback table. ok is false when the pair is not tabulated.
func StaticRate(from, to string) (decimal.Decimal, bool) {
	rate, ok := staticRates[pairKey(from, to)]
	return rate, ok
}
