package currency

import "strings"

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

var USD = Currency{Code: "USD", Symbol: "$"}

var countryCurrencies = map[string]Currency{
	"US": USD,
	"GB": {Code: "GBP", Symbol: "£"},
	"IE": {Code: "EUR", Symbol: "€"},
	"DE": {Code: "EUR", Symbol: "€"},
	"FR": {Code: "EUR", Symbol: "€"},
	"ES": {Code: "EUR", Symbol: "€"},
	"IT": {Code: "EUR", Symbol: "€"},
	"NL": {Code: "EUR", Symbol: "€"},
	"PT": {Code: "EUR", Symbol: "€"},
	"CA": {Code: "CAD", Symbol: "C$"},
	"AU": {Code: "AUD", Symbol: "A$"},
	"NZ": {Code: "NZD", Symbol: "NZ$"},
	"ZA": {Code: "ZAR", Symbol: "R"},
	"NG": {Code: "NGN", Symbol: "₦"},
	"KE": {Code: "KES", Symbol: "KSh"},
	"GH": {Code: "GHS", Symbol: "₵"},
	"EG": {Code: "EGP", Symbol: "E£"},
	"IN": {Code: "INR", Symbol: "₹"},
	"PH": {Code: "PHP", Symbol: "₱"},
	"ID": {Code: "IDR", Symbol: "Rp"},
	"JP": {Code: "JPY", Symbol: "¥"},
	"BR": {Code: "BRL", Symbol: "R$"},
	"MX": {Code: "MXN", Symbol: "Mex$"},
}

// ForCountry maps an ISO country code to its currency. Unknown countries settle in USD.
func ForCountry(country string) Currency {
	if c, ok := countryCurrencies[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return c
	}
	return USD
}
