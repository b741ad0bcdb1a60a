package money

import (
	"github.com/shopspring/decimal"
)

// Prices travel as plain JSON numbers (e.g. 15.9), not quoted strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

var hundred = decimal.NewFromInt(100)

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent turns 15 into 0.15.
func Percent(p int64) decimal.Decimal {
	return decimal.NewFromInt(p).Div(hundred)
}

// Format renders an amount the way the storefront shows it: "R$ 155.90".
func Format(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
