// Package pricing holds the one table that decides what a member pays: store
// discount per tier, who ships for free, shipping fees and plan prices.
// Every view and handler asks this package instead of keeping its own copy.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/money"
)

var ErrUnknownShippingMethod = errors.New("unknown shipping method")

// Rule is the store benefit attached to a tier.
type Rule struct {
	DiscountRate   decimal.Decimal `json:"discountRate"`
	ShippingWaived bool            `json:"shippingWaived"`
}

var rules = map[membership.Tier]Rule{
	membership.None:      {DiscountRate: decimal.Zero, ShippingWaived: false},
	membership.Monthly:   {DiscountRate: money.Percent(10), ShippingWaived: false},
	membership.Quarterly: {DiscountRate: money.Percent(15), ShippingWaived: true},
	membership.Annual:    {DiscountRate: money.Percent(20), ShippingWaived: true},
}

// RuleFor never fails: unknown or empty tiers get the None rule.
func RuleFor(t membership.Tier) Rule {
	return rules[t.Normalize()]
}

func DiscountRate(t membership.Tier) decimal.Decimal {
	return RuleFor(t).DiscountRate
}

func ShippingWaived(t membership.Tier) bool {
	return RuleFor(t).ShippingWaived
}

// PriceForMember returns basePrice * (1 - rate(tier)), unrounded.
func PriceForMember(basePrice decimal.Decimal, t membership.Tier) decimal.Decimal {
	return basePrice.Mul(decimal.NewFromInt(1).Sub(DiscountRate(t)))
}

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	ShippingFree     ShippingMethod = "free"
)

var shippingFees = map[ShippingMethod]decimal.Decimal{
	ShippingStandard: money.MustParse("15.90"),
	ShippingExpress:  money.MustParse("29.90"),
	ShippingFree:     decimal.Zero,
}

// ParseShippingMethod accepts the selectable methods. An empty value means
// standard, which is what the checkout form starts with.
func ParseShippingMethod(s string) (ShippingMethod, error) {
	m := ShippingMethod(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ShippingStandard, nil
	}
	if _, ok := shippingFees[m]; !ok {
		return "", ErrUnknownShippingMethod
	}
	return m, nil
}

// ShippingFee is the flat fee of a method; unknown methods cost standard.
func ShippingFee(m ShippingMethod) decimal.Decimal {
	fee, ok := shippingFees[m]
	if !ok {
		return shippingFees[ShippingStandard]
	}
	return fee
}

// ShippingFor resolves the method a tier actually ships with and its cost.
func ShippingFor(t membership.Tier, selected ShippingMethod) (ShippingMethod, decimal.Decimal) {
	if ShippingWaived(t) {
		return ShippingFree, decimal.Zero
	}
	if selected == ShippingFree || selected == "" {
		selected = ShippingStandard
	}
	return selected, ShippingFee(selected)
}
