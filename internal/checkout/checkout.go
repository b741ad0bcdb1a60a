// Package checkout turns priced line items and a membership tier into the
// totals shown on the cart and checkout pages. It holds no state.
package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/pricing"
)

// Item is one priced line: undiscounted unit price and quantity.
type Item struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// MembershipSource supplies the tier used for discounts. On the client it is
// the cached session; on the server it is a database lookup.
type MembershipSource interface {
	CurrentMembership() membership.Tier
}

type Totals struct {
	Tier               membership.Tier        `json:"membershipType"`
	Subtotal           decimal.Decimal        `json:"subtotal"`
	MemberSubtotal     decimal.Decimal        `json:"memberSubtotal"`
	Discount           decimal.Decimal        `json:"discount"`
	ShippingMethod     pricing.ShippingMethod `json:"shippingMethod"`
	ShippingCost       decimal.Decimal        `json:"shippingCost"`
	ShippingSelectable bool                   `json:"shippingSelectable"`
	GrandTotal         decimal.Decimal        `json:"grandTotal"`
}

// ComputeTotals is safe to call on every interaction; an empty item list
// yields zero amounts plus the shipping cost for the tier.
func ComputeTotals(items []Item, tier membership.Tier, method pricing.ShippingMethod) Totals {
	tier = tier.Normalize()

	subtotal := decimal.Zero
	memberSubtotal := decimal.Zero
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		subtotal = subtotal.Add(it.UnitPrice.Mul(qty))
		memberSubtotal = memberSubtotal.Add(pricing.PriceForMember(it.UnitPrice, tier).Mul(qty))
	}

	shipMethod, shipCost := pricing.ShippingFor(tier, method)

	return Totals{
		Tier:               tier,
		Subtotal:           subtotal,
		MemberSubtotal:     memberSubtotal,
		Discount:           subtotal.Sub(memberSubtotal),
		ShippingMethod:     shipMethod,
		ShippingCost:       shipCost,
		ShippingSelectable: !pricing.ShippingWaived(tier),
		GrandTotal:         memberSubtotal.Add(shipCost),
	}
}

// ForMember reads the tier from src; a nil source is an anonymous visitor.
func ForMember(items []Item, src MembershipSource, method pricing.ShippingMethod) Totals {
	tier := membership.None
	if src != nil {
		tier = src.CurrentMembership()
	}
	return ComputeTotals(items, tier, method)
}

// Savings is what membership saved on this purchase: the discount plus the
// standard fee when shipping was waived.
func (t Totals) Savings() decimal.Decimal {
	s := t.Discount
	if pricing.ShippingWaived(t.Tier) {
		s = s.Add(pricing.ShippingFee(pricing.ShippingStandard))
	}
	return s
}

// Rounded returns the totals at cent precision for display and storage.
func (t Totals) Rounded() Totals {
	t.Subtotal = t.Subtotal.Round(2)
	t.MemberSubtotal = t.MemberSubtotal.Round(2)
	t.ShippingCost = t.ShippingCost.Round(2)
	t.GrandTotal = t.GrandTotal.Round(2)
	t.Discount = t.Subtotal.Sub(t.MemberSubtotal)
	return t
}
