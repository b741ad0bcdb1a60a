package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s got %s", msg, want, got)
}

type fixedTier membership.Tier

func (f fixedTier) CurrentMembership() membership.Tier { return membership.Tier(f) }

func TestQuarterlyScenario(t *testing.T) {
	items := []Item{{UnitPrice: dec("100"), Quantity: 2}}

	got := ComputeTotals(items, membership.Quarterly, pricing.ShippingStandard)

	assertDec(t, "200", got.Subtotal, "subtotal")
	assertDec(t, "30", got.Discount, "discount")
	assertDec(t, "170", got.MemberSubtotal, "member subtotal")
	assertDec(t, "0", got.ShippingCost, "shipping")
	assertDec(t, "170", got.GrandTotal, "grand total")
	assert.Equal(t, pricing.ShippingFree, got.ShippingMethod)
	assert.False(t, got.ShippingSelectable)
}

func TestNonMemberStandardShipping(t *testing.T) {
	items := []Item{
		{UnitPrice: dec("50"), Quantity: 1},
		{UnitPrice: dec("30"), Quantity: 3},
	}

	got := ComputeTotals(items, membership.None, pricing.ShippingStandard)

	assertDec(t, "140", got.Subtotal, "subtotal")
	assertDec(t, "0", got.Discount, "discount")
	assertDec(t, "15.90", got.ShippingCost, "shipping")
	assertDec(t, "155.90", got.GrandTotal, "grand total")
	assert.True(t, got.ShippingSelectable)
}

func TestEmptyCart(t *testing.T) {
	tests := []struct {
		tier     membership.Tier
		method   pricing.ShippingMethod
		shipping string
	}{
		{membership.None, pricing.ShippingStandard, "15.90"},
		{membership.None, pricing.ShippingExpress, "29.90"},
		{membership.Monthly, pricing.ShippingStandard, "15.90"},
		{membership.Quarterly, pricing.ShippingExpress, "0"},
		{membership.Annual, pricing.ShippingStandard, "0"},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier)+"/"+string(tt.method), func(t *testing.T) {
			got := ComputeTotals(nil, tt.tier, tt.method)
			assertDec(t, "0", got.Subtotal, "subtotal")
			assertDec(t, "0", got.Discount, "discount")
			assertDec(t, tt.shipping, got.ShippingCost, "shipping")
			assertDec(t, tt.shipping, got.GrandTotal, "grand total")
		})
	}
}

func TestMonthlyPaysShipping(t *testing.T) {
	items := []Item{{UnitPrice: dec("199.90"), Quantity: 1}}

	got := ComputeTotals(items, membership.Monthly, pricing.ShippingExpress)

	assertDec(t, "19.99", got.Discount, "discount")
	assertDec(t, "29.90", got.ShippingCost, "shipping")
	assertDec(t, "209.81", got.GrandTotal, "grand total")
}

func TestIdempotent(t *testing.T) {
	items := []Item{{UnitPrice: dec("89.90"), Quantity: 3}}
	first := ComputeTotals(items, membership.Annual, pricing.ShippingStandard)
	second := ComputeTotals(items, membership.Annual, pricing.ShippingStandard)
	assert.Equal(t, first, second)
}

func TestForMember(t *testing.T) {
	items := []Item{{UnitPrice: dec("100"), Quantity: 1}}

	anon := ForMember(items, nil, pricing.ShippingStandard)
	assertDec(t, "115.90", anon.GrandTotal, "anonymous")

	annual := ForMember(items, fixedTier(membership.Annual), pricing.ShippingStandard)
	assertDec(t, "80", annual.GrandTotal, "annual")
}

func TestSavings(t *testing.T) {
	items := []Item{{UnitPrice: dec("100"), Quantity: 2}}

	assertDec(t, "45.90", ComputeTotals(items, membership.Quarterly, "").Savings(), "quarterly")
	assertDec(t, "20", ComputeTotals(items, membership.Monthly, "").Savings(), "monthly")
	assertDec(t, "0", ComputeTotals(items, membership.None, "").Savings(), "none")
}

func TestRounded(t *testing.T) {
	items := []Item{{UnitPrice: dec("29.99"), Quantity: 1}}

	got := ComputeTotals(items, membership.Quarterly, "").Rounded()

	// 29.99 * 0.85 = 25.4915
	assertDec(t, "25.49", got.MemberSubtotal, "member subtotal")
	assertDec(t, "4.50", got.Discount, "discount")
	assertDec(t, "25.49", got.GrandTotal, "grand total")
}
