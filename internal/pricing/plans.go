package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/money"
)

var ErrUnknownPlan = errors.New("unknown membership plan")

// Plan is one fan-club subscription as offered on the plans page.
//
// StoreDiscount comes from the tier rules. TicketDiscount is the match-ticket
// benefit shown on the account page (20/30/40%); it never applies to store
// purchases.
type Plan struct {
	Tier           membership.Tier  `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	ListPrice      *decimal.Decimal `json:"originalPrice,omitempty"`
	Period         string           `json:"period"`
	Months         int              `json:"months"`
	StoreDiscount  decimal.Decimal  `json:"storeDiscount"`
	TicketDiscount decimal.Decimal  `json:"ticketDiscount"`
	FreeTickets    int              `json:"freeTickets"`
	ShippingWaived bool             `json:"shippingWaived"`
	Popular        bool             `json:"popular"`
}

type planDef struct {
	name, description, price, listPrice, period string
	months, ticketDiscount, freeTickets         int
	popular                                     bool
}

var planDefs = map[membership.Tier]planDef{
	membership.Monthly: {
		name: "Monthly Plan", description: "Flexibility to follow the club month by month",
		price: "29.90", period: "month", months: 1, ticketDiscount: 20,
	},
	membership.Quarterly: {
		name: "Quarterly Plan", description: "The plan most fans choose",
		price: "79.90", listPrice: "89.70", period: "quarter", months: 3,
		ticketDiscount: 30, freeTickets: 1, popular: true,
	},
	membership.Annual: {
		name: "Annual Plan", description: "The full season with every benefit",
		price: "299.90", listPrice: "358.80", period: "year", months: 12,
		ticketDiscount: 40, freeTickets: 2,
	},
}

func PlanFor(t membership.Tier) (Plan, error) {
	t = t.Normalize()
	def, ok := planDefs[t]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	rule := RuleFor(t)
	p := Plan{
		Tier:           t,
		Name:           def.name,
		Description:    def.description,
		Price:          money.MustParse(def.price),
		Period:         def.period,
		Months:         def.months,
		StoreDiscount:  rule.DiscountRate,
		TicketDiscount: money.Percent(int64(def.ticketDiscount)),
		FreeTickets:    def.freeTickets,
		ShippingWaived: rule.ShippingWaived,
		Popular:        def.popular,
	}
	if def.listPrice != "" {
		lp := money.MustParse(def.listPrice)
		p.ListPrice = &lp
	}
	return p, nil
}

// Plans lists every paid plan, cheapest first.
func Plans() []Plan {
	out := make([]Plan, 0, len(membership.Paid))
	for _, t := range membership.Paid {
		p, _ := PlanFor(t)
		out = append(out, p)
	}
	return out
}

// ExpiresAt is the end of a subscription started at from.
func (p Plan) ExpiresAt(from time.Time) time.Time {
	return from.AddDate(0, p.Months, 0)
}
