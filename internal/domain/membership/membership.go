package membership

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Tier string

const (
	None      Tier = "none"
	Monthly   Tier = "monthly"
	Quarterly Tier = "quarterly"
	Annual    Tier = "annual"
)

// Paid lists the tiers a visitor can subscribe to, cheapest first.
var Paid = []Tier{Monthly, Quarterly, Annual}

// Parse maps a stored or user-supplied value to a tier. Legacy Portuguese
// plan ids are accepted; anything unknown is None.
func Parse(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "mensal":
		return Monthly
	case "quarterly", "trimestral":
		return Quarterly
	case "annual", "anual":
		return Annual
	default:
		return None
	}
}

func (t Tier) Normalize() Tier {
	return Parse(string(t))
}

func (t Tier) IsMember() bool {
	return t.Normalize() != None
}

func (t Tier) String() string {
	return string(t.Normalize())
}

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

type Membership struct {
	ID            int64           `json:"id"`
	UserID        string          `json:"user_id"`
	Plan          Tier            `json:"plan_type"`
	Price         decimal.Decimal `json:"price"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Status        Status          `json:"status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ActiveAt reports whether the membership grants benefits at t.
func (m Membership) ActiveAt(t time.Time) bool {
	return m.Status == StatusActive && m.EndDate.After(t)
}
