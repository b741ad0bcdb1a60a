package product

import (
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/marcotuliovd/betimfc-v0/internal/domain/money"
)

type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderKids   Gender = "kids"
	GenderUnisex Gender = "unisex"
)

var Genders = []Gender{GenderMen, GenderWomen, GenderKids, GenderUnisex}

// PlaceholderImage is served when a product has no image of its own.
const PlaceholderImage = "/placeholder-product.png"

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Gender        Gender           `json:"gender"`
	Sizes         []string         `json:"sizes"`
	Colors        []string         `json:"colors"`
	Stock         int              `json:"stock"`
	InStock       bool             `json:"inStock"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"createdAt"`
}

func (p Product) HasSize(size string) bool {
	return contains(p.Sizes, size)
}

func (p Product) HasColor(color string) bool {
	return contains(p.Colors, color)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
