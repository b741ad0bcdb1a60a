package category

import "github.com/marcotuliovd/betimfc-v0/internal/domain/product"

// Category is one shop section with the number of active products in it.
type Category struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Products int    `json:"products"`
}

// Facets backs the shop filters: every selectable category and gender.
type Facets struct {
	Categories []Category       `json:"categories"`
	Genders    []product.Gender `json:"genders"`
}
