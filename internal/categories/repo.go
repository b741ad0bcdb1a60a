package categories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/category"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/product"
	"github.com/marcotuliovd/betimfc-v0/internal/util"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Facets derives the category list from the active catalog; there is no
// separate categories table.
func (r *Repo) Facets(ctx context.Context) (category.Facets, error) {
	rows, err := r.db.Query(ctx, `
		SELECT category, COUNT(*)
		FROM products
		WHERE active = true
		GROUP BY category
		ORDER BY category ASC
	`)
	if err != nil {
		return category.Facets{}, err
	}
	defer rows.Close()

	out := category.Facets{Categories: []category.Category{}, Genders: product.Genders}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return category.Facets{}, err
		}
		out.Categories = append(out.Categories, category.Category{
			Name:     util.Capitalize(name),
			Slug:     util.Slugify(name),
			Products: n,
		})
	}
	return out, rows.Err()
}
