package products

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/product"
	"github.com/marcotuliovd/betimfc-v0/internal/util"
)

var ErrNotFound = errors.New("product not found")

// Filter narrows the shop listing. Empty fields, "all", "Todas" and "Todos"
// mean no filter.
type Filter struct {
	Category string
	Gender   string
}

func (f Filter) normalized() Filter {
	return Filter{Category: normalizeFacet(f.Category), Gender: normalizeFacet(f.Gender)}
}

func normalizeFacet(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "all", "todas", "todos":
		return ""
	}
	return v
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const selectProduct = `
	SELECT id::text, name, COALESCE(description,''), price, original_price,
	       COALESCE(image_url,''), category, gender, sizes, colors, stock, active, created_at
	FROM products
`

func (r *Repo) List(ctx context.Context, f Filter) ([]product.Product, error) {
	f = f.normalized()

	q := selectProduct + " WHERE active = true "
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		q += " AND category = $" + strconv.Itoa(len(args))
	}
	if f.Gender != "" {
		args = append(args, f.Gender)
		q += " AND gender = $" + strconv.Itoa(len(args))
	}
	q += " ORDER BY created_at DESC, id DESC "

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (product.Product, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return product.Product{}, ErrNotFound
	}
	p, err := scanProduct(r.db.QueryRow(ctx, selectProduct+" WHERE id = $1 AND active = true", n))
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, ErrNotFound
	}
	return p, err
}

// ByIDs loads active products keyed by id. Unknown or inactive ids are
// simply absent from the map.
func (r *Repo) ByIDs(ctx context.Context, ids []string) (map[string]product.Product, error) {
	nums := make([]int64, 0, len(ids))
	for _, id := range ids {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			nums = append(nums, n)
		}
	}
	out := make(map[string]product.Product, len(nums))
	if len(nums) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, selectProduct+" WHERE id = ANY($1) AND active = true", nums)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row) (product.Product, error) {
	var (
		p        product.Product
		original decimal.NullDecimal
		gender   string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &original,
		&p.Image, &p.Category, &gender, &p.Sizes, &p.Colors, &p.Stock, &p.Active, &p.CreatedAt,
	); err != nil {
		return product.Product{}, err
	}

	if original.Valid {
		p.OriginalPrice = &original.Decimal
	}
	p.Gender = product.Gender(gender)
	p.Category = util.Capitalize(p.Category)
	if p.Image == "" {
		p.Image = product.PlaceholderImage
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
	p.InStock = p.Stock > 0
	return p, nil
}
