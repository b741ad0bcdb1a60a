package gateway

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/category"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/product"
)

// Products lists the shop. Any failure yields an empty list; the cause is
// only logged.
func (c *Client) Products(ctx context.Context, categoryName, gender string) []product.Product {
	q := url.Values{}
	if categoryName != "" {
		q.Set("category", categoryName)
	}
	if gender != "" {
		q.Set("gender", gender)
	}

	var out []product.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", q, nil, &out); err != nil {
		c.log.Warn("product listing unavailable",
			zap.String("category", categoryName), zap.String("gender", gender), zap.Error(err))
		return []product.Product{}
	}
	if out == nil {
		return []product.Product{}
	}
	return out
}

func (c *Client) Product(ctx context.Context, id string) (product.Product, error) {
	var out product.Product
	err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) Categories(ctx context.Context) (category.Facets, error) {
	var out category.Facets
	err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &out)
	return out, err
}
