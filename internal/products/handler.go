package products

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/product"
)

type Finder interface {
	List(ctx context.Context, f Filter) ([]product.Product, error)
	Get(ctx context.Context, id string) (product.Product, error)
}

type Handler struct {
	repo Finder
	log  *zap.Logger
}

func NewHandler(repo Finder, log *zap.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// Public: list active products, optionally by category and/or gender.
// Responds with a bare JSON array.
func (h *Handler) ListPublic(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context(), Filter{
		Category: c.Query("category"),
		Gender:   c.Query("gender"),
	})
	if err != nil {
		h.log.Error("list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Public: product detail
func (h *Handler) GetPublic(c *gin.Context) {
	p, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		h.log.Error("get product", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}
	c.JSON(http.StatusOK, p)
}
