package categories

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/category"
)

type Lister interface {
	Facets(ctx context.Context) (category.Facets, error)
}

type Handler struct {
	repo Lister
	log  *zap.Logger
}

func NewHandler(repo Lister, log *zap.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// Public
func (h *Handler) ListPublic(c *gin.Context) {
	f, err := h.repo.Facets(c.Request.Context())
	if err != nil {
		h.log.Error("list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, f)
}
