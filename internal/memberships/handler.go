package memberships

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/auth"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
	"github.com/marcotuliovd/betimfc-v0/internal/payment"
	"github.com/marcotuliovd/betimfc-v0/internal/pricing"
)

type Subscriptions interface {
	Subscribe(ctx context.Context, m membership.Membership) (membership.Membership, error)
}

type Users interface {
	ByID(ctx context.Context, id string) (user.User, error)
}

type Dependencies struct {
	Repo     Subscriptions
	Users    Users
	Payments payment.Processor
	Log      *zap.Logger
	Now      func() time.Time
}

type Handler struct {
	deps Dependencies
}

func NewHandler(d Dependencies) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Handler{deps: d}
}

type subscribeReq struct {
	UserID        string `json:"userId" binding:"required"`
	Plan          string `json:"plan" binding:"required"`
	PaymentMethod string `json:"paymentMethod"`
}

// Public: plan catalog
func (h *Handler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, pricing.Plans())
}

// Subscribe charges the plan price and activates the membership. The
// response carries the refreshed identity so the client can adopt it.
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tier := membership.Parse(req.Plan)
	plan, err := pricing.PlanFor(tier)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	method, err := payment.ParseMethod(req.PaymentMethod)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	u, err := h.deps.Users.ByID(ctx, req.UserID)
	if errors.Is(err, auth.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		h.deps.Log.Error("subscribe user lookup", zap.String("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription failed"})
		return
	}

	charge, err := h.deps.Payments.Charge(ctx, plan.Price, method)
	if err != nil {
		h.deps.Log.Warn("membership payment declined", zap.String("user_id", u.ID), zap.Error(err))
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment failed"})
		return
	}

	now := h.deps.Now()
	saved, err := h.deps.Repo.Subscribe(ctx, membership.Membership{
		UserID:        u.ID,
		Plan:          plan.Tier,
		Price:         plan.Price,
		StartDate:     now,
		EndDate:       plan.ExpiresAt(now),
		Status:        membership.StatusActive,
		PaymentMethod: string(method),
	})
	if err != nil {
		h.deps.Log.Error("subscribe", zap.String("user_id", u.ID), zap.String("charge_id", charge.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription failed"})
		return
	}

	h.deps.Log.Info("membership activated",
		zap.String("user_id", u.ID),
		zap.String("plan", string(plan.Tier)),
		zap.Time("expires_at", saved.EndDate),
	)
	u.MembershipType = plan.Tier
	c.JSON(http.StatusCreated, gin.H{
		"user":       u.Identity(&saved),
		"membership": saved,
		"chargeId":   charge.ID,
	})
}
