package gateway

import (
	"context"
	"net/http"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/order"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
	"github.com/marcotuliovd/betimfc-v0/internal/payment"
	"github.com/marcotuliovd/betimfc-v0/internal/pricing"
)

func (c *Client) Plans(ctx context.Context) ([]pricing.Plan, error) {
	var out []pricing.Plan
	err := c.do(ctx, http.MethodGet, "/api/memberships/plans", nil, nil, &out)
	return out, err
}

type subscribeReq struct {
	UserID        string          `json:"userId"`
	Plan          membership.Tier `json:"plan"`
	PaymentMethod payment.Method  `json:"paymentMethod"`
}

// Subscribe pays for plan and returns the upgraded identity.
func (c *Client) Subscribe(ctx context.Context, userID string, plan membership.Tier, method payment.Method) (user.Identity, error) {
	var out userEnvelope
	err := c.do(ctx, http.MethodPost, "/api/memberships", nil,
		subscribeReq{UserID: userID, Plan: plan, PaymentMethod: method}, &out)
	return out.User, err
}

func (c *Client) PlaceOrder(ctx context.Context, req order.Request) (order.Receipt, error) {
	var out order.Receipt
	err := c.do(ctx, http.MethodPost, "/api/orders", nil, req, &out)
	return out, err
}
