package memberships

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcotuliovd/betimfc-v0/internal/auth"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
	"github.com/marcotuliovd/betimfc-v0/internal/payment"
)

type fakeSubs struct {
	saved []membership.Membership
}

func (f *fakeSubs) Subscribe(_ context.Context, m membership.Membership) (membership.Membership, error) {
	m.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, m)
	return m, nil
}

type fakeUsers map[string]user.User

func (f fakeUsers) ByID(_ context.Context, id string) (user.User, error) {
	u, ok := f[id]
	if !ok {
		return user.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

type decliningProcessor struct{}

func (decliningProcessor) Charge(context.Context, decimal.Decimal, payment.Method) (payment.Charge, error) {
	return payment.Charge{}, errors.New("card declined")
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func setup(p payment.Processor) (*gin.Engine, *fakeSubs) {
	gin.SetMode(gin.TestMode)
	subs := &fakeSubs{}
	h := NewHandler(Dependencies{
		Repo:     subs,
		Users:    fakeUsers{"u1": {ID: "u1", Name: "Ana", Email: "ana@example.com", MembershipType: membership.None}},
		Payments: p,
		Now:      func() time.Time { return fixedNow },
	})
	r := gin.New()
	r.GET("/api/memberships/plans", h.Plans)
	r.POST("/api/memberships", h.Subscribe)
	return r, subs
}

func send(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestPlans(t *testing.T) {
	r, _ := setup(payment.NewSimulator(0, nil))
	w := send(r, http.MethodGet, "/api/memberships/plans", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var plans []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plans))
	require.Len(t, plans, 3)
	assert.Equal(t, "monthly", plans[0]["id"])
	assert.Equal(t, 79.9, plans[1]["price"])
	assert.Equal(t, true, plans[1]["popular"])
	assert.Equal(t, true, plans[2]["shippingWaived"])
}

func TestSubscribeActivatesPlan(t *testing.T) {
	r, subs := setup(payment.NewSimulator(0, nil))
	w := send(r, http.MethodPost, "/api/memberships", subscribeReq{UserID: "u1", Plan: "trimestral", PaymentMethod: "pix"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, subs.saved, 1)
	m := subs.saved[0]
	assert.Equal(t, membership.Quarterly, m.Plan)
	assert.True(t, decimal.RequireFromString("79.90").Equal(m.Price))
	assert.Equal(t, fixedNow.AddDate(0, 3, 0), m.EndDate)
	assert.Equal(t, membership.StatusActive, m.Status)
	assert.Equal(t, "pix", m.PaymentMethod)

	var body struct {
		User user.Identity `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, membership.Quarterly, body.User.MembershipType)
	require.NotNil(t, body.User.MembershipExpiresAt)
	assert.True(t, fixedNow.AddDate(0, 3, 0).Equal(*body.User.MembershipExpiresAt))
}

func TestSubscribeRejections(t *testing.T) {
	r, subs := setup(payment.NewSimulator(0, nil))

	assert.Equal(t, http.StatusBadRequest,
		send(r, http.MethodPost, "/api/memberships", subscribeReq{UserID: "u1", Plan: "weekly"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		send(r, http.MethodPost, "/api/memberships", subscribeReq{UserID: "u1", Plan: "annual", PaymentMethod: "cash"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		send(r, http.MethodPost, "/api/memberships", subscribeReq{Plan: "annual"}).Code)
	assert.Equal(t, http.StatusNotFound,
		send(r, http.MethodPost, "/api/memberships", subscribeReq{UserID: "ghost", Plan: "annual"}).Code)
	assert.Empty(t, subs.saved)
}

func TestSubscribePaymentDeclined(t *testing.T) {
	r, subs := setup(decliningProcessor{})
	w := send(r, http.MethodPost, "/api/memberships", subscribeReq{UserID: "u1", Plan: "monthly"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Empty(t, subs.saved)
}
