package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/order"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
	"github.com/marcotuliovd/betimfc-v0/internal/payment"
)

func serve(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client(), nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["email"] != "ana@example.com" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{
			"id": "u1", "name": "Ana", "email": "ana@example.com", "membershipType": "annual",
		}})
	})

	id, err := c.Login(context.Background(), "ana@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, membership.Annual, id.MembershipType)

	_, err = c.Login(context.Background(), "bob@example.com", "pw")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestRegisterSendsFullForm(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		var reg user.Registration
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reg))
		assert.Equal(t, "123", reg.CPF)
		assert.True(t, reg.AcceptTerms)
		writeJSON(w, http.StatusCreated, map[string]any{"user": map[string]any{
			"id": "u2", "name": reg.Name, "email": reg.Email, "membershipType": "none",
		}})
	})

	id, err := c.Register(context.Background(), user.Registration{
		Name: "Bia", Email: "bia@example.com", Password: "pw", Phone: "31", CPF: "123", AcceptTerms: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", id.ID)
	assert.Equal(t, membership.None, id.MembershipType)
}

func TestProductsPassesFilters(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Camisas", r.URL.Query().Get("category"))
		assert.Equal(t, "women", r.URL.Query().Get("gender"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "1", "name": "Shirt", "price": 199.9, "inStock": true}})
	})

	items := c.Products(context.Background(), "Camisas", "women")
	require.Len(t, items, 1)
	assert.True(t, decimal.RequireFromString("199.90").Equal(items[0].Price))
}

func TestProductsEmptyOnFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db down"})
	}))
	defer srv.Close()
	c := New(srv.URL, srv.Client(), zap.New(core))

	items := c.Products(context.Background(), "", "")
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 1, logs.Len())

	srv.Close()
	assert.Empty(t, c.Products(context.Background(), "", ""))
}

func TestSubscribeAndPlaceOrder(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/memberships":
			var req subscribeReq
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, membership.Quarterly, req.Plan)
			assert.Equal(t, payment.MethodPix, req.PaymentMethod)
			writeJSON(w, http.StatusCreated, map[string]any{"user": map[string]any{
				"id": req.UserID, "membershipType": "quarterly",
			}})
		case "/api/orders":
			var req order.Request
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if len(req.Items) == 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order has no items"})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"orderNumber": "BF123456", "total": 155.9})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	id, err := c.Subscribe(ctx, "u1", membership.Quarterly, payment.MethodPix)
	require.NoError(t, err)
	assert.Equal(t, membership.Quarterly, id.MembershipType)

	rc, err := c.PlaceOrder(ctx, order.Request{Items: []order.RequestItem{{ProductID: "1", Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, "BF123456", rc.OrderNumber)
	assert.True(t, decimal.RequireFromString("155.90").Equal(rc.Total))

	_, err = c.PlaceOrder(ctx, order.Request{})
	assert.True(t, IsStatus(err, http.StatusBadRequest))

	_, err = c.Plans(ctx)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}
