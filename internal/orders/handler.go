package orders

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/auth"
	"github.com/marcotuliovd/betimfc-v0/internal/checkout"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/order"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/product"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
	"github.com/marcotuliovd/betimfc-v0/internal/mail"
	"github.com/marcotuliovd/betimfc-v0/internal/payment"
	"github.com/marcotuliovd/betimfc-v0/internal/pricing"
	"github.com/marcotuliovd/betimfc-v0/internal/util"
)

// MaxItemQuantity mirrors the storefront's per-line limit.
const MaxItemQuantity = 10

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInvalidQuantity = fmt.Errorf("quantity must be between 1 and %d", MaxItemQuantity)
)

const numberAttempts = 3

type Store interface {
	Create(ctx context.Context, o order.Order) (order.Order, error)
}

type Catalog interface {
	ByIDs(ctx context.Context, ids []string) (map[string]product.Product, error)
}

type Users interface {
	ByID(ctx context.Context, id string) (user.User, error)
	ActiveMembership(ctx context.Context, userID string) (*membership.Membership, error)
}

type Dependencies struct {
	Orders   Store
	Catalog  Catalog
	Users    Users
	Payments payment.Processor
	Mailer   mail.Mailer
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

// requestError is a client mistake reported with a specific status.
type requestError struct {
	status int
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }

func badRequest(err error) error { return &requestError{status: http.StatusBadRequest, err: err} }

// Place re-prices the items from the catalog, applies the buyer's stored
// membership, charges the total and stores the order.
func (h *Handler) Place(c *gin.Context) {
	var req order.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.place(c.Request.Context(), req)
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		c.JSON(reqErr.status, gin.H{"error": reqErr.Error()})
		return
	}
	if err != nil {
		h.deps.Log.Error("place order", zap.String("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *Handler) place(ctx context.Context, req order.Request) (order.Receipt, error) {
	if len(req.Items) == 0 {
		return order.Receipt{}, badRequest(ErrEmptyOrder)
	}
	shipMethod, err := pricing.ParseShippingMethod(req.ShippingMethod)
	if err != nil {
		return order.Receipt{}, badRequest(err)
	}
	payMethod, err := payment.ParseMethod(req.PaymentMethod)
	if err != nil {
		return order.Receipt{}, badRequest(err)
	}

	now := h.deps.Now()
	buyer, tier, err := h.buyer(ctx, req.UserID, now)
	if err != nil {
		return order.Receipt{}, err
	}

	lines, err := h.priceItems(ctx, req.Items)
	if err != nil {
		return order.Receipt{}, err
	}

	items := make([]checkout.Item, len(lines))
	for i, l := range lines {
		items[i] = checkout.Item{UnitPrice: l.product.Price, Quantity: l.req.Quantity}
	}
	totals := checkout.ForMember(items, tier, shipMethod).Rounded()

	o := order.Order{
		Status:          order.StatusProcessing,
		PaymentMethod:   string(payMethod),
		ShippingAddress: req.ShippingAddress,
		Items:           make([]order.Item, len(lines)),
	}
	if buyer != nil {
		o.UserID = &buyer.ID
	}
	for i, l := range lines {
		o.Items[i] = lineItem(l, totals.Tier)
	}
	totals = settle(totals, o.Items)
	o.Total = totals.GrandTotal
	o.Discount = totals.Discount
	o.ShippingCost = totals.ShippingCost

	charge, err := h.deps.Payments.Charge(ctx, totals.GrandTotal, payMethod)
	if err != nil {
		h.deps.Log.Warn("order payment declined", zap.String("user_id", req.UserID), zap.Error(err))
		return order.Receipt{}, &requestError{status: http.StatusPaymentRequired, err: errors.New("payment failed")}
	}

	saved, err := h.store(ctx, o)
	if err != nil {
		return order.Receipt{}, fmt.Errorf("store order (charge %s): %w", charge.ID, err)
	}

	receipt := order.Receipt{
		OrderNumber:    saved.Number,
		Status:         saved.Status,
		Subtotal:       totals.Subtotal,
		Discount:       totals.Discount,
		ShippingMethod: string(totals.ShippingMethod),
		ShippingCost:   totals.ShippingCost,
		Total:          totals.GrandTotal,
		CreatedAt:      saved.CreatedAt,
	}
	h.deps.Log.Info("order placed",
		zap.String("order_number", receipt.OrderNumber),
		zap.String("tier", string(totals.Tier)),
		zap.String("total", receipt.Total.StringFixed(2)),
	)
	h.confirm(req, buyer, receipt)
	return receipt, nil
}

// lineItem rounds each stored line on its own; the unit price is informative.
func lineItem(l pricedLine, tier membership.Tier) order.Item {
	qty := decimal.NewFromInt(int64(l.req.Quantity))
	member := pricing.PriceForMember(l.product.Price, tier)
	return order.Item{
		ProductID:  l.productID,
		Quantity:   l.req.Quantity,
		Size:       l.req.Size,
		Color:      l.req.Color,
		UnitPrice:  member.Round(2),
		TotalPrice: member.Mul(qty).Round(2),
	}
}

// settle derives the order amounts from the stored lines:
// lines + discount = subtotal and lines + shipping = total.
func settle(t checkout.Totals, items []order.Item) checkout.Totals {
	lines := decimal.Zero
	for _, it := range items {
		lines = lines.Add(it.TotalPrice)
	}
	t.MemberSubtotal = lines
	t.Discount = t.Subtotal.Sub(lines)
	t.GrandTotal = lines.Add(t.ShippingCost)
	return t
}

// buyer resolves the signed-in customer and their stored membership. Guests
// get no discount.
func (h *Handler) buyer(ctx context.Context, userID string, now time.Time) (*user.User, checkout.MembershipSource, error) {
	if userID == "" {
		return nil, storedTier{at: now}, nil
	}
	u, err := h.deps.Users.ByID(ctx, userID)
	if errors.Is(err, auth.ErrUserNotFound) {
		return nil, nil, badRequest(errors.New("unknown user"))
	}
	if err != nil {
		return nil, nil, err
	}
	m, err := h.deps.Users.ActiveMembership(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return &u, storedTier{m: m, at: now}, nil
}

type pricedLine struct {
	req       order.RequestItem
	product   product.Product
	productID int64
}

func (h *Handler) priceItems(ctx context.Context, reqItems []order.RequestItem) ([]pricedLine, error) {
	ids := make([]string, 0, len(reqItems))
	for _, it := range reqItems {
		if it.Quantity < 1 || it.Quantity > MaxItemQuantity {
			return nil, badRequest(ErrInvalidQuantity)
		}
		ids = append(ids, it.ProductID)
	}

	catalog, err := h.deps.Catalog.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Quantities of the same product across variants share its stock.
	wanted := map[string]int{}
	lines := make([]pricedLine, 0, len(reqItems))
	for _, it := range reqItems {
		p, ok := catalog[it.ProductID]
		if !ok {
			return nil, badRequest(fmt.Errorf("product %s is not available", it.ProductID))
		}
		if len(p.Sizes) > 0 && !p.HasSize(it.Size) {
			return nil, badRequest(fmt.Errorf("size %q is not offered for %s", it.Size, p.Name))
		}
		if len(p.Colors) > 0 && !p.HasColor(it.Color) {
			return nil, badRequest(fmt.Errorf("color %q is not offered for %s", it.Color, p.Name))
		}
		wanted[p.ID] += it.Quantity
		if wanted[p.ID] > p.Stock {
			return nil, &requestError{status: http.StatusConflict, err: fmt.Errorf("not enough stock for %s", p.Name)}
		}
		id, err := strconv.ParseInt(p.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("product id %q: %w", p.ID, err)
		}
		lines = append(lines, pricedLine{req: it, product: p, productID: id})
	}
	return lines, nil
}

func (h *Handler) store(ctx context.Context, o order.Order) (order.Order, error) {
	var err error
	for i := 0; i < numberAttempts; i++ {
		o.Number, err = util.GenerateOrderNumber()
		if err != nil {
			return order.Order{}, err
		}
		var saved order.Order
		saved, err = h.deps.Orders.Create(ctx, o)
		if !errors.Is(err, ErrDuplicateNumber) {
			return saved, err
		}
	}
	return order.Order{}, err
}

func (h *Handler) confirm(req order.Request, buyer *user.User, r order.Receipt) {
	to, name := req.Email, ""
	if req.ShippingAddress != nil {
		name = req.ShippingAddress.FullName
		if to == "" {
			to = req.ShippingAddress.Email
		}
	}
	if buyer != nil {
		name = buyer.Name
		if to == "" {
			to = buyer.Email
		}
	}
	if to == "" || h.deps.Mailer == nil {
		return
	}
	if err := mail.SendMessage(h.deps.Mailer, to, mail.OrderConfirmation(name, r)); err != nil {
		h.deps.Log.Warn("order confirmation not sent", zap.String("order_number", r.OrderNumber), zap.Error(err))
	}
}
