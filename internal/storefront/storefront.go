// Package storefront is the UI layer over the cart and session stores: it
// bounds quantities, shows member pricing and drives checkout and
// subscriptions through the API.
package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/cart"
	"github.com/marcotuliovd/betimfc-v0/internal/checkout"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/order"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/product"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
	"github.com/marcotuliovd/betimfc-v0/internal/payment"
	"github.com/marcotuliovd/betimfc-v0/internal/pricing"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrNotSignedIn   = errors.New("sign in first")
	ErrSizeRequired  = errors.New("choose one of the available sizes")
	ErrColorRequired = errors.New("choose one of the available colors")
	ErrOutOfStock    = errors.New("product is out of stock")
	ErrLineFull      = fmt.Errorf("at most %d of each item per order", cart.MaxLineQuantity)
)

type CartStore interface {
	Add(ctx context.Context, p product.Product, size, color string, quantity int) error
	Remove(ctx context.Context, productID, size, color string) error
	SetQuantity(ctx context.Context, productID, size, color string, quantity int) error
	Clear(ctx context.Context) error
	Lines() []cart.Line
	Line(k cart.Key) (cart.Line, bool)
	TotalItems() int
}

type SessionStore interface {
	checkout.MembershipSource
	Identity() (user.Identity, bool)
	Adopt(ctx context.Context, id user.Identity) error
}

type Orders interface {
	PlaceOrder(ctx context.Context, req order.Request) (order.Receipt, error)
}

type Memberships interface {
	Subscribe(ctx context.Context, userID string, plan membership.Tier, method payment.Method) (user.Identity, error)
}

type Dependencies struct {
	Cart        CartStore
	Session     SessionStore
	Orders      Orders
	Memberships Memberships
	Log         *zap.Logger
}

type Storefront struct {
	deps Dependencies
}

func New(d Dependencies) *Storefront {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Storefront{deps: d}
}

// MemberPrice is what the signed-in visitor pays for one unit of p.
func (s *Storefront) MemberPrice(p product.Product) decimal.Decimal {
	return pricing.PriceForMember(p.Price, s.deps.Session.CurrentMembership()).Round(2)
}

// AddToCart validates the variant and caps the line at cart.MaxLineQuantity.
// ErrLineFull is returned only when nothing could be added.
func (s *Storefront) AddToCart(ctx context.Context, p product.Product, size, color string, quantity int) error {
	if !p.InStock {
		return ErrOutOfStock
	}
	if len(p.Sizes) > 0 && !p.HasSize(size) {
		return ErrSizeRequired
	}
	if len(p.Colors) > 0 && !p.HasColor(color) {
		return ErrColorRequired
	}
	quantity = clamp(quantity)

	if l, ok := s.deps.Cart.Line(cart.Key{ProductID: p.ID, Size: size, Color: color}); ok {
		room := cart.MaxLineQuantity - l.Quantity
		if room <= 0 {
			return ErrLineFull
		}
		quantity = min(quantity, room)
	}
	return s.deps.Cart.Add(ctx, p, size, color, quantity)
}

// SetQuantity clamps to cart.MaxLineQuantity; zero or less removes the line.
func (s *Storefront) SetQuantity(ctx context.Context, productID, size, color string, quantity int) error {
	if quantity > cart.MaxLineQuantity {
		quantity = cart.MaxLineQuantity
	}
	return s.deps.Cart.SetQuantity(ctx, productID, size, color, quantity)
}

func (s *Storefront) Remove(ctx context.Context, productID, size, color string) error {
	return s.deps.Cart.Remove(ctx, productID, size, color)
}

func clamp(q int) int {
	switch {
	case q < 1:
		return 1
	case q > cart.MaxLineQuantity:
		return cart.MaxLineQuantity
	}
	return q
}

// Summary prices the current cart for the signed-in tier. It is recomputed
// on every call and never cached.
func (s *Storefront) Summary(method pricing.ShippingMethod) checkout.Totals {
	lines := s.deps.Cart.Lines()
	items := make([]checkout.Item, len(lines))
	for i, l := range lines {
		items[i] = checkout.Item{UnitPrice: l.Product.Price, Quantity: l.Quantity}
	}
	return checkout.ForMember(items, s.deps.Session, method).Rounded()
}

type CheckoutInput struct {
	ShippingMethod string
	PaymentMethod  string
	Email          string
	Address        *order.Address
}

// Checkout places the order. The cart is cleared only once the server has
// accepted and charged it.
func (s *Storefront) Checkout(ctx context.Context, in CheckoutInput) (order.Receipt, error) {
	lines := s.deps.Cart.Lines()
	if len(lines) == 0 {
		return order.Receipt{}, ErrEmptyCart
	}
	ship, err := pricing.ParseShippingMethod(in.ShippingMethod)
	if err != nil {
		return order.Receipt{}, err
	}
	pay, err := payment.ParseMethod(in.PaymentMethod)
	if err != nil {
		return order.Receipt{}, err
	}

	req := order.Request{
		Email:           in.Email,
		ShippingMethod:  string(ship),
		PaymentMethod:   string(pay),
		ShippingAddress: in.Address,
		Items:           make([]order.RequestItem, len(lines)),
	}
	if id, ok := s.deps.Session.Identity(); ok {
		req.UserID = id.ID
		if req.Email == "" {
			req.Email = id.Email
		}
	}
	for i, l := range lines {
		req.Items[i] = order.RequestItem{ProductID: l.Product.ID, Size: l.Size, Color: l.Color, Quantity: l.Quantity}
	}

	receipt, err := s.deps.Orders.PlaceOrder(ctx, req)
	if err != nil {
		s.deps.Log.Warn("checkout failed", zap.Int("lines", len(lines)), zap.Error(err))
		return order.Receipt{}, fmt.Errorf("place order: %w", err)
	}

	if err := s.deps.Cart.Clear(ctx); err != nil {
		s.deps.Log.Warn("cart not cleared after order", zap.String("order_number", receipt.OrderNumber), zap.Error(err))
	}
	return receipt, nil
}

// Subscribe buys plan for the signed-in visitor and caches the upgraded
// identity, so member prices apply right away.
func (s *Storefront) Subscribe(ctx context.Context, plan membership.Tier, method payment.Method) (user.Identity, error) {
	id, ok := s.deps.Session.Identity()
	if !ok {
		return user.Identity{}, ErrNotSignedIn
	}
	p, err := pricing.PlanFor(plan)
	if err != nil {
		return user.Identity{}, err
	}
	if method == "" {
		method = payment.MethodCreditCard
	}

	upgraded, err := s.deps.Memberships.Subscribe(ctx, id.ID, p.Tier, method)
	if err != nil {
		s.deps.Log.Warn("subscription failed", zap.String("user_id", id.ID), zap.String("plan", string(p.Tier)), zap.Error(err))
		return user.Identity{}, fmt.Errorf("subscribe: %w", err)
	}
	return upgraded, s.deps.Session.Adopt(ctx, upgraded)
}
