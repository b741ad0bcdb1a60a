package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/product"
	"github.com/marcotuliovd/betimfc-v0/internal/persist"
)

// MaxLineQuantity is the most of one (product, size, color) a shopper may
// take. The store itself does not enforce it; the storefront does.
const MaxLineQuantity = 10

type Line struct {
	Product  product.Product `json:"product"`
	Size     string          `json:"size"`
	Color    string          `json:"color"`
	Quantity int             `json:"quantity"`
}

type Key struct {
	ProductID string
	Size      string
	Color     string
}

func (l Line) Key() Key {
	return Key{ProductID: l.Product.ID, Size: l.Size, Color: l.Color}
}

func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store is the shopper's cart, saved after every change and reloaded on
// construction. It does not depend on who is signed in.
//
// Mutations always apply in memory; a returned error only means the snapshot
// could not be saved.
type Store struct {
	mu    sync.Mutex
	lines []Line

	persister persist.Store
	key       string
	log       *zap.Logger
}

// New restores the saved cart. A corrupt snapshot is an error.
func New(ctx context.Context, p persist.Store, namespace string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{persister: p, key: persist.Key(namespace, persist.CartKey), log: log}

	b, err := p.Load(ctx, s.key)
	switch {
	case errors.Is(err, persist.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if err := json.Unmarshal(b, &s.lines); err != nil {
		return nil, fmt.Errorf("decode cart snapshot %s: %w", s.key, err)
	}
	return s, nil
}

// Add merges into the line with the same product, size and color, or appends
// a new one. quantity < 1 adds one.
func (s *Store) Add(ctx context.Context, p product.Product, size, color string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key{ProductID: p.ID, Size: size, Color: color}
	if i := s.indexOf(k); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, Line{Product: p, Size: size, Color: color, Quantity: quantity})
	}
	return s.save(ctx)
}

func (s *Store) Remove(ctx context.Context, productID, size, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ctx, Key{ProductID: productID, Size: size, Color: color})
}

func (s *Store) remove(ctx context.Context, k Key) error {
	i := s.indexOf(k)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return s.save(ctx)
}

// SetQuantity replaces a line's quantity; zero or less removes the line.
// Missing lines are left alone.
func (s *Store) SetQuantity(ctx context.Context, productID, size, color string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key{ProductID: productID, Size: size, Color: color}
	if quantity <= 0 {
		return s.remove(ctx, k)
	}
	i := s.indexOf(k)
	if i < 0 {
		return nil
	}
	s.lines[i].Quantity = quantity
	return s.save(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	return s.save(ctx)
}

// Lines returns a copy in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

func (s *Store) Line(k Key) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(k); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice sums undiscounted product prices.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Total())
	}
	return total
}

func (s *Store) indexOf(k Key) int {
	for i, l := range s.lines {
		if l.Key() == k {
			return i
		}
	}
	return -1
}

func (s *Store) save(ctx context.Context) error {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.persister.Save(ctx, s.key, b); err != nil {
		s.log.Warn("cart snapshot not saved", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
