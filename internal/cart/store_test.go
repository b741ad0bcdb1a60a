package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/product"
	"github.com/marcotuliovd/betimfc-v0/internal/persist"
)

const ns = "betimfc"

func shirt(id, price string) product.Product {
	return product.Product{
		ID:      id,
		Name:    "Home Shirt " + id,
		Price:   decimal.RequireFromString(price),
		Sizes:   []string{"M", "L"},
		Colors:  []string{"Red", "White"},
		InStock: true,
	}
}

func newStore(t *testing.T, p persist.Store) *Store {
	t.Helper()
	s, err := New(context.Background(), p, ns, nil)
	require.NoError(t, err)
	return s
}

func TestAddMergesSameVariant(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, persist.NewMemoryStore())
	a := shirt("1", "100")

	require.NoError(t, s.Add(ctx, a, "M", "Red", 2))
	require.NoError(t, s.Add(ctx, a, "M", "Red", 3))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddKeepsVariantsApart(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, persist.NewMemoryStore())
	a := shirt("1", "100")

	require.NoError(t, s.Add(ctx, a, "M", "Red", 1))
	require.NoError(t, s.Add(ctx, a, "L", "Red", 1))
	require.NoError(t, s.Add(ctx, a, "M", "White", 1))

	assert.Len(t, s.Lines(), 3)
	assert.Equal(t, 3, s.TotalItems())
}

func TestAddDefaultsToOne(t *testing.T) {
	s := newStore(t, persist.NewMemoryStore())
	require.NoError(t, s.Add(context.Background(), shirt("1", "10"), "M", "Red", 0))
	assert.Equal(t, 1, s.TotalItems())
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	viaSet := newStore(t, persist.NewMemoryStore())
	viaRemove := newStore(t, persist.NewMemoryStore())
	a, b := shirt("1", "100"), shirt("2", "50")

	for _, s := range []*Store{viaSet, viaRemove} {
		require.NoError(t, s.Add(ctx, a, "M", "Red", 2))
		require.NoError(t, s.Add(ctx, b, "L", "White", 1))
	}

	require.NoError(t, viaSet.SetQuantity(ctx, "1", "M", "Red", 0))
	require.NoError(t, viaRemove.Remove(ctx, "1", "M", "Red"))

	assert.Equal(t, viaRemove.Lines(), viaSet.Lines())
	assert.Equal(t, 1, viaSet.TotalItems())
}

func TestSetQuantityDoesNotClamp(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, persist.NewMemoryStore())
	require.NoError(t, s.Add(ctx, shirt("1", "10"), "M", "Red", 1))

	require.NoError(t, s.SetQuantity(ctx, "1", "M", "Red", 12))

	l, ok := s.Line(Key{ProductID: "1", Size: "M", Color: "Red"})
	require.True(t, ok)
	assert.Equal(t, 12, l.Quantity)
}

func TestSetQuantityMissingLine(t *testing.T) {
	s := newStore(t, persist.NewMemoryStore())
	require.NoError(t, s.SetQuantity(context.Background(), "9", "M", "Red", 3))
	assert.Empty(t, s.Lines())
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, persist.NewMemoryStore())
	require.NoError(t, s.Add(ctx, shirt("1", "10"), "M", "Red", 1))
	require.NoError(t, s.Remove(ctx, "1", "L", "Red"))
	assert.Equal(t, 1, s.TotalItems())
}

func TestTotalItemsAfterRemove(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, persist.NewMemoryStore())
	a, b := shirt("A", "10"), shirt("B", "20")

	require.NoError(t, s.Add(ctx, a, "M", "Red", 2))
	require.NoError(t, s.Add(ctx, b, "M", "Red", 1))
	require.NoError(t, s.Remove(ctx, "A", "M", "Red"))

	assert.Equal(t, 1, s.TotalItems())
}

func TestTotalPrice(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, persist.NewMemoryStore())
	require.NoError(t, s.Add(ctx, shirt("1", "50"), "M", "Red", 1))
	require.NoError(t, s.Add(ctx, shirt("2", "30"), "M", "Red", 3))

	assert.True(t, decimal.NewFromInt(140).Equal(s.TotalPrice()))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	p := persist.NewMemoryStore()
	s := newStore(t, p)
	require.NoError(t, s.Add(ctx, shirt("1", "50"), "M", "Red", 1))

	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Lines())
	assert.True(t, s.TotalPrice().IsZero())
	b, err := p.Load(ctx, "betimfc:cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestReloadFromSnapshot(t *testing.T) {
	ctx := context.Background()
	p := persist.NewMemoryStore()
	s := newStore(t, p)
	require.NoError(t, s.Add(ctx, shirt("1", "89.90"), "M", "Red", 2))
	require.NoError(t, s.Add(ctx, shirt("2", "49.90"), "L", "White", 1))

	reloaded := newStore(t, p)

	assert.Equal(t, 3, reloaded.TotalItems())
	assert.True(t, decimal.RequireFromString("229.70").Equal(reloaded.TotalPrice()))
	lines := reloaded.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].Product.ID)
	assert.Equal(t, "2", lines[1].Product.ID)
}

func TestCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	p := persist.NewMemoryStore()
	require.NoError(t, p.Save(ctx, "betimfc:cart", []byte("{not json")))

	_, err := New(ctx, p, ns, nil)
	assert.Error(t, err)
}

type failingStore struct{ persist.Store }

func (failingStore) Save(context.Context, string, []byte) error { return errors.New("disk full") }

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	s := newStore(t, failingStore{persist.NewMemoryStore()})

	err := s.Add(context.Background(), shirt("1", "10"), "M", "Red", 1)

	assert.Error(t, err)
	assert.Equal(t, 1, s.TotalItems())
}

func TestLinesIsACopy(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, persist.NewMemoryStore())
	require.NoError(t, s.Add(ctx, shirt("1", "10"), "M", "Red", 1))

	lines := s.Lines()
	lines[0].Quantity = 9

	assert.Equal(t, 1, s.TotalItems())
}
