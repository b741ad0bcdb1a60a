package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeApproves(t *testing.T) {
	s := NewSimulator(time.Millisecond, nil)

	c, err := s.Charge(context.Background(), decimal.RequireFromString("155.90"), MethodPix)

	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, MethodPix, c.Method)
	assert.True(t, decimal.RequireFromString("155.90").Equal(c.Amount))
}

func TestChargeHonoursCancel(t *testing.T) {
	s := NewSimulator(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Charge(ctx, decimal.NewFromInt(10), MethodCreditCard)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestChargeRejectsBadInput(t *testing.T) {
	s := NewSimulator(0, nil)

	_, err := s.Charge(context.Background(), decimal.NewFromInt(-1), MethodBoleto)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.Charge(context.Background(), decimal.NewFromInt(1), "cash")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodCreditCard, m)

	m, err = ParseMethod("boleto")
	require.NoError(t, err)
	assert.Equal(t, MethodBoleto, m)
}
