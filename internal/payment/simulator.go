// Package payment stands in for a payment gateway: every charge succeeds
// after a fixed delay.
package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUnknownMethod = errors.New("unknown payment method")
	ErrInvalidAmount = errors.New("payment amount must not be negative")
)

type Method string

const (
	MethodCreditCard Method = "credit-card"
	MethodPix        Method = "pix"
	MethodBoleto     Method = "boleto"
)

// ParseMethod defaults an empty value to credit card, the form's preselection.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "":
		return MethodCreditCard, nil
	case MethodCreditCard, MethodPix, MethodBoleto:
		return Method(s), nil
	}
	return "", ErrUnknownMethod
}

type Charge struct {
	ID        string
	Amount    decimal.Decimal
	Method    Method
	ChargedAt time.Time
}

type Processor interface {
	Charge(ctx context.Context, amount decimal.Decimal, method Method) (Charge, error)
}

type Simulator struct {
	delay time.Duration
	log   *zap.Logger
}

func NewSimulator(delay time.Duration, log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{delay: delay, log: log}
}

// Charge waits out the delay; a cancelled context aborts the charge.
func (s *Simulator) Charge(ctx context.Context, amount decimal.Decimal, method Method) (Charge, error) {
	if amount.IsNegative() {
		return Charge{}, ErrInvalidAmount
	}
	if _, err := ParseMethod(string(method)); err != nil {
		return Charge{}, err
	}

	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return Charge{}, ctx.Err()
	case <-t.C:
	}

	c := Charge{ID: uuid.NewString(), Amount: amount, Method: method, ChargedAt: time.Now()}
	s.log.Info("payment approved",
		zap.String("charge_id", c.ID),
		zap.String("method", string(method)),
		zap.String("amount", amount.StringFixed(2)),
	)
	return c, nil
}
