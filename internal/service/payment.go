package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/pkg/paypal"
)

type PaymentProvider interface {
	Configured() bool
	CreateOrder(ctx context.Context, amount decimal.Decimal) (*paypal.CreateOrderResponse, error)
}

type PaymentService struct {
	Provider PaymentProvider
}

func (s *PaymentService) CreatePayPalOrder(ctx context.Context, amount decimal.Decimal) (*paypal.CreateOrderResponse, error) {
	if s.Provider == nil || !s.Provider.Configured() {
		return nil, fmt.Errorf("%w: payment provider not configured", ErrUnavailable)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be > 0", ErrValidation)
	}
	return s.Provider.CreateOrder(ctx, amount)
}
