package services

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/payments"
)

// PaymentService captures checkout payments in the configured currency.
type PaymentService struct {
	gateway  payments.Gateway
	currency string
}

func NewPaymentService(g payments.Gateway, currency string) *PaymentService {
	return &PaymentService{gateway: g, currency: currency}
}

// Capture charges amount (smallest currency unit) to the card token.
func (s *PaymentService) Capture(ctx context.Context, tokenID string, amount int64) (*models.Charge, error) {
	return s.gateway.Charge(ctx, payments.ChargeRequest{
		Source:   tokenID,
		Amount:   amount,
		Currency: s.currency,
	})
}
