// Package payments captures card payments through a Gateway. The sandbox
// gateway approves every charge except those made with the decline test
// token, which makes it usable in development and tests.
package payments

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
)

// DeclineToken makes SandboxGateway refuse the charge.
const DeclineToken = "tok_chargeDeclined"

// ChargeRequest describes a capture. Amount is in the smallest currency unit.
type ChargeRequest struct {
	Source   string
	Amount   int64
	Currency string
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*models.Charge, error)
}

type SandboxGateway struct {
	logger logging.Logger
	now    func() time.Time
}

func NewSandboxGateway(logger logging.Logger) *SandboxGateway {
	return &SandboxGateway{logger: logger, now: time.Now}
}

func (g *SandboxGateway) Charge(ctx context.Context, req ChargeRequest) (*models.Charge, error) {
	if req.Source == "" || strings.HasPrefix(req.Source, DeclineToken) {
		g.logger.Warn(ctx, "sandbox charge declined", "amount", req.Amount, "currency", req.Currency)
		return nil, common.ErrPaymentDeclined
	}

	charge := &models.Charge{
		ID:       "ch_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Amount:   req.Amount,
		Currency: req.Currency,
		Source:   req.Source,
		Status:   "succeeded",
		Created:  g.now().UTC(),
	}

	g.logger.Info(ctx, "sandbox charge captured", "charge_id", charge.ID, "amount", req.Amount, "currency", req.Currency)
	return charge, nil
}
