package carts

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// Repository stores at most one cart per user.
type Repository interface {
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	GetByUserID(ctx context.Context, userID string) (*models.Cart, error)
	Update(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]*models.Cart, error)
}
