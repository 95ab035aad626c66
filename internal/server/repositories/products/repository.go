package products

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
}
