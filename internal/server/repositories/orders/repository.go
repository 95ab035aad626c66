package orders

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
	Update(ctx context.Context, order *models.Order) (*models.Order, error)
	Delete(ctx context.Context, id string) error
	IncomeByMonth(ctx context.Context, since time.Time) ([]models.MonthlyIncome, error)
}
