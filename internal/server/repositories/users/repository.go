package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]*models.User, error)
	CountByMonth(ctx context.Context, since time.Time) ([]models.MonthlyCount, error)
}
