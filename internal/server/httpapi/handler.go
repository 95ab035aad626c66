package httpapi

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Update(ctx context.Context, id string, upd services.UserUpdate, allowAdminChange bool) (*models.User, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, newest bool) ([]*models.User, error)
	Stats(ctx context.Context) ([]models.MonthlyCount, error)
}

type ProductService interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, id string, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	ImageUpload(ctx context.Context, id string) (*models.ImageUpload, error)
	ImageURL(ctx context.Context, id string) (string, error)
}

type CartService interface {
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Replace(ctx context.Context, userID string, items []models.LineItem) (*models.Cart, error)
	Delete(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (*models.Cart, error)
	List(ctx context.Context) ([]*models.Cart, error)
}

type OrderService interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	SetStatus(ctx context.Context, id, status string) (*models.Order, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
	Income(ctx context.Context) ([]models.MonthlyIncome, error)
}

type PaymentService interface {
	Capture(ctx context.Context, tokenID string, amount int64) (*models.Charge, error)
}

// Handler holds the services the route handlers call into.
type Handler struct {
	users    UserService
	products ProductService
	carts    CartService
	orders   OrderService
	payments PaymentService
}
