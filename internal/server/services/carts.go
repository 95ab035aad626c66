package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

type CartService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCartService(db *sql.DB, m repomanager.RepositoryManager) *CartService {
	return &CartService{db: db, repomanager: m}
}

// Create stores a new cart for cart.UserID. A user has at most one cart.
func (s *CartService) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	return s.repomanager.Carts(s.db).Create(ctx, cart)
}

// Replace swaps the items of userID's cart.
func (s *CartService) Replace(ctx context.Context, userID string, items []models.LineItem) (*models.Cart, error) {
	return s.repomanager.Carts(s.db).Update(ctx, &models.Cart{UserID: userID, Products: items})
}

func (s *CartService) Delete(ctx context.Context, userID string) error {
	return s.repomanager.Carts(s.db).Delete(ctx, userID)
}

func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	return s.repomanager.Carts(s.db).GetByUserID(ctx, userID)
}

func (s *CartService) List(ctx context.Context) ([]*models.Cart, error) {
	carts, err := s.repomanager.Carts(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	if carts == nil {
		carts = []*models.Cart{}
	}
	return carts, nil
}
