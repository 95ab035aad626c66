package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

// DefaultOrderStatus is assigned to orders created without a status.
const DefaultOrderStatus = models.OrderStatusPending

type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager) *OrderService {
	return &OrderService{db: db, repomanager: m, now: time.Now}
}

func (s *OrderService) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.Status == "" {
		order.Status = DefaultOrderStatus
	}
	return s.repomanager.Orders(s.db).Create(ctx, order)
}

// SetStatus changes the status of order id.
func (s *OrderService) SetStatus(ctx context.Context, id, status string) (*models.Order, error) {
	var updated *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Orders(tx)
		o, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		o.Status = status
		updated, err = repo.Update(ctx, o)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Orders(s.db).Delete(ctx, id)
}

// ListByUser returns the orders of userID, or common.ErrorNotFound when the
// user has none.
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	orders, err := s.repomanager.Orders(s.db).ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, common.ErrorNotFound
	}
	return orders, nil
}

func (s *OrderService) List(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.repomanager.Orders(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// Income sums order amounts per month for orders created in the last two
// months, counted back from the current instant.
func (s *OrderService) Income(ctx context.Context) ([]models.MonthlyIncome, error) {
	income, err := s.repomanager.Orders(s.db).IncomeByMonth(ctx, incomeWindowStart(s.now()))
	if err != nil {
		return nil, err
	}
	if income == nil {
		income = []models.MonthlyIncome{}
	}
	return income, nil
}

// incomeWindowStart keeps the time of day. Day overflow normalizes the way
// time.AddDate does, so Apr 30 maps to Mar 2.
func incomeWindowStart(t time.Time) time.Time {
	return t.AddDate(0, -2, 0)
}
