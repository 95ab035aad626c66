// Package orders persists customer orders. Line items and the shipping
// address are stored as JSONB.
package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
)

var newID = uuid.NewString

const orderColumns = `id, user_id, products, amount, address, status, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func wrapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsForeignKeyViolation(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	o := &models.Order{}
	var items, address []byte
	if err := row.Scan(&o.ID, &o.UserID, &items, &o.Amount, &address, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Products); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	if err := json.Unmarshal(address, &o.Address); err != nil {
		return nil, fmt.Errorf("decode order address: %w", err)
	}
	return o, nil
}

func encode(order *models.Order) (items, address []byte, err error) {
	products := order.Products
	if products == nil {
		products = []models.LineItem{}
	}
	if items, err = json.Marshal(products); err != nil {
		return nil, nil, err
	}
	addr := order.Address
	if addr == nil {
		addr = map[string]any{}
	}
	if address, err = json.Marshal(addr); err != nil {
		return nil, nil, err
	}
	return items, address, nil
}

func (r *PostgresRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var result []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	items, address, err := encode(order)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO orders (id, user_id, products, amount, address, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	id := newID()
	err = r.db.QueryRowContext(ctx, query,
		id, order.UserID, items, order.Amount, address, order.Status).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}

	order.ID = id
	return order, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr(err)
	}
	return o, nil
}

func (r *PostgresRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// Update overwrites the mutable columns of the order and returns the stored row.
func (r *PostgresRepository) Update(ctx context.Context, order *models.Order) (*models.Order, error) {
	items, address, err := encode(order)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE orders
		 SET products = $2, amount = $3, address = $4, status = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + orderColumns

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, order.ID, items, order.Amount, address, order.Status))
	if err != nil {
		return nil, wrapErr(err)
	}
	return o, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return wrapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// IncomeByMonth sums order amounts per calendar month for orders created at
// or after since, oldest month first.
func (r *PostgresRepository) IncomeByMonth(ctx context.Context, since time.Time) ([]models.MonthlyIncome, error) {
	query :=
		`SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int, SUM(amount)::float8
		 FROM orders
		 WHERE created_at >= $1
		 GROUP BY 1, 2
		 ORDER BY 1, 2
		 `

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []models.MonthlyIncome
	for rows.Next() {
		var m models.MonthlyIncome
		if err := rows.Scan(&m.Year, &m.Month, &m.Total); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}
