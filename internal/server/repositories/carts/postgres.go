// Package carts persists shopping carts. Line items live in a JSONB column.
package carts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
)

var newID = uuid.NewString

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func wrapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if dbx.IsUniqueViolation(err) {
		return common.ErrorAlreadyExists
	}
	// The owning user does not exist.
	if dbx.IsForeignKeyViolation(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func encodeItems(items []models.LineItem) ([]byte, error) {
	if items == nil {
		items = []models.LineItem{}
	}
	return json.Marshal(items)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCart(row rowScanner) (*models.Cart, error) {
	c := &models.Cart{}
	var items []byte
	if err := row.Scan(&c.ID, &c.UserID, &items, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &c.Products); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	return c, nil
}

// Create inserts a cart. A second cart for the same user yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	items, err := encodeItems(cart.Products)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO carts (id, user_id, products)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at
		 `

	id := newID()
	if err := r.db.QueryRowContext(ctx, query, id, cart.UserID, items).Scan(&cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return nil, wrapErr(err)
	}

	cart.ID = id
	if cart.Products == nil {
		cart.Products = []models.LineItem{}
	}
	return cart, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	query := `SELECT id, user_id, products, created_at, updated_at FROM carts WHERE user_id = $1`

	c, err := scanCart(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, wrapErr(err)
	}
	return c, nil
}

// Update replaces the items of the cart owned by cart.UserID.
func (r *PostgresRepository) Update(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	items, err := encodeItems(cart.Products)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE carts SET products = $2, updated_at = now()
		 WHERE user_id = $1
		 RETURNING id, user_id, products, created_at, updated_at
		 `

	c, err := scanCart(r.db.QueryRowContext(ctx, query, cart.UserID, items))
	if err != nil {
		return nil, wrapErr(err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
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

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Cart, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, products, created_at, updated_at FROM carts ORDER BY created_at DESC`)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var result []*models.Cart
	for rows.Next() {
		c, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return result, nil
}
