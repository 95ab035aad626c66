// Package products provides the PostgreSQL-backed product catalogue.
// Categories are stored as a JSONB array of strings.
package products

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

// NewestLimit caps the "newest products" listing.
const NewestLimit = 1

var newID = uuid.NewString

const productColumns = `id, title, description, img, categories, size, color, price, created_at, updated_at`

// PostgresRepository implements product storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	var categories []byte
	err := row.Scan(&p.ID, &p.Title, &p.Desc, &p.Img, &categories, &p.Size, &p.Color, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &p.Categories); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	return p, nil
}

func encodeCategories(c []string) ([]byte, error) {
	if c == nil {
		c = []string{}
	}
	return json.Marshal(c)
}

func wrapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if dbx.IsUniqueViolation(err) {
		return common.ErrorAlreadyExists
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	categories, err := encodeCategories(p.Categories)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO products (id, title, description, img, categories, size, color, price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at
		 `

	id := newID()
	err = r.db.QueryRowContext(ctx, query,
		id, p.Title, p.Desc, p.Img, categories, p.Size, p.Color, p.Price).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}

	p.ID = id
	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapErr(err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	categories, err := encodeCategories(p.Categories)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE products
		 SET title = $2, description = $3, img = $4, categories = $5, size = $6, color = $7, price = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Desc, p.Img, categories, p.Size, p.Color, p.Price).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
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

// List returns products matching filter, newest first. With filter.Newest
// only the most recent product is returned; otherwise a non-empty Category
// keeps the products tagged with it.
func (r *PostgresRepository) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any

	switch {
	case filter.Newest:
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, NewestLimit)
	case filter.Category != "":
		query += ` WHERE categories @> jsonb_build_array($1::text) ORDER BY created_at DESC`
		args = append(args, filter.Category)
	default:
		query += ` ORDER BY created_at DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var result []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return result, nil
}
