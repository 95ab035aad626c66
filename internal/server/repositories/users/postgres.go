// Package users stores credentials in PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
)

var newID = uuid.NewString

const userColumns = `id, username, email, password_hash, is_admin, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func wrapErr(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return common.ErrorNotFound
	case dbx.IsUniqueViolation(err):
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, username, email, password_hash, is_admin)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	id := newID()
	err := r.db.QueryRowContext(ctx, query,
		id, user.Username, user.Email, user.PasswordHash, user.IsAdmin).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapErr(err)
	}
	return u, nil
}

// GetByEmail looks a credential up by its contact address.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrapErr(err)
	}
	return u, nil
}

// Update overwrites every mutable column of the user and refreshes
// updated_at.
func (r *PostgresRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`UPDATE users
		 SET username = $2, email = $3, password_hash = $4, is_admin = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.IsAdmin).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

// List returns users newest first. A positive limit caps the result.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapErr(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return users, nil
}

// CountByMonth returns the number of registrations per calendar month for
// accounts created at or after since, oldest month first.
func (r *PostgresRepository) CountByMonth(ctx context.Context, since time.Time) ([]models.MonthlyCount, error) {
	query :=
		`SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int, COUNT(*)
		 FROM users
		 WHERE created_at >= $1
		 GROUP BY 1, 2
		 ORDER BY 1, 2
		 `

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var out []models.MonthlyCount
	for rows.Next() {
		var m models.MonthlyCount
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
