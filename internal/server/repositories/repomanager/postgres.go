// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/migrations"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/carts"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/orders"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Products returns a products.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Products(db dbx.DBTX) products.Repository {
	return products.NewPostgresRepository(db)
}

// Carts returns a carts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Carts(db dbx.DBTX) carts.Repository {
	return carts.NewPostgresRepository(db)
}

// Orders returns an orders.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Orders(db dbx.DBTX) orders.Repository {
	return orders.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
