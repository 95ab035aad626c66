package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/carts"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/orders"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/products"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so that services can
// run the same code inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Products(db dbx.DBTX) products.Repository
	Carts(db dbx.DBTX) carts.Repository
	Orders(db dbx.DBTX) orders.Repository
}
