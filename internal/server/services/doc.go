// Package services contains the storefront business logic that sits between
// the HTTP handlers and the repositories: accounts and sessions, the product
// catalogue with its image uploads, carts, orders and payment capture.
//
// Services obtain repositories from a repomanager.RepositoryManager, bound
// either to the database handle or to a transaction opened with dbx.WithTx.
package services
