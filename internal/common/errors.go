// Package common defines shared constants and sentinel errors used across
// the storefront server and its tooling. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal         = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Request pipeline errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not allowed")
	ErrValidationFailed = errors.New("validation failed")

	// Token errors. ErrTokenExpired is only distinguishable internally;
	// at the HTTP boundary both map to the same rejection.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrHashingFailed reports a failure of the password hashing primitive
	// itself, never a wrong password.
	ErrHashingFailed = errors.New("password hashing failed")

	// ErrPaymentDeclined is returned by payment gateways that refuse a charge.
	ErrPaymentDeclined = errors.New("payment declined")
)
