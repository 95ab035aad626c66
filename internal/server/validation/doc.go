// Package validation holds the named request body schemas of the storefront
// API and checks inbound JSON against them with go-playground/validator.
//
// Validation is fail-fast: only the first violated constraint is reported,
// as an *Error whose Message is suitable for returning to the client
// verbatim (for example `"email" is required`).
package validation
