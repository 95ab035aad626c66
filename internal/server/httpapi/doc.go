// Package httpapi exposes the storefront services as JSON over HTTP using gin.
//
// Every route is a Pipeline: an ordered list of stages (body validation,
// authentication, authorization) followed by the business handler. A stage
// either passes or returns a Rejection; the first rejection is written as the
// response and nothing after it runs.
package httpapi
