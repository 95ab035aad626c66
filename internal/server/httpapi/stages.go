package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/gin-gonic/gin"
)

// MaxBodyBytes bounds request bodies read by the validation stage.
const MaxBodyBytes = 1 << 20

const msgTokenNotValid = "token not valid"

var (
	msgNotAuthenticated = common.ErrNotAuthenticated.Error()
	msgNotAllowed       = common.ErrNotAuthorized.Error()
)

// TokenVerifier turns a bearer token into a verified identity.
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// SchemaValidator decodes and validates a request body against a named schema.
type SchemaValidator interface {
	Decode(name validation.Schema, body []byte) (any, error)
}

// Validate rejects bodies that do not match schema with 400 and the first
// violation as plain text. On success the decoded payload is attached to
// the request.
func Validate(v SchemaValidator, schema validation.Schema) Stage {
	return StageFunc(func(c *gin.Context) *Rejection {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return &Rejection{Status: http.StatusRequestEntityTooLarge, Message: "request body too large", Reason: err.Error()}
			}
			return &Rejection{Status: http.StatusBadRequest, Message: "request body could not be read", Reason: err.Error()}
		}

		p, err := v.Decode(schema, body)
		if err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				return &Rejection{
					Status:  http.StatusBadRequest,
					Message: verr.Message,
					Reason:  fmt.Sprintf("schema %s: field %q failed %q", schema, verr.Field, verr.Rule),
				}
			}
			return &Rejection{Status: http.StatusInternalServerError, Message: "internal error", JSON: true, Reason: err.Error()}
		}

		c.Set(payloadKey, p)
		return nil
	})
}

// Authenticate requires a session token in the "token" header, written as
// "Bearer <token>". A missing header is 401; anything wrong with a present
// one, expiry included, is 403.
func Authenticate(v TokenVerifier) Stage {
	return StageFunc(func(c *gin.Context) *Rejection {
		header := c.GetHeader(common.AccessTokenHeaderName)
		if header == "" {
			return &Rejection{Status: http.StatusUnauthorized, Message: msgNotAuthenticated, Reason: "no token header"}
		}

		scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return &Rejection{Status: http.StatusForbidden, Message: msgTokenNotValid, Reason: "malformed token header"}
		}

		id, err := v.Verify(token)
		if err != nil {
			reason := "invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				reason = "expired token"
			}
			return &Rejection{Status: http.StatusForbidden, Message: msgTokenNotValid, Reason: reason}
		}

		c.Set(identityKey, *id)
		return nil
	})
}

// Policy decides whether an authenticated identity may use a route.
type Policy struct {
	name   string
	decide func(id auth.Identity, c *gin.Context) auth.Decision
}

// SelfOrAdmin lets through the subject whose id is the route parameter
// param, and administrators.
func SelfOrAdmin(param string) Policy {
	return Policy{
		name: "self-or-admin(" + param + ")",
		decide: func(id auth.Identity, c *gin.Context) auth.Decision {
			return auth.SelfOrAdmin(id, c.Param(param))
		},
	}
}

// AdminOnly lets through administrators.
func AdminOnly() Policy {
	return Policy{
		name: "admin-only",
		decide: func(id auth.Identity, _ *gin.Context) auth.Decision {
			return auth.AdminOnly(id)
		},
	}
}

// Authorize applies p to the identity left by Authenticate. It must come
// after Authenticate in a pipeline; running it without an identity panics.
func Authorize(p Policy) Stage {
	return StageFunc(func(c *gin.Context) *Rejection {
		id := mustIdentity(c)
		if p.decide(id, c) == auth.Deny {
			return &Rejection{
				Status:  http.StatusForbidden,
				Message: msgNotAllowed,
				JSON:    true,
				Reason:  fmt.Sprintf("%s denied subject %s", p.name, id.SubjectID),
			}
		}
		return nil
	})
}
