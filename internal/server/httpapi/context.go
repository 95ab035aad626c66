package httpapi

import (
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const (
	identityKey  = "identity"
	payloadKey   = "payload"
	loggerKey    = "logger"
	requestIDKey = "request_id"
)

// IdentityFromContext returns the verified identity attached by the
// authentication stage.
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func mustIdentity(c *gin.Context) auth.Identity {
	id, ok := IdentityFromContext(c)
	if !ok {
		panic(fmt.Sprintf("httpapi: %s %s reached an identity consumer without authentication", c.Request.Method, c.FullPath()))
	}
	return id
}

// payload returns the body decoded by the validation stage. Asking for a
// payload on a route without that stage is a wiring bug and panics.
func payload[T any](c *gin.Context) *T {
	v, ok := c.Get(payloadKey)
	if !ok {
		panic(fmt.Sprintf("httpapi: %s %s has no validated payload", c.Request.Method, c.FullPath()))
	}
	p, ok := v.(*T)
	if !ok {
		panic(fmt.Sprintf("httpapi: payload of %s %s is %T", c.Request.Method, c.FullPath(), v))
	}
	return p
}

func requestLogger(c *gin.Context) logging.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logging.Logger); ok {
			return l
		}
	}
	return logging.NewNopLogger()
}
