package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/gin-gonic/gin"
)

// writeServiceError maps an error returned by a service to its response.
// Unexpected errors are logged and reported as a bare 500.
func writeServiceError(c *gin.Context, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		c.String(http.StatusBadRequest, verr.Message)
	case errors.Is(err, common.ErrInvalidCredentials):
		c.String(http.StatusBadRequest, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"message": "already exists"})
	case errors.Is(err, common.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"message": msgNotAllowed})
	case errors.Is(err, common.ErrPaymentDeclined):
		c.JSON(http.StatusPaymentRequired, gin.H{"message": common.ErrPaymentDeclined.Error()})
	case errors.Is(err, common.ErrHashingFailed):
		requestLogger(c).Error(c.Request.Context(), "password hashing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": common.ErrorInternal.Error()})
	default:
		requestLogger(c).Error(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": common.ErrorInternal.Error()})
	}
}
