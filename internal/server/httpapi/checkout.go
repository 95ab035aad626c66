package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/gin-gonic/gin"
)

func (h *Handler) payment(c *gin.Context) {
	p := payload[validation.PaymentPayload](c)

	charge, err := h.payments.Capture(c.Request.Context(), p.TokenID, *p.Amount)
	if err != nil {
		if errors.Is(err, common.ErrPaymentDeclined) {
			writeServiceError(c, err)
			return
		}
		requestLogger(c).Error(c.Request.Context(), "payment gateway failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "payment gateway error"})
		return
	}
	c.JSON(http.StatusOK, charge)
}
