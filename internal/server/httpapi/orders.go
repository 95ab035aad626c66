package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/gin-gonic/gin"
)

// createOrder stores an order. Non-administrators may only order for
// themselves.
func (h *Handler) createOrder(c *gin.Context) {
	p := payload[validation.OrderPayload](c)
	id := mustIdentity(c)

	if !id.IsAdmin && p.UserID != id.SubjectID {
		reject(c, &Rejection{Status: http.StatusForbidden, Message: msgNotAllowed, JSON: true, Reason: "order for another user"})
		return
	}

	o, err := h.orders.Create(c.Request.Context(), &models.Order{
		UserID:   p.UserID,
		Products: lineItems(p.Products),
		Amount:   *p.Amount,
		Address:  p.Address,
		Status:   p.Status,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) updateOrder(c *gin.Context) {
	p := payload[validation.OrderUpdatePayload](c)

	o, err := h.orders.SetStatus(c.Request.Context(), c.Param("id"), p.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order has been deleted"})
}

func (h *Handler) userOrders(c *gin.Context) {
	orders, err := h.orders.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) income(c *gin.Context) {
	income, err := h.orders.Income(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, income)
}
