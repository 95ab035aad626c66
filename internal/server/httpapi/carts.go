package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/gin-gonic/gin"
)

func lineItems(items []validation.LineItem) []models.LineItem {
	out := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.LineItem{ProductID: it.ProductID, Quantity: *it.Quantity})
	}
	return out
}

// createCart makes a cart for the caller. Only administrators may name
// another owner in userId.
func (h *Handler) createCart(c *gin.Context) {
	p := payload[validation.CartPayload](c)
	id := mustIdentity(c)

	owner := id.SubjectID
	if p.UserID != "" && p.UserID != id.SubjectID {
		if !id.IsAdmin {
			reject(c, &Rejection{Status: http.StatusForbidden, Message: msgNotAllowed, JSON: true, Reason: "cart for another user"})
			return
		}
		owner = p.UserID
	}

	cart, err := h.carts.Create(c.Request.Context(), &models.Cart{UserID: owner, Products: lineItems(p.Products)})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

func (h *Handler) replaceCart(c *gin.Context) {
	p := payload[validation.CartPayload](c)

	cart, err := h.carts.Replace(c.Request.Context(), c.Param("userId"), lineItems(p.Products))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) deleteCart(c *gin.Context) {
	if err := h.carts.Delete(c.Request.Context(), c.Param("userId")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart has been deleted"})
}

func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) listCarts(c *gin.Context) {
	carts, err := h.carts.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carts)
}
