package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/gin-gonic/gin"
)

func productFromPayload(p *validation.ProductPayload) *models.Product {
	categories := p.Categories
	if categories == nil {
		categories = []string{}
	}
	return &models.Product{
		Title:      p.Title,
		Desc:       p.Desc,
		Img:        p.Img,
		Categories: categories,
		Size:       p.Size,
		Color:      p.Color,
		Price:      *p.Price,
	}
}

func (h *Handler) createProduct(c *gin.Context) {
	p, err := h.products.Create(c.Request.Context(), productFromPayload(payload[validation.ProductPayload](c)))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updateProduct(c *gin.Context) {
	p, err := h.products.Update(c.Request.Context(), c.Param("id"), productFromPayload(payload[validation.ProductPayload](c)))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product has been deleted"})
}

func (h *Handler) getProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// listProducts serves ?new=true (latest product) and ?category=<name>.
func (h *Handler) listProducts(c *gin.Context) {
	filter := models.ProductFilter{
		Newest:   c.Query("new") == "true",
		Category: c.Query("category"),
	}
	products, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) productImageUpload(c *gin.Context) {
	up, err := h.products.ImageUpload(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, up)
}

func (h *Handler) productImage(c *gin.Context) {
	url, err := h.products.ImageURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}
