package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/gin-gonic/gin"
)

// Deps is everything the router needs to serve the API.
type Deps struct {
	Tokens    TokenVerifier
	Validator SchemaValidator
	Users     UserService
	Products  ProductService
	Carts     CartService
	Orders    OrderService
	Payments  PaymentService
}

// Register mounts the API routes on r. Validation runs before
// authentication on every route that takes a body.
func Register(r gin.IRouter, d Deps) {
	h := &Handler{
		users:    d.Users,
		products: d.Products,
		carts:    d.Carts,
		orders:   d.Orders,
		payments: d.Payments,
	}

	valid := func(s validation.Schema) Stage { return Validate(d.Validator, s) }
	authn := Authenticate(d.Tokens)
	self := func(param string) Stage { return Authorize(SelfOrAdmin(param)) }
	admin := Authorize(AdminOnly())

	api := r.Group("/api")

	api.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ag := api.Group("/auth")
	ag.POST("/register", Pipeline{valid(validation.SchemaUser)}.Then(h.register))
	ag.POST("/login", Pipeline{valid(validation.SchemaLogin)}.Then(h.login))

	ug := api.Group("/users")
	ug.PUT("/:id", Pipeline{valid(validation.SchemaUserUpdate), authn, self("id")}.Then(h.updateUser))
	ug.DELETE("/:id", Pipeline{authn, self("id")}.Then(h.deleteUser))
	ug.GET("/find/:id", Pipeline{authn, admin}.Then(h.getUser))
	ug.GET("", Pipeline{authn, admin}.Then(h.listUsers))
	ug.GET("/stats", Pipeline{authn, admin}.Then(h.userStats))

	pg := api.Group("/products")
	pg.POST("", Pipeline{valid(validation.SchemaProduct), authn, admin}.Then(h.createProduct))
	pg.PUT("/:id", Pipeline{valid(validation.SchemaProduct), authn, admin}.Then(h.updateProduct))
	pg.DELETE("/:id", Pipeline{authn, admin}.Then(h.deleteProduct))
	pg.GET("/find/:id", h.getProduct)
	pg.GET("", h.listProducts)
	pg.POST("/image/:id", Pipeline{authn, admin}.Then(h.productImageUpload))
	pg.GET("/image/:id", h.productImage)

	cg := api.Group("/carts")
	cg.POST("", Pipeline{valid(validation.SchemaCart), authn}.Then(h.createCart))
	cg.PUT("/:userId", Pipeline{valid(validation.SchemaCart), authn, self("userId")}.Then(h.replaceCart))
	cg.DELETE("/:userId", Pipeline{authn, self("userId")}.Then(h.deleteCart))
	cg.GET("/find/:userId", Pipeline{authn, self("userId")}.Then(h.getCart))
	cg.GET("", Pipeline{authn, admin}.Then(h.listCarts))

	og := api.Group("/orders")
	og.POST("", Pipeline{valid(validation.SchemaOrder), authn}.Then(h.createOrder))
	og.PUT("/:id", Pipeline{valid(validation.SchemaOrderUpdate), authn, admin}.Then(h.updateOrder))
	og.DELETE("/:id", Pipeline{authn, admin}.Then(h.deleteOrder))
	og.GET("/find/:userId", Pipeline{authn, self("userId")}.Then(h.userOrders))
	og.GET("", Pipeline{authn, admin}.Then(h.listOrders))
	og.GET("/income", Pipeline{authn, admin}.Then(h.income))

	api.POST("/checkout/payment", Pipeline{valid(validation.SchemaPayment), authn}.Then(h.payment))
}
