package handlers

import (
	"github.com/DivyaP1063/shophub/middleware"
	"github.com/DivyaP1063/shophub/models"

	"github.com/gin-gonic/gin"
)

type Routes struct {
	Auth      *AuthHandler
	Products  *ProductHandler
	Carts     *CartHandler
	Wishlists *WishlistHandler
	Orders    *OrderHandler
}

// Register mounts the API on api. auth must authenticate the bearer token
// and store the user for middleware.CurrentUser.
func (r Routes) Register(api *gin.RouterGroup, auth gin.HandlerFunc) {
	api.GET("/health", HealthCheck)
	api.POST("/auth/register", r.Auth.Register)
	api.POST("/auth/login", r.Auth.Login)

	buyer := middleware.RequireRole(models.RoleBuyer)
	seller := middleware.RequireRole(models.RoleSeller)

	products := api.Group("/products")
	products.GET("", r.Products.GetProducts)
	products.GET("/:id", r.Products.GetProduct)
	products.POST("", auth, seller, r.Products.CreateProduct)
	products.PUT("/:id", auth, seller, r.Products.UpdateProduct)
	products.DELETE("/:id", auth, seller, r.Products.DeleteProduct)

	carts := api.Group("/cart", auth, buyer)
	carts.GET("", r.Carts.GetCart)
	carts.POST("", r.Carts.AddItem)
	carts.PUT("", r.Carts.UpdateItem)
	carts.DELETE("", r.Carts.ClearCart)
	carts.DELETE("/:productId", r.Carts.RemoveItem)

	wishlist := api.Group("/wishlist", auth, buyer)
	wishlist.GET("", r.Wishlists.GetWishlist)
	wishlist.POST("", r.Wishlists.AddProduct)
	wishlist.DELETE("/:productId", r.Wishlists.RemoveProduct)

	orders := api.Group("/orders", auth)
	orders.POST("/user", buyer, r.Orders.CreateOrder)
	orders.GET("/user", buyer, r.Orders.GetUserOrders)
	orders.POST("/verify-payment", buyer, r.Orders.VerifyPayment)
	orders.GET("/seller", seller, r.Orders.GetSellerOrders)
	orders.PUT("/:orderId/status", seller, r.Orders.UpdateOrderStatus)
}
