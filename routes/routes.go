package routes

import (
	"storefront-service/controllers"
	"storefront-service/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers bundles every controller the router wires up.
type Controllers struct {
	Products *controllers.ProductController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Vouchers *controllers.VoucherController
	Orders   *controllers.OrderController
	Shipping *controllers.ShippingController
}

// Register sets up the storefront and admin route groups.
func Register(r *gin.Engine, c Controllers, adminAPIKey string) {
	// Catalog and shipping are public reads.
	r.GET("/products", c.Products.ListProducts)
	r.GET("/products/:id", c.Products.GetProduct)
	r.GET("/payment-methods", c.Products.ListPaymentMethods)
	r.GET("/shipping/locations", c.Shipping.ListLocations)
	r.GET("/orders/track/:number", c.Orders.TrackOrder)
	r.POST("/vouchers/validate", c.Vouchers.ValidateVoucher)

	// Cart and checkout are keyed on the anonymous session.
	cartRoutes := r.Group("/cart")
	cartRoutes.Use(middleware.SessionMiddleware())
	cartRoutes.GET("", c.Cart.GetCart)
	cartRoutes.DELETE("", c.Cart.ClearCart)
	cartRoutes.POST("/items", c.Cart.AddItem)
	cartRoutes.PUT("/items/:index", c.Cart.UpdateQuantity)
	cartRoutes.DELETE("/items/:index", c.Cart.RemoveItem)

	checkoutRoutes := r.Group("/checkout")
	checkoutRoutes.Use(middleware.SessionMiddleware())
	checkoutRoutes.GET("", c.Checkout.GetSession)
	checkoutRoutes.POST("/details", c.Checkout.SubmitDetails)
	checkoutRoutes.POST("/back", c.Checkout.BackToDetails)
	checkoutRoutes.POST("/voucher", c.Checkout.ApplyVoucher)
	checkoutRoutes.DELETE("/voucher", c.Checkout.RemoveVoucher)
	checkoutRoutes.POST("/order", c.Checkout.PlaceOrder)

	// Admin-only routes
	adminRoutes := r.Group("")
	adminRoutes.Use(middleware.AdminAuth(adminAPIKey))
	adminRoutes.GET("/orders", c.Orders.ListOrders)
	adminRoutes.PATCH("/orders/:id/status", c.Orders.UpdateOrderStatus)
	adminRoutes.PATCH("/orders/:id/payment-status", c.Orders.UpdatePaymentStatus)
	adminRoutes.POST("/vouchers", c.Vouchers.CreateVoucher)
	adminRoutes.GET("/vouchers", c.Vouchers.ListVouchers)
	adminRoutes.DELETE("/vouchers/:code", c.Vouchers.DeactivateVoucher)
}
