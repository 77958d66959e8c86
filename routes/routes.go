package routes

import (
	"github.com/RyanHasanSunny/ecommerce-backend-go/handlers"
	customMiddleware "github.com/RyanHasanSunny/ecommerce-backend-go/middleware"
	"github.com/labstack/echo/v4"
)

func SetupRoutes(e *echo.Echo) {
	// Public routes
	e.POST("/api/auth/register", handlers.Register)
	e.POST("/api/auth/login", handlers.Login)
	e.GET("/api/products", handlers.GetProducts)
	e.GET("/api/products/:id", handlers.GetProduct)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", customMiddleware.PrometheusHandler())

	// Authenticated API routes
	api := e.Group("/api")
	api.Use(customMiddleware.Auth())

	api.GET("/users/me", handlers.GetProfile)

	// Cart routes
	api.POST("/cart", handlers.AddToCart)
	api.GET("/cart", handlers.GetCart)
	api.PUT("/cart/item/:itemId", handlers.UpdateCartItem)
	api.DELETE("/cart/item/:itemId", handlers.RemoveCartItem)
	api.DELETE("/cart/clear", handlers.ClearCart)
	api.POST("/cart/promo", handlers.ApplyPromo)
	api.DELETE("/cart/promo", handlers.RemovePromo)

	// Order routes
	api.POST("/orders", handlers.CreateOrder)
	api.GET("/orders/my", handlers.GetMyOrders)
	api.GET("/orders/my/:orderId", handlers.GetMyOrder)

	// Admin routes
	admin := api.Group("", customMiddleware.AdminOnly())
	admin.GET("/orders/admin/all", handlers.GetAllOrders)
	admin.PUT("/orders/admin/:orderId/status", handlers.UpdateOrderStatus)
	admin.PUT("/orders/admin/:orderId/payment", handlers.UpdateOrderPayment)
	admin.GET("/orders/admin/stats", handlers.GetOrderStats)

	admin.POST("/products", handlers.CreateProduct)
	admin.PUT("/products/:id", handlers.UpdateProduct)
	admin.DELETE("/products/:id", handlers.DeleteProduct)

	admin.GET("/promos", handlers.GetPromos)
	admin.POST("/promos", handlers.CreatePromo)
	admin.PUT("/promos/enabled", handlers.SetPromoEnabled)
	admin.PUT("/promos/:code", handlers.UpdatePromo)
	admin.DELETE("/promos/:code", handlers.DeletePromo)
}
