package routes

import (
	"order-admin-service/controllers"
	"order-admin-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterOrderRoutes sets up all order administration routes.
func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController) {
	orderRoutes := r.Group("/api/order")
	orderRoutes.Use(middleware.AuthMiddleware())
	orderRoutes.GET("/", oc.GetOrders)
	orderRoutes.GET("/filter", oc.GetOrdersByStatus)
	orderRoutes.GET("/search", oc.SearchOrders)
	orderRoutes.GET("/processing", oc.GetProcessingCount)

	// Status mutation is admin-only
	adminRoutes := orderRoutes.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.POST("/status", oc.UpdateOrderStatus)

	itemRoutes := r.Group("/api/order-item")
	itemRoutes.Use(middleware.AuthMiddleware())
	itemRoutes.GET("/", oc.GetOrderItems)
}
