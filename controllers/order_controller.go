package controllers

import (
	"net/http"
	"strings"

	"order-admin-service/models"
	"order-admin-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderController handles HTTP requests for order administration.
type OrderController struct {
	orderService services.OrderService
	validator    *RequestValidator
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
		validator:    NewRequestValidator(),
	}
}

// GetOrders handles GET /api/order/ (unfiltered, paginated, sortable).
func (oc *OrderController) GetOrders(ctx *gin.Context) {
	query, err := oc.validator.ParseListQuery(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	envelope, svcErr := oc.orderService.ListOrders(ctx.Request.Context(), query)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, envelope)
}

// GetOrdersByStatus handles GET /api/order/filter (status-filtered list).
func (oc *OrderController) GetOrdersByStatus(ctx *gin.Context) {
	query, err := oc.validator.ParseListQuery(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := oc.validator.ParseStatusFilter(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query.Status = &status

	envelope, svcErr := oc.orderService.ListOrders(ctx.Request.Context(), query)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, envelope)
}

// SearchOrders handles GET /api/order/search. The search term and both dates
// are required together; anything less is a 400.
func (oc *OrderController) SearchOrders(ctx *gin.Context) {
	query, err := oc.validator.ParseSearchQuery(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	envelope, svcErr := oc.orderService.SearchOrders(ctx.Request.Context(), query)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, envelope)
}

// GetOrderItems handles GET /api/order-item/. The order ID arrives as a query
// parameter, with the legacy X-Order-Id header as a fallback (the original
// contract carried it redundantly in both places).
func (oc *OrderController) GetOrderItems(ctx *gin.Context) {
	rawID := strings.TrimSpace(ctx.Query("orderId"))
	if rawID == "" {
		rawID = strings.TrimSpace(ctx.GetHeader("X-Order-Id"))
	}
	if rawID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}

	orderID, err := uuid.Parse(rawID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	detail, svcErr := oc.orderService.GetOrderDetail(ctx.Request.Context(), orderID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, detail)
}

// UpdateOrderStatus handles POST /api/order/status?orderId=&orderStatus=
// (empty body, params in the query string per the original contract).
func (oc *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	rawID := strings.TrimSpace(ctx.Query("orderId"))
	if rawID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}
	orderID, err := uuid.Parse(rawID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	status, err := models.ParseOrderStatus(ctx.Query("orderStatus"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		return
	}

	order, svcErr := oc.orderService.UpdateOrderStatus(ctx.Request.Context(), orderID, status)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":     "Order status updated",
		"orderId":     order.ID,
		"orderStatus": order.Status,
	})
}

// GetProcessingCount handles GET /api/order/processing (admin badge count).
func (oc *OrderController) GetProcessingCount(ctx *gin.Context) {
	count, svcErr := oc.orderService.ProcessingCount(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": count})
}
