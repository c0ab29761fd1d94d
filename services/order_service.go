package services

import (
	"context"
	"errors"
	"time"

	"order-admin-service/cache"
	"order-admin-service/kafka"
	"order-admin-service/models"
	repositories "order-admin-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// ListQuery is the validated list-endpoint query state.
type ListQuery struct {
	Offset    int
	Size      int
	SortBy    string // "orderDate" | "total" | ""
	Direction string // "ASC" | "DESC" | ""
	Status    *models.OrderStatus
}

// SearchQuery is the validated search-endpoint query state. The controller
// guarantees all three of SearchValue, StartDate and EndDate are present.
type SearchQuery struct {
	SearchValue string
	StartDate   time.Time
	EndDate     time.Time
	Offset      int
	Size        int
}

// PageEnvelope is the paginated-list response shape shared by every order
// list endpoint.
type PageEnvelope struct {
	Content       []models.Order `json:"content"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int64          `json:"totalPages"`
	Number        int            `json:"number"`
	Size          int            `json:"size"`
	First         bool           `json:"first"`
	Last          bool           `json:"last"`
}

// PaymentBreakdown is the derived payment summary for one order. All values
// carry full float64 precision; rounding for display is a client concern.
type PaymentBreakdown struct {
	Subtotal          float64 `json:"subtotal"`
	ProductDiscount   float64 `json:"productDiscount"`
	PromoCodeDiscount float64 `json:"promoCodeDiscount"`
	DeliveryCharge    float64 `json:"deliveryCharge"`
	TotalAmount       float64 `json:"totalAmount"`
}

// OrderItemView is a line item with its recomputed display total.
type OrderItemView struct {
	models.OrderItem
	TotalAmt float64 `json:"totalAmt"`
}

// OrderDetail is the one-order response: line items, shipping snapshot,
// payment breakdown and fulfillment progress.
type OrderDetail struct {
	OrderID      uuid.UUID            `json:"orderId"`
	OrderNumber  string               `json:"orderNumber"`
	Status       models.OrderStatus   `json:"orderStatus"`
	Items        []OrderItemView      `json:"items"`
	ShippingInfo *models.ShippingInfo `json:"shippingInfo,omitempty"`
	Breakdown    PaymentBreakdown     `json:"paymentBreakdown"`
	Steps        []models.StepState   `json:"steps"`
}

// OrderCache is the caching surface the service depends on. Invalidate is the
// redesigned refresh signal: mutations invalidate resources by identity and
// every dependent read re-fetches server truth.
type OrderCache interface {
	OrderPageKey(ctx context.Context, offset, size int, sortBy, direction, status string) (string, bool)
	GetOrderPage(ctx context.Context, key string, out interface{}) bool
	SetOrderPageAsync(key string, page interface{})
	GetProcessingCount(ctx context.Context) (int64, bool)
	SetProcessingCountAsync(count int64)
	Invalidate(ctx context.Context, resource string) error
}

// OrderService defines the interface for order administration logic.
type OrderService interface {
	ListOrders(ctx context.Context, q ListQuery) (*PageEnvelope, *ServiceError)
	SearchOrders(ctx context.Context, q SearchQuery) (*PageEnvelope, *ServiceError)
	GetOrderDetail(ctx context.Context, orderID uuid.UUID) (*OrderDetail, *ServiceError)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, next models.OrderStatus) (*models.Order, *ServiceError)
	ProcessingCount(ctx context.Context) (int64, *ServiceError)
}

type orderServiceImpl struct {
	orderRepo repositories.OrderRepository
	cache     OrderCache
	producer  kafka.ProducerAPI
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. cache and producer may be nil;
// both are best-effort collaborators.
func NewOrderService(orderRepo repositories.OrderRepository, orderCache OrderCache, producer kafka.ProducerAPI, logger *zap.Logger) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
		cache:     orderCache,
		producer:  producer,
		logger:    logger,
	}
}

// ListOrders retrieves one page of orders, optionally filtered by status.
func (s *orderServiceImpl) ListOrders(ctx context.Context, q ListQuery) (*PageEnvelope, *ServiceError) {
	statusKey := ""
	if q.Status != nil {
		statusKey = string(*q.Status)
	}

	var cacheKey string
	if s.cache != nil {
		if key, ok := s.cache.OrderPageKey(ctx, q.Offset, q.Size, q.SortBy, q.Direction, statusKey); ok {
			cacheKey = key
			var cached PageEnvelope
			if s.cache.GetOrderPage(ctx, key, &cached) {
				return &cached, nil
			}
		}
	}

	orders, total, err := s.orderRepo.FindPage(ctx, repositories.ListParams{
		Offset:    q.Offset,
		Size:      q.Size,
		SortBy:    q.SortBy,
		Direction: q.Direction,
		Status:    q.Status,
	})
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}

	envelope := newPageEnvelope(orders, total, q.Offset, q.Size)
	if s.cache != nil && cacheKey != "" {
		s.cache.SetOrderPageAsync(cacheKey, envelope)
	}
	return envelope, nil
}

// SearchOrders retrieves orders matching a search term within a date range.
// Search results are not cached: the key space is unbounded and hit rates on
// ad-hoc terms are negligible.
func (s *orderServiceImpl) SearchOrders(ctx context.Context, q SearchQuery) (*PageEnvelope, *ServiceError) {
	orders, total, err := s.orderRepo.Search(ctx, repositories.SearchParams{
		SearchValue: q.SearchValue,
		StartDate:   q.StartDate,
		EndDate:     q.EndDate,
		Offset:      q.Offset,
		Size:        q.Size,
	})
	if err != nil {
		s.logger.Error("Failed to search orders",
			zap.String("search_value", q.SearchValue),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to search orders"}
	}

	return newPageEnvelope(orders, total, q.Offset, q.Size), nil
}

// GetOrderDetail retrieves one order with items, shipping info, the payment
// breakdown and the fulfillment progress steps.
func (s *orderServiceImpl) GetOrderDetail(ctx context.Context, orderID uuid.UUID) (*OrderDetail, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	items := make([]OrderItemView, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, OrderItemView{OrderItem: item, TotalAmt: item.LineTotal()})
	}

	return &OrderDetail{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		Status:       order.Status,
		Items:        items,
		ShippingInfo: order.ShippingInfo,
		Breakdown:    ComputeBreakdown(order),
		Steps:        models.ProgressSteps(order.Status),
	}, nil
}

// UpdateOrderStatus validates the transition, persists it, invalidates the
// order caches and publishes a status-changed event. Re-applying the current
// status is an idempotent success and still triggers invalidation and event
// publication.
func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, next models.OrderStatus) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to fetch order for status update", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	previous := order.Status
	if !models.CanTransition(previous, next) {
		return nil, &ServiceError{
			StatusCode: 409,
			Message:    "Illegal status transition from " + string(previous) + " to " + string(next),
		}
	}

	now := time.Now()
	order.Status = next
	switch next {
	case models.StatusCancelled:
		if order.CanceledAt == nil {
			order.CanceledAt = &now
		}
	case models.StatusDelivered:
		if order.CompletedAt == nil {
			order.CompletedAt = &now
		}
	}

	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		s.logger.Error("Failed to update order status",
			zap.String("order_id", orderID.String()),
			zap.String("next_status", string(next)),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order status"}
	}

	s.invalidateOrderCaches(ctx)
	s.publishStatusChanged(order, previous)

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("previous", string(previous)),
		zap.String("next", string(next)),
	)
	return order, nil
}

// ProcessingCount returns the number of orders currently PROCESSING, served
// from cache when warm.
func (s *orderServiceImpl) ProcessingCount(ctx context.Context) (int64, *ServiceError) {
	if s.cache != nil {
		if count, ok := s.cache.GetProcessingCount(ctx); ok {
			return count, nil
		}
	}

	count, err := s.orderRepo.CountByStatus(ctx, models.StatusProcessing)
	if err != nil {
		s.logger.Error("Failed to count processing orders", zap.Error(err))
		return 0, &ServiceError{StatusCode: 500, Message: "Failed to count processing orders"}
	}

	if s.cache != nil {
		s.cache.SetProcessingCountAsync(count)
	}
	return count, nil
}

// invalidateOrderCaches flips both order resources. Cache failures never fail
// the mutation; reads degrade to the database.
func (s *orderServiceImpl) invalidateOrderCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, resource := range []string{cache.ResourceOrders, cache.ResourceOrderCounts} {
		if err := s.cache.Invalidate(ctx, resource); err != nil {
			s.logger.Warn("Cache invalidation failed", zap.String("resource", resource), zap.Error(err))
		}
	}
}

// publishStatusChanged publishes the status-changed event (best-effort).
func (s *orderServiceImpl) publishStatusChanged(order *models.Order, previous models.OrderStatus) {
	if s.producer == nil {
		return
	}
	evt := models.OrderStatusChangedEvent{
		EventType:      "order.status.changed",
		OrderID:        order.ID.String(),
		OrderNumber:    order.OrderNumber,
		PreviousStatus: previous,
		NewStatus:      order.Status,
		Timestamp:      time.Now(),
	}
	if err := s.producer.PublishStatusChanged(evt); err != nil {
		s.logger.Warn("Failed to publish status-changed event",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

// ComputeBreakdown derives the payment summary from an order's line items:
//
//	subtotal        = Σ price × quantity
//	productDiscount = Σ quantity × price × discountPercentage/100
//	totalAmount     = subtotal − productDiscount − promoCodeDiscount + deliveryCharge
func ComputeBreakdown(order *models.Order) PaymentBreakdown {
	var subtotal, productDiscount float64
	for _, item := range order.OrderItems {
		subtotal += item.Price * float64(item.Quantity)
		productDiscount += float64(item.Quantity) * item.Price * item.DiscountPercentage / 100
	}

	return PaymentBreakdown{
		Subtotal:          subtotal,
		ProductDiscount:   productDiscount,
		PromoCodeDiscount: order.PromoCodeDiscount,
		DeliveryCharge:    order.DeliveryCharge,
		TotalAmount:       subtotal - productDiscount - order.PromoCodeDiscount + order.DeliveryCharge,
	}
}

func newPageEnvelope(orders []models.Order, total int64, number, size int) *PageEnvelope {
	if orders == nil {
		orders = []models.Order{}
	}
	return &PageEnvelope{
		Content:       orders,
		TotalElements: total,
		TotalPages:    calculateTotalPages(total, size),
		Number:        number,
		Size:          size,
		First:         number == 0,
		Last:          int64((number+1)*size) >= total,
	}
}

func calculateTotalPages(total int64, size int) int64 {
	if size == 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}
