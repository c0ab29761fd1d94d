package repositories

import (
	"context"
	"time"

	"order-admin-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListParams translates the list-endpoint query state into a repository call.
// Offset is the 0-based page number, not a row offset.
type ListParams struct {
	Offset    int
	Size      int
	SortBy    string // "orderDate" | "total" | ""
	Direction string // "ASC" | "DESC" | ""
	Status    *models.OrderStatus
}

// SearchParams is the free-text/date-range search input. All three fields are
// required by the time this struct is built (the controller enforces it).
type SearchParams struct {
	SearchValue string
	StartDate   time.Time
	EndDate     time.Time
	Offset      int
	Size        int
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	FindPage(ctx context.Context, params ListParams) ([]models.Order, int64, error)
	Search(ctx context.Context, params SearchParams) ([]models.Order, int64, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order) error
	CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error)
	Create(ctx context.Context, order *models.Order) error
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// orderClause maps the documented (sortBy, orderDirection) pairs onto SQL.
// No sortBy means the product-default order: latest first.
func orderClause(sortBy, direction string) string {
	dir := "ASC"
	if direction == "DESC" {
		dir = "DESC"
	}
	switch sortBy {
	case "orderDate":
		return "order_date " + dir
	case "total":
		return "total " + dir
	default:
		return "order_date DESC"
	}
}

// FindPage retrieves one page of orders, optionally filtered by status.
func (r *GormOrderRepository) FindPage(ctx context.Context, params ListParams) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("ShippingInfo").
		Offset(params.Offset * params.Size).
		Limit(params.Size).
		Order(orderClause(params.SortBy, params.Direction)).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Search retrieves orders matching the search term within the inclusive date
// range. The term matches customer name (case-insensitive) or order number.
func (r *GormOrderRepository) Search(ctx context.Context, params SearchParams) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	// end of day: the range is inclusive on both sides
	rangeEnd := params.EndDate.Add(24*time.Hour - time.Nanosecond)

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_date BETWEEN ? AND ?", params.StartDate, rangeEnd).
		Where("customer_name ILIKE ? OR order_number = ?", "%"+params.SearchValue+"%", params.SearchValue)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("ShippingInfo").
		Offset(params.Offset * params.Size).
		Limit(params.Size).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// FindByID retrieves one order with its line items and shipping snapshot.
func (r *GormOrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order

	if err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("ShippingInfo").
		Where("id = ?", orderID).
		First(&order).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

// UpdateStatus persists the status and lifecycle timestamps of an order.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":       order.Status,
			"canceled_at":  order.CanceledAt,
			"completed_at": order.CompletedAt,
		}).Error
}

// CountByStatus counts orders currently in the given status.
func (r *GormOrderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// Create creates a new order with its items and shipping info.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}
