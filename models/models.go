package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"orderId"`
	OrderNumber       string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"orderNumber"`
	OrderDate         time.Time      `gorm:"not null;index" json:"orderDate"`
	CustomerName      string         `gorm:"type:varchar(256);not null" json:"customerName"`
	Status            OrderStatus    `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"orderStatus"`
	PaymentMethod     string         `gorm:"type:varchar(64)" json:"paymentMethod"`
	DeliveryOption    string         `gorm:"type:varchar(128)" json:"deliveryOption"`
	DeliveryCharge    float64        `gorm:"not null;default:0" json:"deliveryCharge"`
	Discount          float64        `gorm:"not null;default:0" json:"discount"`
	Total             float64        `gorm:"not null;index" json:"total"`
	PromoCode         *string        `gorm:"type:varchar(64)" json:"promoCode,omitempty"`
	PromoCodeDiscount float64        `gorm:"not null;default:0" json:"promoCodeDiscount"`
	CanceledAt        *time.Time     `json:"canceledAt,omitempty"`
	CompletedAt       *time.Time     `json:"completedAt,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	ShippingInfo      *ShippingInfo  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"shippingInfo,omitempty"`
	OrderItems        []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
}

type OrderItem struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"orderItemId"`
	OrderID            uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID          uuid.UUID `gorm:"type:uuid;not null" json:"productId"`
	ProductName        string    `gorm:"type:varchar(256);not null" json:"productName"`
	Quantity           int       `gorm:"not null" json:"quantity"`
	Price              float64   `gorm:"not null" json:"price"`
	DiscountPercentage float64   `gorm:"not null;default:0" json:"discountPercentage"`
	ImageURL           string    `gorm:"type:varchar(1024)" json:"imageUrl"`
}

// LineTotal is the displayed per-line amount. It is always recomputed from
// quantity, unit price and discount percentage rather than read from a stored
// column, so it cannot drift after a discount edit.
func (i OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * (i.Price - i.Price*i.DiscountPercentage/100)
}

// ShippingInfo is the address snapshot embedded in an order at checkout time.
type ShippingInfo struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"shippingId"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	FirstName   *string   `gorm:"type:varchar(128)" json:"firstName,omitempty"`
	LastName    *string   `gorm:"type:varchar(128)" json:"lastName,omitempty"`
	Email       *string   `gorm:"type:varchar(256)" json:"email,omitempty"`
	Address     string    `gorm:"type:varchar(512);not null" json:"address"`
	City        string    `gorm:"type:varchar(128);not null" json:"city"`
	State       string    `gorm:"type:varchar(128)" json:"state"`
	PostalCode  string    `gorm:"type:varchar(32);not null" json:"postalCode"`
	Country     string    `gorm:"type:varchar(64);not null" json:"country"`
	PhoneNumber string    `gorm:"type:varchar(32)" json:"phoneNumber"`
	AddressType string    `gorm:"type:varchar(32)" json:"addressType"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// OrderStatusChangedEvent is published when a status mutation commits.
type OrderStatusChangedEvent struct {
	EventType      string      `json:"event_type"`
	OrderID        string      `json:"order_id"`
	OrderNumber    string      `json:"order_number"`
	PreviousStatus OrderStatus `json:"previous_status"`
	NewStatus      OrderStatus `json:"new_status"`
	Timestamp      time.Time   `json:"timestamp"`
}
