// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusOnTheWay  OrderStatus = "on_the_way"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// statusTransitions defines the allowed forward moves. Delivery
// progresses one step at a time; cancellation is allowed from any
// non-terminal state.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusOnTheWay, OrderStatusCancelled},
	OrderStatusOnTheWay:  {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// IsValidStatus reports whether the value is a known order status
func IsValidStatus(status OrderStatus) bool {
	_, ok := statusTransitions[status]
	return ok
}

// IsValidStatusTransition reports whether an order may move from one
// status to another
func IsValidStatusTransition(from, to OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TrackingStep maps a status to its position on the tracking timeline.
// Cancelled orders have no position and return -1.
func TrackingStep(status OrderStatus) int {
	switch status {
	case OrderStatusPending:
		return 0
	case OrderStatusPreparing:
		return 1
	case OrderStatusOnTheWay:
		return 2
	case OrderStatusDelivered:
		return 3
	default:
		return -1
	}
}

// Order represents a placed food order
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	CartKey     string      `gorm:"not null;size:100;index" json:"cart_key"`
	UserID      *uint       `gorm:"index" json:"user_id"` // Nullable for guest orders
	Status      OrderStatus `gorm:"not null;default:'pending'" json:"status"`

	// Restaurant resolved from the cart lines at commit time
	RestaurantID   uint   `gorm:"not null;index" json:"restaurant_id"`
	RestaurantName string `gorm:"size:255" json:"restaurant_name"`

	// Financial information, in cents
	SubtotalAmount int64  `gorm:"not null" json:"subtotal_amount"`
	DeliveryFee    int64  `gorm:"default:0" json:"delivery_fee"`
	DiscountAmount int64  `gorm:"default:0" json:"discount_amount"` // zero or negative
	TotalAmount    int64  `gorm:"not null" json:"total_amount"`
	Currency       string `gorm:"size:3;default:'USD'" json:"currency"`

	// Checkout details
	DeliveryAddress string `gorm:"not null;size:500" json:"delivery_address"`
	PaymentMethod   string `gorm:"not null;size:50" json:"payment_method"`
	OfferCode       string `gorm:"size:50" json:"offer_code"`
	Notes           string `gorm:"type:text" json:"notes"`

	// Timestamps
	PreparingAt *time.Time     `json:"preparing_at"`
	OnTheWayAt  *time.Time     `json:"on_the_way_at"`
	DeliveredAt *time.Time     `json:"delivered_at"`
	CancelledAt *time.Time     `json:"cancelled_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem represents one frozen line of an order. It carries its own
// copy of name, unit price and selection so later catalog changes do
// not rewrite history.
type OrderItem struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	OrderID    uint   `gorm:"not null;index" json:"order_id"`
	FoodItemID uint   `gorm:"not null;index" json:"food_item_id"`
	Name       string `gorm:"not null;size:255" json:"name"`
	ImageURL   string `gorm:"size:500" json:"image_url"`
	Quantity   int    `gorm:"not null" json:"quantity"`
	UnitPrice  int64  `gorm:"not null" json:"unit_price"`  // per unit, options included
	TotalPrice int64  `gorm:"not null" json:"total_price"` // Quantity * UnitPrice
	OptionsKey string `gorm:"size:255" json:"options_key"`

	// Selection at commit time
	Size      string `gorm:"size:50" json:"size"`
	Toppings  string `gorm:"size:255" json:"toppings"`
	Spiciness string `gorm:"size:50" json:"spiciness"`
	Note      string `gorm:"size:500" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// Business methods for Order

// GenerateOrderNumber generates a unique order number
func (o *Order) GenerateOrderNumber() string {
	// Format: ORD-YYYYMMDD-XXXXX
	return fmt.Sprintf("ORD-%s-%05d", time.Now().Format("20060102"), o.ID)
}

// GetFormattedTotal returns total amount as float
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalAmount) / 100
}

// CanBeCancelled checks if order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status != OrderStatusDelivered && o.Status != OrderStatusCancelled
}

// IsDelivered checks if the order reached its terminal success state
func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}
