// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// CartLine represents one priced line in a cart. Lines are keyed by
// (cart_key, food_item_id, options_key): adding the same item with the
// same selection increments the quantity of the existing line instead
// of inserting a new row.
type CartLine struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CartKey    string `gorm:"not null;size:100;uniqueIndex:idx_cart_lines_signature,priority:1" json:"cart_key"`
	FoodItemID uint   `gorm:"not null;uniqueIndex:idx_cart_lines_signature,priority:2" json:"food_item_id"`
	OptionsKey string `gorm:"not null;size:255;uniqueIndex:idx_cart_lines_signature,priority:3" json:"options_key"`

	Name      string `gorm:"not null;size:255" json:"name"`
	ImageURL  string `gorm:"size:500" json:"image_url"`
	UnitPrice int64  `gorm:"not null" json:"unit_price"` // cents, option modifiers included
	Quantity  int    `gorm:"not null;default:1" json:"quantity"`
	Note      string `gorm:"size:500" json:"note"`

	// Selection details, denormalized for display and order freezing
	Size      string `gorm:"size:50" json:"size"`
	Toppings  string `gorm:"size:255" json:"toppings"`
	Spiciness string `gorm:"size:50" json:"spiciness"`

	// Restaurant provenance, resolved again at checkout
	RestaurantID   *uint  `gorm:"index" json:"restaurant_id"`
	RestaurantName string `gorm:"size:255" json:"restaurant_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (CartLine) TableName() string {
	return "cart_lines"
}

// LineTotal returns the line subtotal, clamping negative quantities to zero
func (l *CartLine) LineTotal() int64 {
	qty := l.Quantity
	if qty < 0 {
		qty = 0
	}
	return l.UnitPrice * int64(qty)
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount     int   `json:"item_count"`     // Number of unique lines
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	SubTotal      int64 `json:"sub_total"`
	DeliveryFee   int64 `json:"delivery_fee"`
	Discount      int64 `json:"discount"` // zero or negative
	TotalAmount   int64 `json:"total_amount"`
}

// CalculateTotals derives cart totals from lines. It is a pure function
// of its inputs: subtotal sums unit price times quantity per line with
// negative quantities clamped to zero, discount is normalized to a
// non-positive adjustment, and the grand total is
// subtotal + deliveryFee + discount.
func CalculateTotals(lines []CartLine, deliveryFee, discount int64) CartTotals {
	if discount > 0 {
		discount = -discount
	}

	totals := CartTotals{
		DeliveryFee: deliveryFee,
		Discount:    discount,
	}
	for i := range lines {
		qty := lines[i].Quantity
		if qty < 0 {
			qty = 0
		}
		totals.ItemCount++
		totals.TotalQuantity += qty
		totals.SubTotal += lines[i].UnitPrice * int64(qty)
	}
	totals.TotalAmount = totals.SubTotal + totals.DeliveryFee + totals.Discount
	return totals
}
