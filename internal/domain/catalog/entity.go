// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Restaurant represents a restaurant on the storefront
type Restaurant struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	ImageURL     string         `gorm:"size:500" json:"image_url"`
	Rating       float64        `gorm:"default:0" json:"rating"`
	DeliveryTime int            `gorm:"default:30" json:"delivery_time"` // minutes
	CuisineType  string         `gorm:"size:100" json:"cuisine_type"`
	IsOpen       bool           `gorm:"default:true" json:"is_open"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []FoodItem `gorm:"foreignKey:RestaurantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// FoodItem represents a menu item that can be added to the cart
type FoodItem struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RestaurantID uint           `gorm:"not null;index" json:"restaurant_id"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	ImageURL     string         `gorm:"size:500" json:"image_url"`
	Price        int64          `gorm:"not null" json:"price"` // base price in cents
	Category     string         `gorm:"size:100;index" json:"category"`
	Collection   string         `gorm:"size:100;index" json:"collection"` // e.g. "popular", "best_seller"
	Rating       float64        `gorm:"default:0" json:"rating"`
	IsAvailable  bool           `gorm:"default:true" json:"is_available"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Restaurant *Restaurant  `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	Options    []FoodOption `gorm:"foreignKey:FoodItemID" json:"options,omitempty"`
}

// OptionType classifies a food option row
type OptionType string

const (
	OptionTypeSize      OptionType = "size"
	OptionTypeTopping   OptionType = "topping"
	OptionTypeSpiciness OptionType = "spiciness"
)

// FoodOption represents a selectable option and its price modifier.
// A nil FoodItemID makes the option apply to every item.
type FoodOption struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	FoodItemID    *uint      `gorm:"index" json:"food_item_id"`
	OptionType    OptionType `gorm:"not null;size:20;index" json:"option_type"`
	OptionName    string     `gorm:"not null;size:100" json:"option_name"`
	PriceModifier int64      `gorm:"default:0" json:"price_modifier"` // cents
	SortOrder     int        `gorm:"default:0" json:"sort_order"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TableName overrides the table name for Restaurant
func (Restaurant) TableName() string {
	return "restaurants"
}

// TableName overrides the table name for FoodItem
func (FoodItem) TableName() string {
	return "food_items"
}

// TableName overrides the table name for FoodOption
func (FoodOption) TableName() string {
	return "food_options"
}

// Modifiers is the per-item option price table used for unit pricing.
type Modifiers struct {
	Sizes     map[string]int64
	Toppings  map[string]int64
	Spiciness map[string]int64
}

// SizeDelta returns the price modifier for a size, zero when unknown.
func (m *Modifiers) SizeDelta(size string) int64 {
	if m == nil || size == "" {
		return 0
	}
	return m.Sizes[size]
}

// ToppingDelta returns the price modifier for a single topping.
func (m *Modifiers) ToppingDelta(topping string) int64 {
	if m == nil {
		return 0
	}
	return m.Toppings[topping]
}
