// internal/domain/favorite/entity.go
package favorite

import "time"

// Favorite marks one food item as a favorite of one owner. The unique
// index makes the toggle idempotent under races: a duplicate insert
// means another request already reached the same end state.
type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OwnerKey   string    `gorm:"not null;size:100;uniqueIndex:idx_favorites_owner_item,priority:1" json:"owner_key"`
	FoodItemID uint      `gorm:"not null;uniqueIndex:idx_favorites_owner_item,priority:2" json:"food_item_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Favorite) TableName() string {
	return "favorites"
}
