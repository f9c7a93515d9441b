// internal/domain/review/entity.go
package review

import "time"

// Review represents a rating left for a delivered order
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;uniqueIndex" json:"order_id"` // one review per order
	OwnerKey  string    `gorm:"not null;size:100;index" json:"owner_key"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}
