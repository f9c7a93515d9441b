// internal/domain/message/entity.go
package message

import "time"

// Message represents one chat message attached to an order, exchanged
// between the customer and the driver
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	SenderKey string    `gorm:"not null;size:100" json:"sender_key"`
	Body      string    `gorm:"not null;type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Message) TableName() string {
	return "messages"
}
