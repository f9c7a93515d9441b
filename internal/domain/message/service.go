// internal/domain/message/service.go
package message

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/your-org/fooddelivery-backend/internal/domain/order"
)

// ErrEmptyBody is returned when a message has no content
var ErrEmptyBody = errors.New("message body is empty")

// Service handles order chat persistence
type Service struct {
	db *gorm.DB
}

// NewService creates a new message service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SendRequest represents a chat message submission
type SendRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// Send appends a message to an order's chat
func (s *Service) Send(ctx context.Context, senderKey string, req *SendRequest) (*Message, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&order.Order{}).
		Where("id = ?", req.OrderID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to check order: %w", err)
	}
	if exists == 0 {
		return nil, order.ErrOrderNotFound
	}

	msg := Message{
		OrderID:   req.OrderID,
		SenderKey: senderKey,
		Body:      body,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	return &msg, nil
}

// List returns an order's chat in send order
func (s *Service) List(ctx context.Context, orderID uint) ([]Message, error) {
	var messages []Message
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
