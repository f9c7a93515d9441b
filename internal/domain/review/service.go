// internal/domain/review/service.go
package review

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/your-org/fooddelivery-backend/internal/domain/order"
)

var (
	// ErrOrderNotDelivered is returned when reviewing an order that has
	// not reached the delivered state
	ErrOrderNotDelivered = errors.New("only delivered orders can be reviewed")

	// ErrAlreadyReviewed is returned when the order already has a review
	ErrAlreadyReviewed = errors.New("order already reviewed")

	// ErrInvalidRating is returned when the rating is outside 1..5
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Service handles review business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new review service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateReviewRequest represents review submission data
type CreateReviewRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment,omitempty"`
}

// Create records a review for a delivered order
func (s *Service) Create(ctx context.Context, ownerKey string, req *CreateReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var ord order.Order
	err := s.db.WithContext(ctx).First(&ord, req.OrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	if !ord.IsDelivered() {
		return nil, ErrOrderNotDelivered
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&Review{}).
		Where("order_id = ?", req.OrderID).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyReviewed
	}

	rev := Review{
		OrderID:  req.OrderID,
		OwnerKey: ownerKey,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := s.db.WithContext(ctx).Create(&rev).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return &rev, nil
}

// ListForRestaurant returns reviews of orders placed with a restaurant,
// newest first
func (s *Service) ListForRestaurant(ctx context.Context, restaurantID uint) ([]Review, error) {
	var reviews []Review
	err := s.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.restaurant_id = ?", restaurantID).
		Order("reviews.created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// AverageForRestaurant returns the average rating across a restaurant's
// reviewed orders, zero when there are none
func (s *Service) AverageForRestaurant(ctx context.Context, restaurantID uint) (float64, error) {
	var avg *float64
	err := s.db.WithContext(ctx).Model(&Review{}).
		Select("AVG(reviews.rating)").
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Where("orders.restaurant_id = ?", restaurantID).
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute average rating: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// GetByOrder returns the review of one order, if any
func (s *Service) GetByOrder(ctx context.Context, orderID uint) (*Review, error) {
	var rev Review
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&rev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve review: %w", err)
	}
	return &rev, nil
}
