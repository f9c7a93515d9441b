// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/cart"
	"github.com/your-org/fooddelivery-backend/internal/domain/catalog"
	"github.com/your-org/fooddelivery-backend/internal/domain/voucher"
)

// Service handles order business logic
type Service struct {
	db             *gorm.DB
	config         *config.Config
	cartService    *cart.Service
	voucherService *voucher.Service
	logger         *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, voucherService *voucher.Service, logger *logrus.Logger) *Service {
	return &Service{
		db:             db,
		config:         cfg,
		cartService:    cartService,
		voucherService: voucherService,
		logger:         logger,
	}
}

// PlaceOrderRequest represents checkout data
type PlaceOrderRequest struct {
	DeliveryAddress string `json:"delivery_address" binding:"required"`
	PaymentMethod   string `json:"payment_method" binding:"required"`
	OfferCode       string `json:"offer_code,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page   int         `form:"page,default=1"`
	Limit  int         `form:"limit,default=20"`
	Status OrderStatus `form:"status"`
}

// OrderListResponse represents order history with pagination
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// TrackingResponse represents the delivery tracking view of an order
type TrackingResponse struct {
	Order *Order `json:"order"`
	Step  int    `json:"step"` // -1 for cancelled orders
}

// UpdateStatusRequest represents a driver/ops status change
type UpdateStatusRequest struct {
	Status  OrderStatus `json:"status" binding:"required"`
	Comment string      `json:"comment,omitempty"`
}

// PlaceOrder turns the owner's cart into an order. The cart must be
// non-empty and resolve to exactly one restaurant. The order header and
// its frozen items are written in one transaction; on any failure the
// transaction is rolled back and the cart is left untouched. The cart
// is cleared only after the order is committed.
func (s *Service) PlaceOrder(ctx context.Context, cartKey string, userID *uint, req *PlaceOrderRequest) (*Order, error) {
	cartResponse, err := s.cartService.GetCart(ctx, cartKey)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if len(cartResponse.Items) == 0 {
		return nil, ErrEmptyCart
	}

	restaurantID, restaurantName, err := s.resolveRestaurant(ctx, cartResponse.Items)
	if err != nil {
		return nil, err
	}

	// Resolve the offer code before any write so a bad code fails cleanly
	var discount int64
	if req.OfferCode != "" && s.voucherService != nil {
		discount, err = s.voucherService.Discount(ctx, req.OfferCode, cartResponse.Totals.SubTotal)
		if err != nil {
			return nil, err
		}
	}

	totals := cart.CalculateTotals(cartResponse.Items, s.config.Pricing.DeliveryFee, discount)

	newOrder := Order{
		CartKey:         cartKey,
		UserID:          userID,
		Status:          OrderStatusPending,
		RestaurantID:    restaurantID,
		RestaurantName:  restaurantName,
		SubtotalAmount:  totals.SubTotal,
		DeliveryFee:     totals.DeliveryFee,
		DiscountAmount:  totals.Discount,
		TotalAmount:     totals.TotalAmount,
		Currency:        s.config.Pricing.Currency,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		OfferCode:       req.OfferCode,
		Notes:           req.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newOrder).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		newOrder.OrderNumber = newOrder.GenerateOrderNumber()
		if err := tx.Model(&newOrder).Update("order_number", newOrder.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to set order number: %w", err)
		}

		for i := range cartResponse.Items {
			line := &cartResponse.Items[i]
			orderItem := OrderItem{
				OrderID:    newOrder.ID,
				FoodItemID: line.FoodItemID,
				Name:       line.Name,
				ImageURL:   line.ImageURL,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: line.LineTotal(),
				OptionsKey: line.OptionsKey,
				Size:       line.Size,
				Toppings:   line.Toppings,
				Spiciness:  line.Spiciness,
				Note:       line.Note,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrOrderItemCommit, err)
			}
		}

		history := OrderStatusHistory{
			OrderID: newOrder.ID,
			Status:  OrderStatusPending,
			Comment: "Order placed",
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		// Consume the offer code in the same transaction so a failed
		// commit never burns the voucher
		if req.OfferCode != "" && s.voucherService != nil {
			if err := s.voucherService.WithTx(tx).MarkUsed(ctx, req.OfferCode); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order is committed; a failed cart clear only leaves stale lines
	if err := s.cartService.Clear(ctx, cartKey); err != nil {
		s.logger.WithError(err).WithField("cart_key", cartKey).
			Warn("failed to clear cart after order creation")
	}

	if err := s.db.WithContext(ctx).Preload("Items").Preload("StatusHistory").
		First(&newOrder, newOrder.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load complete order: %w", err)
	}

	return &newOrder, nil
}

// resolveRestaurant determines the single restaurant a cart belongs to.
// Lines carrying only a restaurant name fall back to a catalog lookup.
func (s *Service) resolveRestaurant(ctx context.Context, lines []cart.CartLine) (uint, string, error) {
	var restaurantID uint
	var restaurantName string
	namesOnly := make(map[string]struct{})

	for i := range lines {
		line := &lines[i]
		switch {
		case line.RestaurantID != nil && *line.RestaurantID != 0:
			if restaurantID == 0 {
				restaurantID = *line.RestaurantID
				restaurantName = line.RestaurantName
			} else if restaurantID != *line.RestaurantID {
				return 0, "", ErrAmbiguousRestaurant
			}
		case line.RestaurantName != "":
			namesOnly[line.RestaurantName] = struct{}{}
		}
	}

	if restaurantID != 0 {
		for name := range namesOnly {
			if restaurantName != "" && name != restaurantName {
				return 0, "", ErrAmbiguousRestaurant
			}
		}
		return restaurantID, restaurantName, nil
	}

	if len(namesOnly) > 1 {
		return 0, "", ErrAmbiguousRestaurant
	}
	if len(namesOnly) == 0 {
		return 0, "", ErrUnresolvedRestaurant
	}

	var name string
	for n := range namesOnly {
		name = n
	}

	var restaurant catalog.Restaurant
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&restaurant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", ErrUnresolvedRestaurant
		}
		return 0, "", fmt.Errorf("failed to resolve restaurant by name: %w", err)
	}

	return restaurant.ID, restaurant.Name, nil
}

// ListOrders retrieves the owner's order history, newest first
func (s *Service) ListOrders(ctx context.Context, cartKey string, userID *uint, req *OrderListRequest) (*OrderListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Order{}).Preload("Items")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	} else {
		query = query.Where("cart_key = ?", cartKey)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetOrder retrieves one order with its items and history
func (s *Service) GetOrder(ctx context.Context, orderID uint) (*Order, error) {
	var ord Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&ord, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &ord, nil
}

// Track returns the tracking view of an order
func (s *Service) Track(ctx context.Context, orderID uint) (*TrackingResponse, error) {
	ord, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &TrackingResponse{
		Order: ord,
		Step:  TrackingStep(ord.Status),
	}, nil
}

// UpdateStatus moves an order along the delivery pipeline. Skipping
// steps or moving backwards is rejected.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, status OrderStatus, comment string) (*Order, error) {
	if !IsValidStatus(status) {
		return nil, ErrInvalidStatusTransition
	}

	var ord Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ord, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to retrieve order: %w", err)
		}

		if !IsValidStatusTransition(ord.Status, status) {
			return ErrInvalidStatusTransition
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{"status": status}
		switch status {
		case OrderStatusPreparing:
			updates["preparing_at"] = now
		case OrderStatusOnTheWay:
			updates["on_the_way_at"] = now
		case OrderStatusDelivered:
			updates["delivered_at"] = now
		case OrderStatusCancelled:
			updates["cancelled_at"] = now
		}

		if err := tx.Model(&ord).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		history := OrderStatusHistory{
			OrderID: ord.ID,
			Status:  status,
			Comment: comment,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

// CancelOrder cancels a non-terminal order
func (s *Service) CancelOrder(ctx context.Context, orderID uint, reason string) (*Order, error) {
	if reason == "" {
		reason = "Order cancelled"
	}
	return s.UpdateStatus(ctx, orderID, OrderStatusCancelled, reason)
}
