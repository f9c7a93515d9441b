// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/catalog"
)

// Service handles cart business logic
type Service struct {
	db          *gorm.DB
	catalog     *catalog.Service
	broadcaster Broadcaster
	config      *config.Config
}

// NewService creates a new cart service. The broadcaster may be nil,
// change notifications are then skipped.
func NewService(db *gorm.DB, catalogService *catalog.Service, broadcaster Broadcaster, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		catalog:     catalogService,
		broadcaster: broadcaster,
		config:      cfg,
	}
}

// CartResponse represents a cart with its lines and computed totals
type CartResponse struct {
	CartKey   string     `json:"cart_key"`
	Items     []CartLine `json:"items"`
	Totals    CartTotals `json:"totals"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	FoodItemID uint      `json:"food_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
	Selection  Selection `json:"selection"`
	Note       string    `json:"note"`
}

// UpdateCartLineRequest represents a quantity update for one line
type UpdateCartLineRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// AddOrMerge adds an item with a specific selection to the cart. When a
// line with the same (cart key, food item, options signature) already
// exists its quantity is incremented, otherwise a new line is inserted
// with the unit price frozen from the catalog at add time.
func (s *Service) AddOrMerge(ctx context.Context, cartKey string, req *AddToCartRequest) (*CartResponse, error) {
	if cartKey == "" {
		return nil, ErrCartKeyRequired
	}

	// Resolve the product; a missing or unavailable item never touches the cart
	item, err := s.catalog.GetFoodItem(ctx, req.FoodItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			return nil, ErrInvalidProduct
		}
		return nil, fmt.Errorf("failed to resolve food item: %w", err)
	}

	mods, err := s.catalog.OptionModifiers(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve option modifiers: %w", err)
	}

	unitPrice := item.Price + mods.SizeDelta(req.Selection.Size)
	for _, topping := range req.Selection.Toppings {
		unitPrice += mods.ToppingDelta(topping)
	}

	signature := req.Selection.Signature()

	var restaurantName string
	if item.Restaurant != nil {
		restaurantName = item.Restaurant.Name
	}

	var existing CartLine
	result := s.db.WithContext(ctx).
		Where("cart_key = ? AND food_item_id = ? AND options_key = ?", cartKey, item.ID, signature).
		First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		restaurantID := item.RestaurantID
		newLine := CartLine{
			CartKey:        cartKey,
			FoodItemID:     item.ID,
			OptionsKey:     signature,
			Name:           item.Name,
			ImageURL:       item.ImageURL,
			UnitPrice:      unitPrice,
			Quantity:       req.Quantity,
			Note:           req.Note,
			Size:           req.Selection.Size,
			Toppings:       req.Selection.ToppingsValue(),
			Spiciness:      req.Selection.Spiciness,
			RestaurantID:   &restaurantID,
			RestaurantName: restaurantName,
		}
		if err := s.db.WithContext(ctx).Create(&newLine).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("failed to add cart line: %w", err)
			}
			// Lost the insert race against a concurrent add of the same
			// selection, fold the add into the winning line
			if err := s.incrementLine(ctx, cartKey, item.ID, signature, unitPrice, req); err != nil {
				return nil, err
			}
		}
	} else if result.Error != nil {
		return nil, fmt.Errorf("failed to look up cart line: %w", result.Error)
	} else {
		existing.Quantity += req.Quantity
		existing.UnitPrice = unitPrice // re-freeze in case catalog pricing moved
		if req.Note != "" {
			existing.Note = req.Note
		}
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart line: %w", err)
		}
	}

	s.notify(ctx, cartKey, ReasonAdd, req.Quantity)

	return s.GetCart(ctx, cartKey)
}

// incrementLine raises the quantity of the line matching the signature
// atomically, re-freezing its unit price
func (s *Service) incrementLine(ctx context.Context, cartKey string, itemID uint, signature string, unitPrice int64, req *AddToCartRequest) error {
	updates := map[string]interface{}{
		"quantity":   gorm.Expr("quantity + ?", req.Quantity),
		"unit_price": unitPrice,
	}
	if req.Note != "" {
		updates["note"] = req.Note
	}

	result := s.db.WithContext(ctx).Model(&CartLine{}).
		Where("cart_key = ? AND food_item_id = ? AND options_key = ?", cartKey, itemID, signature).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to merge cart line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLineNotFound
	}
	return nil
}

// SetQuantity replaces the quantity of one line. A quantity of zero or
// less removes the line.
func (s *Service) SetQuantity(ctx context.Context, cartKey string, lineID uint, quantity int) (*CartResponse, error) {
	if cartKey == "" {
		return nil, ErrCartKeyRequired
	}

	if quantity <= 0 {
		return s.Remove(ctx, cartKey, lineID)
	}

	result := s.db.WithContext(ctx).Model(&CartLine{}).
		Where("id = ? AND cart_key = ?", lineID, cartKey).
		Update("quantity", quantity)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrLineNotFound
	}

	s.notify(ctx, cartKey, ReasonUpdate, 0)

	return s.GetCart(ctx, cartKey)
}

// Remove deletes one line from the cart. Removing a line that is
// already gone is a no-op.
func (s *Service) Remove(ctx context.Context, cartKey string, lineID uint) (*CartResponse, error) {
	if cartKey == "" {
		return nil, ErrCartKeyRequired
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND cart_key = ?", lineID, cartKey).
		Delete(&CartLine{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove cart line: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.notify(ctx, cartKey, ReasonRemove, 0)
	}

	return s.GetCart(ctx, cartKey)
}

// Clear removes every line for the cart owner
func (s *Service) Clear(ctx context.Context, cartKey string) error {
	if cartKey == "" {
		return ErrCartKeyRequired
	}

	if err := s.db.WithContext(ctx).Where("cart_key = ?", cartKey).Delete(&CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.notify(ctx, cartKey, ReasonClear, 0)
	return nil
}

// GetCart retrieves the cart lines and totals for one owner
func (s *Service) GetCart(ctx context.Context, cartKey string) (*CartResponse, error) {
	if cartKey == "" {
		return nil, ErrCartKeyRequired
	}

	var lines []CartLine
	err := s.db.WithContext(ctx).
		Where("cart_key = ?", cartKey).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	updatedAt := time.Now().UTC()
	for i := range lines {
		if lines[i].UpdatedAt.After(updatedAt) || i == 0 {
			updatedAt = lines[i].UpdatedAt
		}
	}

	return &CartResponse{
		CartKey:   cartKey,
		Items:     lines,
		Totals:    CalculateTotals(lines, s.config.Pricing.DeliveryFee, 0),
		UpdatedAt: updatedAt,
	}, nil
}

// GetCartItemCount returns the total quantity across all lines, used
// for the cart badge
func (s *Service) GetCartItemCount(ctx context.Context, cartKey string) (int, error) {
	cartResponse, err := s.GetCart(ctx, cartKey)
	if err != nil {
		return 0, err
	}
	return cartResponse.Totals.TotalQuantity, nil
}

func (s *Service) notify(ctx context.Context, cartKey string, reason ChangeReason, qtyDelta int) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Publish(ctx, Event{
		CartKey:  cartKey,
		Reason:   reason,
		QtyDelta: qtyDelta,
		At:       time.Now().UTC(),
	})
}
