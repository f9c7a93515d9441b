// internal/domain/favorite/service.go
package favorite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/your-org/fooddelivery-backend/internal/domain/catalog"
)

// ErrInvalidItem is returned when the food item does not exist
var ErrInvalidItem = errors.New("food item not found")

// Service handles favorites business logic
type Service struct {
	db      *gorm.DB
	catalog *catalog.Service
}

// NewService creates a new favorites service
func NewService(db *gorm.DB, catalogService *catalog.Service) *Service {
	return &Service{
		db:      db,
		catalog: catalogService,
	}
}

// ToggleResponse reports the end state after a toggle
type ToggleResponse struct {
	FoodItemID uint `json:"food_item_id"`
	IsFavorite bool `json:"is_favorite"`
}

// Toggle flips the favorite state of a food item for one owner and
// returns the resulting state. A concurrent duplicate insert is treated
// as success since the end state is the same.
func (s *Service) Toggle(ctx context.Context, ownerKey string, foodItemID uint) (*ToggleResponse, error) {
	if _, err := s.catalog.GetFoodItem(ctx, foodItemID); err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			return nil, ErrInvalidItem
		}
		return nil, fmt.Errorf("failed to resolve food item: %w", err)
	}

	result := s.db.WithContext(ctx).
		Where("owner_key = ? AND food_item_id = ?", ownerKey, foodItemID).
		Delete(&Favorite{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return &ToggleResponse{FoodItemID: foodItemID, IsFavorite: false}, nil
	}

	fav := Favorite{OwnerKey: ownerKey, FoodItemID: foodItemID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if isDuplicateKey(err) {
			return &ToggleResponse{FoodItemID: foodItemID, IsFavorite: true}, nil
		}
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	return &ToggleResponse{FoodItemID: foodItemID, IsFavorite: true}, nil
}

// IsFavorite checks whether a food item is a favorite of the owner
func (s *Service) IsFavorite(ctx context.Context, ownerKey string, foodItemID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Favorite{}).
		Where("owner_key = ? AND food_item_id = ?", ownerKey, foodItemID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// List returns the owner's favorite food items, newest first
func (s *Service) List(ctx context.Context, ownerKey string) ([]catalog.FoodItem, error) {
	var favorites []Favorite
	err := s.db.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	if len(favorites) == 0 {
		return []catalog.FoodItem{}, nil
	}

	ids := make([]uint, len(favorites))
	for i, fav := range favorites {
		ids[i] = fav.FoodItemID
	}

	var items []catalog.FoodItem
	err = s.db.WithContext(ctx).Preload("Restaurant").
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite items: %w", err)
	}

	// Preserve favorite recency order
	byID := make(map[uint]catalog.FoodItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	ordered := make([]catalog.FoodItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

// Count returns the number of favorites for one owner
func (s *Service) Count(ctx context.Context, ownerKey string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Favorite{}).
		Where("owner_key = ?", ownerKey).
		Count(&count).Error
	return count, err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for drivers that do not translate constraint errors
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
