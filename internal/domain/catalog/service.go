// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/your-org/fooddelivery-backend/internal/config"
	redisdb "github.com/your-org/fooddelivery-backend/internal/infrastructure/database/redis"
)

// ErrItemNotFound is returned when a food item does not exist or is unavailable
var ErrItemNotFound = errors.New("food item not found")

// ErrRestaurantNotFound is returned when a restaurant does not exist
var ErrRestaurantNotFound = errors.New("restaurant not found")

const (
	itemCacheTTL    = 5 * time.Minute
	optionsCacheTTL = 10 * time.Minute
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	cache  *redisdb.Client
	config *config.Config
	group  singleflight.Group
}

// NewService creates a new catalog service. The cache client may be nil,
// reads then go straight to the database.
func NewService(db *gorm.DB, cache *redisdb.Client, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		cache:  cache,
		config: cfg,
	}
}

// ListRestaurantsRequest represents restaurant listing filters
type ListRestaurantsRequest struct {
	Search  string `form:"search"`
	Cuisine string `form:"cuisine"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}

// ListFoodItemsRequest represents food item listing filters
type ListFoodItemsRequest struct {
	RestaurantID uint   `form:"restaurant_id"`
	Category     string `form:"category"`
	Collection   string `form:"collection"`
	Search       string `form:"search"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// ListRestaurants returns restaurants matching the filters
func (s *Service) ListRestaurants(ctx context.Context, req *ListRestaurantsRequest) ([]Restaurant, int64, error) {
	page, limit := normalizePage(req.Page, req.Limit)

	query := s.db.WithContext(ctx).Model(&Restaurant{})
	if req.Search != "" {
		query = query.Where("name ILIKE ?", "%"+req.Search+"%")
	}
	if req.Cuisine != "" {
		query = query.Where("cuisine_type = ?", req.Cuisine)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count restaurants: %w", err)
	}

	var restaurants []Restaurant
	err := query.Order("rating DESC, name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&restaurants).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list restaurants: %w", err)
	}

	return restaurants, total, nil
}

// GetRestaurant returns a restaurant with its menu items
func (s *Service) GetRestaurant(ctx context.Context, id uint) (*Restaurant, error) {
	var restaurant Restaurant
	err := s.db.WithContext(ctx).
		Preload("Items", "is_available = ?", true).
		First(&restaurant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}
	return &restaurant, nil
}

// ListFoodItems returns food items matching the filters
func (s *Service) ListFoodItems(ctx context.Context, req *ListFoodItemsRequest) ([]FoodItem, int64, error) {
	page, limit := normalizePage(req.Page, req.Limit)

	query := s.db.WithContext(ctx).Model(&FoodItem{}).Where("is_available = ?", true)
	if req.RestaurantID != 0 {
		query = query.Where("restaurant_id = ?", req.RestaurantID)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Collection != "" {
		query = query.Where("collection = ?", req.Collection)
	}
	if req.Search != "" {
		query = query.Where("name ILIKE ?", "%"+req.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count food items: %w", err)
	}

	var items []FoodItem
	err := query.Preload("Restaurant").
		Order("rating DESC, id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list food items: %w", err)
	}

	return items, total, nil
}

// GetFoodItem returns a single available food item. Reads go through the
// Redis cache with singleflight so concurrent misses hit the database once.
func (s *Service) GetFoodItem(ctx context.Context, id uint) (*FoodItem, error) {
	if id == 0 {
		return nil, ErrItemNotFound
	}

	cacheKey := fmt.Sprintf("catalog:item:%d", id)
	if s.cache != nil {
		var cached FoodItem
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	result, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		var item FoodItem
		err := s.db.WithContext(ctx).
			Preload("Restaurant").
			Where("is_available = ?", true).
			First(&item, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrItemNotFound
			}
			return nil, fmt.Errorf("failed to get food item: %w", err)
		}

		if s.cache != nil {
			// Cache write failures are not fatal for reads
			_ = s.cache.SetJSON(ctx, cacheKey, &item, itemCacheTTL)
		}
		return &item, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*FoodItem), nil
}

// OptionModifiers returns the option price table for a food item. Options
// bound to the item override global options of the same type and name.
func (s *Service) OptionModifiers(ctx context.Context, foodItemID uint) (*Modifiers, error) {
	cacheKey := fmt.Sprintf("catalog:options:%d", foodItemID)
	if s.cache != nil {
		var cached Modifiers
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	result, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		var options []FoodOption
		err := s.db.WithContext(ctx).
			Where("food_item_id IS NULL OR food_item_id = ?", foodItemID).
			Order("sort_order ASC, id ASC").
			Find(&options).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load food options: %w", err)
		}

		mods := buildModifiers(options, foodItemID)
		if s.cache != nil {
			_ = s.cache.SetJSON(ctx, cacheKey, mods, optionsCacheTTL)
		}
		return mods, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Modifiers), nil
}

// InvalidateItem drops the cached entries for a food item
func (s *Service) InvalidateItem(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx,
		fmt.Sprintf("catalog:item:%d", id),
		fmt.Sprintf("catalog:options:%d", id),
	)
}

func buildModifiers(options []FoodOption, foodItemID uint) *Modifiers {
	mods := &Modifiers{
		Sizes:     make(map[string]int64),
		Toppings:  make(map[string]int64),
		Spiciness: make(map[string]int64),
	}

	set := func(opt FoodOption) {
		switch opt.OptionType {
		case OptionTypeSize:
			mods.Sizes[opt.OptionName] = opt.PriceModifier
		case OptionTypeTopping:
			mods.Toppings[opt.OptionName] = opt.PriceModifier
		case OptionTypeSpiciness:
			mods.Spiciness[opt.OptionName] = opt.PriceModifier
		}
	}

	// Global options first, then item-specific overrides
	for _, opt := range options {
		if opt.FoodItemID == nil {
			set(opt)
		}
	}
	for _, opt := range options {
		if opt.FoodItemID != nil && *opt.FoodItemID == foodItemID {
			set(opt)
		}
	}

	return mods
}
