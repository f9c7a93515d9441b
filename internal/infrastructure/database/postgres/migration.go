// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/your-org/fooddelivery-backend/internal/domain/cart"
	"github.com/your-org/fooddelivery-backend/internal/domain/catalog"
	"github.com/your-org/fooddelivery-backend/internal/domain/favorite"
	"github.com/your-org/fooddelivery-backend/internal/domain/message"
	"github.com/your-org/fooddelivery-backend/internal/domain/order"
	"github.com/your-org/fooddelivery-backend/internal/domain/review"
	"github.com/your-org/fooddelivery-backend/internal/domain/user"
	"github.com/your-org/fooddelivery-backend/internal/domain/voucher"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain - Base tables
		&user.User{},
		&user.Address{},

		// Catalog domain - Base tables
		&catalog.Restaurant{},
		&catalog.FoodItem{},
		&catalog.FoodOption{},

		// Cart domain
		&cart.CartLine{},

		// Order domain - Dependent tables
		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},

		// Engagement domains
		&favorite.Favorite{},
		&voucher.Voucher{},
		&review.Review{},
		&message.Message{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_restaurants_open_rating ON restaurants(is_open, rating DESC)",
		"CREATE INDEX IF NOT EXISTS idx_food_items_restaurant_available ON food_items(restaurant_id, is_available)",
		"CREATE INDEX IF NOT EXISTS idx_food_items_category_available ON food_items(category, is_available)",
		"CREATE INDEX IF NOT EXISTS idx_food_items_collection ON food_items(collection)",
		"CREATE INDEX IF NOT EXISTS idx_food_options_item_type ON food_options(food_item_id, option_type)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_lines_cart_key ON cart_lines(cart_key)",
		"CREATE INDEX IF NOT EXISTS idx_cart_lines_created_at ON cart_lines(created_at)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_cart_key_status ON orders(cart_key, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_orders_restaurant ON orders(restaurant_id, created_at DESC)",

		// Order items indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_food_item ON order_items(food_item_id)",

		// Status history indexes
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at)",

		// Favorites indexes
		"CREATE INDEX IF NOT EXISTS idx_favorites_owner ON favorites(owner_key, created_at DESC)",

		// Voucher indexes
		"CREATE INDEX IF NOT EXISTS idx_vouchers_status_expiry ON vouchers(status, expiry_date)",

		// Review indexes
		"CREATE INDEX IF NOT EXISTS idx_reviews_owner ON reviews(owner_key)",

		// Message indexes
		"CREATE INDEX IF NOT EXISTS idx_messages_order_created ON messages(order_id, created_at)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds the database with development data
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return err
	}
	if err := m.seedCatalog(); err != nil {
		return err
	}
	if err := m.seedVouchers(); err != nil {
		return err
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	var count int64
	m.db.Model(&user.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:     "admin@fooddelivery.local",
		Password:  string(hashedPassword),
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
		IsAdmin:   true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("Created admin user: admin@fooddelivery.local")
	return nil
}

func (m *Migration) seedCatalog() error {
	var count int64
	m.db.Model(&catalog.Restaurant{}).Count(&count)
	if count > 0 {
		return nil
	}

	restaurants := []catalog.Restaurant{
		{Name: "Hana Chicken", Description: "Fried chicken done right", CuisineType: "Chicken", Rating: 4.8, DeliveryTime: 25, IsOpen: true},
		{Name: "Bamsu Restaurant", Description: "Salads and light meals", CuisineType: "Healthy", Rating: 4.5, DeliveryTime: 30, IsOpen: true},
		{Name: "Neighbor Milk", Description: "Drinks and desserts", CuisineType: "Dessert", Rating: 4.2, DeliveryTime: 20, IsOpen: true},
	}
	if err := m.db.Create(&restaurants).Error; err != nil {
		return fmt.Errorf("failed to seed restaurants: %w", err)
	}

	items := []catalog.FoodItem{
		{RestaurantID: restaurants[0].ID, Name: "Fried Chicken", Description: "Crispy classic fried chicken", Price: 1500, Category: "Chicken", Collection: "popular", Rating: 4.8, IsAvailable: true},
		{RestaurantID: restaurants[0].ID, Name: "Spicy Chicken", Description: "Fried chicken with a hot glaze", Price: 1500, Category: "Chicken", Collection: "best_seller", Rating: 4.7, IsAvailable: true},
		{RestaurantID: restaurants[0].ID, Name: "Fried Potatoes", Description: "Golden fries with dipping sauce", Price: 800, Category: "Sides", Collection: "popular", Rating: 4.4, IsAvailable: true},
		{RestaurantID: restaurants[1].ID, Name: "Chicken Salad", Description: "Grilled chicken over fresh greens", Price: 1200, Category: "Salad", Collection: "healthy", Rating: 4.5, IsAvailable: true},
	}
	if err := m.db.Create(&items).Error; err != nil {
		return fmt.Errorf("failed to seed food items: %w", err)
	}

	// Global option modifiers: sizes, toppings and spiciness levels
	options := []catalog.FoodOption{
		{OptionType: catalog.OptionTypeSize, OptionName: "S", PriceModifier: 0, SortOrder: 1},
		{OptionType: catalog.OptionTypeSize, OptionName: "M", PriceModifier: 500, SortOrder: 2},
		{OptionType: catalog.OptionTypeSize, OptionName: "L", PriceModifier: 1000, SortOrder: 3},
		{OptionType: catalog.OptionTypeTopping, OptionName: "Corn", PriceModifier: 200, SortOrder: 1},
		{OptionType: catalog.OptionTypeTopping, OptionName: "Cheese Cheddar", PriceModifier: 500, SortOrder: 2},
		{OptionType: catalog.OptionTypeTopping, OptionName: "Salted egg", PriceModifier: 1000, SortOrder: 3},
		{OptionType: catalog.OptionTypeSpiciness, OptionName: "No", PriceModifier: 0, SortOrder: 1},
		{OptionType: catalog.OptionTypeSpiciness, OptionName: "Hot", PriceModifier: 0, SortOrder: 2},
		{OptionType: catalog.OptionTypeSpiciness, OptionName: "Very hot", PriceModifier: 0, SortOrder: 3},
	}
	if err := m.db.Create(&options).Error; err != nil {
		return fmt.Errorf("failed to seed food options: %w", err)
	}

	log.Printf("Seeded %d restaurants, %d food items, %d options", len(restaurants), len(items), len(options))
	return nil
}

func (m *Migration) seedVouchers() error {
	var count int64
	m.db.Model(&voucher.Voucher{}).Count(&count)
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	vouchers := []voucher.Voucher{
		{
			Title:        "Welcome Promo",
			Code:         "WELCOME320",
			Description:  "Flat discount on your first order",
			DiscountType: voucher.DiscountTypeAmount,
			Value:        320,
			MinOrder:     1000,
			ExpiryDate:   now.AddDate(0, 3, 0),
			Status:       voucher.VoucherStatusActive,
		},
		{
			Title:        "Ten Percent Off",
			Code:         "SAVE10",
			Description:  "10% off orders over $20",
			DiscountType: voucher.DiscountTypePercent,
			Value:        10,
			MinOrder:     2000,
			MaxDiscount:  500,
			ExpiryDate:   now.AddDate(0, 1, 0),
			Status:       voucher.VoucherStatusActive,
		},
	}
	if err := m.db.Create(&vouchers).Error; err != nil {
		return fmt.Errorf("failed to seed vouchers: %w", err)
	}

	log.Printf("Seeded %d vouchers", len(vouchers))
	return nil
}
