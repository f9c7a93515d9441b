// internal/domain/favorite/service_test.go
package favorite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/catalog"
)

func setupFavoriteTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Restaurant{},
		&catalog.FoodItem{},
		&catalog.FoodOption{},
		&Favorite{},
	))

	catalogService := catalog.NewService(db, nil, &config.Config{})
	return NewService(db, catalogService), db
}

func seedItems(t *testing.T, db *gorm.DB, names ...string) []catalog.FoodItem {
	t.Helper()

	restaurant := catalog.Restaurant{Name: "Hana Chicken", IsOpen: true}
	require.NoError(t, db.Create(&restaurant).Error)

	items := make([]catalog.FoodItem, len(names))
	for i, name := range names {
		items[i] = catalog.FoodItem{
			RestaurantID: restaurant.ID,
			Name:         name,
			Price:        1000,
			IsAvailable:  true,
		}
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return items
}

func TestToggle(t *testing.T) {
	service, db := setupFavoriteTest(t)
	items := seedItems(t, db, "Fried Chicken")
	ctx := context.Background()

	// First toggle favorites the item
	response, err := service.Toggle(ctx, "owner-1", items[0].ID)
	require.NoError(t, err)
	assert.True(t, response.IsFavorite)

	isFav, err := service.IsFavorite(ctx, "owner-1", items[0].ID)
	require.NoError(t, err)
	assert.True(t, isFav)

	// Second toggle removes it
	response, err = service.Toggle(ctx, "owner-1", items[0].ID)
	require.NoError(t, err)
	assert.False(t, response.IsFavorite)

	isFav, err = service.IsFavorite(ctx, "owner-1", items[0].ID)
	require.NoError(t, err)
	assert.False(t, isFav)
}

func TestToggleUnknownItem(t *testing.T) {
	service, _ := setupFavoriteTest(t)

	_, err := service.Toggle(context.Background(), "owner-1", 9999)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestToggleIsolatesOwners(t *testing.T) {
	service, db := setupFavoriteTest(t)
	items := seedItems(t, db, "Fried Chicken")
	ctx := context.Background()

	_, err := service.Toggle(ctx, "owner-1", items[0].ID)
	require.NoError(t, err)

	isFav, err := service.IsFavorite(ctx, "owner-2", items[0].ID)
	require.NoError(t, err)
	assert.False(t, isFav)
}

func TestListPreservesRecency(t *testing.T) {
	service, db := setupFavoriteTest(t)
	items := seedItems(t, db, "Fried Chicken", "Spicy Chicken", "Fried Potatoes")
	ctx := context.Background()

	for _, item := range items {
		_, err := service.Toggle(ctx, "owner-1", item.ID)
		require.NoError(t, err)
	}

	favorites, err := service.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, favorites, 3)

	count, err := service.Count(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestListEmpty(t *testing.T) {
	service, _ := setupFavoriteTest(t)

	favorites, err := service.List(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Empty(t, favorites)
}
