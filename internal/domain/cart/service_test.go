// internal/domain/cart/service_test.go
package cart

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

func setupCartTest(t *testing.T) (*Service, *gorm.DB) {
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
		&CartLine{},
	))

	cfg := &config.Config{}
	cfg.Pricing.Currency = "USD"
	cfg.Pricing.DeliveryFee = 250

	catalogService := catalog.NewService(db, nil, cfg)
	return NewService(db, catalogService, nil, cfg), db
}

func seedMenu(t *testing.T, db *gorm.DB) catalog.FoodItem {
	t.Helper()

	restaurant := catalog.Restaurant{Name: "Hana Chicken", CuisineType: "Chicken", IsOpen: true}
	require.NoError(t, db.Create(&restaurant).Error)

	item := catalog.FoodItem{
		RestaurantID: restaurant.ID,
		Name:         "Fried Chicken",
		Price:        1500,
		Category:     "Chicken",
		IsAvailable:  true,
	}
	require.NoError(t, db.Create(&item).Error)

	options := []catalog.FoodOption{
		{OptionType: catalog.OptionTypeSize, OptionName: "S", PriceModifier: 0},
		{OptionType: catalog.OptionTypeSize, OptionName: "M", PriceModifier: 500},
		{OptionType: catalog.OptionTypeSize, OptionName: "L", PriceModifier: 1000},
		{OptionType: catalog.OptionTypeTopping, OptionName: "Corn", PriceModifier: 200},
		{OptionType: catalog.OptionTypeTopping, OptionName: "Cheese Cheddar", PriceModifier: 500},
		{OptionType: catalog.OptionTypeSpiciness, OptionName: "Hot", PriceModifier: 0},
	}
	require.NoError(t, db.Create(&options).Error)

	return item
}

func TestAddOrMergeCreatesLineWithOptionPricing(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)

	ctx := context.Background()
	response, err := service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{
		FoodItemID: item.ID,
		Quantity:   2,
		Selection: Selection{
			Size:      "L",
			Toppings:  []string{"Corn", "Cheese Cheddar"},
			Spiciness: "Hot",
		},
	})
	require.NoError(t, err)

	require.Len(t, response.Items, 1)
	line := response.Items[0]
	assert.Equal(t, int64(3200), line.UnitPrice) // 1500 + 1000 + 200 + 500
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "L|Cheese Cheddar+Corn|Hot", line.OptionsKey)
	assert.Equal(t, "Hana Chicken", line.RestaurantName)

	assert.Equal(t, int64(6400), response.Totals.SubTotal)
	assert.Equal(t, int64(6650), response.Totals.TotalAmount)
}

func TestAddOrMergeSameSelectionIncrementsQuantity(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	first := &AddToCartRequest{
		FoodItemID: item.ID,
		Quantity:   1,
		Selection:  Selection{Size: "M", Toppings: []string{"Corn", "Cheese Cheddar"}},
	}
	_, err := service.AddOrMerge(ctx, "cart-1", first)
	require.NoError(t, err)

	// Same selection with toppings listed in a different order
	second := &AddToCartRequest{
		FoodItemID: item.ID,
		Quantity:   2,
		Selection:  Selection{Size: "M", Toppings: []string{"Cheese Cheddar", "Corn"}},
	}
	response, err := service.AddOrMerge(ctx, "cart-1", second)
	require.NoError(t, err)

	require.Len(t, response.Items, 1)
	assert.Equal(t, 3, response.Items[0].Quantity)
}

func TestAddOrMergeDifferentSelectionCreatesNewLine(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	_, err := service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{
		FoodItemID: item.ID,
		Quantity:   1,
		Selection:  Selection{Size: "M"},
	})
	require.NoError(t, err)

	response, err := service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{
		FoodItemID: item.ID,
		Quantity:   1,
		Selection:  Selection{Size: "L"},
	})
	require.NoError(t, err)

	assert.Len(t, response.Items, 2)
}

func TestAddOrMergeUnknownItem(t *testing.T) {
	service, _ := setupCartTest(t)

	_, err := service.AddOrMerge(context.Background(), "cart-1", &AddToCartRequest{
		FoodItemID: 9999,
		Quantity:   1,
	})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestAddOrMergeIsolatesCartKeys(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	_, err := service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{FoodItemID: item.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = service.AddOrMerge(ctx, "cart-2", &AddToCartRequest{FoodItemID: item.ID, Quantity: 1})
	require.NoError(t, err)

	response, err := service.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Len(t, response.Items, 1)
}

func TestSetQuantity(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	response, err := service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{FoodItemID: item.ID, Quantity: 1})
	require.NoError(t, err)
	lineID := response.Items[0].ID

	response, err = service.SetQuantity(ctx, "cart-1", lineID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, response.Items[0].Quantity)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	response, err := service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{FoodItemID: item.ID, Quantity: 2})
	require.NoError(t, err)
	lineID := response.Items[0].ID

	response, err = service.SetQuantity(ctx, "cart-1", lineID, 0)
	require.NoError(t, err)
	assert.Empty(t, response.Items)
}

func TestSetQuantityUnknownLine(t *testing.T) {
	service, _ := setupCartTest(t)

	_, err := service.SetQuantity(context.Background(), "cart-1", 42, 3)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveIsIdempotent(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	response, err := service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{FoodItemID: item.ID, Quantity: 1})
	require.NoError(t, err)
	lineID := response.Items[0].ID

	_, err = service.Remove(ctx, "cart-1", lineID)
	require.NoError(t, err)

	// Removing again is a no-op
	response, err = service.Remove(ctx, "cart-1", lineID)
	require.NoError(t, err)
	assert.Empty(t, response.Items)
}

func TestRemoveThenReAddSameSelection(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	req := &AddToCartRequest{
		FoodItemID: item.ID,
		Quantity:   1,
		Selection:  Selection{Size: "M", Toppings: []string{"Corn"}},
	}

	response, err := service.AddOrMerge(ctx, "cart-1", req)
	require.NoError(t, err)

	_, err = service.Remove(ctx, "cart-1", response.Items[0].ID)
	require.NoError(t, err)

	// The unique signature index must not block re-adding after removal
	response, err = service.AddOrMerge(ctx, "cart-1", req)
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.Equal(t, 1, response.Items[0].Quantity)
}

func TestClear(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	_, err := service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{FoodItemID: item.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{
		FoodItemID: item.ID, Quantity: 1, Selection: Selection{Size: "L"},
	})
	require.NoError(t, err)

	require.NoError(t, service.Clear(ctx, "cart-1"))

	response, err := service.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, response.Items)
	assert.Equal(t, int64(0), response.Totals.SubTotal)
}

func TestGetCartItemCount(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	_, err := service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{FoodItemID: item.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = service.AddOrMerge(ctx, "cart-1", &AddToCartRequest{
		FoodItemID: item.ID, Quantity: 3, Selection: Selection{Size: "L"},
	})
	require.NoError(t, err)

	count, err := service.GetCartItemCount(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCartKeyRequired(t *testing.T) {
	service, _ := setupCartTest(t)
	ctx := context.Background()

	_, err := service.GetCart(ctx, "")
	assert.ErrorIs(t, err, ErrCartKeyRequired)

	_, err = service.AddOrMerge(ctx, "", &AddToCartRequest{FoodItemID: 1, Quantity: 1})
	assert.ErrorIs(t, err, ErrCartKeyRequired)

	assert.ErrorIs(t, service.Clear(ctx, ""), ErrCartKeyRequired)
}

func TestIncrementLineFoldsLostInsertRace(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	req := &AddToCartRequest{
		FoodItemID: item.ID,
		Quantity:   2,
		Selection:  Selection{Size: "L", Toppings: []string{"Corn"}},
	}
	_, err := service.AddOrMerge(ctx, "cart-1", req)
	require.NoError(t, err)

	// A concurrent add that missed the lookup and hit the unique index
	// falls back to this merge
	follower := &AddToCartRequest{
		FoodItemID: item.ID,
		Quantity:   3,
		Selection:  Selection{Size: "L", Toppings: []string{"Corn"}},
	}
	err = service.incrementLine(ctx, "cart-1", item.ID, follower.Selection.Signature(), 2700, follower)
	require.NoError(t, err)

	response, err := service.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.Equal(t, 5, response.Items[0].Quantity)
	assert.Equal(t, int64(2700), response.Items[0].UnitPrice)
}

func TestIncrementLineMissingLine(t *testing.T) {
	service, db := setupCartTest(t)
	item := seedMenu(t, db)
	ctx := context.Background()

	req := &AddToCartRequest{FoodItemID: item.ID, Quantity: 1}
	err := service.incrementLine(ctx, "cart-1", item.ID, req.Selection.Signature(), 1500, req)
	assert.ErrorIs(t, err, ErrLineNotFound)
}
