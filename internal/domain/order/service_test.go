// internal/domain/order/service_test.go
package order

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/cart"
	"github.com/your-org/fooddelivery-backend/internal/domain/catalog"
	"github.com/your-org/fooddelivery-backend/internal/domain/voucher"
)

type orderTestEnv struct {
	db          *gorm.DB
	service     *Service
	cartService *cart.Service
}

func setupOrderTest(t *testing.T) *orderTestEnv {
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
		&cart.CartLine{},
		&voucher.Voucher{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
	))

	cfg := &config.Config{}
	cfg.Pricing.Currency = "USD"
	cfg.Pricing.DeliveryFee = 250

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	catalogService := catalog.NewService(db, nil, cfg)
	cartService := cart.NewService(db, catalogService, nil, cfg)
	voucherService := voucher.NewService(db)
	service := NewService(db, cfg, cartService, voucherService, log)

	return &orderTestEnv{db: db, service: service, cartService: cartService}
}

func (e *orderTestEnv) seedRestaurant(t *testing.T, name string) catalog.Restaurant {
	t.Helper()
	restaurant := catalog.Restaurant{Name: name, IsOpen: true}
	require.NoError(t, e.db.Create(&restaurant).Error)
	return restaurant
}

func (e *orderTestEnv) seedItem(t *testing.T, restaurantID uint, name string, price int64) catalog.FoodItem {
	t.Helper()
	item := catalog.FoodItem{RestaurantID: restaurantID, Name: name, Price: price, IsAvailable: true}
	require.NoError(t, e.db.Create(&item).Error)
	return item
}

func (e *orderTestEnv) fillCart(t *testing.T, cartKey string, item catalog.FoodItem, qty int) {
	t.Helper()
	_, err := e.cartService.AddOrMerge(context.Background(), cartKey, &cart.AddToCartRequest{
		FoodItemID: item.ID,
		Quantity:   qty,
	})
	require.NoError(t, err)
}

func checkoutRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		DeliveryAddress: "201 Katlian St",
		PaymentMethod:   "cash",
	}
}

func TestPlaceOrder(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	item := env.seedItem(t, restaurant.ID, "Fried Chicken", 1500)
	env.fillCart(t, "cart-1", item, 2)

	ord, err := env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPending, ord.Status)
	assert.Equal(t, restaurant.ID, ord.RestaurantID)
	assert.Equal(t, "Hana Chicken", ord.RestaurantName)
	assert.Equal(t, int64(3000), ord.SubtotalAmount)
	assert.Equal(t, int64(250), ord.DeliveryFee)
	assert.Equal(t, int64(3250), ord.TotalAmount)
	assert.Equal(t, "USD", ord.Currency)
	assert.NotEmpty(t, ord.OrderNumber)

	// Items are frozen on the order
	require.Len(t, ord.Items, 1)
	assert.Equal(t, "Fried Chicken", ord.Items[0].Name)
	assert.Equal(t, int64(1500), ord.Items[0].UnitPrice)
	assert.Equal(t, int64(3000), ord.Items[0].TotalPrice)

	// History records the placement
	require.Len(t, ord.StatusHistory, 1)
	assert.Equal(t, OrderStatusPending, ord.StatusHistory[0].Status)

	// The cart is cleared after the order commits
	cartResponse, err := env.cartService.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Empty(t, cartResponse.Items)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := setupOrderTest(t)

	_, err := env.service.PlaceOrder(context.Background(), "cart-1", nil, checkoutRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	env.db.Model(&Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestPlaceOrderAmbiguousRestaurant(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	first := env.seedRestaurant(t, "Hana Chicken")
	second := env.seedRestaurant(t, "Bamsu Restaurant")
	env.fillCart(t, "cart-1", env.seedItem(t, first.ID, "Fried Chicken", 1500), 1)
	env.fillCart(t, "cart-1", env.seedItem(t, second.ID, "Chicken Salad", 1200), 1)

	_, err := env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	assert.ErrorIs(t, err, ErrAmbiguousRestaurant)

	// Nothing was written and the cart is untouched
	var count int64
	env.db.Model(&Order{}).Count(&count)
	assert.Zero(t, count)

	cartResponse, err := env.cartService.GetCart(ctx, "cart-1")
	require.NoError(t, err)
	assert.Len(t, cartResponse.Items, 2)
}

func TestPlaceOrderResolvesRestaurantByName(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	item := env.seedItem(t, restaurant.ID, "Fried Chicken", 1500)
	env.fillCart(t, "cart-1", item, 1)

	// Simulate legacy lines that carry only the restaurant name
	require.NoError(t, env.db.Model(&cart.CartLine{}).
		Where("cart_key = ?", "cart-1").
		Update("restaurant_id", nil).Error)

	ord, err := env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, restaurant.ID, ord.RestaurantID)
}

func TestPlaceOrderUnresolvedRestaurant(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	item := env.seedItem(t, restaurant.ID, "Fried Chicken", 1500)
	env.fillCart(t, "cart-1", item, 1)

	require.NoError(t, env.db.Model(&cart.CartLine{}).
		Where("cart_key = ?", "cart-1").
		Updates(map[string]interface{}{
			"restaurant_id":   nil,
			"restaurant_name": "Closed Forever",
		}).Error)

	_, err := env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	assert.ErrorIs(t, err, ErrUnresolvedRestaurant)
}

func TestPlaceOrderWithVoucher(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	item := env.seedItem(t, restaurant.ID, "Fried Chicken", 1500)
	env.fillCart(t, "cart-1", item, 2)

	require.NoError(t, env.db.Create(&voucher.Voucher{
		Title:        "Welcome Promo",
		Code:         "WELCOME320",
		DiscountType: voucher.DiscountTypeAmount,
		Value:        320,
		MinOrder:     1000,
		ExpiryDate:   time.Now().AddDate(0, 1, 0),
		Status:       voucher.VoucherStatusActive,
	}).Error)

	req := checkoutRequest()
	req.OfferCode = "WELCOME320"

	ord, err := env.service.PlaceOrder(ctx, "cart-1", nil, req)
	require.NoError(t, err)

	assert.Equal(t, int64(3000), ord.SubtotalAmount)
	assert.Equal(t, int64(-320), ord.DiscountAmount)
	assert.Equal(t, int64(2930), ord.TotalAmount) // 3000 + 250 - 320

	// The voucher is consumed by the committed order
	var used voucher.Voucher
	require.NoError(t, env.db.Where("code = ?", "WELCOME320").First(&used).Error)
	assert.Equal(t, voucher.VoucherStatusUsed, used.Status)
}

func TestPlaceOrderVoucherSingleUse(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	item := env.seedItem(t, restaurant.ID, "Fried Chicken", 1500)
	env.fillCart(t, "cart-1", item, 2)

	require.NoError(t, env.db.Create(&voucher.Voucher{
		Title:        "One Shot",
		Code:         "ONCE",
		DiscountType: voucher.DiscountTypeAmount,
		Value:        320,
		ExpiryDate:   time.Now().AddDate(0, 1, 0),
		Status:       voucher.VoucherStatusActive,
	}).Error)

	req := checkoutRequest()
	req.OfferCode = "ONCE"

	_, err := env.service.PlaceOrder(ctx, "cart-1", nil, req)
	require.NoError(t, err)

	// A second redemption of the same code is rejected and writes nothing
	env.fillCart(t, "cart-2", item, 1)
	_, err = env.service.PlaceOrder(ctx, "cart-2", nil, req)
	assert.ErrorIs(t, err, voucher.ErrVoucherNotActive)

	var count int64
	env.db.Model(&Order{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// The rejected checkout leaves the cart intact
	cartResponse, err := env.cartService.GetCart(ctx, "cart-2")
	require.NoError(t, err)
	assert.Len(t, cartResponse.Items, 1)
}

func TestPlaceOrderUnknownVoucher(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	env.fillCart(t, "cart-1", env.seedItem(t, restaurant.ID, "Fried Chicken", 1500), 1)

	req := checkoutRequest()
	req.OfferCode = "NOPE"

	_, err := env.service.PlaceOrder(ctx, "cart-1", nil, req)
	assert.ErrorIs(t, err, voucher.ErrVoucherNotFound)

	// A bad offer code fails before any order row is written
	var count int64
	env.db.Model(&Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateStatusWalksThePipeline(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	env.fillCart(t, "cart-1", env.seedItem(t, restaurant.ID, "Fried Chicken", 1500), 1)
	ord, err := env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	require.NoError(t, err)

	ord, err = env.service.UpdateStatus(ctx, ord.ID, OrderStatusPreparing, "Kitchen accepted")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPreparing, ord.Status)
	assert.NotNil(t, ord.PreparingAt)

	ord, err = env.service.UpdateStatus(ctx, ord.ID, OrderStatusOnTheWay, "")
	require.NoError(t, err)
	assert.NotNil(t, ord.OnTheWayAt)

	ord, err = env.service.UpdateStatus(ctx, ord.ID, OrderStatusDelivered, "")
	require.NoError(t, err)
	assert.NotNil(t, ord.DeliveredAt)
	assert.Len(t, ord.StatusHistory, 4)
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	env.fillCart(t, "cart-1", env.seedItem(t, restaurant.ID, "Fried Chicken", 1500), 1)
	ord, err := env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	require.NoError(t, err)

	_, err = env.service.UpdateStatus(ctx, ord.ID, OrderStatusDelivered, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = env.service.UpdateStatus(ctx, ord.ID, "shipped", "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestCancelOrder(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	env.fillCart(t, "cart-1", env.seedItem(t, restaurant.ID, "Fried Chicken", 1500), 1)
	ord, err := env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	require.NoError(t, err)

	cancelled, err := env.service.CancelOrder(ctx, ord.ID, "Changed my mind")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	// A cancelled order cannot move again
	_, err = env.service.CancelOrder(ctx, ord.ID, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestGetOrderNotFound(t *testing.T) {
	env := setupOrderTest(t)

	_, err := env.service.GetOrder(context.Background(), 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestTrack(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	env.fillCart(t, "cart-1", env.seedItem(t, restaurant.ID, "Fried Chicken", 1500), 1)
	ord, err := env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	require.NoError(t, err)

	tracking, err := env.service.Track(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, tracking.Step)

	_, err = env.service.CancelOrder(ctx, ord.ID, "")
	require.NoError(t, err)

	tracking, err = env.service.Track(ctx, ord.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, tracking.Step)
}

func TestListOrdersScopedByCartKey(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	item := env.seedItem(t, restaurant.ID, "Fried Chicken", 1500)

	env.fillCart(t, "cart-1", item, 1)
	_, err := env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	require.NoError(t, err)

	env.fillCart(t, "cart-2", item, 1)
	_, err = env.service.PlaceOrder(ctx, "cart-2", nil, checkoutRequest())
	require.NoError(t, err)

	response, err := env.service.ListOrders(ctx, "cart-1", nil, &OrderListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, response.Orders, 1)
	assert.Equal(t, int64(1), response.Pagination.Total)
}

func TestListOrdersScopedByUser(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	item := env.seedItem(t, restaurant.ID, "Fried Chicken", 1500)

	userID := uint(7)
	env.fillCart(t, "cart-1", item, 1)
	_, err := env.service.PlaceOrder(ctx, "cart-1", &userID, checkoutRequest())
	require.NoError(t, err)

	env.fillCart(t, "cart-2", item, 1)
	_, err = env.service.PlaceOrder(ctx, "cart-2", nil, checkoutRequest())
	require.NoError(t, err)

	response, err := env.service.ListOrders(ctx, "other-cart", &userID, &OrderListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, response.Orders, 1)
	require.NotNil(t, response.Orders[0].UserID)
	assert.Equal(t, userID, *response.Orders[0].UserID)
}

func TestListOrdersStatusFilter(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	restaurant := env.seedRestaurant(t, "Hana Chicken")
	item := env.seedItem(t, restaurant.ID, "Fried Chicken", 1500)

	env.fillCart(t, "cart-1", item, 1)
	first, err := env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	require.NoError(t, err)

	env.fillCart(t, "cart-1", item, 1)
	_, err = env.service.PlaceOrder(ctx, "cart-1", nil, checkoutRequest())
	require.NoError(t, err)

	_, err = env.service.CancelOrder(ctx, first.ID, "")
	require.NoError(t, err)

	response, err := env.service.ListOrders(ctx, "cart-1", nil, &OrderListRequest{
		Page: 1, Limit: 20, Status: OrderStatusCancelled,
	})
	require.NoError(t, err)
	require.Len(t, response.Orders, 1)
	assert.Equal(t, first.ID, response.Orders[0].ID)
}
