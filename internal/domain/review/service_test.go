// internal/domain/review/service_test.go
package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/fooddelivery-backend/internal/domain/order"
)

func setupReviewTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&order.Order{}, &Review{}))

	return NewService(db), db
}

func seedOrder(t *testing.T, db *gorm.DB, restaurantID uint, status order.OrderStatus) order.Order {
	t.Helper()
	ord := order.Order{
		OrderNumber:     "ORD-20260828-0000" + string(rune('1'+restaurantID)),
		CartKey:         "cart-1",
		Status:          status,
		RestaurantID:    restaurantID,
		DeliveryAddress: "201 Katlian St",
		PaymentMethod:   "cash",
		SubtotalAmount:  3000,
		TotalAmount:     3250,
	}
	require.NoError(t, db.Create(&ord).Error)
	return ord
}

func TestCreateReview(t *testing.T) {
	service, db := setupReviewTest(t)
	ord := seedOrder(t, db, 1, order.OrderStatusDelivered)

	rev, err := service.Create(context.Background(), "owner-1", &CreateReviewRequest{
		OrderID: ord.ID,
		Rating:  5,
		Comment: "Great chicken",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, rev.Rating)
	assert.Equal(t, ord.ID, rev.OrderID)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	service, db := setupReviewTest(t)
	ord := seedOrder(t, db, 1, order.OrderStatusDelivered)
	ctx := context.Background()

	_, err := service.Create(ctx, "owner-1", &CreateReviewRequest{OrderID: ord.ID, Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = service.Create(ctx, "owner-1", &CreateReviewRequest{OrderID: ord.ID, Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestCreateReviewRequiresDeliveredOrder(t *testing.T) {
	service, db := setupReviewTest(t)
	ord := seedOrder(t, db, 1, order.OrderStatusOnTheWay)

	_, err := service.Create(context.Background(), "owner-1", &CreateReviewRequest{OrderID: ord.ID, Rating: 4})
	assert.ErrorIs(t, err, ErrOrderNotDelivered)
}

func TestCreateReviewUnknownOrder(t *testing.T) {
	service, _ := setupReviewTest(t)

	_, err := service.Create(context.Background(), "owner-1", &CreateReviewRequest{OrderID: 999, Rating: 4})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestCreateReviewOncePerOrder(t *testing.T) {
	service, db := setupReviewTest(t)
	ord := seedOrder(t, db, 1, order.OrderStatusDelivered)
	ctx := context.Background()

	_, err := service.Create(ctx, "owner-1", &CreateReviewRequest{OrderID: ord.ID, Rating: 5})
	require.NoError(t, err)

	_, err = service.Create(ctx, "owner-1", &CreateReviewRequest{OrderID: ord.ID, Rating: 3})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestRestaurantAggregates(t *testing.T) {
	service, db := setupReviewTest(t)
	ctx := context.Background()

	first := seedOrder(t, db, 1, order.OrderStatusDelivered)
	second := seedOrder(t, db, 2, order.OrderStatusDelivered)

	_, err := service.Create(ctx, "owner-1", &CreateReviewRequest{OrderID: first.ID, Rating: 5})
	require.NoError(t, err)
	_, err = service.Create(ctx, "owner-2", &CreateReviewRequest{OrderID: second.ID, Rating: 3})
	require.NoError(t, err)

	reviews, err := service.ListForRestaurant(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	avg, err := service.AverageForRestaurant(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, avg)

	// No reviews yet for restaurant 3
	avg, err = service.AverageForRestaurant(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, avg)
}

func TestGetByOrder(t *testing.T) {
	service, db := setupReviewTest(t)
	ord := seedOrder(t, db, 1, order.OrderStatusDelivered)
	ctx := context.Background()

	rev, err := service.GetByOrder(ctx, ord.ID)
	require.NoError(t, err)
	assert.Nil(t, rev)

	_, err = service.Create(ctx, "owner-1", &CreateReviewRequest{OrderID: ord.ID, Rating: 4})
	require.NoError(t, err)

	rev, err = service.GetByOrder(ctx, ord.ID)
	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, 4, rev.Rating)
}
