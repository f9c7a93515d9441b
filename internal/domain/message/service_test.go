// internal/domain/message/service_test.go
package message

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

func setupMessageTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&order.Order{}, &Message{}))

	return NewService(db), db
}

func seedOrder(t *testing.T, db *gorm.DB) order.Order {
	t.Helper()
	ord := order.Order{
		OrderNumber:     "ORD-20260828-00001",
		CartKey:         "cart-1",
		Status:          order.OrderStatusOnTheWay,
		RestaurantID:    1,
		DeliveryAddress: "201 Katlian St",
		PaymentMethod:   "cash",
		SubtotalAmount:  3000,
		TotalAmount:     3250,
	}
	require.NoError(t, db.Create(&ord).Error)
	return ord
}

func TestSendAndList(t *testing.T) {
	service, db := setupMessageTest(t)
	ord := seedOrder(t, db)
	ctx := context.Background()

	first, err := service.Send(ctx, "cart-1", &SendRequest{OrderID: ord.ID, Body: "Where are you?"})
	require.NoError(t, err)
	assert.Equal(t, "Where are you?", first.Body)

	_, err = service.Send(ctx, "driver-7", &SendRequest{OrderID: ord.ID, Body: "Two minutes away"})
	require.NoError(t, err)

	messages, err := service.List(ctx, ord.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Where are you?", messages[0].Body)
	assert.Equal(t, "Two minutes away", messages[1].Body)
}

func TestSendTrimsAndRejectsEmptyBody(t *testing.T) {
	service, db := setupMessageTest(t)
	ord := seedOrder(t, db)
	ctx := context.Background()

	msg, err := service.Send(ctx, "cart-1", &SendRequest{OrderID: ord.ID, Body: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Body)

	_, err = service.Send(ctx, "cart-1", &SendRequest{OrderID: ord.ID, Body: "   "})
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestSendUnknownOrder(t *testing.T) {
	service, _ := setupMessageTest(t)

	_, err := service.Send(context.Background(), "cart-1", &SendRequest{OrderID: 999, Body: "hi"})
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}
