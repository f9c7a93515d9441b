// internal/domain/voucher/service_test.go
package voucher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupVoucherTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Voucher{}))

	return NewService(db), db
}

func seedVoucher(t *testing.T, db *gorm.DB, v Voucher) Voucher {
	t.Helper()
	require.NoError(t, db.Create(&v).Error)
	return v
}

func TestComputedStatus(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)

	active := &Voucher{Status: VoucherStatusActive, ExpiryDate: now.AddDate(0, 0, 3)}
	assert.Equal(t, VoucherStatusActive, active.ComputedStatus(now))

	// Expiring today still counts as active
	today := &Voucher{Status: VoucherStatusActive, ExpiryDate: now.Add(-2 * time.Hour)}
	assert.Equal(t, VoucherStatusActive, today.ComputedStatus(now))

	expired := &Voucher{Status: VoucherStatusActive, ExpiryDate: now.AddDate(0, 0, -1)}
	assert.Equal(t, VoucherStatusExpired, expired.ComputedStatus(now))

	// A stored non-active status wins over the expiry date
	used := &Voucher{Status: VoucherStatusUsed, ExpiryDate: now.AddDate(0, 0, 3)}
	assert.Equal(t, VoucherStatusUsed, used.ComputedStatus(now))
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)

	v := &Voucher{ExpiryDate: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 3, v.DaysLeft(now))

	past := &Voucher{ExpiryDate: now.AddDate(0, 0, -5)}
	assert.Equal(t, 0, past.DaysLeft(now))
}

func TestDiscountAmount(t *testing.T) {
	service, db := setupVoucherTest(t)
	seedVoucher(t, db, Voucher{
		Title:        "Welcome Promo",
		Code:         "WELCOME320",
		DiscountType: DiscountTypeAmount,
		Value:        320,
		MinOrder:     1000,
		ExpiryDate:   time.Now().AddDate(0, 1, 0),
		Status:       VoucherStatusActive,
	})

	discount, err := service.Discount(context.Background(), "welcome320", 6400)
	require.NoError(t, err)
	assert.Equal(t, int64(-320), discount)
}

func TestDiscountPercentWithCap(t *testing.T) {
	service, db := setupVoucherTest(t)
	seedVoucher(t, db, Voucher{
		Title:        "Ten Percent Off",
		Code:         "SAVE10",
		DiscountType: DiscountTypePercent,
		Value:        10,
		MinOrder:     2000,
		MaxDiscount:  500,
		ExpiryDate:   time.Now().AddDate(0, 1, 0),
		Status:       VoucherStatusActive,
	})
	ctx := context.Background()

	// 10% of 4000 is under the cap
	discount, err := service.Discount(ctx, "SAVE10", 4000)
	require.NoError(t, err)
	assert.Equal(t, int64(-400), discount)

	// 10% of 9000 hits the 500 cap
	discount, err = service.Discount(ctx, "SAVE10", 9000)
	require.NoError(t, err)
	assert.Equal(t, int64(-500), discount)
}

func TestDiscountNeverExceedsSubtotal(t *testing.T) {
	service, db := setupVoucherTest(t)
	seedVoucher(t, db, Voucher{
		Title:        "Big Promo",
		Code:         "BIG",
		DiscountType: DiscountTypeAmount,
		Value:        5000,
		ExpiryDate:   time.Now().AddDate(0, 1, 0),
		Status:       VoucherStatusActive,
	})

	discount, err := service.Discount(context.Background(), "BIG", 1200)
	require.NoError(t, err)
	assert.Equal(t, int64(-1200), discount)
}

func TestDiscountMinOrderNotMet(t *testing.T) {
	service, db := setupVoucherTest(t)
	seedVoucher(t, db, Voucher{
		Title:        "Welcome Promo",
		Code:         "WELCOME320",
		DiscountType: DiscountTypeAmount,
		Value:        320,
		MinOrder:     1000,
		ExpiryDate:   time.Now().AddDate(0, 1, 0),
		Status:       VoucherStatusActive,
	})

	_, err := service.Discount(context.Background(), "WELCOME320", 999)
	assert.ErrorIs(t, err, ErrMinOrderNotMet)
}

func TestDiscountInactiveVoucher(t *testing.T) {
	service, db := setupVoucherTest(t)
	seedVoucher(t, db, Voucher{
		Title:        "Spent",
		Code:         "SPENT",
		DiscountType: DiscountTypeAmount,
		Value:        100,
		ExpiryDate:   time.Now().AddDate(0, 1, 0),
		Status:       VoucherStatusUsed,
	})
	seedVoucher(t, db, Voucher{
		Title:        "Old Promo",
		Code:         "OLD",
		DiscountType: DiscountTypeAmount,
		Value:        100,
		ExpiryDate:   time.Now().AddDate(0, 0, -2),
		Status:       VoucherStatusActive,
	})
	ctx := context.Background()

	_, err := service.Discount(ctx, "SPENT", 5000)
	assert.ErrorIs(t, err, ErrVoucherNotActive)

	_, err = service.Discount(ctx, "OLD", 5000)
	assert.ErrorIs(t, err, ErrVoucherNotActive)
}

func TestDiscountUnknownCode(t *testing.T) {
	service, _ := setupVoucherTest(t)

	_, err := service.Discount(context.Background(), "NOPE", 5000)
	assert.ErrorIs(t, err, ErrVoucherNotFound)
}

func TestListGroupsByComputedStatus(t *testing.T) {
	service, db := setupVoucherTest(t)
	seedVoucher(t, db, Voucher{
		Title: "Fresh", Code: "FRESH", DiscountType: DiscountTypeAmount, Value: 100,
		ExpiryDate: time.Now().AddDate(0, 1, 0), Status: VoucherStatusActive,
	})
	seedVoucher(t, db, Voucher{
		Title: "Stale", Code: "STALE", DiscountType: DiscountTypeAmount, Value: 100,
		ExpiryDate: time.Now().AddDate(0, 0, -3), Status: VoucherStatusActive,
	})
	ctx := context.Background()

	active, err := service.List(ctx, VoucherStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "FRESH", active[0].Code)

	expired, err := service.List(ctx, VoucherStatusExpired)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "STALE", expired[0].Code)

	all, err := service.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMarkUsed(t *testing.T) {
	service, db := setupVoucherTest(t)
	seedVoucher(t, db, Voucher{
		Title: "Fresh", Code: "FRESH", DiscountType: DiscountTypeAmount, Value: 100,
		ExpiryDate: time.Now().AddDate(0, 1, 0), Status: VoucherStatusActive,
	})
	ctx := context.Background()

	require.NoError(t, service.MarkUsed(ctx, "fresh"))

	// Already consumed
	assert.ErrorIs(t, service.MarkUsed(ctx, "FRESH"), ErrVoucherNotActive)
}
