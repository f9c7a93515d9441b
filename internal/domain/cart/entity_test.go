// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotalsEmptyCart(t *testing.T) {
	totals := CalculateTotals(nil, 250, 0)

	assert.Equal(t, 0, totals.ItemCount)
	assert.Equal(t, 0, totals.TotalQuantity)
	assert.Equal(t, int64(0), totals.SubTotal)
	assert.Equal(t, int64(250), totals.DeliveryFee)
	assert.Equal(t, int64(0), totals.Discount)
	assert.Equal(t, int64(250), totals.TotalAmount)
}

func TestCalculateTotalsWithDiscount(t *testing.T) {
	// Fried Chicken, size L with corn and cheddar: 1500 + 1000 + 200 + 500
	lines := []CartLine{
		{UnitPrice: 3200, Quantity: 2},
	}

	totals := CalculateTotals(lines, 250, -320)

	assert.Equal(t, int64(6400), totals.SubTotal)
	assert.Equal(t, int64(-320), totals.Discount)
	assert.Equal(t, int64(6330), totals.TotalAmount)
}

func TestCalculateTotalsNormalizesPositiveDiscount(t *testing.T) {
	lines := []CartLine{{UnitPrice: 1000, Quantity: 1}}

	totals := CalculateTotals(lines, 0, 300)

	assert.Equal(t, int64(-300), totals.Discount)
	assert.Equal(t, int64(700), totals.TotalAmount)
}

func TestCalculateTotalsClampsNegativeQuantity(t *testing.T) {
	lines := []CartLine{
		{UnitPrice: 1000, Quantity: -3},
		{UnitPrice: 500, Quantity: 2},
	}

	totals := CalculateTotals(lines, 0, 0)

	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 2, totals.TotalQuantity)
	assert.Equal(t, int64(1000), totals.SubTotal)
}

func TestCalculateTotalsMultipleLines(t *testing.T) {
	lines := []CartLine{
		{UnitPrice: 1500, Quantity: 1},
		{UnitPrice: 2000, Quantity: 3},
		{UnitPrice: 800, Quantity: 2},
	}

	totals := CalculateTotals(lines, 250, 0)

	assert.Equal(t, 3, totals.ItemCount)
	assert.Equal(t, 6, totals.TotalQuantity)
	assert.Equal(t, int64(9100), totals.SubTotal)
	assert.Equal(t, int64(9350), totals.TotalAmount)
}

func TestLineTotal(t *testing.T) {
	line := CartLine{UnitPrice: 1500, Quantity: 3}
	assert.Equal(t, int64(4500), line.LineTotal())

	negative := CartLine{UnitPrice: 1500, Quantity: -1}
	assert.Equal(t, int64(0), negative.LineTotal())
}
