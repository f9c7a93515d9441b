// internal/domain/cart/selection_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionSignature(t *testing.T) {
	sel := Selection{
		Size:      "L",
		Toppings:  []string{"Corn", "Cheese Cheddar"},
		Spiciness: "Hot",
	}

	assert.Equal(t, "L|Cheese Cheddar+Corn|Hot", sel.Signature())
}

func TestSelectionSignatureToppingOrderIndependent(t *testing.T) {
	a := Selection{Size: "M", Toppings: []string{"Corn", "Salted egg"}, Spiciness: "No"}
	b := Selection{Size: "M", Toppings: []string{"Salted egg", "Corn"}, Spiciness: "No"}

	assert.Equal(t, a.Signature(), b.Signature())
}

func TestSelectionSignatureDoesNotMutateInput(t *testing.T) {
	sel := Selection{Toppings: []string{"Corn", "Cheese Cheddar"}}
	_ = sel.Signature()

	assert.Equal(t, []string{"Corn", "Cheese Cheddar"}, sel.Toppings)
}

func TestSelectionSignatureDistinguishesSelections(t *testing.T) {
	base := Selection{Size: "M", Toppings: []string{"Corn"}, Spiciness: "No"}

	differentSize := Selection{Size: "L", Toppings: []string{"Corn"}, Spiciness: "No"}
	differentToppings := Selection{Size: "M", Toppings: []string{"Corn", "Salted egg"}, Spiciness: "No"}
	differentSpiciness := Selection{Size: "M", Toppings: []string{"Corn"}, Spiciness: "Hot"}

	assert.NotEqual(t, base.Signature(), differentSize.Signature())
	assert.NotEqual(t, base.Signature(), differentToppings.Signature())
	assert.NotEqual(t, base.Signature(), differentSpiciness.Signature())
}

func TestSelectionSignatureEmpty(t *testing.T) {
	assert.Equal(t, "||", Selection{}.Signature())
}

func TestParseToppings(t *testing.T) {
	assert.Nil(t, ParseToppings(""))
	assert.Equal(t, []string{"Corn"}, ParseToppings("Corn"))
	assert.Equal(t, []string{"Cheese Cheddar", "Corn"}, ParseToppings("Cheese Cheddar+Corn"))
}

func TestToppingsValueRoundTrip(t *testing.T) {
	sel := Selection{Toppings: []string{"Salted egg", "Corn"}}

	assert.Equal(t, []string{"Corn", "Salted egg"}, ParseToppings(sel.ToppingsValue()))
}
