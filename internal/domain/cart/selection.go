// internal/domain/cart/selection.go
package cart

import (
	"sort"
	"strings"
)

// Selection captures the option choices for one cart line
type Selection struct {
	Size      string   `json:"size"`
	Toppings  []string `json:"toppings"`
	Spiciness string   `json:"spiciness"`
}

// Signature returns the deterministic options key for the selection.
// Toppings are sorted so the key does not depend on pick order; two
// selections collapse into the same cart line exactly when their
// signatures are equal.
func (s Selection) Signature() string {
	toppings := append([]string(nil), s.Toppings...)
	sort.Strings(toppings)

	var b strings.Builder
	b.WriteString(s.Size)
	b.WriteString("|")
	b.WriteString(strings.Join(toppings, "+"))
	b.WriteString("|")
	b.WriteString(s.Spiciness)
	return b.String()
}

// ToppingsValue serializes toppings for storage on a cart line
func (s Selection) ToppingsValue() string {
	toppings := append([]string(nil), s.Toppings...)
	sort.Strings(toppings)
	return strings.Join(toppings, "+")
}

// ParseToppings splits a stored toppings value back into a slice
func ParseToppings(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, "+")
}
