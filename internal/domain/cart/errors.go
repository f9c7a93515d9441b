// internal/domain/cart/errors.go
package cart

import "errors"

var (
	// ErrInvalidProduct is returned when the referenced food item is
	// absent, unavailable, or the identifier is malformed
	ErrInvalidProduct = errors.New("invalid or unavailable food item")

	// ErrLineNotFound is returned when a quantity update targets a line
	// that does not exist in the caller's cart
	ErrLineNotFound = errors.New("cart line not found")

	// ErrCartKeyRequired is returned when an operation is attempted
	// without an owner key
	ErrCartKeyRequired = errors.New("cart key is required")
)
