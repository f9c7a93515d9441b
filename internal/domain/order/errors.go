// internal/domain/order/errors.go
package order

import "errors"

var (
	// ErrEmptyCart is returned when checkout is attempted on a cart
	// with no lines. No order rows are written.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrAmbiguousRestaurant is returned when the cart lines span more
	// than one restaurant
	ErrAmbiguousRestaurant = errors.New("cart lines belong to more than one restaurant")

	// ErrUnresolvedRestaurant is returned when no restaurant can be
	// determined from the cart lines
	ErrUnresolvedRestaurant = errors.New("could not resolve restaurant for order")

	// ErrOrderItemCommit is returned when freezing cart lines into
	// order items fails. The surrounding transaction is rolled back and
	// the cart is left untouched.
	ErrOrderItemCommit = errors.New("failed to commit order items")

	// ErrOrderNotFound is returned when the requested order does not exist
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidStatusTransition is returned when a status update would
	// skip a step or move backwards
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)
