package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthenticated is returned when no user identity is present.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrValidation marks user-correctable input failures (empty cart,
	// missing address). Wrap it with context: fmt.Errorf("%w: cart is empty", ErrValidation).
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientStock is the match target for InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError names the offending product so the caller can
// surface a usable message. errors.Is(err, ErrInsufficientStock) matches it.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q: %d available, %d requested", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
