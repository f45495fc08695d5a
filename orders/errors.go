package orders

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrForbidden         = errors.New("not authorized to update this order")
)

// InsufficientStockError names the cart line that cannot be fulfilled. It
// matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ProductID string
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Title == "" {
		return fmt.Sprintf("Insufficient stock for product %s", e.ProductID)
	}
	return fmt.Sprintf("Insufficient stock for %s", e.Title)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
