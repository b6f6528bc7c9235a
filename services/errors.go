package services

import (
	"errors"
	"fmt"
)

var (
	ErrMissingMemberID    = errors.New("member id is required")
	ErrEmptyCart          = errors.New("order must contain at least one item")
	ErrOrderNotFound      = errors.New("order not found")
	ErrNoUpdateFields     = errors.New("at least one field must be provided")
	ErrNotOperatorVisible = errors.New("order is outside the operator worklist")
)

// LineItemNotFoundError aborts the whole order: the cart referenced a product
// that does not exist or is archived.
type LineItemNotFoundError struct {
	ProductID int
}

func (e *LineItemNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found or archived", e.ProductID)
}

type InvalidQuantityError struct {
	ProductID int
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %d", e.Quantity, e.ProductID)
}

type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("unknown order status %q", e.Status)
}
