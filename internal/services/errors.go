package services

import (
	"errors"
	"fmt"

	"lapak/internal/models"
)

// Business-rule rejections surfaced by the order service. These are a closed
// set: callers match on them with errors.Is / errors.As instead of parsing
// message strings. Store faults are wrapped separately and are not part of
// this taxonomy.
var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductUnavailable    = errors.New("product is not available for ordering")
	ErrInventoryMissing      = errors.New("no inventory record for product")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")
	ErrUnauthorizedAccess    = errors.New("order does not belong to account")
)

// InsufficientStockError is returned when an order requests more units than
// the product's inventory holds. Available carries the stock count at the
// time of the check.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)",
		e.ProductID, e.Requested, e.Available)
}

// OrderNotCancellableError is returned when cancellation is attempted on an
// order that has already shipped or been delivered.
type OrderNotCancellableError struct {
	OrderID string
	From    models.OrderStatus
}

func (e *OrderNotCancellableError) Error() string {
	return fmt.Sprintf("order %s cannot be cancelled from status %s", e.OrderID, e.From)
}

// OrderNotProcessableError is returned when processing is attempted on an
// order that has already shipped or been delivered.
type OrderNotProcessableError struct {
	OrderID string
	From    models.OrderStatus
}

func (e *OrderNotProcessableError) Error() string {
	return fmt.Sprintf("order %s cannot be processed from status %s", e.OrderID, e.From)
}
