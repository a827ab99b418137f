package models

import "gorm.io/gorm"

// OrderStatus is the lifecycle state of an order. The normal flow is
// pending -> processing -> shipped -> delivered, but process/ship/deliver only
// refuse cancelled orders; there is no enforced linear progression. Cancelled
// and delivered are terminal.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = map[OrderStatus]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	return validOrderStatuses[s]
}

// IsCancelled reports whether the order has been cancelled. Cancelled orders
// refuse every further mutation.
func (s OrderStatus) IsCancelled() bool {
	return s == StatusCancelled
}

// Cancellable reports whether an order in this status may still be cancelled.
// Only pending and processing orders can be cancelled; shipped and delivered
// orders are past the point of no return.
func (s OrderStatus) Cancellable() bool {
	return s == StatusPending || s == StatusProcessing
}

// Processable reports whether an order in this status may be moved to
// processing. Orders that already shipped or were delivered cannot go back.
func (s OrderStatus) Processable() bool {
	return s == StatusPending || s == StatusProcessing
}

// Order represents a purchase of a quantity of one product by one account.
// ProductID, Quantity, TotalAmount and AccountID are fixed at creation and
// never change afterwards. Orders are never physically deleted; cancellation
// is a terminal status, not removal.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	AccountID       string      `json:"account_id" gorm:"index;type:varchar(36)" validate:"required"`
	ProductID       string      `json:"product_id" gorm:"type:varchar(36)" validate:"required"`
	Quantity        int         `json:"quantity" validate:"gt=0"`
	TotalAmount     float64     `json:"total_amount"` // price at creation time * quantity
	Status          OrderStatus `json:"status" gorm:"type:varchar(20)"`
	ShippingAddress string      `json:"shipping_address" validate:"omitempty,max=500"`
	gorm.Model                  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
