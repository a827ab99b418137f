package models

import "gorm.io/gorm"

// Inventory tracks the available quantity for a single product. The quantity
// never goes negative; it is decremented exactly once per successful order
// creation, inside the creation transaction.
type Inventory struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID  string `json:"product_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gte=0"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
