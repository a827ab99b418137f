package models

import "gorm.io/gorm"

// ProductStatus is the catalog lifecycle flag. Orders may only be created
// against active products.
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Product represents a catalog item.
type Product struct {
	ID          string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string        `json:"name" validate:"required,min=3,max=100"`
	Description string        `json:"description" validate:"omitempty,max=500"`
	Price       float64       `json:"price" validate:"required,gt=0"`
	Status      ProductStatus `json:"status" gorm:"type:varchar(20);default:active" validate:"omitempty,oneof=active inactive"`
	IsAvailable bool          `json:"is_available" gorm:"default:true"`
	gorm.Model                // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
