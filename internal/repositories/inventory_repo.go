package repositories

import "lapak/internal/models"

// InventoryRepository defines the interface for inventory data access.
// GetByProduct returns (nil, nil) when the product has no inventory record.
type InventoryRepository interface {
	GetByProduct(productID string) (*models.Inventory, error)
	Create(inventory *models.Inventory) error
	Update(inventory *models.Inventory) error
	// Decrement conditionally subtracts quantity from the product's stock.
	// It returns false, leaving stock untouched, when fewer than quantity
	// units are available. The check and the subtraction are atomic.
	Decrement(productID string, quantity int) (bool, error)
}
