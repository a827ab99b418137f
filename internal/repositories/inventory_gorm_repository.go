package repositories

import (
	"fmt"
	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMInventoryRepository is a GORM implementation of InventoryRepository.
type GORMInventoryRepository struct {
	db *gorm.DB
}

// NewGORMInventoryRepository creates a new instance of GORMInventoryRepository.
func NewGORMInventoryRepository(db *gorm.DB) *GORMInventoryRepository {
	return &GORMInventoryRepository{
		db: db,
	}
}

// GetByProduct retrieves the inventory record for a product.
func (r *GORMInventoryRepository) GetByProduct(productID string) (*models.Inventory, error) {
	var inventory models.Inventory
	if err := r.db.First(&inventory, "product_id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get inventory for product %s: %w", productID, err)
	}
	return &inventory, nil
}

// Create creates a new inventory record in the database.
func (r *GORMInventoryRepository) Create(inventory *models.Inventory) error {
	if inventory.ID == "" {
		inventory.ID = uuid.New().String()
	}
	if err := r.db.Create(inventory).Error; err != nil {
		return fmt.Errorf("failed to create inventory for product %s: %w", inventory.ProductID, err)
	}
	return nil
}

// Update updates an existing inventory record in the database.
func (r *GORMInventoryRepository) Update(inventory *models.Inventory) error {
	res := r.db.Save(inventory)
	if res.Error != nil {
		return fmt.Errorf("failed to update inventory for product %s: %w", inventory.ProductID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("inventory for product %s not found for update", inventory.ProductID)
	}
	return nil
}

// Decrement atomically subtracts quantity from the product's stock. The WHERE
// guard makes the decrement conditional, so two concurrent order creations
// cannot both take the last units. Returns false when stock is insufficient
// (or the record is missing); nothing is changed in that case.
func (r *GORMInventoryRepository) Decrement(productID string, quantity int) (bool, error) {
	res := r.db.Model(&models.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement inventory for product %s: %w", productID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
