package services

import (
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// CatalogService handles business logic related to products and their
// inventory records.
type CatalogService struct {
	store repositories.Store
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store repositories.Store) *CatalogService {
	return &CatalogService{
		store: store,
	}
}

// GetAllProducts retrieves all products.
func (s *CatalogService) GetAllProducts() ([]models.Product, error) {
	return s.store.Products().GetAll()
}

// GetProductByID retrieves a single product by its ID. Returns
// ErrProductNotFound when it does not exist.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.store.Products().GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// CreateProduct creates a new product together with its inventory record.
// Both are written in one transaction so a product can never exist without
// an inventory row.
func (s *CatalogService) CreateProduct(product *models.Product, initialStock int) error {
	if product.Status == "" {
		product.Status = models.ProductActive
	}
	product.IsAvailable = true

	return s.store.Transaction(func(tx repositories.Store) error {
		if err := tx.Products().Create(product); err != nil {
			return err
		}
		return tx.Inventories().Create(&models.Inventory{
			ProductID: product.ID,
			Quantity:  initialStock,
		})
	})
}

// UpdateProduct updates an existing product.
func (s *CatalogService) UpdateProduct(product *models.Product) error {
	return s.store.Products().Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *CatalogService) DeleteProduct(id string) error {
	return s.store.Products().Delete(id)
}

// RestockProduct sets the available quantity for a product's inventory.
// Returns ErrInventoryMissing when the product has no inventory record.
func (s *CatalogService) RestockProduct(productID string, quantity int) error {
	inventory, err := s.store.Inventories().GetByProduct(productID)
	if err != nil {
		return err
	}
	if inventory == nil {
		return ErrInventoryMissing
	}
	inventory.Quantity = quantity
	return s.store.Inventories().Update(inventory)
}
