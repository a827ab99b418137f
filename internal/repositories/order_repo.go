package repositories

import (
	"lapak/internal/models"
)

// OrderRepository defines the interface for order data access. Lookups return
// (nil, nil) when no matching order exists. Orders are never deleted;
// cancellation is a status, not removal.
type OrderRepository interface {
	// List returns orders with any of the given statuses, newest first.
	// Empty accountID matches all accounts.
	List(accountID string, statuses []models.OrderStatus) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	// GetByIDAndAccount requires both the order id and the owning account to
	// match, regardless of the caller's role.
	GetByIDAndAccount(id, accountID string) (*models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
}
