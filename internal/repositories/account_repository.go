package repositories

import "lapak/internal/models"

// AccountRepository defines the interface for account data access.
// Lookups return (nil, nil) when no matching account exists.
type AccountRepository interface {
	Create(account *models.Account) error
	GetByUsername(username string) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	GetByID(id string) (*models.Account, error)
}
