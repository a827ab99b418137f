package repositories

import "lapak/internal/models"

// ActivityRepository defines the interface for the append-only order activity
// log. Records are never updated or deleted once written.
type ActivityRepository interface {
	Create(activity *models.OrderActivity) error
	// Query returns activities for the given order and account, newest first,
	// narrowed by the filter. Empty accountID matches all accounts.
	Query(accountID, orderID string, filter models.ActivityFilter) ([]models.OrderActivity, error)
}
