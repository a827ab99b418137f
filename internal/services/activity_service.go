package services

import (
	"lapak/internal/models"
	"lapak/internal/repositories"
)

// ActivityService is the activity logger: an append-only sink for order audit
// records with a filtered query interface. It satisfies ActivityLogger.
type ActivityService struct {
	store repositories.Store
}

// NewActivityService creates a new ActivityService.
func NewActivityService(store repositories.Store) *ActivityService {
	return &ActivityService{
		store: store,
	}
}

// Record appends one audit record for an order action.
func (s *ActivityService) Record(accountID, orderID, action, description, ipAddress, browserInfo string) error {
	return s.store.Activities().Create(&models.OrderActivity{
		AccountID:   accountID,
		OrderID:     orderID,
		Action:      action,
		Description: description,
		IPAddress:   ipAddress,
		BrowserInfo: browserInfo,
	})
}

// Query returns the activities for an order, newest first, narrowed by the
// filter. Empty accountID matches all accounts.
func (s *ActivityService) Query(accountID, orderID string, filter models.ActivityFilter) ([]models.OrderActivity, error) {
	return s.store.Activities().Query(accountID, orderID, filter)
}
