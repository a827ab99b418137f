package repositories

import (
	"fmt"
	"time"

	"lapak/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMActivityRepository is a GORM implementation of ActivityRepository.
type GORMActivityRepository struct {
	db *gorm.DB
}

// NewGORMActivityRepository creates a new instance of GORMActivityRepository.
func NewGORMActivityRepository(db *gorm.DB) *GORMActivityRepository {
	return &GORMActivityRepository{
		db: db,
	}
}

// Create appends a new activity record. Records are write-once; there is no
// update or delete.
func (r *GORMActivityRepository) Create(activity *models.OrderActivity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	if err := r.db.Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create activity for order %s: %w", activity.OrderID, err)
	}
	return nil
}

// Query retrieves activities for an order, newest first, narrowed by the
// filter. Empty accountID matches all accounts.
func (r *GORMActivityRepository) Query(accountID, orderID string, filter models.ActivityFilter) ([]models.OrderActivity, error) {
	query := r.db.Where("order_id = ?", orderID).Order("created_at DESC")
	if accountID != "" {
		query = query.Where("account_id = ?", accountID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var activities []models.OrderActivity
	if err := query.Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to query activities for order %s: %w", orderID, err)
	}
	return activities, nil
}
