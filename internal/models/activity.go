package models

import "time"

// Activity action tags. Ship and deliver transitions intentionally have no
// tag: they do not write activity records.
const (
	ActivityCreated    = "created"
	ActivityUpdated    = "updated"
	ActivityProcessing = "processing"
	ActivityCancelled  = "cancelled"
)

// OrderActivity is an append-only audit record describing one action taken on
// an order. Records are write-once and ordered by creation time.
type OrderActivity struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AccountID   string    `json:"account_id" gorm:"index;type:varchar(36)"`
	OrderID     string    `json:"order_id" gorm:"index;type:varchar(36)"`
	Action      string    `json:"action" gorm:"type:varchar(30)"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address" gorm:"type:varchar(45)"`
	BrowserInfo string    `json:"browser_info"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActivityFilter narrows an activity query. Zero values mean "no constraint".
// Filter semantics belong to the activity logger, not its callers.
type ActivityFilter struct {
	Action string
	From   time.Time
	To     time.Time
	Limit  int
}
