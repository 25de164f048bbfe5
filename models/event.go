package models

import "time"

// OrderEvent is the payload published to the broker after an order write
// commits. Consumers must treat it as a notification, not as the source of
// truth; the database row is authoritative.
type OrderEvent struct {
	OrderID  int64       `json:"order_id"`
	UserID   int64       `json:"user_id"`
	Type     string      `json:"type"` // created, status_updated, payment_check
	Status   OrderStatus `json:"status"`
	Total    float64     `json:"total"`
	Occurred time.Time   `json:"occurred"`
}

const (
	EventOrderCreated  = "created"
	EventStatusUpdated = "status_updated"
	EventPaymentCheck  = "payment_check"
)
