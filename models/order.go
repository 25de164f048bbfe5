package models

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
)

// ValidStatus reports whether s is a member of the order status enumeration.
// Transitions between members are deliberately unrestricted.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// Order is the aggregate root: it owns its items exclusively and they share
// its lifecycle. TotalAmount is derived at creation time and must always
// equal the sum of item UnitPrice*Quantity.
type Order struct {
	ID              int64
	UserID          int64
	Status          OrderStatus
	ShippingAddress string
	TotalAmount     float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItem
}

// OrderItem is one line of an order. UnitPrice is a snapshot of the product
// price at order time and is never recomputed from the live product.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   float64
}
