package models

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User is created and managed outside this service; order flows only read it.
type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Role      UserRole
	CreatedAt time.Time
}
