package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

type Address struct {
	ID          string
	FullName    string
	AddressLine string
	PhoneNumber string
	Default     bool
}

// Notification is an append-only user-visible message. Written best-effort
// as a side effect of order status changes.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
