package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusOrdered   Status = "Ordered"
	StatusConfirmed Status = "Confirmed"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// statusCanceledAlias is the legacy one-l spelling. It is accepted on input
// and matched when reading stored data, but never written.
const statusCanceledAlias = "Canceled"

// ParseStatus normalizes a raw status string to its canonical value.
// "Canceled" is folded into StatusCancelled at this boundary only; stored
// historical rows are left as written.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.TrimSpace(raw)); s {
	case StatusPending, StatusOrdered, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return s, nil
	case statusCanceledAlias:
		return StatusCancelled, nil
	default:
		return "", fmt.Errorf("unknown order status %q", raw)
	}
}

// IsCancelled reports whether a raw stored status means the cancelled state,
// under either spelling.
func IsCancelled(raw string) bool {
	return raw == string(StatusCancelled) || raw == statusCanceledAlias
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// AuditEntry is one row of an order's append-only status trail. TraceID and
// SpanID identify the request that caused the transition.
type AuditEntry struct {
	OrderID   string
	Status    string
	Actor     string
	TraceID   string
	SpanID    string
	CreatedAt time.Time
}

// Order is a placed order. Items and Address are frozen copies taken at
// checkout; the monetary fields are computed once at creation and never
// recomputed.
type Order struct {
	ID             string
	UserID         string
	Items          []CartLine
	Address        Address
	PaymentMethod  string
	Subtotal       float64
	DiscountAmount float64
	DeliveryFee    float64
	Total          float64
	Status         Status
	CreatedAt      time.Time
}
