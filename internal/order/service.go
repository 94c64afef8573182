// Package order reads order history and drives status transitions.
package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/storefront/internal/core/domain"
	"github.com/jcmexdev/storefront/internal/core/ports"
)

// Notifier is the side channel poked after a status change commits. Failures
// are logged and swallowed; they never roll back the transition.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, userID, orderID string, status domain.Status) error
}

type Service struct {
	orders   ports.OrderRepository
	notifier Notifier
}

func NewService(orders ports.OrderRepository, notifier Notifier) *Service {
	return &Service{orders: orders, notifier: notifier}
}

// Get returns the order if the requester owns it or is an admin.
func (s *Service) Get(ctx context.Context, requesterID string, admin bool, orderID string) (*domain.Order, error) {
	if requesterID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !admin && o.UserID != requesterID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// ListMine returns the requester's orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.orders.ListByUser(ctx, userID)
}

// ListAll is the admin view over every order, newest first.
func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// History returns the append-only status trail for an order.
func (s *Service) History(ctx context.Context, orderID string) ([]domain.AuditEntry, error) {
	return s.orders.History(ctx, orderID)
}

// UpdateStatus parses and applies the transition. Cancellation restocks every
// line exactly once; the guard lives inside the repository transaction. The
// owner is notified after commit, best effort.
func (s *Service) UpdateStatus(ctx context.Context, orderID, rawStatus string) (*domain.Order, error) {
	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.OrderStatusChanged(ctx, updated.UserID, updated.ID, status); err != nil {
			slog.WarnContext(ctx, "notification emit failed",
				"order_id", updated.ID, "user_id", updated.UserID, "error", err)
		}
	}
	return updated, nil
}
