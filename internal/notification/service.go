// Package notification stores and streams user-visible messages. Writes are
// fire-and-forget from the caller's point of view: the order flow logs and
// moves on when one fails.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/core/domain"
	"github.com/jcmexdev/storefront/internal/core/ports"
	"github.com/jcmexdev/storefront/internal/pkg/watch"
)

type Service struct {
	repo ports.NotificationRepository
	hub  *watch.Hub[[]domain.Notification]
}

func NewService(repo ports.NotificationRepository) *Service {
	return &Service{repo: repo, hub: watch.NewHub[[]domain.Notification]()}
}

// OrderStatusChanged appends the status-change message for the order's owner.
func (s *Service) OrderStatusChanged(ctx context.Context, userID, orderID string, status domain.Status) error {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     "Order Status Updated",
		Message:   fmt.Sprintf("Your order #%s is now %s", orderID, status),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Append(ctx, n); err != nil {
		return err
	}
	s.publish(ctx, userID)
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, userID)
	return nil
}

// Watch streams notification snapshots; release via the returned func or by
// cancelling the context.
func (s *Service) Watch(ctx context.Context, userID string) (<-chan []domain.Notification, func(), error) {
	if userID == "" {
		return nil, nil, domain.ErrNotAuthenticated
	}
	ch, cancel := s.hub.Subscribe(ctx, userID)
	s.publish(ctx, userID)
	return ch, cancel, nil
}

func (s *Service) publish(ctx context.Context, userID string) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return
	}
	s.hub.Publish(userID, list)
}
