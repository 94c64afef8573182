// Package checkout turns a cart into an order. The stock verification, the
// decrement, the order insert and the cart clear are one store transaction;
// this package only assembles the order and interprets the result.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/core/domain"
	"github.com/jcmexdev/storefront/internal/core/ports"
	"github.com/jcmexdev/storefront/internal/pricing"
)

// CartWatcher receives the emptied-cart event after a successful checkout.
type CartWatcher interface {
	NotifyCleared(userID string)
}

type Service struct {
	carts     ports.CartRepository
	addresses ports.AddressRepository
	store     ports.CheckoutRepository
	watcher   CartWatcher
}

// NewService wires the checkout flow. watcher may be nil; live cart streams
// then simply miss the clear event.
func NewService(carts ports.CartRepository, addresses ports.AddressRepository, store ports.CheckoutRepository, watcher CartWatcher) *Service {
	return &Service{carts: carts, addresses: addresses, store: store, watcher: watcher}
}

// PlaceOrder validates the cart and address, prices the order, and commits
// the checkout transaction. Returns the new order id.
func (s *Service) PlaceOrder(ctx context.Context, userID, addressID, paymentMethod string) (string, error) {
	if userID == "" {
		return "", domain.ErrNotAuthenticated
	}

	lines, err := s.carts.List(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}

	if addressID == "" {
		return "", fmt.Errorf("%w: no delivery address selected", domain.ErrValidation)
	}
	address, err := s.addresses.GetByID(ctx, userID, addressID)
	if err != nil {
		return "", fmt.Errorf("%w: delivery address not found", domain.ErrValidation)
	}

	quote := pricing.Compute(lines)

	order := &domain.Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		Items:          lines,
		Address:        *address,
		PaymentMethod:  paymentMethod,
		Subtotal:       quote.Subtotal,
		DiscountAmount: quote.DiscountAmount,
		DeliveryFee:    quote.DeliveryFee,
		Total:          quote.Total,
		Status:         domain.StatusOrdered,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.PlaceOrder(ctx, order); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "order placed",
		"order_id", order.ID, "user_id", userID, "total", order.Total, "lines", len(lines))

	if s.watcher != nil {
		s.watcher.NotifyCleared(userID)
	}
	return order.ID, nil
}
