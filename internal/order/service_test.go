package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/core/domain"
	"github.com/jcmexdev/storefront/internal/pricing"
	"github.com/jcmexdev/storefront/internal/store/sqlite"
)

type recordingNotifier struct {
	calls []domain.Status
	fail  bool
}

func (n *recordingNotifier) OrderStatusChanged(ctx context.Context, userID, orderID string, status domain.Status) error {
	n.calls = append(n.calls, status)
	if n.fail {
		return errors.New("notification store down")
	}
	return nil
}

func setup(t *testing.T, notifier Notifier) (*Service, *sqlite.Store, string) {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Products().Create(ctx, &domain.Product{
		ID: "p1", Name: "Widget", Price: 20, Amount: 5, Active: true,
	}))
	require.NoError(t, st.Cart().Add(ctx, "u1", domain.CartLine{
		ID: "p1", ProductID: "p1", Name: "Widget", Price: 20, Quantity: 2,
	}))

	lines, err := st.Cart().List(ctx, "u1")
	require.NoError(t, err)
	q := pricing.Compute(lines)
	ord := &domain.Order{
		ID: uuid.NewString(), UserID: "u1", Items: lines,
		Address:  domain.Address{ID: "a1", FullName: "Ana", AddressLine: "First St 1"},
		Subtotal: q.Subtotal, DiscountAmount: q.DiscountAmount,
		DeliveryFee: q.DeliveryFee, Total: q.Total,
		Status: domain.StatusOrdered, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Checkout().PlaceOrder(ctx, ord))

	return NewService(st.Orders(), notifier), st, ord.ID
}

func TestUpdateStatusNotifiesOwner(t *testing.T) {
	notifier := &recordingNotifier{}
	s, _, orderID := setup(t, notifier)

	updated, err := s.UpdateStatus(context.Background(), orderID, "Shipped")
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, updated.Status)
	require.Equal(t, []domain.Status{domain.StatusShipped}, notifier.calls)
}

func TestUpdateStatusSwallowsNotifierFailure(t *testing.T) {
	notifier := &recordingNotifier{fail: true}
	s, st, orderID := setup(t, notifier)

	// The transition must stick even though the notification write failed.
	updated, err := s.UpdateStatus(context.Background(), orderID, "Confirmed")
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, updated.Status)

	got, err := st.Orders().GetByID(context.Background(), orderID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestUpdateStatusAcceptsLegacySpelling(t *testing.T) {
	notifier := &recordingNotifier{}
	s, st, orderID := setup(t, notifier)

	// The alias parses to the canonical value and triggers the restock.
	updated, err := s.UpdateStatus(context.Background(), orderID, "Canceled")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, updated.Status)

	available, err := st.Stock().Available(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 5, available)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	s, _, orderID := setup(t, &recordingNotifier{})

	_, err := s.UpdateStatus(context.Background(), orderID, "Teleported")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetEnforcesOwnership(t *testing.T) {
	s, _, orderID := setup(t, &recordingNotifier{})
	ctx := context.Background()

	_, err := s.Get(ctx, "u1", false, orderID)
	require.NoError(t, err)

	_, err = s.Get(ctx, "intruder", false, orderID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Get(ctx, "admin", true, orderID)
	require.NoError(t, err)

	_, err = s.Get(ctx, "", false, orderID)
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}
