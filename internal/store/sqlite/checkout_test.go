package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/core/domain"
	"github.com/jcmexdev/storefront/internal/pricing"
)

func buildOrder(userID string, lines []domain.CartLine) *domain.Order {
	q := pricing.Compute(lines)
	return &domain.Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		Items:          lines,
		Address:        domain.Address{ID: "a1", FullName: "Ana", AddressLine: "First St 1"},
		PaymentMethod:  "Cash on Delivery",
		Subtotal:       q.Subtotal,
		DiscountAmount: q.DiscountAmount,
		DeliveryFee:    q.DeliveryFee,
		Total:          q.Total,
		Status:         domain.StatusOrdered,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestPlaceOrderCommitsAtomically(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	seedProduct(t, st, "p1", "Widget", 20, 10)
	seedProduct(t, st, "p2", "Gadget", 5, 4)
	seedCartLine(t, st, "u1", "p1", "Widget", 20, 2)
	seedCartLine(t, st, "u1", "p2", "Gadget", 5, 4)

	lines, err := st.Cart().List(ctx, "u1")
	require.NoError(t, err)
	order := buildOrder("u1", lines)

	require.NoError(t, st.Checkout().PlaceOrder(ctx, order))

	// Stock decremented by exactly the ordered quantities.
	p1, err := st.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 8, p1.Amount)
	require.True(t, p1.InStock)

	// p2 drained to zero: visibility must drop.
	p2, err := st.Products().GetByID(ctx, "p2")
	require.NoError(t, err)
	require.Equal(t, 0, p2.Amount)
	require.False(t, p2.InStock)

	// Cart emptied in the same transaction.
	left, err := st.Cart().List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, left)

	// Order persisted with frozen items and computed totals.
	got, err := st.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusOrdered, got.Status)
	require.Len(t, got.Items, 2)
	require.Equal(t, 60.0, got.Subtotal)
	require.Equal(t, got.Subtotal-got.DiscountAmount+got.DeliveryFee, got.Total)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	seedProduct(t, st, "p1", "Widget", 20, 5)
	seedProduct(t, st, "p2", "Gadget", 5, 3)
	seedCartLine(t, st, "u1", "p1", "Widget", 20, 2)
	seedCartLine(t, st, "u1", "p2", "Gadget", 5, 5) // only 3 available

	lines, err := st.Cart().List(ctx, "u1")
	require.NoError(t, err)
	order := buildOrder("u1", lines)

	err = st.Checkout().PlaceOrder(ctx, order)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, "Gadget", stockErr.ProductName)

	// Nothing happened: p1 was checked (and would have been decremented)
	// before p2 failed, but the rollback wipes it.
	p1, err := st.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 5, p1.Amount)

	p2, err := st.Products().GetByID(ctx, "p2")
	require.NoError(t, err)
	require.Equal(t, 3, p2.Amount)

	left, err := st.Cart().List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, left, 2)

	_, err = st.Orders().GetByID(ctx, order.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentCheckoutLastUnit(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	seedProduct(t, st, "p1", "Widget", 20, 1)
	seedCartLine(t, st, "alice", "p1", "Widget", 20, 1)
	seedCartLine(t, st, "bob", "p1", "Widget", 20, 1)

	aliceLines, err := st.Cart().List(ctx, "alice")
	require.NoError(t, err)
	bobLines, err := st.Cart().List(ctx, "bob")
	require.NoError(t, err)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		results <- st.Checkout().PlaceOrder(ctx, buildOrder("alice", aliceLines))
	}()
	go func() {
		defer wg.Done()
		results <- st.Checkout().PlaceOrder(ctx, buildOrder("bob", bobLines))
	}()
	wg.Wait()
	close(results)

	var ok, insufficient int
	for err := range results {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			insufficient++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, insufficient)

	available, err := st.Stock().Available(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 0, available)
}

func TestPlaceOrderWritesAuditTrail(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	seedProduct(t, st, "p1", "Widget", 20, 2)
	seedCartLine(t, st, "u1", "p1", "Widget", 20, 1)

	lines, err := st.Cart().List(ctx, "u1")
	require.NoError(t, err)
	order := buildOrder("u1", lines)
	require.NoError(t, st.Checkout().PlaceOrder(ctx, order))

	history, err := st.Orders().History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, string(domain.StatusOrdered), history[0].Status)
	require.Equal(t, "u1", history[0].Actor)
}
