package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/core/domain"
	"github.com/jcmexdev/storefront/internal/store/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return NewService(st.Cart(), st.Products(), st.Stock()), st
}

func seed(t *testing.T, st *sqlite.Store, id, name string, price float64, amount int) {
	t.Helper()
	err := st.Products().Create(context.Background(), &domain.Product{
		ID: id, Name: name, Price: price, Amount: amount, Active: true,
		Images: []string{"https://img.example/" + id + ".jpg"},
	})
	require.NoError(t, err)
}

func TestAddSnapshotsAndIncrements(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()
	seed(t, st, "p1", "Widget", 19.5, 5)

	require.NoError(t, s.Add(ctx, "u1", "p1"))
	require.NoError(t, s.Add(ctx, "u1", "p1"))

	lines, err := s.Items(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
	require.Equal(t, "Widget", lines[0].Name)
	require.Equal(t, 19.5, lines[0].Price)
	require.Equal(t, "https://img.example/p1.jpg", lines[0].ImageURL)
}

func TestAddBoundedByStock(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()
	seed(t, st, "p1", "Widget", 10, 2)

	require.NoError(t, s.Add(ctx, "u1", "p1"))
	require.NoError(t, s.Add(ctx, "u1", "p1"))

	err := s.Add(ctx, "u1", "p1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAddRejectsHiddenProduct(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()

	err := st.Products().Create(ctx, &domain.Product{
		ID: "p1", Name: "Hidden", Price: 10, Amount: 0, Active: true,
	})
	require.NoError(t, err)

	err = s.Add(ctx, "u1", "p1")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetQuantityBoundedAndDeletesAtZero(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()
	seed(t, st, "p1", "Widget", 10, 3)

	require.NoError(t, s.Add(ctx, "u1", "p1"))

	err := s.SetQuantity(ctx, "u1", "p1", 5)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	require.NoError(t, s.SetQuantity(ctx, "u1", "p1", 3))
	require.NoError(t, s.SetQuantity(ctx, "u1", "p1", 0))

	lines, err := s.Items(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestQuoteDelegatesToPricing(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()
	seed(t, st, "p1", "Widget", 30, 10)

	require.NoError(t, s.Add(ctx, "u1", "p1"))
	require.NoError(t, s.SetQuantity(ctx, "u1", "p1", 2))

	q, err := s.Quote(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 60.0, q.Subtotal)
	require.Equal(t, 6.0, q.DiscountAmount)
	require.Equal(t, 0.0, q.DeliveryFee)
	require.Equal(t, 54.0, q.Total)
}

func TestWatchStreamsMutations(t *testing.T) {
	s, st := newTestService(t)
	ctx := context.Background()
	seed(t, st, "p1", "Widget", 10, 5)

	ch, cancel, err := s.Watch(ctx, "u1")
	require.NoError(t, err)
	defer cancel()

	// Initial snapshot: empty cart.
	require.Empty(t, recv(t, ch))

	require.NoError(t, s.Add(ctx, "u1", "p1"))
	lines := recv(t, ch)
	require.Len(t, lines, 1)

	require.NoError(t, s.Remove(ctx, "u1", "p1"))
	require.Empty(t, recv(t, ch))
}

func TestAnonymousRejected(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	require.ErrorIs(t, s.Add(ctx, "", "p1"), domain.ErrNotAuthenticated)
	_, err := s.Items(ctx, "")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	_, _, err = s.Watch(ctx, "")
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func recv(t *testing.T, ch <-chan []domain.CartLine) []domain.CartLine {
	t.Helper()
	select {
	case lines := <-ch:
		return lines
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cart snapshot")
		return nil
	}
}
