package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

// openTestStore creates an in-memory database shared by all tests in a case.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedProduct(t *testing.T, st *Store, id, name string, price float64, amount int) {
	t.Helper()

	err := st.Products().Create(context.Background(), &domain.Product{
		ID:     id,
		Name:   name,
		Price:  price,
		Amount: amount,
		Active: true,
	})
	require.NoError(t, err)
}

func seedCartLine(t *testing.T, st *Store, userID, productID, name string, price float64, qty int) {
	t.Helper()

	err := st.Cart().Add(context.Background(), userID, domain.CartLine{
		ID:        productID,
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  qty,
	})
	require.NoError(t, err)
}

func TestProductVisibilityDerivedFromStock(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	// Active but empty: must not be visible.
	err := st.Products().Create(ctx, &domain.Product{
		ID: "p1", Name: "Empty", Price: 10, Amount: 0, Active: true,
	})
	require.NoError(t, err)

	p, err := st.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.False(t, p.InStock)

	// Stocked but switched off: still not visible.
	p.Amount = 5
	p.Active = false
	require.NoError(t, st.Products().Update(ctx, p))

	p, err = st.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.False(t, p.InStock)

	// Stocked and active: visible.
	p.Active = true
	require.NoError(t, st.Products().Update(ctx, p))

	p, err = st.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.True(t, p.InStock)
}

func TestStockLedgerReserveAndRelease(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	seedProduct(t, st, "p1", "Widget", 10, 3)

	require.NoError(t, st.Stock().Reserve(ctx, "p1", 2))

	available, err := st.Stock().Available(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 1, available)

	// Draining the last unit clears visibility.
	require.NoError(t, st.Stock().Reserve(ctx, "p1", 1))
	p, err := st.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 0, p.Amount)
	require.False(t, p.InStock)

	// Release restores both the counter and the flag.
	require.NoError(t, st.Stock().Release(ctx, "p1", 3))
	p, err = st.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 3, p.Amount)
	require.True(t, p.InStock)
}

func TestStockLedgerReserveInsufficient(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	seedProduct(t, st, "p1", "Widget", 10, 3)

	err := st.Stock().Reserve(ctx, "p1", 5)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, "Widget", stockErr.ProductName)
	require.Equal(t, 3, stockErr.Available)
	require.Equal(t, 5, stockErr.Requested)

	// No partial decrement.
	available, err := st.Stock().Available(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 3, available)
}

func TestCartAddUpsertsAndSetQuantityDeletesAtZero(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	seedCartLine(t, st, "u1", "p1", "Widget", 10, 1)
	seedCartLine(t, st, "u1", "p1", "Widget", 10, 1)

	lines, err := st.Cart().List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)

	require.NoError(t, st.Cart().SetQuantity(ctx, "u1", "p1", 5))
	lines, err = st.Cart().List(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 5, lines[0].Quantity)

	require.NoError(t, st.Cart().SetQuantity(ctx, "u1", "p1", 0))
	lines, err = st.Cart().List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestNotificationAppendListMarkRead(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	n := &domain.Notification{
		ID:        "n1",
		UserID:    "u1",
		Title:     "Order Status Updated",
		Message:   "Your order #o1 is now Shipped",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Notifications().Append(ctx, n))

	list, err := st.Notifications().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.False(t, list[0].Read)

	require.NoError(t, st.Notifications().MarkRead(ctx, "u1", "n1"))
	list, err = st.Notifications().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.True(t, list[0].Read)

	err = st.Notifications().MarkRead(ctx, "u1", "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddressDefaultIsExclusive(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Addresses().Add(ctx, "u1", &domain.Address{
		ID: "a1", FullName: "Ana", AddressLine: "First St 1", Default: true,
	}))
	require.NoError(t, st.Addresses().Add(ctx, "u1", &domain.Address{
		ID: "a2", FullName: "Ana", AddressLine: "Second St 2", Default: true,
	}))

	list, err := st.Addresses().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	defaults := 0
	for _, a := range list {
		if a.Default {
			defaults++
			require.Equal(t, "a2", a.ID)
		}
	}
	require.Equal(t, 1, defaults)
}
