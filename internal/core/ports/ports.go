// Package ports declares the interfaces the services consume. The sqlite
// store implements the repository side; implementations of the transactional
// ports must run their read-then-write sequences inside a single store
// transaction so concurrent checkouts cannot interleave on a product.
package ports

import (
	"context"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Category, error)
}

// StockLedger is the authoritative product quantity counter. Reserve and
// Release are atomic read-modify-write operations: the quantity read, the
// bound check and the write happen inside one transaction.
type StockLedger interface {
	// Reserve moves qty units from available to a pending order. Returns
	// *domain.InsufficientStockError when fewer than qty units are available.
	Reserve(ctx context.Context, productID string, qty int) error
	// Release returns qty units to available stock and restores visibility.
	Release(ctx context.Context, productID string, qty int) error
	Available(ctx context.Context, productID string) (int, error)
}

type CartRepository interface {
	// Add upserts a line for the product: increments quantity if the line
	// exists, otherwise creates it with the given snapshot values.
	Add(ctx context.Context, userID string, line domain.CartLine) error
	SetQuantity(ctx context.Context, userID, lineID string, qty int) error
	Remove(ctx context.Context, userID, lineID string) error
	List(ctx context.Context, userID string) ([]domain.CartLine, error)
}

// CheckoutRepository executes the order placement transaction: verify stock
// for every line, decrement it (clearing visibility at zero), insert the
// order, and delete the user's cart lines, all-or-nothing.
type CheckoutRepository interface {
	PlaceOrder(ctx context.Context, order *domain.Order) error
}

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus writes the new status and, when transitioning into the
	// cancelled state from a non-cancelled one, restocks every line in the
	// same transaction. Returns the updated order.
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error)
	// History returns the order's append-only status trail, oldest first.
	History(ctx context.Context, orderID string) ([]domain.AuditEntry, error)
}

type AddressRepository interface {
	Add(ctx context.Context, userID string, a *domain.Address) error
	GetByID(ctx context.Context, userID, id string) (*domain.Address, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
}

type NotificationRepository interface {
	Append(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
}
