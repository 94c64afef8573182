// Package sqlite is the record store behind every repository port.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa. All read-then-write sequences (stock reservation, checkout, status
// changes) run inside immediate transactions on a single writer connection,
// which gives the serialization the stock ledger invariant depends on:
// no two checkouts can observe the same quantity for the same product.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcmexdev/storefront/internal/core/ports"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, keeping Docker (Alpine) builds simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    id            TEXT PRIMARY KEY,
    name          TEXT    NOT NULL,
    description   TEXT    NOT NULL DEFAULT '',
    price         REAL    NOT NULL,
    category_id   TEXT    NOT NULL DEFAULT '',

    -- JSON arrays of strings; stored as documents, never queried by element.
    images        TEXT    NOT NULL DEFAULT '[]',
    colors        TEXT    NOT NULL DEFAULT '[]',
    sizes         TEXT    NOT NULL DEFAULT '[]',

    -- The stock counter. Mutated only by reservation, release and admin edits.
    amount        INTEGER NOT NULL DEFAULT 0,

    -- The independent listing switch set by admins.
    active        INTEGER NOT NULL DEFAULT 1,

    -- Derived visibility: must be 0 whenever amount is 0, regardless of active.
    in_stock      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS categories (
    id        TEXT PRIMARY KEY,
    name      TEXT NOT NULL,
    image_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL DEFAULT '',
    email         TEXT NOT NULL UNIQUE,
    phone         TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL DEFAULT 'USER',
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS addresses (
    id           TEXT NOT NULL,
    user_id      TEXT NOT NULL,
    full_name    TEXT NOT NULL DEFAULT '',
    address_line TEXT NOT NULL DEFAULT '',
    phone_number TEXT NOT NULL DEFAULT '',
    is_default   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, id)
);

-- One row per (user, product); the line id mirrors the product id.
CREATE TABLE IF NOT EXISTS cart_items (
    user_id    TEXT NOT NULL,
    id         TEXT NOT NULL,
    product_id TEXT NOT NULL,
    name       TEXT NOT NULL DEFAULT '',
    price      REAL NOT NULL DEFAULT 0,
    image_url  TEXT NOT NULL DEFAULT '',
    quantity   INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (user_id, id)
);

-- Orders freeze their line items and address as JSON documents so later
-- catalog or address-book edits never alter historical orders.
CREATE TABLE IF NOT EXISTS orders (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    items           TEXT NOT NULL,
    address         TEXT NOT NULL,
    payment_method  TEXT NOT NULL DEFAULT '',
    subtotal        REAL NOT NULL,
    discount_amount REAL NOT NULL,
    delivery_fee    REAL NOT NULL,
    total           REAL NOT NULL,
    status          TEXT NOT NULL,
    created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at);

CREATE TABLE IF NOT EXISTS notifications (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    title      TEXT NOT NULL DEFAULT '',
    message    TEXT NOT NULL DEFAULT '',
    is_read    INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at);

-- Append-only audit trail of order status transitions. trace_id/span_id allow
-- jumping from a row directly to the distributed trace.
CREATE TABLE IF NOT EXISTS order_audit (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id   TEXT NOT NULL,
    status     TEXT NOT NULL,
    actor      TEXT NOT NULL DEFAULT '',
    trace_id   TEXT NOT NULL DEFAULT '',
    span_id    TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_audit_order ON order_audit(order_id, created_at);
`

// Store owns the database handle and hands out repository views over it.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema. Use ":memory:" for tests.
//
//	st, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Store, error) {
	// The pure-Go driver uses _pragma query parameters to configure connection
	// state. busy_timeout waits for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection, and a single
	// connection is what makes the ledger transactions serialize.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

// inTx runs fn inside an immediate (write-locking) transaction, committing on
// nil and rolling back on error. Every read-check-write in this package goes
// through it.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Repository accessors. Each returns a lightweight view over the shared handle.

func (s *Store) Products() ports.ProductRepository           { return &productRepo{s} }
func (s *Store) Categories() ports.CategoryRepository        { return &categoryRepo{s} }
func (s *Store) Stock() ports.StockLedger                    { return &stockLedger{s} }
func (s *Store) Cart() ports.CartRepository                  { return &cartRepo{s} }
func (s *Store) Checkout() ports.CheckoutRepository          { return &checkoutRepo{s} }
func (s *Store) Orders() ports.OrderRepository               { return &orderRepo{s} }
func (s *Store) Addresses() ports.AddressRepository          { return &addressRepo{s} }
func (s *Store) Notifications() ports.NotificationRepository { return &notificationRepo{s} }
func (s *Store) Users() ports.UserRepository                 { return &userRepo{s} }

const timeLayout = "2006-01-02T15:04:05.999999999Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseRFC3339 parses the timestamp strings stored in SQLite.
// SQLite has no native datetime type; we store RFC3339 TEXT.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
