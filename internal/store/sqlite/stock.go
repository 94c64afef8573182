package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

type stockLedger struct {
	store *Store
}

// Reserve moves qty units out of available stock. The read, the bound check
// and the decrement happen in one transaction so two concurrent checkouts on
// the last unit cannot both pass the check.
func (l *stockLedger) Reserve(ctx context.Context, productID string, qty int) error {
	return l.store.inTx(ctx, func(tx *sql.Tx) error {
		return reserveInTx(ctx, tx, productID, qty)
	})
}

// Release returns qty units to available stock and restores visibility for
// products whose listing switch is still on.
func (l *stockLedger) Release(ctx context.Context, productID string, qty int) error {
	return l.store.inTx(ctx, func(tx *sql.Tx) error {
		return releaseInTx(ctx, tx, productID, qty)
	})
}

func (l *stockLedger) Available(ctx context.Context, productID string) (int, error) {
	var amount int
	err := l.store.db.QueryRowContext(ctx,
		`SELECT amount FROM products WHERE id = ?`, productID).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("product %q: %w", productID, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("sqlite: read stock for %q: %w", productID, err)
	}
	return amount, nil
}

// reserveInTx is the shared read-check-write. The checkout transaction calls
// it once per line inside its own enclosing transaction.
func reserveInTx(ctx context.Context, tx *sql.Tx, productID string, qty int) error {
	var name string
	var amount int
	err := tx.QueryRowContext(ctx,
		`SELECT name, amount FROM products WHERE id = ?`, productID).Scan(&name, &amount)
	if err == sql.ErrNoRows {
		return fmt.Errorf("product %q: %w", productID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("sqlite: read stock for %q: %w", productID, err)
	}

	if amount < qty {
		return &domain.InsufficientStockError{
			ProductID:   productID,
			ProductName: name,
			Available:   amount,
			Requested:   qty,
		}
	}

	// Visibility must drop to false the moment the counter reaches zero.
	_, err = tx.ExecContext(ctx,
		`UPDATE products
		 SET    amount = amount - ?,
		        in_stock = CASE WHEN amount - ? > 0 THEN active ELSE 0 END
		 WHERE  id = ?`,
		qty, qty, productID)
	if err != nil {
		return fmt.Errorf("sqlite: decrement stock for %q: %w", productID, err)
	}
	return nil
}

func releaseInTx(ctx context.Context, tx *sql.Tx, productID string, qty int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products
		 SET    amount = amount + ?,
		        in_stock = active
		 WHERE  id = ?`,
		qty, productID)
	if err != nil {
		return fmt.Errorf("sqlite: restock %q: %w", productID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %q: %w", productID, domain.ErrNotFound)
	}
	return nil
}
