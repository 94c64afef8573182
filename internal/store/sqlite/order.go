package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

type orderRepo struct {
	store *Store
}

const orderColumns = `id, user_id, items, address, payment_method,
	subtotal, discount_amount, delivery_fee, total, status, created_at`

func (r *orderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	return scanOrder(row)
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (r *orderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// UpdateStatus writes the new status and restocks on cancellation. The guard
// reads the current status inside the transaction: cancelling an order that
// is already cancelled (under either stored spelling) is a no-op on stock,
// so repeated cancellations never double-restock.
func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	var updated *domain.Order

	err := r.store.inTx(ctx, func(tx *sql.Tx) error {
		var current, itemsJSON string
		err := tx.QueryRowContext(ctx,
			`SELECT status, items FROM orders WHERE id = ?`, id).Scan(&current, &itemsJSON)
		if err == sql.ErrNoRows {
			return fmt.Errorf("order %q: %w", id, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("sqlite: read order %q: %w", id, err)
		}

		if status == domain.StatusCancelled && !domain.IsCancelled(current) {
			var items []domain.CartLine
			if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
				return fmt.Errorf("sqlite: order %q items column: %w", id, err)
			}
			for _, line := range items {
				if err := releaseInTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE orders SET status = ? WHERE id = ?`, string(status), id); err != nil {
			return fmt.Errorf("sqlite: update order %q status: %w", id, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_audit (order_id, status, actor, trace_id, span_id, created_at)
			 VALUES (?, ?, '', ?, ?, ?)`,
			id, string(status),
			traceIDFromContext(ctx), spanIDFromContext(ctx), formatTime(time.Now()))
		if err != nil {
			return fmt.Errorf("sqlite: audit order %q: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err = r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *orderRepo) query(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var items, address, status, createdAt string
	err := row.Scan(
		&o.ID, &o.UserID, &items, &address, &o.PaymentMethod,
		&o.Subtotal, &o.DiscountAmount, &o.DeliveryFee, &o.Total, &status, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan order: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("sqlite: order %q items column: %w", o.ID, err)
	}
	if err := json.Unmarshal([]byte(address), &o.Address); err != nil {
		return nil, fmt.Errorf("sqlite: order %q address column: %w", o.ID, err)
	}

	// Historical rows may carry the legacy "Canceled" spelling; normalize on
	// read only, never rewrite the row.
	if domain.IsCancelled(status) {
		o.Status = domain.StatusCancelled
	} else {
		o.Status = domain.Status(status)
	}

	if o.CreatedAt, err = parseRFC3339(createdAt); err != nil {
		return nil, err
	}
	return &o, nil
}
