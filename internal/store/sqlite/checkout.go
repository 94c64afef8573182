package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

type checkoutRepo struct {
	store *Store
}

// PlaceOrder runs the checkout transaction: every line's stock is read,
// checked and decremented, the order row is inserted with its frozen items
// and address, and the user's cart is emptied. A failure at any point rolls
// the whole thing back, so a partial decrement is never observable.
func (r *checkoutRepo) PlaceOrder(ctx context.Context, order *domain.Order) error {
	return r.store.inTx(ctx, func(tx *sql.Tx) error {
		for _, line := range order.Items {
			if err := reserveInTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		items, err := json.Marshal(order.Items)
		if err != nil {
			return fmt.Errorf("sqlite: marshal order items: %w", err)
		}
		address, err := json.Marshal(order.Address)
		if err != nil {
			return fmt.Errorf("sqlite: marshal order address: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO orders
			     (id, user_id, items, address, payment_method,
			      subtotal, discount_amount, delivery_fee, total, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID, order.UserID, string(items), string(address), order.PaymentMethod,
			order.Subtotal, order.DiscountAmount, order.DeliveryFee, order.Total,
			string(order.Status), formatTime(order.CreatedAt))
		if err != nil {
			return fmt.Errorf("sqlite: insert order %q: %w", order.ID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM cart_items WHERE user_id = ?`, order.UserID); err != nil {
			return fmt.Errorf("sqlite: clear cart for %q: %w", order.UserID, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_audit (order_id, status, actor, trace_id, span_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, string(order.Status), order.UserID,
			traceIDFromContext(ctx), spanIDFromContext(ctx), formatTime(order.CreatedAt))
		if err != nil {
			return fmt.Errorf("sqlite: audit order %q: %w", order.ID, err)
		}
		return nil
	})
}
