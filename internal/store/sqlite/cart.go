package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

type cartRepo struct {
	store *Store
}

// Add upserts a cart line. When the line already exists only the quantity
// moves; the snapshot columns keep their add-time values.
func (r *cartRepo) Add(ctx context.Context, userID string, line domain.CartLine) error {
	return r.store.inTx(ctx, func(tx *sql.Tx) error {
		var qty int
		err := tx.QueryRowContext(ctx,
			`SELECT quantity FROM cart_items WHERE user_id = ? AND id = ?`,
			userID, line.ID).Scan(&qty)

		switch {
		case err == sql.ErrNoRows:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO cart_items (user_id, id, product_id, name, price, image_url, quantity)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				userID, line.ID, line.ProductID, line.Name, line.Price, line.ImageURL, line.Quantity)
		case err == nil:
			_, err = tx.ExecContext(ctx,
				`UPDATE cart_items SET quantity = quantity + ? WHERE user_id = ? AND id = ?`,
				line.Quantity, userID, line.ID)
		}
		if err != nil {
			return fmt.Errorf("sqlite: add cart line %q: %w", line.ID, err)
		}
		return nil
	})
}

// SetQuantity writes the new quantity, deleting the line when qty drops to
// zero or below.
func (r *cartRepo) SetQuantity(ctx context.Context, userID, lineID string, qty int) error {
	if qty <= 0 {
		return r.Remove(ctx, userID, lineID)
	}

	res, err := r.store.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = ? WHERE user_id = ? AND id = ?`,
		qty, userID, lineID)
	if err != nil {
		return fmt.Errorf("sqlite: set cart quantity %q: %w", lineID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("cart line %q: %w", lineID, domain.ErrNotFound)
	}
	return nil
}

func (r *cartRepo) Remove(ctx context.Context, userID, lineID string) error {
	_, err := r.store.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = ? AND id = ?`, userID, lineID)
	if err != nil {
		return fmt.Errorf("sqlite: remove cart line %q: %w", lineID, err)
	}
	return nil
}

func (r *cartRepo) List(ctx context.Context, userID string) ([]domain.CartLine, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, product_id, name, price, image_url, quantity
		 FROM   cart_items
		 WHERE  user_id = ?
		 ORDER  BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list cart for %q: %w", userID, err)
	}
	defer rows.Close()

	var out []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Name, &l.Price, &l.ImageURL, &l.Quantity); err != nil {
			return nil, fmt.Errorf("sqlite: scan cart line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
