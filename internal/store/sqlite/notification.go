package sqlite

import (
	"context"
	"fmt"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

type notificationRepo struct {
	store *Store
}

func (r *notificationRepo) Append(ctx context.Context, n *domain.Notification) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, title, message, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Message, n.Read, formatTime(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: append notification for %q: %w", n.UserID, err)
	}
	return nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, user_id, title, message, is_read, created_at
		 FROM   notifications
		 WHERE  user_id = ?
		 ORDER  BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list notifications for %q: %w", userID, err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdAt string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Read, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan notification: %w", err)
		}
		if n.CreatedAt, err = parseRFC3339(createdAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("sqlite: mark notification %q read: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("notification %q: %w", id, domain.ErrNotFound)
	}
	return nil
}
