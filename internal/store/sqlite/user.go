package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

type userRepo struct {
	store *Store
}

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, phone, role, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Phone, u.Role, u.PasswordHash, formatTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: create user %q: %w", u.Email, err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, role, password_hash, created_at
		 FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, role, password_hash, created_at
		 FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, name, email, phone, role, password_hash, created_at
		 FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *userRepo) UpdateRole(ctx context.Context, id, role string) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("sqlite: update role for %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete user %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan user: %w", err)
	}
	if u.CreatedAt, err = parseRFC3339(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}

type addressRepo struct {
	store *Store
}

// Add inserts an address; when it is flagged default, any previous default
// for the user is cleared in the same transaction.
func (r *addressRepo) Add(ctx context.Context, userID string, a *domain.Address) error {
	return r.store.inTx(ctx, func(tx *sql.Tx) error {
		if a.Default {
			if _, err := tx.ExecContext(ctx,
				`UPDATE addresses SET is_default = 0 WHERE user_id = ?`, userID); err != nil {
				return fmt.Errorf("sqlite: clear default address for %q: %w", userID, err)
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO addresses (id, user_id, full_name, address_line, phone_number, is_default)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			a.ID, userID, a.FullName, a.AddressLine, a.PhoneNumber, a.Default)
		if err != nil {
			return fmt.Errorf("sqlite: add address for %q: %w", userID, err)
		}
		return nil
	})
}

func (r *addressRepo) GetByID(ctx context.Context, userID, id string) (*domain.Address, error) {
	var a domain.Address
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, full_name, address_line, phone_number, is_default
		 FROM addresses WHERE user_id = ? AND id = ?`, userID, id).
		Scan(&a.ID, &a.FullName, &a.AddressLine, &a.PhoneNumber, &a.Default)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("address %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: read address %q: %w", id, err)
	}
	return &a, nil
}

func (r *addressRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, full_name, address_line, phone_number, is_default
		 FROM addresses WHERE user_id = ? ORDER BY is_default DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list addresses for %q: %w", userID, err)
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.FullName, &a.AddressLine, &a.PhoneNumber, &a.Default); err != nil {
			return nil, fmt.Errorf("sqlite: scan address: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
