package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jcmexdev/storefront/internal/core/domain"
)

type productRepo struct {
	store *Store
}

const productColumns = "id, name, description, price, category_id, images, colors, sizes, amount, active, in_stock"

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	p.InStock = p.Visible()

	const q = `
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.store.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.Price, p.CategoryID,
		jsonList(p.Images), jsonList(p.Colors), jsonList(p.Sizes),
		p.Amount, p.Active, p.InStock,
	)
	if err != nil {
		return fmt.Errorf("sqlite: create product %q: %w", p.ID, err)
	}
	return nil
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	p.InStock = p.Visible()

	const q = `
		UPDATE products
		SET    name = ?, description = ?, price = ?, category_id = ?,
		       images = ?, colors = ?, sizes = ?, amount = ?, active = ?, in_stock = ?
		WHERE  id = ?`

	res, err := r.store.db.ExecContext(ctx, q,
		p.Name, p.Description, p.Price, p.CategoryID,
		jsonList(p.Images), jsonList(p.Colors), jsonList(p.Sizes),
		p.Amount, p.Active, p.InStock, p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update product %q: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %q: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete product %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (r *productRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

func (r *productRepo) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return r.query(ctx,
		`SELECT `+productColumns+` FROM products WHERE category_id = ? ORDER BY name`, categoryID)
}

func (r *productRepo) Search(ctx context.Context, query string) ([]domain.Product, error) {
	return r.query(ctx,
		`SELECT `+productColumns+` FROM products WHERE name LIKE ? ORDER BY name`, query+"%")
}

func (r *productRepo) query(ctx context.Context, q string, args ...any) ([]domain.Product, error) {
	rows, err := r.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var images, colors, sizes string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID,
		&images, &colors, &sizes, &p.Amount, &p.Active, &p.InStock,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan product: %w", err)
	}

	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return nil, fmt.Errorf("sqlite: product %q images column: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(colors), &p.Colors); err != nil {
		return nil, fmt.Errorf("sqlite: product %q colors column: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(sizes), &p.Sizes); err != nil {
		return nil, fmt.Errorf("sqlite: product %q sizes column: %w", p.ID, err)
	}
	return &p, nil
}

// jsonList marshals a string slice, mapping nil to the empty JSON array so
// the column never holds SQL NULL.
func jsonList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(values)
	return string(b)
}

type categoryRepo struct {
	store *Store
}

func (r *categoryRepo) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, image_url) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.ImageURL)
	if err != nil {
		return fmt.Errorf("sqlite: create category %q: %w", c.ID, err)
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete category %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %q: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, name, image_url FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("sqlite: scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
