package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calyxhq/calyx/internal/domain/product"
)

const (
	createProductSQL = `INSERT INTO products (id, title, handle, sku, type_id, price, currency_code)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getProductSQL = `SELECT id, title, handle, sku, type_id, price, currency_code, deleted_at
	FROM products WHERE id = $1 AND deleted_at IS NULL`

	getProductsByIDsSQL = `SELECT id, title, handle, sku, type_id, price, currency_code, deleted_at
	FROM products WHERE id = ANY($1) AND deleted_at IS NULL`

	listProductsSQL = `SELECT id, title, handle, sku, type_id, price, currency_code, deleted_at
	FROM products WHERE deleted_at IS NULL ORDER BY id`

	updateProductSQL = `UPDATE products SET title = $2, handle = $3, sku = $4,
	type_id = $5, price = $6, currency_code = $7
	WHERE id = $1 AND deleted_at IS NULL`

	upsertProductBySKUSQL = `INSERT INTO products (id, title, handle, sku, type_id, price, currency_code)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (sku) WHERE deleted_at IS NULL AND sku <> ''
	DO UPDATE SET title = EXCLUDED.title, handle = EXCLUDED.handle,
		type_id = EXCLUDED.type_id, price = EXCLUDED.price,
		currency_code = EXCLUDED.currency_code`

	softDeleteProductSQL = `UPDATE products SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`

	restoreProductSQL = `UPDATE products SET deleted_at = NULL WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, createProductSQL,
		p.ID, p.Title, p.Handle, p.SKU, p.TypeID, p.Price, p.CurrencyCode,
	)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, mapConstraintErr(err))
	}
	return nil
}

// Get returns a non-deleted product by id.
func (r *ProductRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	err := r.pool.QueryRow(ctx, getProductSQL, id).Scan(
		&p.ID, &p.Title, &p.Handle, &p.SKU, &p.TypeID, &p.Price, &p.CurrencyCode, &p.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs batch-fetches non-deleted products.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// List returns all non-deleted products.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Title, p.Handle, p.SKU, p.TypeID, p.Price, p.CurrencyCode,
	)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, mapConstraintErr(err))
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// UpsertBySKU inserts the product or, when a live product with the same
// SKU exists, overwrites its catalog fields. Used by bulk feed imports.
func (r *ProductRepository) UpsertBySKU(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductBySKUSQL,
		p.ID, p.Title, p.Handle, p.SKU, p.TypeID, p.Price, p.CurrencyCode,
	)
	if err != nil {
		return fmt.Errorf("upserting product sku %q: %w", p.SKU, mapConstraintErr(err))
	}
	return nil
}

// SoftDelete marks the product deleted.
func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, softDeleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Restore clears a prior soft delete.
func (r *ProductRepository) Restore(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, restoreProductSQL, id)
	if err != nil {
		return fmt.Errorf("restoring product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]product.Product, error) {
	var out []product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Handle, &p.SKU, &p.TypeID, &p.Price, &p.CurrencyCode, &p.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
