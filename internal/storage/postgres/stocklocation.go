package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calyxhq/calyx/internal/domain/stocklocation"
)

const (
	createStockLocationSQL = `INSERT INTO stock_locations
	(id, name, address_1, address_2, city, country_code, postal_code)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getStockLocationSQL = `SELECT id, name, address_1, address_2, city, country_code, postal_code, deleted_at
	FROM stock_locations WHERE id = $1 AND deleted_at IS NULL`

	listStockLocationsSQL = `SELECT id, name, address_1, address_2, city, country_code, postal_code, deleted_at
	FROM stock_locations WHERE deleted_at IS NULL ORDER BY name`

	updateStockLocationSQL = `UPDATE stock_locations SET name = $2, address_1 = $3, address_2 = $4,
	city = $5, country_code = $6, postal_code = $7
	WHERE id = $1 AND deleted_at IS NULL`

	softDeleteStockLocationSQL = `UPDATE stock_locations SET deleted_at = now()
	WHERE id = $1 AND deleted_at IS NULL`

	restoreStockLocationSQL = `UPDATE stock_locations SET deleted_at = NULL WHERE id = $1`
)

var _ stocklocation.Repository = (*StockLocationRepository)(nil)

// StockLocationRepository implements stocklocation.Repository backed by
// PostgreSQL.
type StockLocationRepository struct {
	pool *pgxpool.Pool
}

// NewStockLocationRepository returns a repository using the given pool.
func NewStockLocationRepository(pool *pgxpool.Pool) *StockLocationRepository {
	return &StockLocationRepository{pool: pool}
}

// Create persists a new stock location.
func (r *StockLocationRepository) Create(ctx context.Context, l *stocklocation.StockLocation) error {
	_, err := r.pool.Exec(ctx, createStockLocationSQL,
		l.ID, l.Name, l.Address.Address1, l.Address.Address2,
		l.Address.City, l.Address.CountryCode, l.Address.PostalCode,
	)
	if err != nil {
		return fmt.Errorf("creating stock location %q: %w", l.ID, mapConstraintErr(err))
	}
	return nil
}

// Get returns a non-deleted stock location by id.
func (r *StockLocationRepository) Get(ctx context.Context, id string) (*stocklocation.StockLocation, error) {
	var l stocklocation.StockLocation
	err := r.pool.QueryRow(ctx, getStockLocationSQL, id).Scan(
		&l.ID, &l.Name, &l.Address.Address1, &l.Address.Address2,
		&l.Address.City, &l.Address.CountryCode, &l.Address.PostalCode, &l.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, stocklocation.ErrNotFound
		}
		return nil, fmt.Errorf("getting stock location %q: %w", id, err)
	}
	return &l, nil
}

// List returns all non-deleted stock locations.
func (r *StockLocationRepository) List(ctx context.Context) ([]stocklocation.StockLocation, error) {
	rows, err := r.pool.Query(ctx, listStockLocationsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing stock locations: %w", err)
	}
	defer rows.Close()

	var out []stocklocation.StockLocation
	for rows.Next() {
		var l stocklocation.StockLocation
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Address.Address1, &l.Address.Address2,
			&l.Address.City, &l.Address.CountryCode, &l.Address.PostalCode, &l.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning stock location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update persists changes to an existing stock location.
func (r *StockLocationRepository) Update(ctx context.Context, l *stocklocation.StockLocation) error {
	tag, err := r.pool.Exec(ctx, updateStockLocationSQL,
		l.ID, l.Name, l.Address.Address1, l.Address.Address2,
		l.Address.City, l.Address.CountryCode, l.Address.PostalCode,
	)
	if err != nil {
		return fmt.Errorf("updating stock location %q: %w", l.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return stocklocation.ErrNotFound
	}
	return nil
}

// SoftDelete marks the stock location deleted.
func (r *StockLocationRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, softDeleteStockLocationSQL, id)
	if err != nil {
		return fmt.Errorf("deleting stock location %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return stocklocation.ErrNotFound
	}
	return nil
}

// Restore clears a prior soft delete.
func (r *StockLocationRepository) Restore(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, restoreStockLocationSQL, id)
	if err != nil {
		return fmt.Errorf("restoring stock location %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return stocklocation.ErrNotFound
	}
	return nil
}
