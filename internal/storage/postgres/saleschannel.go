package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calyxhq/calyx/internal/domain/saleschannel"
)

const (
	createSalesChannelSQL = `INSERT INTO sales_channels (id, name, description, is_disabled)
	VALUES ($1, $2, $3, $4)`

	getSalesChannelSQL = `SELECT id, name, description, is_disabled, deleted_at
	FROM sales_channels WHERE id = $1 AND deleted_at IS NULL`

	listSalesChannelsSQL = `SELECT id, name, description, is_disabled, deleted_at
	FROM sales_channels WHERE deleted_at IS NULL ORDER BY name`

	updateSalesChannelSQL = `UPDATE sales_channels SET name = $2, description = $3, is_disabled = $4
	WHERE id = $1 AND deleted_at IS NULL`

	softDeleteSalesChannelSQL = `UPDATE sales_channels SET deleted_at = now()
	WHERE id = $1 AND deleted_at IS NULL`

	restoreSalesChannelSQL = `UPDATE sales_channels SET deleted_at = NULL WHERE id = $1`
)

var _ saleschannel.Repository = (*SalesChannelRepository)(nil)

// SalesChannelRepository implements saleschannel.Repository backed by
// PostgreSQL. Channel names are unique among non-deleted rows; violations
// surface as ConstraintViolationError.
type SalesChannelRepository struct {
	pool *pgxpool.Pool
}

// NewSalesChannelRepository returns a repository using the given pool.
func NewSalesChannelRepository(pool *pgxpool.Pool) *SalesChannelRepository {
	return &SalesChannelRepository{pool: pool}
}

// Create persists a new sales channel.
func (r *SalesChannelRepository) Create(ctx context.Context, sc *saleschannel.SalesChannel) error {
	_, err := r.pool.Exec(ctx, createSalesChannelSQL, sc.ID, sc.Name, sc.Description, sc.IsDisabled)
	if err != nil {
		return fmt.Errorf("creating sales channel %q: %w", sc.ID, mapConstraintErr(err))
	}
	return nil
}

// Get returns a non-deleted sales channel by id.
func (r *SalesChannelRepository) Get(ctx context.Context, id string) (*saleschannel.SalesChannel, error) {
	var sc saleschannel.SalesChannel
	err := r.pool.QueryRow(ctx, getSalesChannelSQL, id).Scan(
		&sc.ID, &sc.Name, &sc.Description, &sc.IsDisabled, &sc.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, saleschannel.ErrNotFound
		}
		return nil, fmt.Errorf("getting sales channel %q: %w", id, err)
	}
	return &sc, nil
}

// List returns all non-deleted sales channels.
func (r *SalesChannelRepository) List(ctx context.Context) ([]saleschannel.SalesChannel, error) {
	rows, err := r.pool.Query(ctx, listSalesChannelsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing sales channels: %w", err)
	}
	defer rows.Close()

	var out []saleschannel.SalesChannel
	for rows.Next() {
		var sc saleschannel.SalesChannel
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Description, &sc.IsDisabled, &sc.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning sales channel: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// Update persists changes to an existing sales channel.
func (r *SalesChannelRepository) Update(ctx context.Context, sc *saleschannel.SalesChannel) error {
	tag, err := r.pool.Exec(ctx, updateSalesChannelSQL, sc.ID, sc.Name, sc.Description, sc.IsDisabled)
	if err != nil {
		return fmt.Errorf("updating sales channel %q: %w", sc.ID, mapConstraintErr(err))
	}
	if tag.RowsAffected() == 0 {
		return saleschannel.ErrNotFound
	}
	return nil
}

// SoftDelete marks the sales channel deleted.
func (r *SalesChannelRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, softDeleteSalesChannelSQL, id)
	if err != nil {
		return fmt.Errorf("deleting sales channel %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return saleschannel.ErrNotFound
	}
	return nil
}

// Restore clears a prior soft delete.
func (r *SalesChannelRepository) Restore(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, restoreSalesChannelSQL, id)
	if err != nil {
		return fmt.Errorf("restoring sales channel %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return saleschannel.ErrNotFound
	}
	return nil
}
