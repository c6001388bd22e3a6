package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calyxhq/calyx/internal/domain/fulfillment"
)

const (
	createFulfillmentSetSQL = `INSERT INTO fulfillment_sets (id, name, type) VALUES ($1, $2, $3)`

	getFulfillmentSetSQL = `SELECT id, name, type, deleted_at
	FROM fulfillment_sets WHERE id = $1 AND deleted_at IS NULL`

	listFulfillmentSetsSQL = `SELECT id, name, type, deleted_at
	FROM fulfillment_sets WHERE deleted_at IS NULL ORDER BY name`

	softDeleteFulfillmentSetSQL = `UPDATE fulfillment_sets SET deleted_at = now()
	WHERE id = $1 AND deleted_at IS NULL`

	restoreFulfillmentSetSQL = `UPDATE fulfillment_sets SET deleted_at = NULL WHERE id = $1`

	createServiceZoneSQL = `INSERT INTO service_zones (id, fulfillment_set_id, name, geo_zones)
	VALUES ($1, $2, $3, $4)`

	listServiceZonesSQL = `SELECT id, fulfillment_set_id, name, geo_zones, deleted_at
	FROM service_zones WHERE fulfillment_set_id = $1 AND deleted_at IS NULL ORDER BY name`

	updateServiceZoneSQL = `UPDATE service_zones SET name = $2, geo_zones = $3
	WHERE id = $1 AND deleted_at IS NULL`

	deleteServiceZoneSQL = `DELETE FROM service_zones WHERE id = $1`
)

var _ fulfillment.Repository = (*FulfillmentRepository)(nil)

// FulfillmentRepository implements fulfillment.Repository backed by
// PostgreSQL. Service zone names are unique; duplicates surface as
// ConstraintViolationError.
type FulfillmentRepository struct {
	pool *pgxpool.Pool
}

// NewFulfillmentRepository returns a repository using the given pool.
func NewFulfillmentRepository(pool *pgxpool.Pool) *FulfillmentRepository {
	return &FulfillmentRepository{pool: pool}
}

// CreateSet persists a fulfillment set and its service zones atomically.
func (r *FulfillmentRepository) CreateSet(ctx context.Context, fs *fulfillment.FulfillmentSet) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, createFulfillmentSetSQL, fs.ID, fs.Name, fs.Type); err != nil {
		return fmt.Errorf("creating fulfillment set %q: %w", fs.ID, mapConstraintErr(err))
	}
	for i := range fs.ServiceZones {
		z := &fs.ServiceZones[i]
		if _, err := tx.Exec(ctx, createServiceZoneSQL,
			z.ID, z.FulfillmentSetID, z.Name, encodeGeoZones(z.GeoZones),
		); err != nil {
			return fmt.Errorf("creating service zone %q: %w", z.Name, mapConstraintErr(err))
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing fulfillment set %q: %w", fs.ID, err)
	}
	return nil
}

// GetSet loads a fulfillment set with its service zones.
func (r *FulfillmentRepository) GetSet(ctx context.Context, id string) (*fulfillment.FulfillmentSet, error) {
	var fs fulfillment.FulfillmentSet
	err := r.pool.QueryRow(ctx, getFulfillmentSetSQL, id).Scan(&fs.ID, &fs.Name, &fs.Type, &fs.DeletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fulfillment.ErrNotFound
		}
		return nil, fmt.Errorf("getting fulfillment set %q: %w", id, err)
	}
	if fs.ServiceZones, err = r.listZones(ctx, id); err != nil {
		return nil, err
	}
	return &fs, nil
}

// ListSets returns all non-deleted fulfillment sets with their zones.
func (r *FulfillmentRepository) ListSets(ctx context.Context) ([]fulfillment.FulfillmentSet, error) {
	rows, err := r.pool.Query(ctx, listFulfillmentSetsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing fulfillment sets: %w", err)
	}
	defer rows.Close()

	var sets []fulfillment.FulfillmentSet
	for rows.Next() {
		var fs fulfillment.FulfillmentSet
		if err := rows.Scan(&fs.ID, &fs.Name, &fs.Type, &fs.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning fulfillment set: %w", err)
		}
		sets = append(sets, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range sets {
		if sets[i].ServiceZones, err = r.listZones(ctx, sets[i].ID); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

// SoftDeleteSet marks the fulfillment set deleted.
func (r *FulfillmentRepository) SoftDeleteSet(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, softDeleteFulfillmentSetSQL, id)
	if err != nil {
		return fmt.Errorf("deleting fulfillment set %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fulfillment.ErrNotFound
	}
	return nil
}

// RestoreSet clears a prior soft delete.
func (r *FulfillmentRepository) RestoreSet(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, restoreFulfillmentSetSQL, id)
	if err != nil {
		return fmt.Errorf("restoring fulfillment set %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fulfillment.ErrNotFound
	}
	return nil
}

// CreateServiceZone adds a zone to an existing set.
func (r *FulfillmentRepository) CreateServiceZone(ctx context.Context, z *fulfillment.ServiceZone) error {
	_, err := r.pool.Exec(ctx, createServiceZoneSQL,
		z.ID, z.FulfillmentSetID, z.Name, encodeGeoZones(z.GeoZones),
	)
	if err != nil {
		return fmt.Errorf("creating service zone %q: %w", z.Name, mapConstraintErr(err))
	}
	return nil
}

// UpdateServiceZone persists changes to an existing zone.
func (r *FulfillmentRepository) UpdateServiceZone(ctx context.Context, z *fulfillment.ServiceZone) error {
	tag, err := r.pool.Exec(ctx, updateServiceZoneSQL, z.ID, z.Name, encodeGeoZones(z.GeoZones))
	if err != nil {
		return fmt.Errorf("updating service zone %q: %w", z.ID, mapConstraintErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fulfillment.ErrNotFound
	}
	return nil
}

// DeleteServiceZone removes a zone.
func (r *FulfillmentRepository) DeleteServiceZone(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteServiceZoneSQL, id)
	if err != nil {
		return fmt.Errorf("deleting service zone %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fulfillment.ErrNotFound
	}
	return nil
}

func (r *FulfillmentRepository) listZones(ctx context.Context, setID string) ([]fulfillment.ServiceZone, error) {
	rows, err := r.pool.Query(ctx, listServiceZonesSQL, setID)
	if err != nil {
		return nil, fmt.Errorf("listing service zones of set %q: %w", setID, err)
	}
	defer rows.Close()

	var zones []fulfillment.ServiceZone
	for rows.Next() {
		var (
			z       fulfillment.ServiceZone
			geoJSON []byte
		)
		if err := rows.Scan(&z.ID, &z.FulfillmentSetID, &z.Name, &geoJSON, &z.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning service zone: %w", err)
		}
		if z.GeoZones, err = decodeGeoZones(geoJSON); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
