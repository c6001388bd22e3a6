// Package fulfillment is the fulfillment module service: fulfillment sets
// and the service zones they ship to.
package fulfillment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("fulfillment record not found")

// GeoZone narrows a service zone to a geographic area.
type GeoZone struct {
	Type        string
	CountryCode string
	Province    string
	City        string
}

// ServiceZone groups geo zones a fulfillment set can serve. Zone names are
// unique per fulfillment set; the database enforces this and duplicate
// creation surfaces the persistence constraint error unchanged.
type ServiceZone struct {
	ID               string
	FulfillmentSetID string
	Name             string
	GeoZones         []GeoZone
	DeletedAt        *time.Time
}

// FulfillmentSet is a named collection of service zones, e.g. one per
// delivery model (shipping, pickup).
type FulfillmentSet struct {
	ID           string
	Name         string
	Type         string
	ServiceZones []ServiceZone
	DeletedAt    *time.Time
}

// Repository defines persistence operations for fulfillment sets and
// their service zones.
type Repository interface {
	CreateSet(ctx context.Context, fs *FulfillmentSet) error
	GetSet(ctx context.Context, id string) (*FulfillmentSet, error)
	ListSets(ctx context.Context) ([]FulfillmentSet, error)
	SoftDeleteSet(ctx context.Context, id string) error
	RestoreSet(ctx context.Context, id string) error

	CreateServiceZone(ctx context.Context, z *ServiceZone) error
	UpdateServiceZone(ctx context.Context, z *ServiceZone) error
	DeleteServiceZone(ctx context.Context, id string) error
}
