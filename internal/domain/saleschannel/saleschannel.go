// Package saleschannel is the sales channel module service: typed CRUD
// over channels an order or product can be scoped to.
package saleschannel

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested sales channel does not exist.
var ErrNotFound = errors.New("sales channel not found")

// SalesChannel represents one selling context (webshop, POS, marketplace).
type SalesChannel struct {
	ID          string
	Name        string
	Description string
	IsDisabled  bool
	DeletedAt   *time.Time
}

// Repository defines persistence operations for sales channels.
type Repository interface {
	Create(ctx context.Context, sc *SalesChannel) error
	Get(ctx context.Context, id string) (*SalesChannel, error)
	List(ctx context.Context) ([]SalesChannel, error)
	Update(ctx context.Context, sc *SalesChannel) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}
