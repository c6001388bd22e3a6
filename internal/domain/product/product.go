package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID           string
	Title        string
	Handle       string
	SKU          string
	TypeID       string
	Price        decimal.Decimal
	CurrencyCode string
	DeletedAt    *time.Time
}

// Repository defines persistence operations for the product catalog.
// Soft-deleted products are excluded from reads until restored.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}
