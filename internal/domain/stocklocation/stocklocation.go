// Package stocklocation is the stock location module service: typed CRUD
// over physical locations inventory can be stocked at.
package stocklocation

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested stock location does not exist.
var ErrNotFound = errors.New("stock location not found")

// Address is the physical address of a location.
type Address struct {
	Address1    string
	Address2    string
	City        string
	CountryCode string
	PostalCode  string
}

// StockLocation represents a warehouse or store stock is held at.
type StockLocation struct {
	ID        string
	Name      string
	Address   Address
	DeletedAt *time.Time
}

// Repository defines persistence operations for stock locations.
type Repository interface {
	Create(ctx context.Context, l *StockLocation) error
	Get(ctx context.Context, id string) (*StockLocation, error)
	List(ctx context.Context) ([]StockLocation, error)
	Update(ctx context.Context, l *StockLocation) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

// Service exposes typed CRUD over stock locations.
type Service struct {
	repo Repository
}

// NewService creates a stock location Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new stock location, generating an id when absent.
func (s *Service) Create(ctx context.Context, l StockLocation) (*StockLocation, error) {
	if l.ID == "" {
		l.ID = "sloc_" + uuid.New().String()
	}
	if l.Name == "" {
		return nil, errors.New("stock location name is required")
	}
	if err := s.repo.Create(ctx, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Get returns a stock location by id.
func (s *Service) Get(ctx context.Context, id string) (*StockLocation, error) {
	return s.repo.Get(ctx, id)
}

// List returns all non-deleted stock locations.
func (s *Service) List(ctx context.Context) ([]StockLocation, error) {
	return s.repo.List(ctx)
}

// Update persists changes to an existing stock location.
func (s *Service) Update(ctx context.Context, l StockLocation) (*StockLocation, error) {
	if err := s.repo.Update(ctx, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SoftDelete marks the stock location deleted without removing the row.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

// Restore clears a prior soft delete.
func (s *Service) Restore(ctx context.Context, id string) error {
	return s.repo.Restore(ctx, id)
}
