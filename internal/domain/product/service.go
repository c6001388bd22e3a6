package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Service exposes typed CRUD over the product catalog.
type Service struct {
	repo Repository
}

// NewService creates a product Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new product, generating an id when absent.
func (s *Service) Create(ctx context.Context, p Product) (*Product, error) {
	if p.ID == "" {
		p.ID = "prod_" + uuid.New().String()
	}
	if p.Title == "" {
		return nil, errors.New("product title is required")
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	return &p, nil
}

// Get returns a product by id.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// List returns all non-deleted products.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Update persists changes to an existing product.
func (s *Service) Update(ctx context.Context, p Product) (*Product, error) {
	if err := s.repo.Update(ctx, &p); err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	return &p, nil
}

// SoftDelete marks the product deleted without removing the row.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

// Restore clears a prior soft delete.
func (s *Service) Restore(ctx context.Context, id string) error {
	return s.repo.Restore(ctx, id)
}
