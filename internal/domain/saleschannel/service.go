package saleschannel

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Service exposes typed CRUD over sales channels. Persistence errors,
// including constraint violations, pass through unchanged.
type Service struct {
	repo Repository
}

// NewService creates a sales channel Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new sales channel, generating an id when absent.
func (s *Service) Create(ctx context.Context, sc SalesChannel) (*SalesChannel, error) {
	if sc.ID == "" {
		sc.ID = "sc_" + uuid.New().String()
	}
	if sc.Name == "" {
		return nil, errors.New("sales channel name is required")
	}
	if err := s.repo.Create(ctx, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Get returns a sales channel by id.
func (s *Service) Get(ctx context.Context, id string) (*SalesChannel, error) {
	return s.repo.Get(ctx, id)
}

// List returns all non-deleted sales channels.
func (s *Service) List(ctx context.Context) ([]SalesChannel, error) {
	return s.repo.List(ctx)
}

// Update persists changes to an existing sales channel.
func (s *Service) Update(ctx context.Context, sc SalesChannel) (*SalesChannel, error) {
	if err := s.repo.Update(ctx, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// SoftDelete marks the sales channel deleted without removing the row.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

// Restore clears a prior soft delete.
func (s *Service) Restore(ctx context.Context, id string) error {
	return s.repo.Restore(ctx, id)
}
