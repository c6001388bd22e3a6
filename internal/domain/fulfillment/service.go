package fulfillment

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Service exposes typed operations over fulfillment sets and service
// zones. Constraint violations from persistence (duplicate zone names)
// pass through unchanged.
type Service struct {
	repo Repository
}

// NewService creates a fulfillment Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateSet persists a fulfillment set with its service zones.
func (s *Service) CreateSet(ctx context.Context, fs FulfillmentSet) (*FulfillmentSet, error) {
	if fs.ID == "" {
		fs.ID = "fset_" + uuid.New().String()
	}
	if fs.Name == "" {
		return nil, errors.New("fulfillment set name is required")
	}
	for i := range fs.ServiceZones {
		if fs.ServiceZones[i].ID == "" {
			fs.ServiceZones[i].ID = "serzo_" + uuid.New().String()
		}
		fs.ServiceZones[i].FulfillmentSetID = fs.ID
	}
	if err := s.repo.CreateSet(ctx, &fs); err != nil {
		return nil, err
	}
	return &fs, nil
}

// GetSet returns a fulfillment set with its zones.
func (s *Service) GetSet(ctx context.Context, id string) (*FulfillmentSet, error) {
	return s.repo.GetSet(ctx, id)
}

// ListSets returns all non-deleted fulfillment sets.
func (s *Service) ListSets(ctx context.Context) ([]FulfillmentSet, error) {
	return s.repo.ListSets(ctx)
}

// SoftDeleteSet marks the set deleted without removing rows.
func (s *Service) SoftDeleteSet(ctx context.Context, id string) error {
	return s.repo.SoftDeleteSet(ctx, id)
}

// RestoreSet clears a prior soft delete.
func (s *Service) RestoreSet(ctx context.Context, id string) error {
	return s.repo.RestoreSet(ctx, id)
}

// CreateServiceZone adds a zone to an existing fulfillment set.
func (s *Service) CreateServiceZone(ctx context.Context, z ServiceZone) (*ServiceZone, error) {
	if z.FulfillmentSetID == "" {
		return nil, errors.New("fulfillment set id is required")
	}
	if z.Name == "" {
		return nil, errors.New("service zone name is required")
	}
	if z.ID == "" {
		z.ID = "serzo_" + uuid.New().String()
	}
	if err := s.repo.CreateServiceZone(ctx, &z); err != nil {
		return nil, err
	}
	return &z, nil
}

// UpdateServiceZone persists changes to an existing zone.
func (s *Service) UpdateServiceZone(ctx context.Context, z ServiceZone) (*ServiceZone, error) {
	if err := s.repo.UpdateServiceZone(ctx, &z); err != nil {
		return nil, err
	}
	return &z, nil
}

// DeleteServiceZone removes a zone.
func (s *Service) DeleteServiceZone(ctx context.Context, id string) error {
	return s.repo.DeleteServiceZone(ctx, id)
}
