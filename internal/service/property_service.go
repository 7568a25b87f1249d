package service

import (
	"context"
	"fmt"

	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/mapper"
	"github.com/Satheshwaran26/rentr/internal/repository"
)

type PropertyService struct {
	store *repository.Store
}

func NewPropertyService(store *repository.Store) *PropertyService {
	return &PropertyService{store: store}
}

// List returns every managed property
func (s *PropertyService) List(ctx context.Context) ([]domain.PropertyDTO, error) {
	if _, err := actorFrom(ctx); err != nil {
		return nil, err
	}
	properties, err := s.store.Repos().Properties.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	dtos := make([]domain.PropertyDTO, len(properties))
	for i := range properties {
		dtos[i] = mapper.ToPropertyDTO(&properties[i])
	}
	return dtos, nil
}
