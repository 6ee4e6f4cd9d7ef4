package class

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// FullClass is a class together with its resolved effective schema, for
// display: every inherited attribute and the merged ancestor id list.
type FullClass struct {
	Class               *domain.Class
	EffectiveAttributes []domain.Attribute
	AncestorIDs         []uuid.UUID
}

// GetClass returns a class as stored, without schema resolution.
func (s *Service) GetClass(ctx context.Context, id uuid.UUID) (*domain.Class, error) {
	return s.getClass(ctx, id)
}

// GetFullClass returns a class with its effective schema resolved across the
// full extends-graph.
func (s *Service) GetFullClass(ctx context.Context, id uuid.UUID) (*FullClass, error) {
	c, err := s.getClass(ctx, id)
	if err != nil {
		return nil, err
	}

	schema, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	return &FullClass{
		Class:               c,
		EffectiveAttributes: schema.Attributes,
		AncestorIDs:         schema.AncestorIDs(),
	}, nil
}

// ListClasses returns every class, ordered by name.
func (s *Service) ListClasses(ctx context.Context) ([]*domain.Class, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}
