package class

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// CreateClass creates a new inventory class. The name is normalized, every
// referenced class (extends, permitted children, implemented-by) must already
// exist, and the schema cache is invalidated on success.
func (s *Service) CreateClass(ctx context.Context, input CreateClassInput) (*domain.Class, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, input.Extends, input.PermittedChildren, input.ImplementedBy); err != nil {
		return nil, err
	}

	created, err := s.classes.Create(ctx, &domain.Class{
		ID:                uuid.New(),
		Name:              domain.NormalizeName(input.Name),
		Type:              input.Type,
		Extends:           input.Extends,
		PermittedChildren: input.PermittedChildren,
		ImplementedBy:     input.ImplementedBy,
		Attributes:        toAttributes(input.Attributes),
	})
	if err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}

	s.invalidate()

	s.log.InfoContext(ctx, "class created",
		slog.String("class_id", created.ID.String()),
		slog.String("name", created.Name),
		slog.String("type", created.Type.String()),
	)

	return created, nil
}

// checkReferences verifies that every referenced class id exists.
func (s *Service) checkReferences(ctx context.Context, lists ...[]uuid.UUID) error {
	checked := make(map[uuid.UUID]struct{})
	for _, list := range lists {
		for _, id := range list {
			if _, ok := checked[id]; ok {
				continue
			}
			checked[id] = struct{}{}
			if _, err := s.getClass(ctx, id); err != nil {
				return err
			}
		}
	}
	return nil
}
