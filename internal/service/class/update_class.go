package class

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/croswell/inventario/internal/domain"
)

// UpdateClass applies a partial update to a class. Extends, permitted-child,
// implemented-by, and attribute lists replace the stored lists when supplied;
// nil means "leave unchanged". The schema cache is invalidated on success.
func (s *Service) UpdateClass(ctx context.Context, input UpdateClassInput) (*domain.Class, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.getClass(ctx, input.ClassID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		current.Name = domain.NormalizeName(*input.Name)
	}
	if input.Extends != nil {
		if err := s.checkReferences(ctx, input.Extends); err != nil {
			return nil, err
		}
		current.Extends = input.Extends
	}
	if input.PermittedChildren != nil {
		if err := s.checkReferences(ctx, input.PermittedChildren); err != nil {
			return nil, err
		}
		current.PermittedChildren = input.PermittedChildren
	}
	if input.ImplementedBy != nil {
		if err := s.checkReferences(ctx, input.ImplementedBy); err != nil {
			return nil, err
		}
		current.ImplementedBy = input.ImplementedBy
	}
	if input.Attributes != nil {
		current.Attributes = toAttributes(input.Attributes)
	}

	updated, err := s.classes.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("update class: %w", err)
	}

	// Existing elements keep their stored attribute values as valid
	// snapshots; only subsequent writes validate against the new schema.
	s.invalidate()

	s.log.InfoContext(ctx, "class updated",
		slog.String("class_id", updated.ID.String()),
		slog.String("name", updated.Name),
	)

	return updated, nil
}
