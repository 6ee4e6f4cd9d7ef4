package tag

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// Ensure returns the domain's tag with the given name, creating it if
// absent. Idempotent by normalized name: every caller, including concurrent
// ones, observes the same tag id.
func (s *Service) Ensure(ctx context.Context, domainID uuid.UUID, name string) (*domain.Tag, error) {
	normalized := domain.NormalizeName(name)
	if normalized == "" {
		return nil, domain.NewValidationError("name", "required")
	}

	if err := s.checkDomain(ctx, domainID); err != nil {
		return nil, err
	}

	t, err := s.tags.Ensure(ctx, domainID, normalized)
	if err != nil {
		return nil, fmt.Errorf("ensure tag: %w", err)
	}

	s.log.InfoContext(ctx, "tag ensured",
		"tag_id", t.ID, "domain_id", domainID, "name", t.Name)
	return t, nil
}

// List returns every tag registered in the domain.
func (s *Service) List(ctx context.Context, domainID uuid.UUID) ([]domain.Tag, error) {
	if err := s.checkDomain(ctx, domainID); err != nil {
		return nil, err
	}

	tags, err := s.tags.ListByDomain(ctx, domainID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
