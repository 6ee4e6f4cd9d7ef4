// Package tag implements the tag ledger: idempotent ensure-or-get creation
// of per-domain tags and in-use-guarded removal. Concurrent Ensure calls for
// one normalized name converge on a single stored tag; the repository's
// atomic insert-if-absent primitive is the dedup point, the service never
// read-then-writes.
package tag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

type tagRepo interface {
	// Ensure atomically inserts the tag if no tag with the name exists in
	// the domain, and returns the stored tag either way.
	Ensure(ctx context.Context, domainID uuid.UUID, name string) (*domain.Tag, error)
	// Delete removes the tag only while no element references it. A
	// referenced tag fails with ErrConflict, a missing one with ErrNotFound.
	Delete(ctx context.Context, domainID, id uuid.UUID) error
	ListByDomain(ctx context.Context, domainID uuid.UUID) ([]domain.Tag, error)
}

type domainRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Domain, error)
}

// Service provides tag ledger operations.
type Service struct {
	tags    tagRepo
	domains domainRepo
	log     *slog.Logger
}

// NewService creates a new Tag service.
func NewService(log *slog.Logger, tags tagRepo, domains domainRepo) *Service {
	return &Service{
		tags:    tags,
		domains: domains,
		log:     log.With("service", "tag"),
	}
}

func (s *Service) checkDomain(ctx context.Context, id uuid.UUID) error {
	if _, err := s.domains.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.DomainNotFoundError{ID: id}
		}
		return fmt.Errorf("get domain: %w", err)
	}
	return nil
}
