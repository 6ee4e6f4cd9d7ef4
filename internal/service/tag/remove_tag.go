package tag

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// Remove deletes a tag from its domain. Fails with TagInUseError while any
// element in the domain still references the tag. The in-use guard lives in
// the repository's conditional delete, so a concurrent tagging between a
// separate check and the delete cannot leave a dangling reference.
func (s *Service) Remove(ctx context.Context, domainID, tagID uuid.UUID) error {
	if err := s.checkDomain(ctx, domainID); err != nil {
		return err
	}

	if err := s.tags.Delete(ctx, domainID, tagID); err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			return &domain.TagInUseError{ID: tagID, DomainID: domainID}
		case errors.Is(err, domain.ErrNotFound):
			return &domain.TagNotFoundError{ID: tagID, DomainID: domainID}
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	s.log.InfoContext(ctx, "tag removed", "tag_id", tagID, "domain_id", domainID)
	return nil
}
