package element

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// GetElement returns an element by id within a domain.
func (s *Service) GetElement(ctx context.Context, domainID, id uuid.UUID) (*domain.Element, error) {
	return s.getElement(ctx, domainID, id)
}

// GetHistory returns the attribute revision records for an element, newest
// first. The element must exist in the domain.
func (s *Service) GetHistory(ctx context.Context, domainID, elementID uuid.UUID) ([]domain.AttributeHistory, error) {
	if _, err := s.getElement(ctx, domainID, elementID); err != nil {
		return nil, err
	}

	records, err := s.history.ListByElement(ctx, domainID, elementID)
	if err != nil {
		return nil, fmt.Errorf("list attribute history: %w", err)
	}
	return records, nil
}
