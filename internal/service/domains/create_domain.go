package domains

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// CreateDomainInput holds the parameters for creating a domain.
type CreateDomainInput struct {
	Name        string
	Description *string
}

// Validate checks all fields and collects all errors.
func (i CreateDomainInput) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return domain.NewValidationError("name", "required")
	}
	return nil
}

// CreateDomain creates a tenancy domain. Names are normalized and globally
// unique; a duplicate fails with DomainAlreadyExistsError.
func (s *Service) CreateDomain(ctx context.Context, input CreateDomainInput) (*domain.Domain, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	name := domain.NormalizeName(input.Name)
	d := &domain.Domain{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
	}

	created, err := s.domains.Create(ctx, d)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, &domain.DomainAlreadyExistsError{Name: name}
		}
		return nil, fmt.Errorf("create domain: %w", err)
	}

	s.log.InfoContext(ctx, "domain created", "domain_id", created.ID, "name", created.Name)
	return created, nil
}
