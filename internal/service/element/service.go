// Package element implements the element tree manager: element creation and
// update with class-schema validation, materialized path maintenance,
// ancestor/descendant queries, attribute change history, implementation
// linking, and path-ordered search.
package element

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
	"github.com/croswell/inventario/internal/service/class"
)

type elementRepo interface {
	Create(ctx context.Context, e *domain.Element) (*domain.Element, error)
	GetByID(ctx context.Context, domainID, id uuid.UUID) (*domain.Element, error)
	// GetAnyByID fetches without domain scoping; used to distinguish a
	// cross-domain parent from a missing one.
	GetAnyByID(ctx context.Context, id uuid.UUID) (*domain.Element, error)
	GetByIDs(ctx context.Context, domainID uuid.UUID, ids []uuid.UUID) ([]*domain.Element, error)
	Save(ctx context.Context, e *domain.Element) (*domain.Element, error)
	Delete(ctx context.Context, domainID, id uuid.UUID) error
	ListByPathPrefix(ctx context.Context, domainID uuid.UUID, prefix string) ([]*domain.Element, error)
	// RewritePathPrefix updates the path of every element under oldPrefix to
	// start with newPrefix instead. Returns the number of rows changed.
	RewritePathPrefix(ctx context.Context, domainID uuid.UUID, oldPrefix, newPrefix string) (int64, error)
	Search(ctx context.Context, f domain.ElementFilter) ([]*domain.Element, error)
}

type domainRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Domain, error)
}

type classResolver interface {
	GetClass(ctx context.Context, id uuid.UUID) (*domain.Class, error)
	Resolve(ctx context.Context, classID uuid.UUID) (*domain.ResolvedSchema, error)
	PermittedChildren(ctx context.Context, classID uuid.UUID) (map[uuid.UUID]struct{}, error)
	CoerceAttributes(ctx context.Context, classID uuid.UUID, inputs []class.AttributeInput, requireMandatory bool) ([]domain.AttributeValue, error)
}

type historyRepo interface {
	Append(ctx context.Context, records []domain.AttributeHistory) error
	ListByElement(ctx context.Context, domainID, elementID uuid.UUID) ([]domain.AttributeHistory, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Limits bounds tree traversal and search page sizes.
type Limits struct {
	SearchDefaultLimit int
	SearchMaxLimit     int
	MaxTreeDepth       int
}

// Service provides element tree management.
type Service struct {
	elements elementRepo
	domains  domainRepo
	classes  classResolver
	history  historyRepo
	tx       txManager
	limits   Limits
	log      *slog.Logger
}

// NewService creates a new Element service.
func NewService(
	log *slog.Logger,
	elements elementRepo,
	domains domainRepo,
	classes classResolver,
	history historyRepo,
	tx txManager,
	limits Limits,
) *Service {
	return &Service{
		elements: elements,
		domains:  domains,
		classes:  classes,
		history:  history,
		tx:       tx,
		limits:   limits,
		log:      log.With("service", "element"),
	}
}

// getDomain fetches a domain, translating not-found into the typed kind.
func (s *Service) getDomain(ctx context.Context, id uuid.UUID) (*domain.Domain, error) {
	d, err := s.domains.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.DomainNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("get domain: %w", err)
	}
	return d, nil
}

// getElement fetches a domain-scoped element, translating not-found into the
// typed kind.
func (s *Service) getElement(ctx context.Context, domainID, id uuid.UUID) (*domain.Element, error) {
	e, err := s.elements.GetByID(ctx, domainID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ElementNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("get element: %w", err)
	}
	return e, nil
}

// checkTags verifies every supplied tag id is registered in the domain.
func checkTags(d *domain.Domain, tagIDs []uuid.UUID) error {
	for _, id := range tagIDs {
		if _, ok := d.TagByID(id); !ok {
			return &domain.TagNotFoundError{ID: id, DomainID: d.ID}
		}
	}
	return nil
}
