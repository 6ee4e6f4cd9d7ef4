// Package domains implements tenancy management: domain creation with
// globally unique normalized names, reads, and per-domain API credential
// issuance. Tag membership is managed by the tag ledger.
package domains

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

type domainRepo interface {
	Create(ctx context.Context, d *domain.Domain) (*domain.Domain, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Domain, error)
	Update(ctx context.Context, d *domain.Domain) (*domain.Domain, error)
	List(ctx context.Context) ([]*domain.Domain, error)
}

type tokenIssuer interface {
	IssueDomainToken(domainID uuid.UUID, actor string) (string, error)
}

// Service provides domain management.
type Service struct {
	domains domainRepo
	tokens  tokenIssuer
	log     *slog.Logger
}

// NewService creates a new Domains service.
func NewService(log *slog.Logger, domains domainRepo, tokens tokenIssuer) *Service {
	return &Service{
		domains: domains,
		tokens:  tokens,
		log:     log.With("service", "domains"),
	}
}

// GetDomain returns a domain by id.
func (s *Service) GetDomain(ctx context.Context, id uuid.UUID) (*domain.Domain, error) {
	d, err := s.domains.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.DomainNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("get domain: %w", err)
	}
	return d, nil
}

// ListDomains returns every domain.
func (s *Service) ListDomains(ctx context.Context) ([]*domain.Domain, error) {
	out, err := s.domains.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return out, nil
}
