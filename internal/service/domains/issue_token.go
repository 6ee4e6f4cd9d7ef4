package domains

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/auth"
	"github.com/croswell/inventario/pkg/ctxutil"
)

// Credentials is issued once per request; the static token is never
// reconstructable afterwards, only its hash is stored.
type Credentials struct {
	// AccessToken is a short-lived JWT scoped to the domain.
	AccessToken string
	// APIToken is the long-lived static token. Shown exactly once.
	APIToken string
}

// IssueCredentials issues a fresh JWT and rotates the domain's static API
// token, persisting the new bcrypt hash on the domain row.
func (s *Service) IssueCredentials(ctx context.Context, domainID uuid.UUID) (*Credentials, error) {
	d, err := s.GetDomain(ctx, domainID)
	if err != nil {
		return nil, err
	}

	actor, _ := ctxutil.ActorFromCtx(ctx)
	access, err := s.tokens.IssueDomainToken(d.ID, actor)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	raw, hash, err := auth.GenerateAPIToken()
	if err != nil {
		return nil, fmt.Errorf("generate api token: %w", err)
	}

	d.TokenHash = &hash
	if _, err := s.domains.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("store token hash: %w", err)
	}

	s.log.InfoContext(ctx, "domain credentials issued", "domain_id", d.ID, "actor", actor)
	return &Credentials{AccessToken: access, APIToken: raw}, nil
}
