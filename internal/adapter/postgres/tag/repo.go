// Package tag implements the tag repository using PostgreSQL. Ensure is a
// single statement, so concurrent callers racing on the same (domain, name)
// pair are serialized by the unique index rather than by the application.
package tag

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/croswell/inventario/internal/adapter/postgres"
	"github.com/croswell/inventario/internal/domain"
)

// Repo provides tag persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tag repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// The upsert always returns the surviving row: a losing insert waits on
// the conflicting transaction, then the DO UPDATE arm takes the winner's
// committed row. DO NOTHING with a fallback select can return no rows at
// READ COMMITTED when the winning insert commits after this statement's
// snapshot was taken.
const ensureSQL = `
INSERT INTO tags (id, domain_id, name)
VALUES ($1, $2, $3)
ON CONFLICT (domain_id, name) DO UPDATE SET name = EXCLUDED.name
RETURNING id, domain_id, name`

// deleteSQL removes the tag only while no element references it. A zero
// row count means either a missing tag or a referenced one; Delete
// disambiguates with a follow-up lookup.
const deleteSQL = `
DELETE FROM tags
WHERE domain_id = $1 AND id = $2
  AND NOT EXISTS (
      SELECT 1 FROM elements
      WHERE domain_id = $1 AND tag_ids @> ARRAY[$2]::uuid[]
  )`

const inUseSQL = `
SELECT EXISTS (
    SELECT 1 FROM elements
    WHERE domain_id = $1 AND tag_ids @> ARRAY[$2]::uuid[]
)`

const listByDomainSQL = `
SELECT id, domain_id, name
FROM tags
WHERE domain_id = $1
ORDER BY name`

// Ensure atomically inserts the tag if absent and returns the stored row
// either way.
func (r *Repo) Ensure(ctx context.Context, domainID uuid.UUID, name string) (*domain.Tag, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.Tag
	err := q.QueryRow(ctx, ensureSQL, uuid.New(), domainID, name).
		Scan(&t.ID, &t.DomainID, &t.Name)
	if err != nil {
		return nil, postgres.MapError(err, "tag", uuid.Nil)
	}
	return &t, nil
}

// Delete removes a tag from its domain. The delete is conditional on no
// element referencing the tag in the same statement: a referenced tag
// fails with domain.ErrConflict, a missing one with domain.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, domainID, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := q.Exec(ctx, deleteSQL, domainID, id)
	if err != nil {
		return postgres.MapError(err, "tag", id)
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	inUse, err := r.InUse(ctx, domainID, id)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("tag %s: %w", id, domain.ErrConflict)
	}
	return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
}

// InUse reports whether any element in the domain references the tag.
func (r *Repo) InUse(ctx context.Context, domainID, id uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var inUse bool
	if err := q.QueryRow(ctx, inUseSQL, domainID, id).Scan(&inUse); err != nil {
		return false, fmt.Errorf("tag in use: %w", err)
	}
	return inUse, nil
}

// ListByDomain returns all tags in a domain ordered by name.
// Returns an empty slice (not nil) when the domain has no tags.
func (r *Repo) ListByDomain(ctx context.Context, domainID uuid.UUID) ([]domain.Tag, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByDomainSQL, domainID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	out := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.DomainID, &t.Name); err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}
