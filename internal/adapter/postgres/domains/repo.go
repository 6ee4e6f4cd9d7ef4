// Package domains implements the tenancy domain repository using PostgreSQL.
// Reads hydrate the domain's tag set from the tags table in one query.
package domains

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/croswell/inventario/internal/adapter/postgres"
	"github.com/croswell/inventario/internal/domain"
)

// Repo provides domain persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new domain repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
INSERT INTO domains (id, name, description, token_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, name, description, token_hash, created_at, updated_at`

const getByIDSQL = `
SELECT id, name, description, token_hash, created_at, updated_at
FROM domains
WHERE id = $1`

const updateSQL = `
UPDATE domains
SET name = $2, description = $3, token_hash = $4, updated_at = now()
WHERE id = $1
RETURNING id, name, description, token_hash, created_at, updated_at`

const listSQL = `
SELECT id, name, description, token_hash, created_at, updated_at
FROM domains
ORDER BY name`

const tagsByDomainSQL = `
SELECT id, domain_id, name
FROM tags
WHERE domain_id = ANY($1::uuid[])
ORDER BY domain_id, name`

// Create inserts a domain. A duplicate name maps to domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, d *domain.Domain) (*domain.Domain, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.Domain
	err := q.QueryRow(ctx, insertSQL, d.ID, d.Name, d.Description, d.TokenHash).
		Scan(&created.ID, &created.Name, &created.Description, &created.TokenHash,
			&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "domain", d.ID)
	}
	created.Tags = []domain.Tag{}
	return &created, nil
}

// GetByID returns a domain with its tag set.
// Returns domain.ErrNotFound if the domain does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Domain, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var d domain.Domain
	err := q.QueryRow(ctx, getByIDSQL, id).
		Scan(&d.ID, &d.Name, &d.Description, &d.TokenHash, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "domain", id)
	}

	tags, err := r.tagsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	d.Tags = tags[id]
	if d.Tags == nil {
		d.Tags = []domain.Tag{}
	}
	return &d, nil
}

// Update replaces the mutable fields of a domain.
func (r *Repo) Update(ctx context.Context, d *domain.Domain) (*domain.Domain, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var updated domain.Domain
	err := q.QueryRow(ctx, updateSQL, d.ID, d.Name, d.Description, d.TokenHash).
		Scan(&updated.ID, &updated.Name, &updated.Description, &updated.TokenHash,
			&updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "domain", d.ID)
	}
	updated.Tags = d.Tags
	return &updated, nil
}

// List returns all domains with their tag sets, ordered by name.
// Returns an empty slice (not nil) when no domains exist.
func (r *Repo) List(ctx context.Context) ([]*domain.Domain, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	out := []*domain.Domain{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var d domain.Domain
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.TokenHash,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list domains: %w", err)
		}
		d.Tags = []domain.Tag{}
		out = append(out, &d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}

	if len(ids) > 0 {
		tags, err := r.tagsFor(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, d := range out {
			if ts := tags[d.ID]; ts != nil {
				d.Tags = ts
			}
		}
	}
	return out, nil
}

// tagsFor loads the tag sets for multiple domains in one query.
func (r *Repo) tagsFor(ctx context.Context, domainIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, tagsByDomainSQL, domainIDs)
	if err != nil {
		return nil, fmt.Errorf("list domain tags: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Tag)
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.DomainID, &t.Name); err != nil {
			return nil, fmt.Errorf("list domain tags: %w", err)
		}
		out[t.DomainID] = append(out[t.DomainID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list domain tags: %w", err)
	}
	return out, nil
}
