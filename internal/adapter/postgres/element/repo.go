// Package element implements the inventory element repository using
// PostgreSQL. Typed attribute values are stored as a jsonb document in their
// wire envelope, tag references as a uuid array, and the materialized tree
// path as text indexed for prefix scans.
package element

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/croswell/inventario/internal/adapter/postgres"
	"github.com/croswell/inventario/internal/domain"
)

// Repo provides element persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new element repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, domain_id, class_id, parent_id, name, path, implemented_by,
attributes, tag_ids, created_at, created_by, updated_at, updated_by`

const insertSQL = `
INSERT INTO elements (id, domain_id, class_id, parent_id, name, path, implemented_by,
                      attributes, tag_ids, created_by, updated_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + columns

const getByIDSQL = `
SELECT ` + columns + `
FROM elements
WHERE domain_id = $1 AND id = $2`

const getAnyByIDSQL = `
SELECT ` + columns + `
FROM elements
WHERE id = $1`

const getByIDsSQL = `
SELECT ` + columns + `
FROM elements
WHERE domain_id = $1 AND id = ANY($2::uuid[])
ORDER BY path`

const saveSQL = `
UPDATE elements
SET name = $3, parent_id = $4, path = $5, implemented_by = $6,
    attributes = $7, tag_ids = $8, updated_at = now(), updated_by = $9
WHERE domain_id = $1 AND id = $2
RETURNING ` + columns

const deleteSQL = `
DELETE FROM elements
WHERE domain_id = $1 AND id = $2`

const listByPathPrefixSQL = `
SELECT ` + columns + `
FROM elements
WHERE domain_id = $1 AND path LIKE $2 || '%'
ORDER BY path`

// Descendants keep their suffix below the moved subtree root; only the
// leading prefix is swapped.
const rewritePathPrefixSQL = `
UPDATE elements
SET path = $3 || substr(path, length($2) + 1), updated_at = now()
WHERE domain_id = $1 AND path LIKE $2 || '%'`

func scanElement(row pgx.Row) (*domain.Element, error) {
	var (
		e        domain.Element
		attrsRaw []byte
	)
	err := row.Scan(&e.ID, &e.DomainID, &e.ClassID, &e.ParentID, &e.Name, &e.Path,
		&e.ImplementedBy, &attrsRaw, &e.TagIDs,
		&e.CreatedAt, &e.CreatedBy, &e.UpdatedAt, &e.UpdatedBy)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attrsRaw, &e.Attributes); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	return &e, nil
}

func scanElements(rows pgx.Rows) ([]*domain.Element, error) {
	defer rows.Close()

	out := []*domain.Element{}
	for rows.Next() {
		e, err := scanElement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts an element. A duplicate (domain, name) pair maps to
// domain.ErrAlreadyExists, a dangling class/parent reference to
// domain.ErrNotFound.
func (r *Repo) Create(ctx context.Context, e *domain.Element) (*domain.Element, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	attrsRaw, err := json.Marshal(e.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}

	created, err := scanElement(q.QueryRow(ctx, insertSQL,
		e.ID, e.DomainID, e.ClassID, e.ParentID, e.Name, e.Path, e.ImplementedBy,
		attrsRaw, e.TagIDs, e.CreatedBy, e.UpdatedBy))
	if err != nil {
		return nil, postgres.MapError(err, "element", e.ID)
	}
	return created, nil
}

// GetByID returns an element by primary key scoped to a domain.
// Returns domain.ErrNotFound if the element does not exist in the domain.
func (r *Repo) GetByID(ctx context.Context, domainID, id uuid.UUID) (*domain.Element, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	e, err := scanElement(q.QueryRow(ctx, getByIDSQL, domainID, id))
	if err != nil {
		return nil, postgres.MapError(err, "element", id)
	}
	return e, nil
}

// GetAnyByID returns an element by primary key regardless of domain.
func (r *Repo) GetAnyByID(ctx context.Context, id uuid.UUID) (*domain.Element, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	e, err := scanElement(q.QueryRow(ctx, getAnyByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "element", id)
	}
	return e, nil
}

// GetByIDs returns the elements with the given ids in one query, ordered by
// path. Missing ids are silently absent from the result.
func (r *Repo) GetByIDs(ctx context.Context, domainID uuid.UUID, ids []uuid.UUID) ([]*domain.Element, error) {
	if len(ids) == 0 {
		return []*domain.Element{}, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getByIDsSQL, domainID, ids)
	if err != nil {
		return nil, fmt.Errorf("get elements by ids: %w", err)
	}
	out, err := scanElements(rows)
	if err != nil {
		return nil, fmt.Errorf("get elements by ids: %w", err)
	}
	return out, nil
}

// Save replaces all mutable fields of an element.
func (r *Repo) Save(ctx context.Context, e *domain.Element) (*domain.Element, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	attrsRaw, err := json.Marshal(e.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}

	saved, err := scanElement(q.QueryRow(ctx, saveSQL,
		e.DomainID, e.ID, e.Name, e.ParentID, e.Path, e.ImplementedBy,
		attrsRaw, e.TagIDs, e.UpdatedBy))
	if err != nil {
		return nil, postgres.MapError(err, "element", e.ID)
	}
	return saved, nil
}

// Delete removes an element.
// Returns domain.ErrNotFound if the element does not exist in the domain.
func (r *Repo) Delete(ctx context.Context, domainID, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := q.Exec(ctx, deleteSQL, domainID, id)
	if err != nil {
		return postgres.MapError(err, "element", id)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByPathPrefix returns every element whose path starts with the prefix,
// ordered by path.
func (r *Repo) ListByPathPrefix(ctx context.Context, domainID uuid.UUID, prefix string) ([]*domain.Element, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByPathPrefixSQL, domainID, prefix)
	if err != nil {
		return nil, fmt.Errorf("list by path prefix: %w", err)
	}
	out, err := scanElements(rows)
	if err != nil {
		return nil, fmt.Errorf("list by path prefix: %w", err)
	}
	return out, nil
}

// RewritePathPrefix swaps the leading path prefix of a whole subtree in one
// statement. Returns the number of rows changed.
func (r *Repo) RewritePathPrefix(ctx context.Context, domainID uuid.UUID, oldPrefix, newPrefix string) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := q.Exec(ctx, rewritePathPrefixSQL, domainID, oldPrefix, newPrefix)
	if err != nil {
		return 0, fmt.Errorf("rewrite path prefix: %w", err)
	}
	return ct.RowsAffected(), nil
}
