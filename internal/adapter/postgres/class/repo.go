// Package class implements the inventory class repository using PostgreSQL.
// Extends/permitted-children/implemented-by id lists are stored as uuid
// arrays, the attribute schema as a jsonb document.
package class

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

// Repo provides class persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new class repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
INSERT INTO classes (id, name, type, extends, permitted_children, implemented_by, attributes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, name, type, extends, permitted_children, implemented_by, attributes, created_at, updated_at`

const getByIDSQL = `
SELECT id, name, type, extends, permitted_children, implemented_by, attributes, created_at, updated_at
FROM classes
WHERE id = $1`

const updateSQL = `
UPDATE classes
SET name = $2, type = $3, extends = $4, permitted_children = $5,
    implemented_by = $6, attributes = $7, updated_at = now()
WHERE id = $1
RETURNING id, name, type, extends, permitted_children, implemented_by, attributes, created_at, updated_at`

const listSQL = `
SELECT id, name, type, extends, permitted_children, implemented_by, attributes, created_at, updated_at
FROM classes
ORDER BY name`

// attrDoc is the jsonb representation of one schema attribute.
type attrDoc struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Mandatory   bool   `json:"mandatory,omitempty"`
	Type        string `json:"type"`
	Unit        string `json:"unit,omitempty"`
}

func attrsToJSON(attrs []domain.Attribute) ([]byte, error) {
	docs := make([]attrDoc, len(attrs))
	for i, a := range attrs {
		docs[i] = attrDoc{
			Name:        a.Name,
			Description: a.Description,
			Mandatory:   a.Mandatory,
			Type:        string(a.Type),
			Unit:        a.Unit,
		}
	}
	return json.Marshal(docs)
}

func attrsFromJSON(data []byte) ([]domain.Attribute, error) {
	var docs []attrDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	attrs := make([]domain.Attribute, len(docs))
	for i, d := range docs {
		attrs[i] = domain.Attribute{
			Name:        d.Name,
			Description: d.Description,
			Mandatory:   d.Mandatory,
			Type:        domain.AttributeType(d.Type),
			Unit:        d.Unit,
		}
	}
	return attrs, nil
}

func scanClass(row pgx.Row) (*domain.Class, error) {
	var (
		c        domain.Class
		typ      string
		attrsRaw []byte
	)
	err := row.Scan(&c.ID, &c.Name, &typ, &c.Extends, &c.PermittedChildren,
		&c.ImplementedBy, &attrsRaw, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Type = domain.ClassType(typ)
	if c.Attributes, err = attrsFromJSON(attrsRaw); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a class. A duplicate name maps to domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	attrsRaw, err := attrsToJSON(c.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}

	created, err := scanClass(q.QueryRow(ctx, insertSQL,
		c.ID, c.Name, string(c.Type), c.Extends, c.PermittedChildren,
		c.ImplementedBy, attrsRaw))
	if err != nil {
		return nil, postgres.MapError(err, "class", c.ID)
	}
	return created, nil
}

// GetByID returns a class by primary key.
// Returns domain.ErrNotFound if the class does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Class, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	c, err := scanClass(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "class", id)
	}
	return c, nil
}

// Update replaces all mutable fields of a class.
func (r *Repo) Update(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	attrsRaw, err := attrsToJSON(c.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}

	updated, err := scanClass(q.QueryRow(ctx, updateSQL,
		c.ID, c.Name, string(c.Type), c.Extends, c.PermittedChildren,
		c.ImplementedBy, attrsRaw))
	if err != nil {
		return nil, postgres.MapError(err, "class", c.ID)
	}
	return updated, nil
}

// List returns all classes ordered by name.
// Returns an empty slice (not nil) when no classes exist.
func (r *Repo) List(ctx context.Context) ([]*domain.Class, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	out := []*domain.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("list classes: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return out, nil
}
