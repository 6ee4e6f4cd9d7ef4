// Package history implements the append-only attribute revision store using
// PostgreSQL. Records are inserted in a batch and never updated or deleted.
package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/croswell/inventario/internal/adapter/postgres"
	"github.com/croswell/inventario/internal/domain"
)

// Repo provides attribute history persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new history repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
INSERT INTO element_attribute_history (id, domain_id, element_id, value, created_by)
VALUES ($1, $2, $3, $4, $5)`

const listByElementSQL = `
SELECT id, domain_id, element_id, value, created_at, created_by
FROM element_attribute_history
WHERE domain_id = $1 AND element_id = $2
ORDER BY created_at DESC`

// Append inserts one revision record per changed attribute. Runs in the
// caller's transaction when one is in the context.
func (r *Repo) Append(ctx context.Context, records []domain.AttributeHistory) error {
	if len(records) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	batch := &pgx.Batch{}
	for _, rec := range records {
		valueRaw, err := domain.MarshalAttributeValue(rec.Value)
		if err != nil {
			return fmt.Errorf("encode history value: %w", err)
		}
		id := rec.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(insertSQL, id, rec.DomainID, rec.ElementID, valueRaw, rec.CreatedBy)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for range records {
		if _, err := results.Exec(); err != nil {
			return postgres.MapError(err, "attribute history", uuid.Nil)
		}
	}
	return nil
}

// ListByElement returns an element's revision records, newest first.
// Returns an empty slice (not nil) when the element has no history.
func (r *Repo) ListByElement(ctx context.Context, domainID, elementID uuid.UUID) ([]domain.AttributeHistory, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByElementSQL, domainID, elementID)
	if err != nil {
		return nil, fmt.Errorf("list attribute history: %w", err)
	}
	defer rows.Close()

	out := []domain.AttributeHistory{}
	for rows.Next() {
		var (
			rec      domain.AttributeHistory
			valueRaw []byte
		)
		if err := rows.Scan(&rec.ID, &rec.DomainID, &rec.ElementID, &valueRaw,
			&rec.CreatedAt, &rec.CreatedBy); err != nil {
			return nil, fmt.Errorf("list attribute history: %w", err)
		}
		if rec.Value, err = domain.UnmarshalAttributeValue(valueRaw); err != nil {
			return nil, fmt.Errorf("decode history value: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attribute history: %w", err)
	}
	return out, nil
}
