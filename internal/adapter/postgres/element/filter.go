package element

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/croswell/inventario/internal/adapter/postgres"
	"github.com/croswell/inventario/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Search runs a dynamic filtered range query ordered by path. Path bounds
// combine with the other filters, so the service can window around an anchor
// with two calls.
func (r *Repo) Search(ctx context.Context, f domain.ElementFilter) ([]*domain.Element, error) {
	b := psql.Select("id", "domain_id", "class_id", "parent_id", "name", "path",
		"implemented_by", "attributes", "tag_ids",
		"created_at", "created_by", "updated_at", "updated_by").
		From("elements")

	if f.DomainID != nil {
		b = b.Where(sq.Eq{"domain_id": *f.DomainID})
	}
	if f.Text != "" {
		b = b.Where(sq.ILike{"name": "%" + f.Text + "%"})
	}
	if f.PathBefore != "" {
		b = b.Where(sq.Lt{"path": f.PathBefore})
	}
	if f.PathFrom != "" {
		b = b.Where(sq.GtOrEq{"path": f.PathFrom})
	}
	if len(f.TagIDs) > 0 {
		if f.MatchAllTags {
			b = b.Where("tag_ids @> ?::uuid[]", f.TagIDs)
		} else {
			b = b.Where("tag_ids && ?::uuid[]", f.TagIDs)
		}
	}

	if f.SortDesc {
		b = b.OrderBy("path DESC")
	} else {
		b = b.OrderBy("path ASC")
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search elements: %w", err)
	}
	out, err := scanElements(rows)
	if err != nil {
		return nil, fmt.Errorf("search elements: %w", err)
	}
	return out, nil
}
