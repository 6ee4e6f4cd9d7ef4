package element

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// Ancestors returns the element's ancestor chain ordered nearest-first
// (parent, grandparent, ...). The walk carries a visited set so a corrupted
// cyclic parent chain terminates instead of looping.
func (s *Service) Ancestors(ctx context.Context, domainID, elementID uuid.UUID) ([]*domain.Element, error) {
	e, err := s.getElement(ctx, domainID, elementID)
	if err != nil {
		return nil, err
	}

	visited := map[uuid.UUID]struct{}{e.ID: {}}
	var out []*domain.Element

	cur := e
	for cur.ParentID != nil {
		if len(out) >= s.limits.MaxTreeDepth {
			return nil, fmt.Errorf("ancestor chain of element %s exceeds depth %d", elementID, s.limits.MaxTreeDepth)
		}
		if _, ok := visited[*cur.ParentID]; ok {
			return nil, fmt.Errorf("ancestor chain of element %s contains a cycle at %s", elementID, *cur.ParentID)
		}

		parent, err := s.getElement(ctx, domainID, *cur.ParentID)
		if err != nil {
			return nil, err
		}
		visited[parent.ID] = struct{}{}
		out = append(out, parent)
		cur = parent
	}
	return out, nil
}

// Descendants returns every element under the given one, ordered
// nearest-first: children before grandchildren, siblings by path.
func (s *Service) Descendants(ctx context.Context, domainID, elementID uuid.UUID) ([]*domain.Element, error) {
	e, err := s.getElement(ctx, domainID, elementID)
	if err != nil {
		return nil, err
	}

	out, err := s.elements.ListByPathPrefix(ctx, domainID, e.Path+domain.PathSeparator)
	if err != nil {
		return nil, fmt.Errorf("list descendants: %w", err)
	}

	sort.Slice(out, func(i, j int) bool {
		di := strings.Count(out[i].Path, domain.PathSeparator)
		dj := strings.Count(out[j].Path, domain.PathSeparator)
		if di != dj {
			return di < dj
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}
