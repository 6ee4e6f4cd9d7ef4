package element

import (
	"context"
	"errors"
	"fmt"

	"github.com/croswell/inventario/internal/domain"
)

// Search returns a path-ordered window of elements. Without an anchor it is
// a plain limited scan. With an anchor it returns up to ContextSize elements
// strictly before the anchor followed by up to Limit elements at or after
// it, all sorted ascending by path, so the caller can render the anchor in
// the middle of surrounding context.
func (s *Service) Search(ctx context.Context, input SearchInput) ([]*domain.Element, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = s.limits.SearchDefaultLimit
	}
	if limit > s.limits.SearchMaxLimit {
		limit = s.limits.SearchMaxLimit
	}
	contextSize := input.ContextSize
	if contextSize > s.limits.SearchMaxLimit {
		contextSize = s.limits.SearchMaxLimit
	}

	base := domain.ElementFilter{
		DomainID:     input.DomainID,
		TagIDs:       input.TagIDs,
		MatchAllTags: input.MatchAllTags,
		Text:         input.Text,
	}

	if input.AnchorID == nil {
		base.Limit = limit
		out, err := s.elements.Search(ctx, base)
		if err != nil {
			return nil, fmt.Errorf("search elements: %w", err)
		}
		return out, nil
	}

	anchor, err := s.elements.GetAnyByID(ctx, *input.AnchorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ElementNotFoundError{ID: *input.AnchorID}
		}
		return nil, fmt.Errorf("get anchor element: %w", err)
	}
	if input.DomainID != nil && anchor.DomainID != *input.DomainID {
		return nil, &domain.ElementNotFoundError{ID: *input.AnchorID}
	}

	var before []*domain.Element
	if contextSize > 0 {
		f := base
		f.PathBefore = anchor.Path
		f.SortDesc = true
		f.Limit = contextSize
		before, err = s.elements.Search(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("search elements before anchor: %w", err)
		}
		reverse(before)
	}

	f := base
	f.PathFrom = anchor.Path
	f.Limit = limit
	after, err := s.elements.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search elements from anchor: %w", err)
	}

	return append(before, after...), nil
}

func reverse(es []*domain.Element) {
	for i, j := 0, len(es)-1; i < j; i, j = i+1, j-1 {
		es[i], es[j] = es[j], es[i]
	}
}
