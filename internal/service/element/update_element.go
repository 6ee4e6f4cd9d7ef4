package element

import (
	"context"
	"fmt"
	"strings"

	"github.com/croswell/inventario/internal/domain"
	"github.com/croswell/inventario/pkg/ctxutil"
)

// UpdateElement applies a partial update to an element. Supplied attributes
// are merged by name; for every attribute whose typed value changes, one
// history record holding the pre-update value is appended. The diff, the
// history append and the element save run in a single transaction.
func (s *Service) UpdateElement(ctx context.Context, input UpdateElementInput) (*domain.Element, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	d, err := s.getDomain(ctx, input.DomainID)
	if err != nil {
		return nil, err
	}
	if input.TagIDs != nil {
		if err := checkTags(d, input.TagIDs); err != nil {
			return nil, err
		}
	}

	actor, _ := ctxutil.ActorFromCtx(ctx)

	var updated *domain.Element
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.getElement(ctx, input.DomainID, input.ElementID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			e.Name = strings.TrimSpace(*input.Name)
		}
		if input.TagIDs != nil {
			e.TagIDs = input.TagIDs
		}

		var history []domain.AttributeHistory
		if len(input.Attributes) > 0 {
			coerced, err := s.classes.CoerceAttributes(ctx, e.ClassID, input.Attributes, false)
			if err != nil {
				return err
			}
			for _, nv := range coerced {
				old, ok := e.Attributes.Get(nv.AttrName())
				if !ok || old.Equal(nv) {
					continue
				}
				history = append(history, domain.AttributeHistory{
					DomainID:  e.DomainID,
					ElementID: e.ID,
					Value:     old,
					CreatedBy: actor,
				})
			}
			e.Attributes = e.Attributes.Merge(coerced)
		}

		oldPath := e.Path
		moved := false
		switch {
		case input.MoveToRoot && !e.IsRoot():
			e.ParentID = nil
			e.Path = domain.RootPath(e.ID)
			moved = true
		case input.ParentID != nil:
			if *input.ParentID == e.ID {
				return domain.NewValidationError("parent_id", "element cannot be its own parent")
			}
			parent, err := s.checkParent(ctx, e.DomainID, *input.ParentID, e.ClassID)
			if err != nil {
				return err
			}
			if strings.HasPrefix(parent.Path+domain.PathSeparator, oldPath+domain.PathSeparator) {
				return domain.NewValidationError("parent_id", "element cannot be moved under its own descendant")
			}
			if e.ParentID == nil || *e.ParentID != parent.ID {
				e.ParentID = input.ParentID
				e.Path = parent.ChildPath(e.ID)
				moved = true
			}
		}

		if len(history) > 0 {
			if err := s.history.Append(ctx, history); err != nil {
				return fmt.Errorf("append attribute history: %w", err)
			}
		}

		e.UpdatedBy = actor
		updated, err = s.elements.Save(ctx, e)
		if err != nil {
			return fmt.Errorf("save element: %w", err)
		}

		if moved {
			n, err := s.elements.RewritePathPrefix(ctx, e.DomainID,
				oldPath+domain.PathSeparator, updated.Path+domain.PathSeparator)
			if err != nil {
				return fmt.Errorf("rewrite descendant paths: %w", err)
			}
			s.log.InfoContext(ctx, "element moved",
				"element_id", e.ID, "descendants_rewritten", n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "element updated",
		"element_id", updated.ID, "domain_id", updated.DomainID)
	return updated, nil
}
