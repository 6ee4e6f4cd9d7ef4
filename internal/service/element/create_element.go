package element

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
	"github.com/croswell/inventario/pkg/ctxutil"
)

// CreateElement validates and creates an element in its domain's tree.
// Checks run in a fixed order so the caller always sees the most specific
// error first: domain, class, parent, placement rules, tags, attributes.
func (s *Service) CreateElement(ctx context.Context, input CreateElementInput) (*domain.Element, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	d, err := s.getDomain(ctx, input.DomainID)
	if err != nil {
		return nil, err
	}

	if _, err := s.classes.GetClass(ctx, input.ClassID); err != nil {
		return nil, err
	}

	var parent *domain.Element
	if input.ParentID != nil {
		parent, err = s.checkParent(ctx, input.DomainID, *input.ParentID, input.ClassID)
		if err != nil {
			return nil, err
		}
	}

	if err := checkTags(d, input.TagIDs); err != nil {
		return nil, err
	}

	attrs, err := s.classes.CoerceAttributes(ctx, input.ClassID, input.Attributes, true)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	path := domain.RootPath(id)
	if parent != nil {
		path = parent.ChildPath(id)
	}

	actor, _ := ctxutil.ActorFromCtx(ctx)
	e := &domain.Element{
		ID:         id,
		DomainID:   input.DomainID,
		ClassID:    input.ClassID,
		ParentID:   input.ParentID,
		Name:       strings.TrimSpace(input.Name),
		Path:       path,
		Attributes: attrs,
		TagIDs:     input.TagIDs,
		CreatedBy:  actor,
		UpdatedBy:  actor,
	}

	created, err := s.elements.Create(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create element: %w", err)
	}

	s.log.InfoContext(ctx, "element created",
		"element_id", created.ID,
		"domain_id", created.DomainID,
		"class_id", created.ClassID,
		"name", created.Name,
	)
	return created, nil
}

// checkParent verifies that the parent element exists in the same domain and
// that its class (transitively) permits children of the given class.
func (s *Service) checkParent(ctx context.Context, domainID, parentID, childClassID uuid.UUID) (*domain.Element, error) {
	parent, err := s.elements.GetAnyByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ElementNotFoundError{ID: parentID}
		}
		return nil, fmt.Errorf("get parent element: %w", err)
	}
	if parent.DomainID != domainID {
		return nil, &domain.ParentElementMismatchError{
			ParentDomainID: parent.DomainID,
			ChildDomainID:  domainID,
		}
	}

	permitted, err := s.classes.PermittedChildren(ctx, parent.ClassID)
	if err != nil {
		return nil, err
	}
	if _, ok := permitted[childClassID]; !ok {
		return nil, &domain.PermittedChildClassMismatchError{
			ParentClassID: parent.ClassID,
			ChildClassID:  childClassID,
		}
	}
	return parent, nil
}
