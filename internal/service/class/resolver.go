package class

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// Resolve computes the effective schema of a class: the union of its own
// attributes and every attribute declared anywhere in its extends-graph,
// plus the set of all ancestor class ids.
//
// Traversal is breadth-first with a visited set, so a class reachable through
// several paths is processed once and cycles cannot loop. Merging is by
// normalized attribute name: the declaration nearest to the starting class
// wins for description, mandatory, and unit, but the type must agree across
// every declaration of the same name; a mismatch fails resolution with
// AttributeTypeConflictError.
func (s *Service) Resolve(ctx context.Context, classID uuid.UUID) (*domain.ResolvedSchema, error) {
	if schema, ok := s.cached(classID); ok {
		return schema, nil
	}

	start, err := s.getClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	schema := &domain.ResolvedSchema{
		ClassID:   classID,
		ClassName: start.Name,
		Ancestors: make(map[uuid.UUID]struct{}),
	}

	visited := map[uuid.UUID]struct{}{classID: {}}
	seen := make(map[string]int) // normalized attribute name -> index in schema.Attributes
	queue := []*domain.Class{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, attr := range current.Attributes {
			key := strings.ToLower(attr.Name)
			if i, ok := seen[key]; ok {
				// Nearer declaration already merged; only the type must agree.
				if schema.Attributes[i].Type != attr.Type {
					return nil, &domain.AttributeTypeConflictError{
						Attribute: attr.Name,
						TypeA:     schema.Attributes[i].Type,
						TypeB:     attr.Type,
					}
				}
				continue
			}
			seen[key] = len(schema.Attributes)
			schema.Attributes = append(schema.Attributes, attr)
		}

		for _, parentID := range current.Extends {
			if _, ok := visited[parentID]; ok {
				continue
			}
			visited[parentID] = struct{}{}

			parent, err := s.getClass(ctx, parentID)
			if err != nil {
				return nil, err
			}
			schema.Ancestors[parentID] = struct{}{}
			queue = append(queue, parent)
		}
	}

	s.store(classID, schema)
	return schema, nil
}

// PermittedChildren returns the transitively resolved set of class ids that
// elements of the given class may parent: the class's own permitted-child
// list unioned with every ancestor's.
func (s *Service) PermittedChildren(ctx context.Context, classID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	schema, err := s.Resolve(ctx, classID)
	if err != nil {
		return nil, err
	}

	permitted := make(map[uuid.UUID]struct{})

	collect := func(id uuid.UUID) error {
		c, err := s.getClass(ctx, id)
		if err != nil {
			return err
		}
		for _, childID := range c.PermittedChildren {
			permitted[childID] = struct{}{}
		}
		return nil
	}

	if err := collect(classID); err != nil {
		return nil, err
	}
	for ancestorID := range schema.Ancestors {
		if err := collect(ancestorID); err != nil {
			return nil, err
		}
	}

	return permitted, nil
}

// getClass fetches a class, translating the repository's not-found into the
// typed kind carrying the missing id.
func (s *Service) getClass(ctx context.Context, id uuid.UUID) (*domain.Class, error) {
	c, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ClassNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return c, nil
}
