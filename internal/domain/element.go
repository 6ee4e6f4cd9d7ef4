package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PathSeparator joins element ids in a materialized tree path.
const PathSeparator = "/"

// Element is a concrete inventory node instantiated from a class and placed
// in a tree within a domain. Path is the materialized root-to-self id path
// ("/<rootID>/../<selfID>") and must stay consistent with the live parent
// chain; it doubles as the stable sort key for search.
type Element struct {
	ID            uuid.UUID
	DomainID      uuid.UUID
	ClassID       uuid.UUID
	ParentID      *uuid.UUID
	Name          string
	Path          string
	ImplementedBy *uuid.UUID
	Attributes    AttributeValues
	TagIDs        []uuid.UUID
	CreatedAt     time.Time
	CreatedBy     string
	UpdatedAt     time.Time
	UpdatedBy     string
}

// IsRoot reports whether the element has no parent.
func (e *Element) IsRoot() bool { return e.ParentID == nil }

// HasTag reports whether the element references the given tag id.
func (e *Element) HasTag(id uuid.UUID) bool {
	for _, t := range e.TagIDs {
		if t == id {
			return true
		}
	}
	return false
}

// ChildPath returns the materialized path for a child of this element.
func (e *Element) ChildPath(childID uuid.UUID) string {
	return e.Path + PathSeparator + childID.String()
}

// RootPath returns the materialized path for a root element.
func RootPath(id uuid.UUID) string {
	return PathSeparator + id.String()
}

// ParsePath splits a materialized path into element ids, root first.
func ParsePath(path string) ([]uuid.UUID, error) {
	trimmed := strings.Trim(path, PathSeparator)
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, PathSeparator)
	ids := make([]uuid.UUID, len(parts))
	for i, p := range parts {
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("path segment %q: %w", p, err)
		}
		ids[i] = id
	}
	return ids, nil
}

// AttributeHistory is an immutable revision record: the value an element
// attribute held before an update. One record is appended per changed
// attribute; records are never mutated or deleted.
type AttributeHistory struct {
	ID        uuid.UUID
	DomainID  uuid.UUID
	ElementID uuid.UUID
	Value     AttributeValue
	CreatedAt time.Time
	CreatedBy string
}
