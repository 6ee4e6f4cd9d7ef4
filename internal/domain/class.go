package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClassType is the structural category of an inventory class.
type ClassType string

const (
	ClassTypeBuilding     ClassType = "BUILDING"
	ClassTypeFloor        ClassType = "FLOOR"
	ClassTypeRoom         ClassType = "ROOM"
	ClassTypeItem         ClassType = "ITEM"
	ClassTypeItemHardware ClassType = "ITEM_HARDWARE"
	ClassTypeItemSoftware ClassType = "ITEM_SOFTWARE"
	ClassTypeConnector    ClassType = "CONNECTOR"
	ClassTypeCable        ClassType = "CABLE"
)

func (t ClassType) String() string { return string(t) }

func (t ClassType) IsValid() bool {
	switch t {
	case ClassTypeBuilding, ClassTypeFloor, ClassTypeRoom, ClassTypeItem,
		ClassTypeItemHardware, ClassTypeItemSoftware, ClassTypeConnector, ClassTypeCable:
		return true
	}
	return false
}

// Attribute is a single attribute definition within a class schema.
type Attribute struct {
	Name        string
	Description string
	Mandatory   bool
	Type        AttributeType
	Unit        string
}

// Class is a reusable element type: an attribute schema plus placement and
// implementation rules. Extends forms a DAG; multiple parents are allowed
// and a class may be reachable through several paths.
type Class struct {
	ID                uuid.UUID
	Name              string
	Type              ClassType
	Extends           []uuid.UUID
	PermittedChildren []uuid.UUID
	ImplementedBy     []uuid.UUID
	Attributes        []Attribute
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ResolvedSchema is the effective attribute set of a class after walking its
// full extends-graph, plus every ancestor class id visited on the way.
type ResolvedSchema struct {
	ClassID    uuid.UUID
	ClassName  string
	Attributes []Attribute
	Ancestors  map[uuid.UUID]struct{}
}

// Attribute looks up an attribute definition by case-insensitive name.
func (s *ResolvedSchema) Attribute(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attribute{}, false
}

// AncestorIDs returns the ancestor set as a slice, for display and DTOs.
func (s *ResolvedSchema) AncestorIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Ancestors))
	for id := range s.Ancestors {
		ids = append(ids, id)
	}
	return ids
}

// NormalizeName canonicalizes class, domain, and tag names: trimmed,
// lowercased, inner spaces replaced with hyphens.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
