package class

import (
	"strings"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// AttributeDefInput describes one attribute definition on a class.
type AttributeDefInput struct {
	Name        string
	Description string
	Mandatory   bool
	Type        domain.AttributeType
	Unit        string
}

// CreateClassInput holds the parameters for creating a class.
type CreateClassInput struct {
	Name              string
	Type              domain.ClassType
	Extends           []uuid.UUID
	PermittedChildren []uuid.UUID
	ImplementedBy     []uuid.UUID
	Attributes        []AttributeDefInput
}

// Validate checks all fields and collects all errors.
func (i CreateClassInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown class type"})
	}
	errs = append(errs, validateAttributeDefs(i.Attributes)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateClassInput holds the parameters for updating a class.
// Nil slices/pointers mean "don't change".
type UpdateClassInput struct {
	ClassID           uuid.UUID
	Name              *string
	Extends           []uuid.UUID
	PermittedChildren []uuid.UUID
	ImplementedBy     []uuid.UUID
	Attributes        []AttributeDefInput
}

// Validate checks all fields and collects all errors.
func (i UpdateClassInput) Validate() error {
	var errs []domain.FieldError

	if i.ClassID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "class_id", Message: "required"})
	}
	if i.Name != nil && strings.TrimSpace(*i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	errs = append(errs, validateAttributeDefs(i.Attributes)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// validateAttributeDefs checks attribute definitions: non-empty names, known
// types, and names unique within the class (case-insensitive).
func validateAttributeDefs(defs []AttributeDefInput) []domain.FieldError {
	var errs []domain.FieldError

	seen := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			errs = append(errs, domain.FieldError{Field: "attributes", Message: "attribute name required"})
			continue
		}
		if !d.Type.IsValid() {
			errs = append(errs, domain.FieldError{Field: name, Message: "unknown attribute type"})
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			errs = append(errs, domain.FieldError{Field: name, Message: "duplicate attribute name"})
		}
		seen[key] = struct{}{}
	}

	return errs
}

func toAttributes(defs []AttributeDefInput) []domain.Attribute {
	attrs := make([]domain.Attribute, len(defs))
	for i, d := range defs {
		attrs[i] = domain.Attribute{
			Name:        strings.TrimSpace(d.Name),
			Description: d.Description,
			Mandatory:   d.Mandatory,
			Type:        d.Type,
			Unit:        d.Unit,
		}
	}
	return attrs
}
