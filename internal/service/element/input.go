package element

import (
	"strings"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
	"github.com/croswell/inventario/internal/service/class"
)

// CreateElementInput holds the parameters for creating an element.
type CreateElementInput struct {
	DomainID   uuid.UUID
	ClassID    uuid.UUID
	ParentID   *uuid.UUID
	Name       string
	Attributes []class.AttributeInput
	TagIDs     []uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i CreateElementInput) Validate() error {
	var errs []domain.FieldError

	if i.DomainID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "domain_id", Message: "required"})
	}
	if i.ClassID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "class_id", Message: "required"})
	}
	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateElementInput holds the parameters for a partial element update.
// Nil pointers/slices mean "don't change". Supplied attributes are merged
// into the stored set by name; attributes not mentioned stay untouched.
type UpdateElementInput struct {
	DomainID   uuid.UUID
	ElementID  uuid.UUID
	Name       *string
	ParentID   *uuid.UUID
	MoveToRoot bool
	Attributes []class.AttributeInput
	TagIDs     []uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i UpdateElementInput) Validate() error {
	var errs []domain.FieldError

	if i.DomainID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "domain_id", Message: "required"})
	}
	if i.ElementID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "element_id", Message: "required"})
	}
	if i.Name != nil && strings.TrimSpace(*i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if i.MoveToRoot && i.ParentID != nil {
		errs = append(errs, domain.FieldError{Field: "parent_id", Message: "cannot both set a parent and move to root"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CreateImplementationInput holds the parameters for creating an
// implementation element for a logical source element.
type CreateImplementationInput struct {
	DomainID        uuid.UUID
	SourceElementID uuid.UUID
	Element         CreateElementInput
}

// Validate checks all fields and collects all errors.
func (i CreateImplementationInput) Validate() error {
	if i.SourceElementID == uuid.Nil {
		return domain.NewValidationError("source_element_id", "required")
	}
	return i.Element.Validate()
}

// SearchInput holds the parameters for path-ordered element search.
type SearchInput struct {
	// AnchorID positions the result window: up to ContextSize elements
	// strictly before the anchor, then up to Limit elements at or after it.
	AnchorID    *uuid.UUID
	ContextSize int
	Limit       int

	DomainID     *uuid.UUID
	TagIDs       []uuid.UUID
	MatchAllTags bool
	Text         string
}

// Validate checks all fields and collects all errors.
func (i SearchInput) Validate() error {
	var errs []domain.FieldError

	if i.ContextSize < 0 {
		errs = append(errs, domain.FieldError{Field: "context_size", Message: "must be >= 0"})
	}
	if i.ContextSize > 0 && i.AnchorID == nil {
		errs = append(errs, domain.FieldError{Field: "context_size", Message: "requires an anchor element"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
