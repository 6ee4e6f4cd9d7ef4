package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ---------------------------------------------------------------------------
// Typed error kinds
//
// Every failure the core can raise is a distinct struct so callers match the
// exact kind with errors.As, and each unwraps onto a sentinel so the
// transport layer can map broad categories with errors.Is.
// ---------------------------------------------------------------------------

// ClassNotFoundError indicates a referenced inventory class does not exist.
// Raised for direct lookups and for missing ancestors during schema
// resolution; ID carries the missing class id.
type ClassNotFoundError struct {
	ID uuid.UUID
}

func (e *ClassNotFoundError) Error() string { return fmt.Sprintf("class %s: not found", e.ID) }
func (e *ClassNotFoundError) Unwrap() error { return ErrNotFound }

// DomainNotFoundError indicates the tenancy domain does not exist.
type DomainNotFoundError struct {
	ID uuid.UUID
}

func (e *DomainNotFoundError) Error() string { return fmt.Sprintf("domain %s: not found", e.ID) }
func (e *DomainNotFoundError) Unwrap() error { return ErrNotFound }

// ElementNotFoundError indicates an element does not exist within the
// requested domain.
type ElementNotFoundError struct {
	ID uuid.UUID
}

func (e *ElementNotFoundError) Error() string { return fmt.Sprintf("element %s: not found", e.ID) }
func (e *ElementNotFoundError) Unwrap() error { return ErrNotFound }

// TagNotFoundError indicates a tag id is not registered in the domain.
type TagNotFoundError struct {
	ID       uuid.UUID
	DomainID uuid.UUID
}

func (e *TagNotFoundError) Error() string {
	return fmt.Sprintf("tag %s: not found in domain %s", e.ID, e.DomainID)
}
func (e *TagNotFoundError) Unwrap() error { return ErrNotFound }

// TagInUseError indicates a tag cannot be removed because elements still
// reference it.
type TagInUseError struct {
	ID       uuid.UUID
	DomainID uuid.UUID
}

func (e *TagInUseError) Error() string {
	return fmt.Sprintf("tag %s: in use in domain %s", e.ID, e.DomainID)
}
func (e *TagInUseError) Unwrap() error { return ErrConflict }

// DomainAlreadyExistsError indicates a domain with the same normalized name
// already exists.
type DomainAlreadyExistsError struct {
	Name string
}

func (e *DomainAlreadyExistsError) Error() string {
	return fmt.Sprintf("domain %q: already exists", e.Name)
}
func (e *DomainAlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// AttributeNotForClassError indicates a supplied attribute name is absent
// from the effective schema of the target class.
type AttributeNotForClassError struct {
	Attribute string
	Class     string
}

func (e *AttributeNotForClassError) Error() string {
	return fmt.Sprintf("attribute %q: not defined for class %q", e.Attribute, e.Class)
}
func (e *AttributeNotForClassError) Unwrap() error { return ErrValidation }

// InvalidAttributeTypeError indicates a raw value could not be parsed into
// the attribute's declared type, or the type tag itself is unknown.
type InvalidAttributeTypeError struct {
	Attribute string
	Type      AttributeType
	Raw       string
}

func (e *InvalidAttributeTypeError) Error() string {
	return fmt.Sprintf("attribute %q: value %q is not a valid %s", e.Attribute, e.Raw, e.Type)
}
func (e *InvalidAttributeTypeError) Unwrap() error { return ErrValidation }

// AttributeTypeConflictError indicates two classes in an extends-graph
// declare the same attribute name with different types. This is a schema
// definition error surfaced at resolve time, never silently resolved.
type AttributeTypeConflictError struct {
	Attribute string
	TypeA     AttributeType
	TypeB     AttributeType
}

func (e *AttributeTypeConflictError) Error() string {
	return fmt.Sprintf("attribute %q: conflicting types %s and %s in class hierarchy",
		e.Attribute, e.TypeA, e.TypeB)
}
func (e *AttributeTypeConflictError) Unwrap() error { return ErrConflict }

// PermittedChildClassMismatchError indicates the parent element's class does
// not permit the child's class.
type PermittedChildClassMismatchError struct {
	ParentClassID uuid.UUID
	ChildClassID  uuid.UUID
}

func (e *PermittedChildClassMismatchError) Error() string {
	return fmt.Sprintf("class %s: not a permitted child of class %s", e.ChildClassID, e.ParentClassID)
}
func (e *PermittedChildClassMismatchError) Unwrap() error { return ErrValidation }

// ImplementationClassMismatchError indicates the implementation element's
// class is not listed in the source class's implemented-by set.
type ImplementationClassMismatchError struct {
	SourceClassID         uuid.UUID
	ImplementationClassID uuid.UUID
}

func (e *ImplementationClassMismatchError) Error() string {
	return fmt.Sprintf("class %s: not a permitted implementation of class %s",
		e.ImplementationClassID, e.SourceClassID)
}
func (e *ImplementationClassMismatchError) Unwrap() error { return ErrValidation }

// ParentElementMismatchError indicates the parent element belongs to a
// different domain than the child.
type ParentElementMismatchError struct {
	ParentDomainID uuid.UUID
	ChildDomainID  uuid.UUID
}

func (e *ParentElementMismatchError) Error() string {
	return fmt.Sprintf("parent belongs to domain %s, element to domain %s",
		e.ParentDomainID, e.ChildDomainID)
}
func (e *ParentElementMismatchError) Unwrap() error { return ErrValidation }

// TransactionSaveFailureError indicates the second write of a two-write
// operation failed. The first write has been compensated; Err holds the
// underlying storage failure.
type TransactionSaveFailureError struct {
	Op  string
	Err error
}

func (e *TransactionSaveFailureError) Error() string {
	return fmt.Sprintf("%s: save failed during transaction: %v", e.Op, e.Err)
}
func (e *TransactionSaveFailureError) Unwrap() error { return e.Err }
