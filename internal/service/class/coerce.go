package class

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// AttributeInput is a single name/value pair in wire form.
type AttributeInput struct {
	Name  string
	Value string
}

// CoerceAttributes validates the supplied name/value pairs against the
// effective schema of the class and converts each value into its typed form.
//
// Names are matched case-insensitively; the canonical name from the schema is
// used on the resulting value. A name absent from the schema fails with
// AttributeNotForClassError, an unparseable value with
// InvalidAttributeTypeError, a name supplied more than once with a
// validation error.
//
// requireMandatory selects full-create semantics: every schema attribute
// marked mandatory must appear in the input. Partial updates pass false and
// only the supplied attributes are validated.
func (s *Service) CoerceAttributes(ctx context.Context, classID uuid.UUID, inputs []AttributeInput, requireMandatory bool) ([]domain.AttributeValue, error) {
	schema, err := s.Resolve(ctx, classID)
	if err != nil {
		return nil, err
	}

	supplied := make(map[string]struct{}, len(inputs))
	values := make([]domain.AttributeValue, 0, len(inputs))

	for _, in := range inputs {
		def, ok := schema.Attribute(in.Name)
		if !ok {
			return nil, &domain.AttributeNotForClassError{
				Attribute: in.Name,
				Class:     schema.ClassName,
			}
		}

		v, err := domain.ParseAttributeValue(def.Name, def.Type, in.Value)
		if err != nil {
			return nil, err
		}

		key := strings.ToLower(def.Name)
		if _, dup := supplied[key]; dup {
			return nil, domain.NewValidationError(def.Name, "attribute supplied more than once")
		}
		supplied[key] = struct{}{}
		values = append(values, v)
	}

	if requireMandatory {
		var missing []domain.FieldError
		for _, def := range schema.Attributes {
			if !def.Mandatory {
				continue
			}
			if _, ok := supplied[strings.ToLower(def.Name)]; !ok {
				missing = append(missing, domain.FieldError{Field: def.Name, Message: "mandatory attribute missing"})
			}
		}
		if len(missing) > 0 {
			return nil, domain.NewValidationErrors(missing)
		}
	}

	return values, nil
}
