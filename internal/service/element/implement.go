package element

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
	"github.com/croswell/inventario/pkg/ctxutil"
)

// CreateImplementation creates a concrete implementation element for a
// logical source element and links the source to it. The two writes are a
// saga: if linking the source fails, the freshly created implementation is
// deleted again so no orphan is left behind.
func (s *Service) CreateImplementation(ctx context.Context, input CreateImplementationInput) (*domain.Element, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	source, err := s.getElement(ctx, input.DomainID, input.SourceElementID)
	if err != nil {
		return nil, err
	}

	sourceClass, err := s.classes.GetClass(ctx, source.ClassID)
	if err != nil {
		return nil, err
	}
	if !containsID(sourceClass.ImplementedBy, input.Element.ClassID) {
		return nil, &domain.ImplementationClassMismatchError{
			SourceClassID:         source.ClassID,
			ImplementationClassID: input.Element.ClassID,
		}
	}

	impl, err := s.CreateElement(ctx, input.Element)
	if err != nil {
		return nil, err
	}

	actor, _ := ctxutil.ActorFromCtx(ctx)
	source.ImplementedBy = &impl.ID
	source.UpdatedBy = actor
	if _, err := s.elements.Save(ctx, source); err != nil {
		if delErr := s.elements.Delete(ctx, impl.DomainID, impl.ID); delErr != nil {
			s.log.ErrorContext(ctx, "compensating delete of implementation element failed",
				"element_id", impl.ID, "error", delErr)
		}
		return nil, &domain.TransactionSaveFailureError{
			Op:  fmt.Sprintf("link implementation %s to element %s", impl.ID, source.ID),
			Err: err,
		}
	}

	s.log.InfoContext(ctx, "implementation linked",
		"source_element_id", source.ID,
		"implementation_id", impl.ID,
		"domain_id", source.DomainID,
	)
	return impl, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
