// Package class implements inventory class management: class CRUD, effective
// schema resolution over the multi-parent extends-graph, and attribute value
// coercion against the resolved schema.
package class

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

type classRepo interface {
	Create(ctx context.Context, class *domain.Class) (*domain.Class, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Class, error)
	Update(ctx context.Context, class *domain.Class) (*domain.Class, error)
	List(ctx context.Context) ([]*domain.Class, error)
}

// Service provides class management and schema resolution.
//
// Resolved schemas are memoized per class id. The cache is cleared wholesale
// on any class mutation: extends-graphs are small and shared, so tracking
// which cached entries a mutation reaches is not worth the bookkeeping.
type Service struct {
	classes classRepo
	log     *slog.Logger

	mu    sync.RWMutex
	cache map[uuid.UUID]*domain.ResolvedSchema
}

// NewService creates a new Class service.
func NewService(log *slog.Logger, classes classRepo) *Service {
	return &Service{
		classes: classes,
		log:     log.With("service", "class"),
		cache:   make(map[uuid.UUID]*domain.ResolvedSchema),
	}
}

// invalidate drops all memoized schemas. Called on every class mutation.
func (s *Service) invalidate() {
	s.mu.Lock()
	s.cache = make(map[uuid.UUID]*domain.ResolvedSchema)
	s.mu.Unlock()
}

func (s *Service) cached(id uuid.UUID) (*domain.ResolvedSchema, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schema, ok := s.cache[id]
	return schema, ok
}

func (s *Service) store(id uuid.UUID, schema *domain.ResolvedSchema) {
	s.mu.Lock()
	s.cache[id] = schema
	s.mu.Unlock()
}
