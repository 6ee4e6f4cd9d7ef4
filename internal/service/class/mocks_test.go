package class

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// classRepoFake is a map-backed classRepo with optional per-method overrides.
type classRepoFake struct {
	mu      sync.Mutex
	classes map[uuid.UUID]*domain.Class

	getCalls int

	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Class, error)
	CreateFunc  func(ctx context.Context, c *domain.Class) (*domain.Class, error)
	UpdateFunc  func(ctx context.Context, c *domain.Class) (*domain.Class, error)
}

func newClassRepoFake(classes ...*domain.Class) *classRepoFake {
	f := &classRepoFake{classes: make(map[uuid.UUID]*domain.Class)}
	for _, c := range classes {
		f.classes[c.ID] = c
	}
	return f
}

func (f *classRepoFake) GetByID(ctx context.Context, id uuid.UUID) (*domain.Class, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()

	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}

	c, ok := f.classes[id]
	if !ok {
		return nil, fmt.Errorf("class %s: %w", id, domain.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *classRepoFake) Create(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, c)
	}
	for _, existing := range f.classes {
		if existing.Name == c.Name {
			return nil, fmt.Errorf("class %q: %w", c.Name, domain.ErrAlreadyExists)
		}
	}
	f.classes[c.ID] = c
	return c, nil
}

func (f *classRepoFake) Update(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, c)
	}
	if _, ok := f.classes[c.ID]; !ok {
		return nil, fmt.Errorf("class %s: %w", c.ID, domain.ErrNotFound)
	}
	f.classes[c.ID] = c
	return c, nil
}

func (f *classRepoFake) List(ctx context.Context) ([]*domain.Class, error) {
	out := make([]*domain.Class, 0, len(f.classes))
	for _, c := range f.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *classRepoFake) GetCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}
