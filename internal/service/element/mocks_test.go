package element

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// elementRepoFake is a map-backed elementRepo with optional per-method
// overrides. Search implements the full filter semantics in memory so the
// anchor/context window logic can be tested without a database.
type elementRepoFake struct {
	mu       sync.Mutex
	elements map[uuid.UUID]*domain.Element

	CreateFunc func(ctx context.Context, e *domain.Element) (*domain.Element, error)
	SaveFunc   func(ctx context.Context, e *domain.Element) (*domain.Element, error)
	DeleteFunc func(ctx context.Context, domainID, id uuid.UUID) error
}

func newElementRepoFake(elements ...*domain.Element) *elementRepoFake {
	f := &elementRepoFake{elements: make(map[uuid.UUID]*domain.Element)}
	for _, e := range elements {
		f.elements[e.ID] = e
	}
	return f
}

func (f *elementRepoFake) Create(ctx context.Context, e *domain.Element) (*domain.Element, error) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, e)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.elements {
		if existing.DomainID == e.DomainID && existing.Name == e.Name {
			return nil, fmt.Errorf("element %q: %w", e.Name, domain.ErrAlreadyExists)
		}
	}
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	f.elements[e.ID] = e
	cp := *e
	return &cp, nil
}

func (f *elementRepoFake) GetByID(ctx context.Context, domainID, id uuid.UUID) (*domain.Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.elements[id]
	if !ok || e.DomainID != domainID {
		return nil, fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (f *elementRepoFake) GetAnyByID(ctx context.Context, id uuid.UUID) (*domain.Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.elements[id]
	if !ok {
		return nil, fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (f *elementRepoFake) GetByIDs(ctx context.Context, domainID uuid.UUID, ids []uuid.UUID) ([]*domain.Element, error) {
	out := make([]*domain.Element, 0, len(ids))
	for _, id := range ids {
		e, err := f.GetByID(ctx, domainID, id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *elementRepoFake) Save(ctx context.Context, e *domain.Element) (*domain.Element, error) {
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, e)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.elements[e.ID]; !ok {
		return nil, fmt.Errorf("element %s: %w", e.ID, domain.ErrNotFound)
	}
	e.UpdatedAt = time.Now()
	f.elements[e.ID] = e
	cp := *e
	return &cp, nil
}

func (f *elementRepoFake) Delete(ctx context.Context, domainID, id uuid.UUID) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, domainID, id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.elements[id]
	if !ok || e.DomainID != domainID {
		return fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
	}
	delete(f.elements, id)
	return nil
}

func (f *elementRepoFake) ListByPathPrefix(ctx context.Context, domainID uuid.UUID, prefix string) ([]*domain.Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Element
	for _, e := range f.elements {
		if e.DomainID == domainID && strings.HasPrefix(e.Path, prefix) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *elementRepoFake) RewritePathPrefix(ctx context.Context, domainID uuid.UUID, oldPrefix, newPrefix string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.elements {
		if e.DomainID == domainID && strings.HasPrefix(e.Path, oldPrefix) {
			e.Path = newPrefix + strings.TrimPrefix(e.Path, oldPrefix)
			n++
		}
	}
	return n, nil
}

func (f *elementRepoFake) Search(ctx context.Context, filter domain.ElementFilter) ([]*domain.Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Element
	for _, e := range f.elements {
		if !matchesFilter(e, filter) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if filter.SortDesc {
			return out[i].Path > out[j].Path
		}
		return out[i].Path < out[j].Path
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchesFilter(e *domain.Element, f domain.ElementFilter) bool {
	if f.DomainID != nil && e.DomainID != *f.DomainID {
		return false
	}
	if f.Text != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Text)) {
		return false
	}
	if f.PathBefore != "" && e.Path >= f.PathBefore {
		return false
	}
	if f.PathFrom != "" && e.Path < f.PathFrom {
		return false
	}
	if len(f.TagIDs) > 0 {
		matched := 0
		for _, id := range f.TagIDs {
			if e.HasTag(id) {
				matched++
			}
		}
		if f.MatchAllTags && matched != len(f.TagIDs) {
			return false
		}
		if !f.MatchAllTags && matched == 0 {
			return false
		}
	}
	return true
}

// domainRepoFake is a map-backed domainRepo.
type domainRepoFake struct {
	domains map[uuid.UUID]*domain.Domain
}

func newDomainRepoFake(domains ...*domain.Domain) *domainRepoFake {
	f := &domainRepoFake{domains: make(map[uuid.UUID]*domain.Domain)}
	for _, d := range domains {
		f.domains[d.ID] = d
	}
	return f
}

func (f *domainRepoFake) GetByID(ctx context.Context, id uuid.UUID) (*domain.Domain, error) {
	d, ok := f.domains[id]
	if !ok {
		return nil, fmt.Errorf("domain %s: %w", id, domain.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

// classStore is a map-backed class repository fed to the real class service,
// so element tests exercise genuine schema resolution and coercion.
type classStore struct {
	classes map[uuid.UUID]*domain.Class
}

func newClassStore(classes ...*domain.Class) *classStore {
	s := &classStore{classes: make(map[uuid.UUID]*domain.Class)}
	for _, c := range classes {
		s.classes[c.ID] = c
	}
	return s
}

func (s *classStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Class, error) {
	c, ok := s.classes[id]
	if !ok {
		return nil, fmt.Errorf("class %s: %w", id, domain.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *classStore) Create(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	s.classes[c.ID] = c
	return c, nil
}

func (s *classStore) Update(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	if _, ok := s.classes[c.ID]; !ok {
		return nil, fmt.Errorf("class %s: %w", c.ID, domain.ErrNotFound)
	}
	s.classes[c.ID] = c
	return c, nil
}

func (s *classStore) List(ctx context.Context) ([]*domain.Class, error) {
	out := make([]*domain.Class, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, c)
	}
	return out, nil
}

// historyRepoFake records appended revisions in memory.
type historyRepoFake struct {
	mu      sync.Mutex
	records []domain.AttributeHistory

	AppendFunc func(ctx context.Context, records []domain.AttributeHistory) error
}

func (f *historyRepoFake) Append(ctx context.Context, records []domain.AttributeHistory) error {
	if f.AppendFunc != nil {
		return f.AppendFunc(ctx, records)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range records {
		r.ID = uuid.New()
		r.CreatedAt = time.Now()
		f.records = append(f.records, r)
	}
	return nil
}

func (f *historyRepoFake) ListByElement(ctx context.Context, domainID, elementID uuid.UUID) ([]domain.AttributeHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AttributeHistory
	for _, r := range f.records {
		if r.DomainID == domainID && r.ElementID == elementID {
			out = append(out, r)
		}
	}
	return out, nil
}

// txManagerFake runs the function directly; atomicity is the real
// TxManager's concern.
type txManagerFake struct{}

func (txManagerFake) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
