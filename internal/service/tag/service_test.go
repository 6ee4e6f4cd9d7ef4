package tag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
)

// tagRepoFake implements the atomic insert-if-absent primitive with a mutex,
// mirroring what the store guarantees.
type tagRepoFake struct {
	mu   sync.Mutex
	tags map[uuid.UUID]domain.Tag

	inUse map[uuid.UUID]bool

	EnsureFunc func(ctx context.Context, domainID uuid.UUID, name string) (*domain.Tag, error)
}

func newTagRepoFake() *tagRepoFake {
	return &tagRepoFake{
		tags:  make(map[uuid.UUID]domain.Tag),
		inUse: make(map[uuid.UUID]bool),
	}
}

func (f *tagRepoFake) Ensure(ctx context.Context, domainID uuid.UUID, name string) (*domain.Tag, error) {
	if f.EnsureFunc != nil {
		return f.EnsureFunc(ctx, domainID, name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tags {
		if t.DomainID == domainID && t.Name == name {
			cp := t
			return &cp, nil
		}
	}
	t := domain.Tag{ID: uuid.New(), DomainID: domainID, Name: name}
	f.tags[t.ID] = t
	cp := t
	return &cp, nil
}

// Delete mirrors the store's conditional delete: a referenced tag is left
// in place and reported as a conflict.
func (f *tagRepoFake) Delete(ctx context.Context, domainID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tags[id]
	if !ok || t.DomainID != domainID {
		return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}
	if f.inUse[id] {
		return fmt.Errorf("tag %s: %w", id, domain.ErrConflict)
	}
	delete(f.tags, id)
	return nil
}

func (f *tagRepoFake) ListByDomain(ctx context.Context, domainID uuid.UUID) ([]domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Tag
	for _, t := range f.tags {
		if t.DomainID == domainID {
			out = append(out, t)
		}
	}
	return out, nil
}

type domainRepoFake struct {
	domains map[uuid.UUID]*domain.Domain
}

func (f *domainRepoFake) GetByID(ctx context.Context, id uuid.UUID) (*domain.Domain, error) {
	d, ok := f.domains[id]
	if !ok {
		return nil, fmt.Errorf("domain %s: %w", id, domain.ErrNotFound)
	}
	return d, nil
}

func newTestService(t *testing.T) (*Service, *tagRepoFake, uuid.UUID) {
	t.Helper()
	d := &domain.Domain{ID: uuid.New(), Name: "datacenter-west"}
	repo := newTagRepoFake()
	svc := NewService(slog.Default(), repo, &domainRepoFake{
		domains: map[uuid.UUID]*domain.Domain{d.ID: d},
	})
	return svc, repo, d.ID
}

func TestEnsure_CreatesThenReturnsSame(t *testing.T) {
	t.Parallel()

	svc, _, domainID := newTestService(t)
	ctx := context.Background()

	first, err := svc.Ensure(ctx, domainID, "Prod Servers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Name != "prod-servers" {
		t.Errorf("name not normalized: got %q", first.Name)
	}

	second, err := svc.Ensure(ctx, domainID, "prod servers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("ensure not idempotent: got %s and %s", first.ID, second.ID)
	}
}

func TestEnsure_EmptyName(t *testing.T) {
	t.Parallel()

	svc, _, domainID := newTestService(t)
	_, err := svc.Ensure(context.Background(), domainID, "   ")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestEnsure_DomainNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.Ensure(context.Background(), uuid.New(), "prod")

	var notFound *domain.DomainNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want DomainNotFoundError", err)
	}
}

// 100 callers spread over 5 workers must all observe the same tag id.
func TestEnsure_ConcurrentCallersConverge(t *testing.T) {
	t.Parallel()

	svc, _, domainID := newTestService(t)
	ctx := context.Background()

	const callers = 100
	const workers = 5

	jobs := make(chan int)
	ids := make(chan uuid.UUID, callers)
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				tg, err := svc.Ensure(ctx, domainID, "prod")
				if err != nil {
					errs <- err
					continue
				}
				ids <- tg.ID
			}
		}()
	}

	for i := 0; i < callers; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("ensure failed under load: %v", err)
	}

	distinct := make(map[uuid.UUID]struct{})
	n := 0
	for id := range ids {
		distinct[id] = struct{}{}
		n++
	}
	if n != callers {
		t.Fatalf("results: got %d, want %d", n, callers)
	}
	if len(distinct) != 1 {
		t.Errorf("distinct tag ids: got %d, want 1", len(distinct))
	}
}

func TestRemove_Success(t *testing.T) {
	t.Parallel()

	svc, _, domainID := newTestService(t)
	ctx := context.Background()

	tg, err := svc.Ensure(ctx, domainID, "prod")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if err := svc.Remove(ctx, domainID, tg.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tags, err := svc.List(ctx, domainID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("tags after remove: got %d, want 0", len(tags))
	}
}

func TestRemove_InUse(t *testing.T) {
	t.Parallel()

	svc, repo, domainID := newTestService(t)
	ctx := context.Background()

	tg, err := svc.Ensure(ctx, domainID, "prod")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	repo.inUse[tg.ID] = true

	err = svc.Remove(ctx, domainID, tg.ID)
	var inUse *domain.TagInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("got %v, want TagInUseError", err)
	}
	if inUse.ID != tg.ID {
		t.Errorf("error carries id %s, want %s", inUse.ID, tg.ID)
	}

	// The tag must survive the failed removal.
	tags, _ := svc.List(ctx, domainID)
	if len(tags) != 1 {
		t.Errorf("tags after blocked remove: got %d, want 1", len(tags))
	}
}

func TestRemove_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, domainID := newTestService(t)
	err := svc.Remove(context.Background(), domainID, uuid.New())

	var notFound *domain.TagNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want TagNotFoundError", err)
	}
}
