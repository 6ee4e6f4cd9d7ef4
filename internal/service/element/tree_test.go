package element

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
	"github.com/croswell/inventario/internal/service/class"
)

// buildChain creates hq -> server-room -> db-1 and returns all three.
func buildChain(t *testing.T, env *testEnv) (hq, room, server *domain.Element) {
	t.Helper()
	hq = env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: env.buildingClass.ID, Name: "hq",
	})
	room = env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: env.roomClass.ID, ParentID: &hq.ID, Name: "server-room",
	})
	server = env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: env.itemClass.ID, ParentID: &room.ID, Name: "db-1",
		Attributes: []class.AttributeInput{{Name: "hostname", Value: "db-1"}},
	})
	return hq, room, server
}

func TestAncestors_NearestFirst(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	hq, room, server := buildChain(t, env)

	ancestors, err := env.svc.Ancestors(context.Background(), env.domain.ID, server.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ancestors) != 2 {
		t.Fatalf("ancestors: got %d, want 2", len(ancestors))
	}
	if ancestors[0].ID != room.ID || ancestors[1].ID != hq.ID {
		t.Errorf("order: got [%s %s], want [%s %s]",
			ancestors[0].ID, ancestors[1].ID, room.ID, hq.ID)
	}
}

func TestAncestors_RootHasNone(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	hq, _, _ := buildChain(t, env)

	ancestors, err := env.svc.Ancestors(context.Background(), env.domain.ID, hq.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ancestors) != 0 {
		t.Errorf("root ancestors: got %d, want 0", len(ancestors))
	}
}

func TestAncestors_CyclicChainTerminates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	hq, room, _ := buildChain(t, env)

	// Corrupt the store: hq points back at its own child.
	env.elements.elements[hq.ID].ParentID = &room.ID

	_, err := env.svc.Ancestors(context.Background(), env.domain.ID, room.ID)
	if err == nil {
		t.Fatal("cyclic chain must fail, not loop")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error should name the cycle: %v", err)
	}
}

func TestDescendants_NearestFirst(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	hq, room, server := buildChain(t, env)

	descendants, err := env.svc.Descendants(context.Background(), env.domain.ID, hq.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(descendants) != 2 {
		t.Fatalf("descendants: got %d, want 2", len(descendants))
	}
	if descendants[0].ID != room.ID || descendants[1].ID != server.ID {
		t.Errorf("order: got [%s %s], want [%s %s]",
			descendants[0].ID, descendants[1].ID, room.ID, server.ID)
	}
}

func TestDescendants_LeafHasNone(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, _, server := buildChain(t, env)

	descendants, err := env.svc.Descendants(context.Background(), env.domain.ID, server.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(descendants) != 0 {
		t.Errorf("leaf descendants: got %d, want 0", len(descendants))
	}
}

func TestDescendants_ScopedToDomain(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	hq, _, _ := buildChain(t, env)

	// The element lookup is domain-scoped, so a foreign domain id surfaces
	// as element-not-found.
	_, err := env.svc.Descendants(context.Background(), uuid.New(), hq.ID)
	var notFound *domain.ElementNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want ElementNotFoundError", err)
	}
}
