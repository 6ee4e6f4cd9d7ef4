package element

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/croswell/inventario/internal/domain"
	"github.com/croswell/inventario/internal/service/class"
)

func strPtr(s string) *string { return &s }

func (env *testEnv) createServer(t *testing.T, name, hostname string) *domain.Element {
	t.Helper()
	return env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID,
		ClassID:  env.itemClass.ID,
		Name:     name,
		Attributes: []class.AttributeInput{
			{Name: "hostname", Value: hostname},
			{Name: "cores", Value: "8"},
		},
	})
}

func TestUpdateElement_OneHistoryRecordPerChangedAttribute(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	e := env.createServer(t, "db-1", "db-1.internal")

	_, err := env.svc.UpdateElement(context.Background(), UpdateElementInput{
		DomainID:   env.domain.ID,
		ElementID:  e.ID,
		Attributes: []class.AttributeInput{{Name: "hostname", Value: "db-1.example.com"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := env.svc.GetHistory(context.Background(), env.domain.ID, e.ID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("history records: got %d, want 1", len(records))
	}

	old, ok := records[0].Value.(domain.StringValue)
	if !ok {
		t.Fatalf("history value type: got %T, want StringValue", records[0].Value)
	}
	if old.Value != "db-1.internal" {
		t.Errorf("history must hold the pre-update value: got %q", old.Value)
	}
}

func TestUpdateElement_TwoChangedAttributesTwoRecords(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	e := env.createServer(t, "db-1", "db-1.internal")

	_, err := env.svc.UpdateElement(context.Background(), UpdateElementInput{
		DomainID:  env.domain.ID,
		ElementID: e.ID,
		Attributes: []class.AttributeInput{
			{Name: "hostname", Value: "db-1.example.com"},
			{Name: "cores", Value: "16"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := env.svc.GetHistory(context.Background(), env.domain.ID, e.ID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("history records: got %d, want 2", len(records))
	}

	byName := map[string]domain.AttributeValue{}
	for _, r := range records {
		byName[r.Value.AttrName()] = r.Value
	}
	if v, ok := byName["hostname"].(domain.StringValue); !ok || v.Value != "db-1.internal" {
		t.Errorf("hostname record: got %#v", byName["hostname"])
	}
	if v, ok := byName["cores"].(domain.NumberValue); !ok || v.Value != 8 {
		t.Errorf("cores record: got %#v", byName["cores"])
	}
}

func TestUpdateElement_UnchangedValueNoHistory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	e := env.createServer(t, "db-1", "db-1.internal")

	_, err := env.svc.UpdateElement(context.Background(), UpdateElementInput{
		DomainID:   env.domain.ID,
		ElementID:  e.ID,
		Attributes: []class.AttributeInput{{Name: "hostname", Value: "db-1.internal"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := env.svc.GetHistory(context.Background(), env.domain.ID, e.ID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("history records: got %d, want 0", len(records))
	}
}

func TestUpdateElement_PartialMergeKeepsOtherAttributes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	e := env.createServer(t, "db-1", "db-1.internal")

	updated, err := env.svc.UpdateElement(context.Background(), UpdateElementInput{
		DomainID:   env.domain.ID,
		ElementID:  e.ID,
		Attributes: []class.AttributeInput{{Name: "cores", Value: "32"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	host, ok := updated.Attributes.Get("hostname")
	if !ok {
		t.Fatal("hostname dropped by partial update")
	}
	if host.(domain.StringValue).Value != "db-1.internal" {
		t.Errorf("hostname changed: got %#v", host)
	}
	cores, _ := updated.Attributes.Get("cores")
	if cores.(domain.NumberValue).Value != 32 {
		t.Errorf("cores: got %#v", cores)
	}
}

func TestUpdateElement_FailedAppendAbortsUpdate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	e := env.createServer(t, "db-1", "db-1.internal")

	boom := errors.New("history store down")
	env.history.AppendFunc = func(ctx context.Context, records []domain.AttributeHistory) error {
		return boom
	}

	_, err := env.svc.UpdateElement(context.Background(), UpdateElementInput{
		DomainID:   env.domain.ID,
		ElementID:  e.ID,
		Attributes: []class.AttributeInput{{Name: "hostname", Value: "other"}},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped append failure", err)
	}
}

func TestUpdateElement_Rename(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	e := env.createServer(t, "db-1", "db-1.internal")

	updated, err := env.svc.UpdateElement(context.Background(), UpdateElementInput{
		DomainID:  env.domain.ID,
		ElementID: e.ID,
		Name:      strPtr("db-primary"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "db-primary" {
		t.Errorf("name: got %q", updated.Name)
	}
}

func TestUpdateElement_MoveRewritesDescendantPaths(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	hq := env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: env.buildingClass.ID, Name: "hq",
	})
	annex := env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: env.buildingClass.ID, Name: "annex",
	})
	room := env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: env.roomClass.ID, ParentID: &hq.ID, Name: "server-room",
	})
	server := env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: env.itemClass.ID, ParentID: &room.ID, Name: "db-1",
		Attributes: []class.AttributeInput{{Name: "hostname", Value: "db-1"}},
	})

	moved, err := env.svc.UpdateElement(context.Background(), UpdateElementInput{
		DomainID:  env.domain.ID,
		ElementID: room.ID,
		ParentID:  &annex.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantRoom := annex.Path + "/" + room.ID.String()
	if moved.Path != wantRoom {
		t.Errorf("moved path: got %q, want %q", moved.Path, wantRoom)
	}

	got, err := env.svc.GetElement(context.Background(), env.domain.ID, server.ID)
	if err != nil {
		t.Fatalf("get server: %v", err)
	}
	wantServer := wantRoom + "/" + server.ID.String()
	if got.Path != wantServer {
		t.Errorf("descendant path: got %q, want %q", got.Path, wantServer)
	}
}

func TestUpdateElement_MoveToRoot(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	hq := env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: env.buildingClass.ID, Name: "hq",
	})
	room := env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: env.roomClass.ID, ParentID: &hq.ID, Name: "server-room",
	})

	moved, err := env.svc.UpdateElement(context.Background(), UpdateElementInput{
		DomainID:   env.domain.ID,
		ElementID:  room.ID,
		MoveToRoot: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !moved.IsRoot() {
		t.Error("element must be a root after the move")
	}
	if moved.Path != domain.RootPath(room.ID) {
		t.Errorf("path: got %q, want %q", moved.Path, domain.RootPath(room.ID))
	}
}

func TestUpdateElement_MoveUnderOwnDescendantRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	// A room class that permits rooms, so the room/sub-room chain is legal.
	nestedRoom := &domain.Class{
		ID:   uuid.New(),
		Name: "nested-room",
		Type: domain.ClassTypeRoom,
	}
	nestedRoom.PermittedChildren = []uuid.UUID{nestedRoom.ID}
	env.classes.classes[nestedRoom.ID] = nestedRoom

	outer := env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: nestedRoom.ID, Name: "outer",
	})
	inner := env.mustCreate(t, CreateElementInput{
		DomainID: env.domain.ID, ClassID: nestedRoom.ID, ParentID: &outer.ID, Name: "inner",
	})

	_, err := env.svc.UpdateElement(context.Background(), UpdateElementInput{
		DomainID:  env.domain.ID,
		ElementID: outer.ID,
		ParentID:  &inner.ID,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestUpdateElement_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.svc.UpdateElement(context.Background(), UpdateElementInput{
		DomainID:  env.domain.ID,
		ElementID: uuid.New(),
		Name:      strPtr("x"),
	})

	var notFound *domain.ElementNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want ElementNotFoundError", err)
	}
}
