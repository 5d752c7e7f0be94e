package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/sgrust01/json-surf/internal/domain"
	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
)

// --- Mocks ---

type mockRepo struct {
	names    []string
	schemas  map[string]*domcol.Schema
	paths    map[string]string
	counts   map[string]uint64
	failures map[string]error
	countErr error
}

func (m *mockRepo) Names() []string { return m.names }

func (m *mockRepo) Schema(name string) (*domcol.Schema, error) {
	if err, ok := m.failures[name]; ok {
		return nil, err
	}
	s, ok := m.schemas[name]
	if !ok {
		return nil, domain.NewNotFoundError(name)
	}
	return s, nil
}

func (m *mockRepo) WhichPath(name string) (string, bool) {
	p, ok := m.paths[name]
	return p, ok
}

func (m *mockRepo) Count(_ context.Context, name string) (uint64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.counts[name], nil
}

func (m *mockRepo) Failures() map[string]error {
	if m.failures == nil {
		return map[string]error{}
	}
	return m.failures
}

func makeSchema(t *testing.T) *domcol.Schema {
	t.Helper()
	f, err := field.NewText("title", field.DefaultTextOptions(), false)
	if err != nil {
		t.Fatalf("field.NewText: %v", err)
	}
	return domcol.Reconstruct([]field.Field{f})
}

func newRepo(t *testing.T) *mockRepo {
	t.Helper()
	return &mockRepo{
		names:   []string{"books", "films"},
		schemas: map[string]*domcol.Schema{"books": makeSchema(t), "films": makeSchema(t)},
		paths:   map[string]string{"books": "indexes/books", "films": "indexes/films"},
		counts:  map[string]uint64{"books": 7},
	}
}

// --- Tests ---

func TestGet_Success(t *testing.T) {
	svc := New(newRepo(t))

	info, err := svc.Get(context.Background(), "books")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Path != "indexes/books" {
		t.Errorf("Path = %q", info.Path)
	}
	if info.Documents != 7 {
		t.Errorf("Documents = %d, want 7", info.Documents)
	}
	if len(info.Fields) != 1 || info.Fields[0].Name() != "title" {
		t.Errorf("Fields = %+v", info.Fields)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(newRepo(t))

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_FailedCollection(t *testing.T) {
	repo := newRepo(t)
	repo.failures = map[string]error{"films": domain.NewStorageError("open failed", errors.New("locked"))}
	svc := New(repo)

	info, err := svc.Get(context.Background(), "films")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(info.Err, domain.ErrStorage) {
		t.Errorf("Err = %v, want ErrStorage", info.Err)
	}
	if info.Fields != nil {
		t.Errorf("Fields = %+v, want nil", info.Fields)
	}
}

func TestGet_CountError(t *testing.T) {
	repo := newRepo(t)
	repo.countErr = domain.NewStorageError("count failed", errors.New("io"))
	svc := New(repo)

	_, err := svc.Get(context.Background(), "books")
	if !errors.Is(err, domain.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}

func TestList_Order(t *testing.T) {
	svc := New(newRepo(t))

	infos, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "books" || infos[1].Name != "films" {
		t.Errorf("List() = %+v", infos)
	}
}

func TestList_Empty(t *testing.T) {
	svc := New(&mockRepo{})

	infos, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("expected empty list, got %d", len(infos))
	}
}
