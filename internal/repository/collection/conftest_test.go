package collection

import (
	"context"
	"sync"
	"testing"

	"github.com/sgrust01/json-surf/internal/db"
	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/record"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	existsFn func(path string) bool
	createFn func(ctx context.Context, def *db.IndexDefinition) (db.Index, error)
	openFn   func(ctx context.Context, path string) (db.Index, error)
}

func (m *mockStore) Exists(path string) bool {
	if m.existsFn != nil {
		return m.existsFn(path)
	}
	return false
}

func (m *mockStore) Create(ctx context.Context, def *db.IndexDefinition) (db.Index, error) {
	if m.createFn != nil {
		return m.createFn(ctx, def)
	}
	return newMockIndex(), nil
}

func (m *mockStore) Open(ctx context.Context, path string) (db.Index, error) {
	if m.openFn != nil {
		return m.openFn(ctx, path)
	}
	return newMockIndex(), nil
}

// mockIndex keeps internal values in memory and hands out mock writers and readers.
type mockIndex struct {
	mu       sync.Mutex
	internal map[string][]byte
	writer   *mockWriter
	reader   *mockReader
	writers  int
	readers  int
	closed   bool
}

func newMockIndex() *mockIndex {
	return &mockIndex{
		internal: make(map[string][]byte),
		writer:   &mockWriter{},
		reader:   &mockReader{},
	}
}

func (m *mockIndex) GetInternal(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.internal[key], nil
}

func (m *mockIndex) SetInternal(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.internal[key] = value
	return nil
}

func (m *mockIndex) NewWriter(_ context.Context, _ uint64) (db.Writer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writers++
	return m.writer, nil
}

func (m *mockIndex) NewReader(_ context.Context) (db.Reader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readers++
	return m.reader, nil
}

func (m *mockIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// mockWriter records staged documents.
type mockWriter struct {
	added     []map[string]any
	commits   int
	addFn     func(ctx context.Context, fields map[string]any) (uint64, error)
	deleteFn  func(ctx context.Context, queries []*db.TermQuery) (int, error)
	commitErr error
}

func (m *mockWriter) Add(ctx context.Context, fields map[string]any) (uint64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, fields)
	}
	m.added = append(m.added, fields)
	return uint64(len(m.added)), nil
}

func (m *mockWriter) DeleteMatching(ctx context.Context, queries []*db.TermQuery) (int, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, queries)
	}
	return 0, nil
}

func (m *mockWriter) Commit(_ context.Context) error {
	m.commits++
	return m.commitErr
}

type mockReader struct {
	searchTermFn func(ctx context.Context, q *db.TermQuery, size int) (*db.SearchResult, error)
	searchTextFn func(ctx context.Context, q *db.TextQuery, size int) (*db.SearchResult, error)
	fetchFn      func(ctx context.Context, ids []uint64) ([]db.SearchEntry, error)
	count        uint64
}

func (m *mockReader) SearchTerm(ctx context.Context, q *db.TermQuery, size int) (*db.SearchResult, error) {
	if m.searchTermFn != nil {
		return m.searchTermFn(ctx, q, size)
	}
	return &db.SearchResult{}, nil
}

func (m *mockReader) SearchText(ctx context.Context, q *db.TextQuery, size int) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q, size)
	}
	return &db.SearchResult{}, nil
}

func (m *mockReader) Fetch(ctx context.Context, ids []uint64) ([]db.SearchEntry, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockReader) DocCount(_ context.Context) (uint64, error) {
	return m.count, nil
}

type person struct {
	Name   string  `json:"name"`
	Age    uint8   `json:"age"`
	Score  float64 `json:"score"`
	Active bool    `json:"active"`
	Avatar []byte  `json:"avatar"`
}

func personSchema(t *testing.T) *domcol.Schema {
	t.Helper()
	s, err := domcol.Infer(person{}, nil)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	return s
}

func personRecord(t *testing.T, p person) record.Record {
	t.Helper()
	rec, err := record.FromValue(p)
	if err != nil {
		t.Fatalf("from value: %v", err)
	}
	return rec
}

// newTestManager registers people (and any extra names) under a temp home
// and opens them against ms.
func newTestManager(t *testing.T, ms *mockStore, extra ...string) *Manager {
	t.Helper()
	reg := domcol.NewRegistry()
	if err := reg.SetHome(t.TempDir()); err != nil {
		t.Fatalf("set home: %v", err)
	}
	for _, name := range append([]string{"people"}, extra...) {
		if err := reg.Register(name, personSchema(t)); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	m, err := Open(context.Background(), reg, ms, Config{}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}
