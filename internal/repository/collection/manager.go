// Package collection owns the opened indexes of every registered collection
// and their lazily created writers and readers.
package collection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sgrust01/json-surf/internal/db"
	"github.com/sgrust01/json-surf/internal/domain"
	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/document"
	"github.com/sgrust01/json-surf/internal/domain/record"
	"github.com/sgrust01/json-surf/internal/domain/search/result"
	"github.com/sgrust01/json-surf/internal/metrics"
)

// store is the consumer interface for physical indexes (ISP).
type store interface {
	Exists(path string) bool
	Create(ctx context.Context, def *db.IndexDefinition) (db.Index, error)
	Open(ctx context.Context, path string) (db.Index, error)
}

// Defaults for Config.
const (
	DefaultOpenConcurrency = 4
)

// Config tunes the manager.
type Config struct {
	WriterMemoryBudget uint64
	OpenConcurrency    int
}

func (c *Config) applyDefaults() {
	if c.WriterMemoryBudget == 0 {
		c.WriterMemoryBudget = domain.DefaultWriterMemoryBudget
	}
	if c.OpenConcurrency <= 0 {
		c.OpenConcurrency = DefaultOpenConcurrency
	}
}

// handle is one collection's index with its cached writer and reader.
type handle struct {
	name   string
	path   string
	schema *domcol.Schema
	index  db.Index
	err    error // set when the collection failed to open

	mu     sync.Mutex // guards writer and reader creation
	writer db.Writer
	reader db.Reader

	writeMu sync.Mutex // serializes write operations
}

// Manager opens every registered collection and routes operations to it.
// The set of collections is fixed at Open.
type Manager struct {
	home    string
	names   []string
	handles map[string]*handle
	cfg     Config
	logger  *zap.Logger
	closed  atomic.Bool
}

// Open consumes the registry, creates the home directory and opens or
// creates one index per collection, concurrently. A collection that fails
// to open is recorded in Failures and its operations return that error;
// the others stay usable.
func Open(ctx context.Context, reg *domcol.Registry, s store, cfg Config, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.applyDefaults()

	if err := reg.Consume(); err != nil {
		return nil, fmt.Errorf("open collections: %w", err)
	}
	if err := os.MkdirAll(reg.Home(), 0o755); err != nil {
		return nil, domain.NewStorageError(fmt.Sprintf("unable to create home %q", reg.Home()), err)
	}

	m := &Manager{
		home:    reg.Home(),
		names:   reg.Names(),
		handles: make(map[string]*handle, len(reg.Names())),
		cfg:     cfg,
		logger:  logger,
	}
	for _, name := range m.names {
		sch, _ := reg.Schema(name)
		m.handles[name] = &handle{name: name, path: reg.Path(name), schema: sch}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.OpenConcurrency)
	for _, name := range m.names {
		h := m.handles[name]
		g.Go(func() error {
			h.err = m.openOne(gctx, s, h)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, h := range m.handles {
		if h.err != nil {
			failed++
		}
	}
	metrics.CollectionsOpen.WithLabelValues("ok").Set(float64(len(m.handles) - failed))
	metrics.CollectionsOpen.WithLabelValues("failed").Set(float64(failed))
	return m, nil
}

// openOne opens the index at h.path, or creates it when absent. An opened
// index keeps the schema it was created with.
func (m *Manager) openOne(ctx context.Context, s store, h *handle) error {
	log := m.logger.With(zap.String("collection", h.name), zap.String("path", h.path))

	if s.Exists(h.path) {
		idx, err := s.Open(ctx, h.path)
		if err != nil {
			log.Error("open collection failed", zap.Error(err))
			return domain.NewStorageError(fmt.Sprintf("unable to open collection %q", h.name), err)
		}
		stored, err := readSchema(ctx, idx)
		if err != nil {
			_ = idx.Close()
			log.Error("read schema failed", zap.Error(err))
			return domain.NewStorageError(fmt.Sprintf("unable to read schema of collection %q", h.name), err)
		}
		if !stored.Equal(h.schema) {
			log.Warn("registered schema differs from stored schema, using stored")
		}
		h.schema = stored
		h.index = idx
		log.Info("collection opened")
		return nil
	}

	def, err := buildIndex(h.path, h.schema)
	if err != nil {
		log.Error("build index failed", zap.Error(err))
		return domain.NewStorageError(fmt.Sprintf("unable to map collection %q", h.name), err)
	}
	idx, err := s.Create(ctx, def)
	if err != nil {
		log.Error("create collection failed", zap.Error(err))
		return domain.NewStorageError(fmt.Sprintf("unable to create collection %q", h.name), err)
	}
	data, err := schemaToJSON(h.schema)
	if err == nil {
		err = idx.SetInternal(ctx, schemaKey, data)
	}
	if err != nil {
		_ = idx.Close()
		log.Error("store schema failed", zap.Error(err))
		return domain.NewStorageError(fmt.Sprintf("unable to store schema of collection %q", h.name), err)
	}
	h.index = idx
	log.Info("collection created", zap.String("index", def.String()))
	return nil
}

func readSchema(ctx context.Context, idx db.Index) (*domcol.Schema, error) {
	data, err := idx.GetInternal(ctx, schemaKey)
	if err != nil {
		return nil, err
	}
	return schemaFromJSON(data)
}

// Home returns the directory holding every collection.
func (m *Manager) Home() string { return m.home }

// Names returns the collections in registration order.
func (m *Manager) Names() []string { return append([]string(nil), m.names...) }

// WhichPath returns the index directory of a registered collection.
func (m *Manager) WhichPath(name string) (string, bool) {
	h, ok := m.handles[name]
	if !ok {
		return "", false
	}
	return h.path, true
}

// Schema returns the schema in effect for name.
func (m *Manager) Schema(name string) (*domcol.Schema, error) {
	h, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return h.schema, nil
}

// Failures returns the open error of every collection that failed.
func (m *Manager) Failures() map[string]error {
	out := make(map[string]error)
	for name, h := range m.handles {
		if h.err != nil {
			out[name] = h.err
		}
	}
	return out
}

// InsertOne writes and commits a single record.
func (m *Manager) InsertOne(ctx context.Context, name string, rec record.Record) error {
	_, err := m.InsertMany(ctx, name, []record.Record{rec})
	return err
}

// InsertMany writes records with one final commit and returns how many
// were written. Every record is checked before any is staged. Inserting
// into an unregistered collection does nothing and succeeds.
func (m *Manager) InsertMany(ctx context.Context, name string, recs []record.Record) (n int, err error) {
	if _, ok := m.handles[name]; !ok && !m.closed.Load() {
		m.logger.Warn("insert into unknown collection ignored",
			zap.String("collection", name), zap.Int("records", len(recs)))
		return 0, nil
	}
	h, err := m.lookup(name)
	if err != nil {
		return 0, err
	}
	defer func(start time.Time) { metrics.ObserveOp(name, "insert", start, err) }(time.Now())

	docs := make([]document.Native, len(recs))
	for i, rec := range recs {
		doc, err := document.ToNative(rec, h.schema)
		if err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
		docs[i] = doc
	}

	w, err := m.writer(ctx, h)
	if err != nil {
		return 0, err
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, doc := range docs {
		if _, err := w.Add(ctx, doc); err != nil {
			return n, domain.NewStorageError(fmt.Sprintf("unable to write to collection %q", name), err)
		}
		n++
	}
	if err := w.Commit(ctx); err != nil {
		return n, domain.NewStorageError(fmt.Sprintf("unable to commit collection %q", name), err)
	}
	metrics.DocumentsWrittenTotal.WithLabelValues(name, "insert").Add(float64(n))
	return n, nil
}

// DeleteByField deletes every document whose field equals value.
func (m *Manager) DeleteByField(ctx context.Context, name, fieldName, value string) (n int, err error) {
	h, err := m.lookup(name)
	if err != nil {
		return 0, err
	}
	defer func(start time.Time) { metrics.ObserveOp(name, "delete", start, err) }(time.Now())

	t, err := document.NewTerm(h.schema, fieldName, value)
	if err != nil {
		return 0, err
	}
	return m.deleteMatching(ctx, h, []*db.TermQuery{toQuery(t)})
}

// DeleteByText deletes every document with value as a term of any indexed
// text field.
func (m *Manager) DeleteByText(ctx context.Context, name, value string) (n int, err error) {
	h, err := m.lookup(name)
	if err != nil {
		return 0, err
	}
	defer func(start time.Time) { metrics.ObserveOp(name, "delete", start, err) }(time.Now())

	var queries []*db.TermQuery
	for _, fn := range h.schema.TextFields() {
		f, _ := h.schema.FieldByName(fn)
		if !f.Indexed() {
			continue
		}
		t, err := document.ParseTerm(f, value)
		if err != nil {
			return 0, err
		}
		queries = append(queries, toQuery(t))
	}
	if len(queries) == 0 {
		return 0, nil
	}
	return m.deleteMatching(ctx, h, queries)
}

func (m *Manager) deleteMatching(ctx context.Context, h *handle, queries []*db.TermQuery) (int, error) {
	w, err := m.writer(ctx, h)
	if err != nil {
		return 0, err
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	n, err := w.DeleteMatching(ctx, queries)
	if err != nil {
		return 0, domain.NewStorageError(fmt.Sprintf("unable to delete from collection %q", h.name), err)
	}
	metrics.DocumentsWrittenTotal.WithLabelValues(h.name, "delete").Add(float64(n))
	return n, nil
}

// SearchTerm returns at most limit hits for one equality term.
func (m *Manager) SearchTerm(ctx context.Context, name string, t document.Term, limit int) ([]result.Hit, error) {
	h, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	r, err := m.reader(ctx, h)
	if err != nil {
		return nil, err
	}
	res, err := r.SearchTerm(ctx, toQuery(t), limit)
	if err != nil {
		return nil, domain.NewStorageError(fmt.Sprintf("unable to search collection %q", name), err)
	}
	return toHits(res), nil
}

// SearchText returns at most limit hits for free text over the indexed text
// fields. fuzziness above zero allows that many edits per token.
func (m *Manager) SearchText(ctx context.Context, name, text string, fuzziness, limit int) ([]result.Hit, error) {
	h, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	var fields []string
	for _, fn := range h.schema.TextFields() {
		if f, _ := h.schema.FieldByName(fn); f.Indexed() {
			fields = append(fields, fn)
		}
	}
	if len(fields) == 0 {
		return nil, domain.NewQueryError("invalid search",
			fmt.Sprintf("collection %q has no indexed text fields", name))
	}

	r, err := m.reader(ctx, h)
	if err != nil {
		return nil, err
	}
	res, err := r.SearchText(ctx, &db.TextQuery{Fields: fields, Text: text, Fuzziness: fuzziness}, limit)
	if err != nil {
		return nil, domain.NewStorageError(fmt.Sprintf("unable to search collection %q", name), err)
	}
	return toHits(res), nil
}

// Fetch loads documents as JSON in schema field order. Unknown ids are skipped.
func (m *Manager) Fetch(ctx context.Context, name string, ids []uint64) ([]result.Document, error) {
	h, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	r, err := m.reader(ctx, h)
	if err != nil {
		return nil, err
	}
	entries, err := r.Fetch(ctx, ids)
	if err != nil {
		return nil, domain.NewStorageError(fmt.Sprintf("unable to fetch from collection %q", name), err)
	}

	docs := make([]result.Document, 0, len(entries))
	for _, e := range entries {
		body, err := document.FromNative(e.Fields, h.schema)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", e.ID, err)
		}
		docs = append(docs, result.NewDocument(e.ID, body))
	}
	return docs, nil
}

// Count returns the number of committed documents.
func (m *Manager) Count(ctx context.Context, name string) (uint64, error) {
	h, err := m.lookup(name)
	if err != nil {
		return 0, err
	}
	r, err := m.reader(ctx, h)
	if err != nil {
		return 0, err
	}
	n, err := r.DocCount(ctx)
	if err != nil {
		return 0, domain.NewStorageError(fmt.Sprintf("unable to count collection %q", name), err)
	}
	return n, nil
}

// Close closes every opened index. Later operations fail.
func (m *Manager) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	var errs []error
	for _, name := range m.names {
		h := m.handles[name]
		if h.index == nil {
			continue
		}
		if err := h.index.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	metrics.CollectionsOpen.WithLabelValues("ok").Set(0)
	metrics.CollectionsOpen.WithLabelValues("failed").Set(0)
	return errors.Join(errs...)
}

func (m *Manager) lookup(name string) (*handle, error) {
	if m.closed.Load() {
		return nil, domain.NewStorageError("collections are closed", db.ErrClosed)
	}
	h, ok := m.handles[name]
	if !ok {
		return nil, domain.NewNotFoundError(name)
	}
	if h.err != nil {
		return nil, h.err
	}
	return h, nil
}

func (m *Manager) writer(ctx context.Context, h *handle) (db.Writer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.writer != nil {
		return h.writer, nil
	}
	w, err := h.index.NewWriter(ctx, m.cfg.WriterMemoryBudget)
	if err != nil {
		return nil, domain.NewStorageError(fmt.Sprintf("unable to create writer for %q", h.name), err)
	}
	m.logger.Debug("writer created",
		zap.String("collection", h.name), zap.Uint64("memory_budget", m.cfg.WriterMemoryBudget))
	h.writer = w
	return w, nil
}

func (m *Manager) reader(ctx context.Context, h *handle) (db.Reader, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reader != nil {
		return h.reader, nil
	}
	r, err := h.index.NewReader(ctx)
	if err != nil {
		return nil, domain.NewStorageError(fmt.Sprintf("unable to create reader for %q", h.name), err)
	}
	m.logger.Debug("reader created", zap.String("collection", h.name))
	h.reader = r
	return r, nil
}

func toHits(res *db.SearchResult) []result.Hit {
	hits := make([]result.Hit, len(res.Entries))
	for i, e := range res.Entries {
		hits[i] = result.NewHit(e.ID, e.Score)
	}
	return hits
}
