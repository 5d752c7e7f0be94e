package bleve

import (
	"context"
	"sync"

	blevesearch "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/sgrust01/json-surf/internal/db"
)

// Writer stages documents in a bleve batch.
type Writer struct {
	mu     sync.Mutex
	idx    blevesearch.Index
	budget uint64
	batch  *blevesearch.Batch
	next   uint64
}

// Add stages fields as a new document and returns its id. The batch is
// flushed early once its estimated size reaches the memory budget.
func (w *Writer) Add(_ context.Context, fields map[string]any) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.next
	if err := w.batch.Index(formatID(id), fields); err != nil {
		return 0, &db.Error{Op: db.OpIndex, Err: err}
	}
	w.next++

	if w.budget > 0 && w.batch.TotalDocsSize() >= w.budget {
		if err := w.flush(); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// DeleteMatching commits staged changes, then deletes and commits every
// document matching any of the queries. It returns the number deleted.
func (w *Writer) DeleteMatching(ctx context.Context, queries []*db.TermQuery) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.flush(); err != nil {
		return 0, err
	}
	if len(queries) == 0 {
		return 0, nil
	}

	total, err := w.idx.DocCount()
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	if total == 0 {
		return 0, nil
	}

	qs := make([]query.Query, len(queries))
	for i, q := range queries {
		qs[i] = termQuery(q)
	}
	req := blevesearch.NewSearchRequestOptions(blevesearch.NewDisjunctionQuery(qs...), int(total), 0, false)
	res, err := w.idx.SearchInContext(ctx, req)
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}

	for _, hit := range res.Hits {
		w.batch.Delete(hit.ID)
	}
	deleted := len(res.Hits)
	if err := w.flush(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// Commit makes all staged changes visible to readers.
func (w *Writer) Commit(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flush()
}

// flush writes the batch together with the id sequence. Caller holds mu.
func (w *Writer) flush() error {
	if w.batch.Size() == 0 {
		return nil
	}
	w.batch.SetInternal([]byte(seqKey), encodeSeq(w.next))
	if err := w.idx.Batch(w.batch); err != nil {
		return &db.Error{Op: db.OpBatch, Err: err}
	}
	w.batch.Reset()
	return nil
}
