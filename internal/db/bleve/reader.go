package bleve

import (
	"context"
	"sort"

	blevesearch "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/sgrust01/json-surf/internal/db"
)

// Reader queries a bleve index.
type Reader struct {
	idx blevesearch.Index
}

// SearchTerm returns at most size hits for an exact lookup.
func (r *Reader) SearchTerm(ctx context.Context, q *db.TermQuery, size int) (*db.SearchResult, error) {
	return r.search(ctx, termQuery(q), size)
}

// SearchText returns at most size hits matching the analyzed text in any
// of the given fields.
func (r *Reader) SearchText(ctx context.Context, q *db.TextQuery, size int) (*db.SearchResult, error) {
	if len(q.Fields) == 0 {
		return &db.SearchResult{}, nil
	}
	qs := make([]query.Query, len(q.Fields))
	for i, f := range q.Fields {
		mq := blevesearch.NewMatchQuery(q.Text)
		mq.SetField(f)
		if q.Fuzziness > 0 {
			mq.SetFuzziness(q.Fuzziness)
		}
		qs[i] = mq
	}
	return r.search(ctx, blevesearch.NewDisjunctionQuery(qs...), size)
}

// Fetch loads the stored fields of the given documents in ascending id order.
// Unknown ids are skipped.
func (r *Reader) Fetch(ctx context.Context, ids []uint64) ([]db.SearchEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = formatID(id)
	}

	req := blevesearch.NewSearchRequestOptions(blevesearch.NewDocIDQuery(keys), len(keys), 0, false)
	req.Fields = []string{"*"}
	res, err := r.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, &db.Error{Op: db.OpFetch, Err: err}
	}

	entries, err := toEntries(res.Hits, true)
	if err != nil {
		return nil, &db.Error{Op: db.OpFetch, Err: err}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// DocCount returns the number of committed documents.
func (r *Reader) DocCount(_ context.Context) (uint64, error) {
	n, err := r.idx.DocCount()
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return n, nil
}

func (r *Reader) search(ctx context.Context, q query.Query, size int) (*db.SearchResult, error) {
	if size <= 0 {
		return &db.SearchResult{}, nil
	}
	req := blevesearch.NewSearchRequestOptions(q, size, 0, false)
	res, err := r.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	entries, err := toEntries(res.Hits, false)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return &db.SearchResult{Total: res.Total, Entries: entries}, nil
}

func toEntries(hits search.DocumentMatchCollection, withFields bool) ([]db.SearchEntry, error) {
	entries := make([]db.SearchEntry, 0, len(hits))
	for _, hit := range hits {
		id, err := parseID(hit.ID)
		if err != nil {
			return nil, err
		}
		e := db.SearchEntry{ID: id, Score: hit.Score}
		if withFields {
			e.Fields = hit.Fields
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func termQuery(q *db.TermQuery) query.Query {
	if q.Numeric {
		n, inclusive := q.Number, true
		nq := blevesearch.NewNumericRangeInclusiveQuery(&n, &n, &inclusive, &inclusive)
		nq.SetField(q.Field)
		return nq
	}
	tq := blevesearch.NewTermQuery(q.Text)
	tq.SetField(q.Field)
	return tq
}
