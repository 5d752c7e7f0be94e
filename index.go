package jsonsurf

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sgrust01/json-surf/internal/domain"
)

// Index is a typed view of one collection: records go in as T and come
// back decoded into T.
type Index[T any] struct {
	s    *Surfer
	name string
}

// NewIndex returns a typed view of the collection name.
func NewIndex[T any](s *Surfer, name string) *Index[T] {
	return &Index[T]{s: s, name: name}
}

// Name returns the collection name.
func (idx *Index[T]) Name() string { return idx.name }

// Insert writes and commits one item.
func (idx *Index[T]) Insert(ctx context.Context, item T) error {
	return idx.s.Insert(ctx, idx.name, item)
}

// InsertMany writes every item with one commit.
func (idx *Index[T]) InsertMany(ctx context.Context, items []T) (int, error) {
	anys := make([]any, len(items))
	for i := range items {
		anys[i] = items[i]
	}
	return idx.s.InsertMany(ctx, idx.name, anys)
}

// Select evaluates q with the select candidate limit.
func (idx *Index[T]) Select(ctx context.Context, q Query) ([]T, error) {
	return decodeAll[T](idx.s.Select(ctx, idx.name, q))
}

// Apply evaluates q with an explicit per-pair limit and score cutoff.
func (idx *Index[T]) Apply(ctx context.Context, q Query, limit int, minScore float64) ([]T, error) {
	return decodeAll[T](idx.s.Apply(ctx, idx.name, q, limit, minScore))
}

// ReadByField returns items whose field equals value.
func (idx *Index[T]) ReadByField(ctx context.Context, field, value string) ([]T, error) {
	return decodeAll[T](idx.s.ReadByField(ctx, idx.name, field, value))
}

// ReadAllByField returns every item whose field equals value.
func (idx *Index[T]) ReadAllByField(ctx context.Context, field, value string) ([]T, error) {
	return decodeAll[T](idx.s.ReadAllByField(ctx, idx.name, field, value))
}

// Search runs free text, best match first.
func (idx *Index[T]) Search(ctx context.Context, text string, limit int) ([]T, error) {
	return decodeAll[T](idx.s.Search(ctx, idx.name, text, limit))
}

// SearchFuzzy runs free text allowing fuzziness edits per term.
func (idx *Index[T]) SearchFuzzy(ctx context.Context, text string, fuzziness, limit int) ([]T, error) {
	return decodeAll[T](idx.s.SearchFuzzy(ctx, idx.name, text, fuzziness, limit))
}

// DeleteByField deletes items whose field equals value.
func (idx *Index[T]) DeleteByField(ctx context.Context, field, value string) (int, error) {
	return idx.s.DeleteByField(ctx, idx.name, field, value)
}

// DeleteByText deletes items with value as a term of any text field.
func (idx *Index[T]) DeleteByText(ctx context.Context, value string) (int, error) {
	return idx.s.DeleteByText(ctx, idx.name, value)
}

// Decode unmarshals documents into T. A document that does not fit T is a
// serialization error.
func Decode[T any](bodies []json.RawMessage) ([]T, error) {
	out := make([]T, len(bodies))
	for i, b := range bodies {
		if err := json.Unmarshal(b, &out[i]); err != nil {
			return nil, domain.NewSerializationError("unable to decode document",
				fmt.Sprintf("document %d: %s", i, err), err)
		}
	}
	return out, nil
}

func decodeAll[T any](bodies []json.RawMessage, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	return Decode[T](bodies)
}
