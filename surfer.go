package jsonsurf

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sgrust01/json-surf/internal/domain"
	"github.com/sgrust01/json-surf/internal/domain/record"
	"github.com/sgrust01/json-surf/internal/domain/search/result"
	collectionrepo "github.com/sgrust01/json-surf/internal/repository/collection"
	searchuc "github.com/sgrust01/json-surf/internal/usecase/search"
)

// Surfer reads and writes the opened collections. It is safe for
// concurrent use.
type Surfer struct {
	manager *collectionrepo.Manager
	search  *searchuc.Service
	query   domain.QueryConfig
	logger  *zap.Logger
}

// Close closes every collection. Later calls fail with a storage error.
func (s *Surfer) Close() error {
	if err := s.manager.Close(); err != nil {
		return fmt.Errorf("jsonsurf: close: %w", err)
	}
	return nil
}

// Home returns the directory holding every collection.
func (s *Surfer) Home() string { return s.manager.Home() }

// Names returns the collections in registration order.
func (s *Surfer) Names() []string { return s.manager.Names() }

// WhichPath returns the index directory of a registered collection.
func (s *Surfer) WhichPath(name string) (string, bool) { return s.manager.WhichPath(name) }

// Schema returns the schema in effect for name. For a reopened collection
// this is the schema stored with the index.
func (s *Surfer) Schema(name string) (*Schema, error) { return s.manager.Schema(name) }

// Failures returns the open error of every collection that failed to open.
func (s *Surfer) Failures() map[string]error { return s.manager.Failures() }

// Count returns the number of committed documents in name.
func (s *Surfer) Count(ctx context.Context, name string) (uint64, error) {
	return s.manager.Count(ctx, name)
}

// Insert writes and commits one record. Inserting into an unregistered
// collection does nothing and returns nil.
func (s *Surfer) Insert(ctx context.Context, name string, item any) error {
	rec, err := toRecord(item)
	if err != nil {
		return err
	}
	return s.manager.InsertOne(ctx, name, rec)
}

// InsertMany writes every item with one commit and returns how many were
// written. Items are all checked against the schema before any is written.
func (s *Surfer) InsertMany(ctx context.Context, name string, items []any) (int, error) {
	recs := make([]record.Record, len(items))
	for i, item := range items {
		rec, err := toRecord(item)
		if err != nil {
			return 0, fmt.Errorf("item %d: %w", i, err)
		}
		recs[i] = rec
	}
	return s.manager.InsertMany(ctx, name, recs)
}

// InsertJSON writes one JSON object or an array of objects, keeping each
// object's key order.
func (s *Surfer) InsertJSON(ctx context.Context, name string, body []byte) (int, error) {
	recs, err := record.ParseJSONList(body)
	if err != nil {
		return 0, domain.NewSerializationError("unable to parse documents", "", err)
	}
	return s.manager.InsertMany(ctx, name, recs)
}

// Select evaluates q with the select candidate limit and the default
// score cutoff.
func (s *Surfer) Select(ctx context.Context, name string, q Query) ([]json.RawMessage, error) {
	return s.Apply(ctx, name, q, s.query.SelectLimit, s.query.DefaultMinScore)
}

// Apply evaluates q. limit caps the candidates each pair retrieves, not the
// number of documents returned; hits scoring below minScore are dropped.
// Documents come back once each in no particular order.
func (s *Surfer) Apply(ctx context.Context, name string, q Query, limit int, minScore float64) ([]json.RawMessage, error) {
	docs, err := s.search.Evaluate(ctx, name, q, limit, &minScore)
	if err != nil {
		return nil, err
	}
	return result.Bodies(docs), nil
}

// ReadByField returns documents whose field equals value, using the
// default limit.
func (s *Surfer) ReadByField(ctx context.Context, name, field, value string) ([]json.RawMessage, error) {
	docs, err := s.search.ReadByField(ctx, name, field, value, 0, nil)
	if err != nil {
		return nil, err
	}
	return result.Bodies(docs), nil
}

// ReadAllByField returns every document whose field equals value.
func (s *Surfer) ReadAllByField(ctx context.Context, name, field, value string) ([]json.RawMessage, error) {
	n, err := s.manager.Count(ctx, name)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []json.RawMessage{}, nil
	}
	docs, err := s.search.ReadByField(ctx, name, field, value, int(n), nil)
	if err != nil {
		return nil, err
	}
	return result.Bodies(docs), nil
}

// Search runs text over every indexed text field, best match first.
// A non-positive limit uses the default.
func (s *Surfer) Search(ctx context.Context, name, text string, limit int) ([]json.RawMessage, error) {
	docs, err := s.search.Search(ctx, name, text, limit, nil)
	if err != nil {
		return nil, err
	}
	return result.Bodies(docs), nil
}

// SearchFuzzy is Search where each term may be up to fuzziness edits away.
func (s *Surfer) SearchFuzzy(ctx context.Context, name, text string, fuzziness, limit int) ([]json.RawMessage, error) {
	docs, err := s.search.SearchFuzzy(ctx, name, text, fuzziness, limit, nil)
	if err != nil {
		return nil, err
	}
	return result.Bodies(docs), nil
}

// ReadStrings is Search returning each document as a JSON string.
func (s *Surfer) ReadStrings(ctx context.Context, name, text string, limit int) ([]string, error) {
	bodies, err := s.Search(ctx, name, text, limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(bodies))
	for i, b := range bodies {
		out[i] = string(b)
	}
	return out, nil
}

// DeleteByField deletes every document whose field equals value and
// returns how many were deleted.
func (s *Surfer) DeleteByField(ctx context.Context, name, field, value string) (int, error) {
	return s.manager.DeleteByField(ctx, name, field, value)
}

// DeleteByText deletes every document that has value as a term of any
// indexed text field.
func (s *Surfer) DeleteByText(ctx context.Context, name, value string) (int, error) {
	return s.manager.DeleteByText(ctx, name, value)
}

func toRecord(item any) (record.Record, error) {
	rec, err := record.FromValue(item)
	if err != nil {
		return record.Record{}, domain.NewSerializationError("unable to convert record", "", err)
	}
	return rec, nil
}
