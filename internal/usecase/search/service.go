// Package search evaluates equality conditions and free-text queries
// against a collection.
package search

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/sgrust01/json-surf/internal/domain"
	"github.com/sgrust01/json-surf/internal/domain/document"
	"github.com/sgrust01/json-surf/internal/domain/search/condition"
	"github.com/sgrust01/json-surf/internal/domain/search/result"
)

// Service runs boolean condition queries and text searches.
type Service struct {
	repo Repository
	cfg  domain.QueryConfig
}

// New creates a search service.
func New(repo Repository, cfg domain.QueryConfig) *Service {
	return &Service{repo: repo, cfg: cfg}
}

// Evaluate returns the union over OR-groups of the intersection of each
// group's equality pairs. Every pair retrieves at most limit candidates
// scoring at least minScore, so limit bounds candidates per pair, not the
// final result size. Documents come back once each, in ascending id order.
func (s *Service) Evaluate(
	ctx context.Context, collectionName string, q condition.Query, limit int, minScore *float64,
) ([]result.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, domain.NewQueryError("invalid condition", err.Error())
	}
	sch, err := s.repo.Schema(collectionName)
	if err != nil {
		return nil, err
	}

	// Parse every pair first so a bad value fails the whole query.
	groups := make([][]document.Term, len(q))
	for i, g := range q {
		groups[i] = make([]document.Term, len(g.Conditions))
		for j, c := range g.Conditions {
			t, err := document.NewTerm(sch, c.Field, c.Value)
			if err != nil {
				return nil, err
			}
			groups[i][j] = t
		}
	}

	limit = s.cfg.ResolveLimit(limit)
	cutoff := s.cfg.ResolveMinScore(minScore)

	union := roaring64.New()
	for _, terms := range groups {
		matched, err := s.intersect(ctx, collectionName, terms, limit, cutoff)
		if err != nil {
			return nil, err
		}
		union.Or(matched)
	}
	if union.IsEmpty() {
		return []result.Document{}, nil
	}

	docs, err := s.repo.Fetch(ctx, collectionName, union.ToArray())
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}
	return docs, nil
}

// intersect narrows the group's candidates pair by pair, stopping at the
// first empty intersection.
func (s *Service) intersect(
	ctx context.Context, collectionName string, terms []document.Term, limit int, cutoff float64,
) (*roaring64.Bitmap, error) {
	var acc *roaring64.Bitmap
	for _, t := range terms {
		hits, err := s.repo.SearchTerm(ctx, collectionName, t, limit)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", t.Field, err)
		}
		ids := roaring64.New()
		for _, h := range result.AboveScore(hits, cutoff) {
			ids.Add(h.ID())
		}
		if acc == nil {
			acc = ids
		} else {
			acc.And(ids)
		}
		if acc.IsEmpty() {
			break
		}
	}
	if acc == nil {
		return roaring64.New(), nil
	}
	return acc, nil
}

// ReadByField returns documents whose field equals value.
func (s *Service) ReadByField(
	ctx context.Context, collectionName, fieldName, value string, limit int, minScore *float64,
) ([]result.Document, error) {
	return s.Evaluate(ctx, collectionName, condition.Query{condition.From(fieldName, value)}, limit, minScore)
}

// Search runs free text over the indexed text fields, best match first.
func (s *Service) Search(
	ctx context.Context, collectionName, text string, limit int, minScore *float64,
) ([]result.Document, error) {
	return s.SearchFuzzy(ctx, collectionName, text, 0, limit, minScore)
}

// SearchFuzzy is Search allowing fuzziness edits per token.
func (s *Service) SearchFuzzy(
	ctx context.Context, collectionName, text string, fuzziness, limit int, minScore *float64,
) ([]result.Document, error) {
	if fuzziness < 0 {
		return nil, domain.NewQueryError("invalid search", fmt.Sprintf("negative fuzziness %d", fuzziness))
	}
	hits, err := s.repo.SearchText(ctx, collectionName, text, fuzziness, s.cfg.ResolveLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}
	hits = result.AboveScore(hits, s.cfg.ResolveMinScore(minScore))
	if len(hits) == 0 {
		return []result.Document{}, nil
	}

	ids := make([]uint64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID()
	}
	docs, err := s.repo.Fetch(ctx, collectionName, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	// restore score order
	byID := make(map[uint64]result.Document, len(docs))
	for _, d := range docs {
		byID[d.ID()] = d
	}
	ordered := make([]result.Document, 0, len(docs))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered, nil
}
