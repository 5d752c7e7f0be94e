package batch

import (
	"context"
	"fmt"

	"github.com/sgrust01/json-surf/internal/domain"
	dombatch "github.com/sgrust01/json-surf/internal/domain/batch"
	"github.com/sgrust01/json-surf/internal/domain/document"
	"github.com/sgrust01/json-surf/internal/domain/record"
	"github.com/sgrust01/json-surf/internal/domain/search/condition"
)

// MaxBatchSize is the maximum number of items per batch request.
const MaxBatchSize = 1000

// Service handles batch document operations with per-item error reporting.
type Service struct {
	inserter     BulkInserter
	deleter      FieldDeleter
	schemas      SchemaReader
	maxBatchSize int
}

// New creates a batch service.
func New(inserter BulkInserter, deleter FieldDeleter, schemas SchemaReader) *Service {
	return &Service{
		inserter: inserter, deleter: deleter, schemas: schemas,
		maxBatchSize: MaxBatchSize,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Insert checks every record against the schema and writes the valid ones
// with a single commit. Invalid records are reported without blocking the rest.
func (s *Service) Insert(ctx context.Context, collectionName string, recs []record.Record) []dombatch.Result {
	results := make([]dombatch.Result, len(recs))

	if err := s.checkSize(len(recs)); err != nil {
		return failAll(results, err)
	}

	sch, err := s.schemas.Schema(collectionName)
	if err != nil {
		return failAll(results, fmt.Errorf("get collection: %w", err))
	}

	valid := make([]record.Record, 0, len(recs))
	validIdx := make([]int, 0, len(recs))
	for i, rec := range recs {
		if _, err := document.ToNative(rec, sch); err != nil {
			results[i] = dombatch.NewError(i, err)
			continue
		}
		valid = append(valid, rec)
		validIdx = append(validIdx, i)
	}

	if len(valid) == 0 {
		return results
	}

	if _, err := s.inserter.InsertMany(ctx, collectionName, valid); err != nil {
		for _, i := range validIdx {
			results[i] = dombatch.NewError(i, fmt.Errorf("insert: %w", err))
		}
		return results
	}

	for _, i := range validIdx {
		results[i] = dombatch.NewOK(i, 1)
	}
	return results
}

// Delete runs one delete-by-field per condition and reports each outcome.
func (s *Service) Delete(ctx context.Context, collectionName string, conds []condition.And) []dombatch.Result {
	results := make([]dombatch.Result, len(conds))

	if err := s.checkSize(len(conds)); err != nil {
		return failAll(results, err)
	}

	if _, err := s.schemas.Schema(collectionName); err != nil {
		return failAll(results, fmt.Errorf("get collection: %w", err))
	}

	for i, c := range conds {
		n, err := s.deleter.DeleteByField(ctx, collectionName, c.Field, c.Value)
		if err != nil {
			results[i] = dombatch.NewError(i, fmt.Errorf("delete %s: %w", c, err))
			continue
		}
		results[i] = dombatch.NewOK(i, n)
	}

	return results
}

func (s *Service) checkSize(n int) error {
	if n > s.maxBatchSize {
		return domain.NewQueryError("invalid batch", fmt.Sprintf("batch size exceeds %d", s.maxBatchSize))
	}
	return nil
}

func failAll(results []dombatch.Result, err error) []dombatch.Result {
	for i := range results {
		results[i] = dombatch.NewError(i, err)
	}
	return results
}
