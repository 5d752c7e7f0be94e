package collection

import (
	"context"
	"fmt"

	"github.com/sgrust01/json-surf/internal/domain"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
)

// Info describes one registered collection.
type Info struct {
	Name      string
	Path      string
	Fields    []field.Field
	Documents uint64
	// Err is set when the collection failed to open.
	Err error
}

// Service answers read-only questions about collections.
type Service struct {
	repo Repository
}

// New creates a collection service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get describes a single collection.
func (s *Service) Get(ctx context.Context, name string) (Info, error) {
	path, ok := s.repo.WhichPath(name)
	if !ok {
		return Info{}, domain.NewNotFoundError(name)
	}
	info := Info{Name: name, Path: path}

	if err, failed := s.repo.Failures()[name]; failed {
		info.Err = err
		return info, nil
	}

	sch, err := s.repo.Schema(name)
	if err != nil {
		return Info{}, fmt.Errorf("get schema: %w", err)
	}
	info.Fields = sch.Fields()

	n, err := s.repo.Count(ctx, name)
	if err != nil {
		return Info{}, fmt.Errorf("count documents: %w", err)
	}
	info.Documents = n
	return info, nil
}

// List describes every collection in registration order.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	names := s.repo.Names()
	out := make([]Info, 0, len(names))
	for _, name := range names {
		info, err := s.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}
		out = append(out, info)
	}
	return out, nil
}
