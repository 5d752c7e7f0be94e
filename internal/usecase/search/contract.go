package search

import (
	"context"

	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/document"
	"github.com/sgrust01/json-surf/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	Schema(name string) (*domcol.Schema, error)
	SearchTerm(ctx context.Context, name string, t document.Term, limit int) ([]result.Hit, error)
	SearchText(ctx context.Context, name, text string, fuzziness, limit int) ([]result.Hit, error)
	Fetch(ctx context.Context, name string, ids []uint64) ([]result.Document, error)
}
