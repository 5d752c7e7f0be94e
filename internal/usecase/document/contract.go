package document

import (
	"context"

	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/record"
)

// Repository defines the write contract for documents.
type Repository interface {
	Schema(name string) (*domcol.Schema, error)
	InsertMany(ctx context.Context, collectionName string, recs []record.Record) (int, error)
	DeleteByField(ctx context.Context, collectionName, fieldName, value string) (int, error)
	DeleteByText(ctx context.Context, collectionName, value string) (int, error)
}
