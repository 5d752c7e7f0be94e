package batch

import (
	"context"

	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/record"
)

// BulkInserter writes records with a single commit.
type BulkInserter interface {
	InsertMany(ctx context.Context, collectionName string, recs []record.Record) (int, error)
}

// FieldDeleter deletes documents matching one field value.
type FieldDeleter interface {
	DeleteByField(ctx context.Context, collectionName, fieldName, value string) (int, error)
}

// SchemaReader resolves a collection's schema.
type SchemaReader interface {
	Schema(name string) (*domcol.Schema, error)
}
