package db

import "context"

// Store opens and creates physical indexes on disk.
type Store interface {
	Exists(path string) bool
	Create(ctx context.Context, def *IndexDefinition) (Index, error)
	Open(ctx context.Context, path string) (Index, error)
}

// Index is one opened physical index.
type Index interface {
	InternalStore
	NewWriter(ctx context.Context, memoryBudget uint64) (Writer, error)
	NewReader(ctx context.Context) (Reader, error)
	Close() error
}

// InternalStore keeps small metadata blobs next to the documents.
type InternalStore interface {
	GetInternal(ctx context.Context, key string) ([]byte, error)
	SetInternal(ctx context.Context, key string, value []byte) error
}

// Writer stages documents and deletions until Commit.
// Staged changes above the memory budget are flushed early.
type Writer interface {
	Add(ctx context.Context, fields map[string]any) (uint64, error)
	DeleteMatching(ctx context.Context, queries []*TermQuery) (int, error)
	Commit(ctx context.Context) error
}

// Reader runs queries against the latest committed state.
type Reader interface {
	SearchTerm(ctx context.Context, q *TermQuery, size int) (*SearchResult, error)
	SearchText(ctx context.Context, q *TextQuery, size int) (*SearchResult, error)
	Fetch(ctx context.Context, ids []uint64) ([]SearchEntry, error)
	DocCount(ctx context.Context) (uint64, error)
}
