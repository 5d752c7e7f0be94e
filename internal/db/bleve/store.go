// Package bleve implements db.Store over on-disk bleve scorch indexes.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	blevesearch "github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/index/scorch"

	"github.com/sgrust01/json-surf/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// metaFile marks a directory holding a bleve index.
const metaFile = "index_meta.json"

// DefaultLockTimeout bounds the wait for another process's file lock.
const DefaultLockTimeout = 5 * time.Second

// Config holds runtime options for opened indexes.
type Config struct {
	LockTimeout time.Duration
}

// Store creates and opens scorch indexes on the local filesystem.
type Store struct {
	lockTimeout time.Duration
}

// NewStore creates a filesystem index store.
func NewStore(cfg Config) *Store {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = DefaultLockTimeout
	}
	return &Store{lockTimeout: cfg.LockTimeout}
}

// Exists reports whether path already holds an index.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(path, metaFile))
	return err == nil
}

// Create builds a new index at def.Path, creating the directory.
func (s *Store) Create(_ context.Context, def *db.IndexDefinition) (db.Index, error) {
	if err := def.Validate(); err != nil {
		return nil, &db.Error{Op: db.OpCreate, Err: err}
	}
	if s.Exists(def.Path) {
		return nil, db.ErrIndexExists
	}
	if err := os.MkdirAll(def.Path, 0o755); err != nil {
		return nil, &db.Error{Op: db.OpCreate, Err: fmt.Errorf("create directory %s: %w", def.Path, err)}
	}

	im, err := buildMapping(def)
	if err != nil {
		return nil, &db.Error{Op: db.OpCreate, Err: err}
	}

	idx, err := blevesearch.NewUsing(def.Path, im, scorch.Name, blevesearch.Config.DefaultKVStore, s.runtimeConfig())
	if err != nil {
		return nil, &db.Error{Op: db.OpCreate, Err: err}
	}
	return newIndex(idx), nil
}

// Open opens an existing index. The mapping is read back from disk.
func (s *Store) Open(_ context.Context, path string) (db.Index, error) {
	if !s.Exists(path) {
		return nil, db.ErrIndexNotFound
	}
	idx, err := blevesearch.OpenUsing(path, s.runtimeConfig())
	if err != nil {
		if errors.Is(err, blevesearch.ErrorIndexMetaMissing) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	return newIndex(idx), nil
}

func (s *Store) runtimeConfig() map[string]interface{} {
	return map[string]interface{}{
		"bolt_timeout": s.lockTimeout.String(),
	}
}
