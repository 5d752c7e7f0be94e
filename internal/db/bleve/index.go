package bleve

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"sync"

	blevesearch "github.com/blevesearch/bleve/v2"

	"github.com/sgrust01/json-surf/internal/db"
)

// seqKey holds the next document id, 8 bytes big-endian.
const seqKey = "jsonsurf.seq"

// Compile-time checks.
var (
	_ db.Index  = (*Index)(nil)
	_ db.Writer = (*Writer)(nil)
	_ db.Reader = (*Reader)(nil)
)

// Index wraps one opened bleve index.
type Index struct {
	mu     sync.RWMutex
	idx    blevesearch.Index
	closed bool
}

func newIndex(idx blevesearch.Index) *Index {
	return &Index{idx: idx}
}

// GetInternal returns the value stored under key, or nil when absent.
func (i *Index) GetInternal(_ context.Context, key string) ([]byte, error) {
	idx, err := i.live()
	if err != nil {
		return nil, err
	}
	v, err := idx.GetInternal([]byte(key))
	if err != nil {
		return nil, &db.Error{Op: db.OpGetInternal, Err: err}
	}
	return v, nil
}

// SetInternal stores value under key outside the document space.
func (i *Index) SetInternal(_ context.Context, key string, value []byte) error {
	idx, err := i.live()
	if err != nil {
		return err
	}
	if err := idx.SetInternal([]byte(key), value); err != nil {
		return &db.Error{Op: db.OpSetInternal, Err: err}
	}
	return nil
}

// NewWriter creates a writer that continues the stored id sequence.
func (i *Index) NewWriter(_ context.Context, memoryBudget uint64) (db.Writer, error) {
	idx, err := i.live()
	if err != nil {
		return nil, err
	}
	raw, err := idx.GetInternal([]byte(seqKey))
	if err != nil {
		return nil, &db.Error{Op: db.OpGetInternal, Err: err}
	}
	next, err := decodeSeq(raw)
	if err != nil {
		return nil, &db.Error{Op: db.OpGetInternal, Err: err}
	}
	return &Writer{
		idx:    idx,
		budget: memoryBudget,
		batch:  idx.NewBatch(),
		next:   next,
	}, nil
}

// NewReader creates a reader. Bleve serves every search from the latest
// committed snapshot, so readers never need reloading.
func (i *Index) NewReader(_ context.Context) (db.Reader, error) {
	idx, err := i.live()
	if err != nil {
		return nil, err
	}
	return &Reader{idx: idx}, nil
}

// Close releases the index and its file lock.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	if err := i.idx.Close(); err != nil {
		return &db.Error{Op: db.OpClose, Err: err}
	}
	return nil
}

func (i *Index) live() (blevesearch.Index, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return nil, db.ErrClosed
	}
	return i.idx, nil
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", db.ErrInvalidID, s)
	}
	return id, nil
}

func encodeSeq(next uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	return buf
}

// decodeSeq reads the next id. Fresh indexes start at 1.
func decodeSeq(raw []byte) (uint64, error) {
	if len(raw) == 0 {
		return 1, nil
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("corrupt id sequence: %d bytes", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}
