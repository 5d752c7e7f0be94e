package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one item in a batch operation.
// Index is the item's position in the request.
type Result struct {
	index    int
	status   ItemStatus
	affected int
	err      error
}

// NewOK creates a successful batch result that touched affected documents.
func NewOK(index, affected int) Result {
	return Result{index: index, status: StatusOK, affected: affected}
}

// NewError creates a failed batch result.
func NewError(index int, err error) Result {
	return Result{index: index, status: StatusError, err: err}
}

// Index returns the item position.
func (r Result) Index() int { return r.index }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Affected returns how many documents the item wrote or deleted.
func (r Result) Affected() int { return r.affected }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Count returns the number of results with the given status.
func Count(results []Result, status ItemStatus) int {
	n := 0
	for _, r := range results {
		if r.status == status {
			n++
		}
	}
	return n
}
