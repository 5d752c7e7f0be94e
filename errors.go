package jsonsurf

import "github.com/sgrust01/json-surf/internal/domain"

// Error is the error type returned by every operation. Match its kind with
// errors.Is against the sentinels below.
type Error = domain.Error

// Kind classifies an Error.
type Kind = domain.Kind

// Error kinds.
const (
	KindSchema        = domain.KindSchema
	KindStorage       = domain.KindStorage
	KindQuery         = domain.KindQuery
	KindSerialization = domain.KindSerialization
	KindNotFound      = domain.KindNotFound
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrSchema          = domain.ErrSchema
	ErrStorage         = domain.ErrStorage
	ErrQuery           = domain.ErrQuery
	ErrSerialization   = domain.ErrSerialization
	ErrNotFound        = domain.ErrNotFound
	ErrNotFlat         = domain.ErrNotFlat
	ErrUnsupportedType = domain.ErrUnsupportedType
)

// KindOf returns the kind of the first Error in err's chain, or 0.
func KindOf(err error) Kind { return domain.KindOf(err) }
