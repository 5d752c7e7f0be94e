package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema signals a schema inference or registration failure.
	ErrSchema = errors.New("schema error")
	// ErrStorage signals a failure in the index storage layer.
	ErrStorage = errors.New("storage error")
	// ErrQuery signals an invalid query or condition.
	ErrQuery = errors.New("query error")
	// ErrSerialization signals a record <-> JSON <-> native document conversion failure.
	ErrSerialization = errors.New("serialization error")
	// ErrNotFound signals an operation against an unregistered collection.
	ErrNotFound = errors.New("not found")

	// ErrNotFlat signals a sample or record that is not a flat key-value structure.
	ErrNotFlat = errors.New("expected a flat key-value record")
	// ErrUnsupportedType signals a value kind that cannot be mapped to a field type.
	ErrUnsupportedType = errors.New("unsupported value type")
)

// Kind classifies an Error.
type Kind int

// Error kinds.
const (
	KindSchema Kind = iota + 1
	KindStorage
	KindQuery
	KindSerialization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindStorage:
		return "storage"
	case KindQuery:
		return "query"
	case KindSerialization:
		return "serialization"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindSchema:
		return ErrSchema
	case KindStorage:
		return ErrStorage
	case KindQuery:
		return ErrQuery
	case KindSerialization:
		return ErrSerialization
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Error carries a human-readable message, the reason it happened and,
// when the failure crossed the storage boundary, the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Reason  string
	Err     error
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Reason)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind, so errors.Is(err, ErrQuery) works
// without the caller knowing about *Error.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func newError(kind Kind, message, reason string, cause error) *Error {
	if reason == "" && cause != nil {
		reason = cause.Error()
	}
	return &Error{Kind: kind, Message: message, Reason: reason, Err: cause}
}

// NewSchemaError creates a KindSchema error. cause may be ErrNotFlat or ErrUnsupportedType.
func NewSchemaError(message, reason string, cause error) error {
	return newError(KindSchema, message, reason, cause)
}

// NewStorageError wraps an error returned by the search engine or filesystem.
func NewStorageError(message string, cause error) error {
	return newError(KindStorage, message, "", cause)
}

// NewQueryError creates a KindQuery error.
func NewQueryError(message, reason string) error {
	return newError(KindQuery, message, reason, nil)
}

// NewSerializationError creates a KindSerialization error.
func NewSerializationError(message, reason string, cause error) error {
	return newError(KindSerialization, message, reason, cause)
}

// NewNotFoundError reports an unknown collection.
func NewNotFoundError(collection string) error {
	return newError(KindNotFound,
		fmt.Sprintf("invalid index operation for %s", collection),
		fmt.Sprintf("no schema found for index: %s", collection), nil)
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
