package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sgrust01/json-surf/internal/domain"
)

// ErrorCode is a machine-readable error code in API responses.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeCollectionNotFound  ErrorCode = "collection_not_found"
	ErrorCodeInvalidQuery        ErrorCode = "invalid_query"
	ErrorCodeSerializationFailed ErrorCode = "serialization_failed"
	ErrorCodeInvalidSchema       ErrorCode = "invalid_schema"
	ErrorCodeStorageError        ErrorCode = "storage_error"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeCollectionNotFound),
		sentinelHandler(domain.ErrQuery, http.StatusBadRequest, ErrorCodeInvalidQuery),
		sentinelHandler(domain.ErrSerialization, http.StatusBadRequest, ErrorCodeSerializationFailed),
		sentinelHandler(domain.ErrSchema, http.StatusBadRequest, ErrorCodeInvalidSchema),
		sentinelHandler(domain.ErrStorage, http.StatusServiceUnavailable, ErrorCodeStorageError),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message. Caller-input errors
// keep their reason; storage failures only expose the sentinel.
func safeDomainMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindStorage {
		return de.Error()
	}
	sentinels := []error{
		domain.ErrStorage,
		domain.ErrNotFlat,
		domain.ErrUnsupportedType,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// errorCode maps an error to its API code without writing a response.
func errorCode(err error) ErrorCode {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return ErrorCodeCollectionNotFound
	case domain.KindQuery:
		return ErrorCodeInvalidQuery
	case domain.KindSerialization:
		return ErrorCodeSerializationFailed
	case domain.KindSchema:
		return ErrorCodeInvalidSchema
	case domain.KindStorage:
		return ErrorCodeStorageError
	default:
		return ErrorCodeInternalError
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}
