package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sgrust01/json-surf/internal/domain/record"
	"github.com/sgrust01/json-surf/internal/domain/search/condition"
	logpkg "github.com/sgrust01/json-surf/internal/logger"
	batchuc "github.com/sgrust01/json-surf/internal/usecase/batch"
	collectionuc "github.com/sgrust01/json-surf/internal/usecase/collection"
	documentuc "github.com/sgrust01/json-surf/internal/usecase/document"
	healthuc "github.com/sgrust01/json-surf/internal/usecase/health"
	searchuc "github.com/sgrust01/json-surf/internal/usecase/search"
	"github.com/sgrust01/json-surf/internal/version"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 32 << 20

// Server is the HTTP API over the collection services.
type Server struct {
	collections   *collectionuc.Service
	documents     *documentuc.Service
	search        *searchuc.Service
	batch         *batchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	collections *collectionuc.Service,
	documents *documentuc.Service,
	search *searchuc.Service,
	batch *batchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		collections:   collections,
		documents:     documents,
		search:        search,
		batch:         batch,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", s.ListCollections)
		r.Route("/{collection}", func(r chi.Router) {
			r.Get("/", s.GetCollection)
			r.Get("/documents", s.ReadDocuments)
			r.Post("/documents", s.InsertDocuments)
			r.Delete("/documents", s.DeleteDocuments)
			r.Post("/documents/batch", s.BatchInsert)
			r.Delete("/documents/batch", s.BatchDelete)
			r.Post("/select", s.SelectDocuments)
			r.Get("/search", s.SearchDocuments)
		})
	})
}

// ListCollections handles GET /collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	infos, err := s.collections.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := CollectionListResponse{Items: make([]CollectionResponse, len(infos))}
	for i, info := range infos {
		resp.Items[i] = collectionToResponse(info)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCollection handles GET /collections/{collection}.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	info, err := s.collections.Get(r.Context(), chi.URLParam(r, "collection"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionToResponse(info))
}

// InsertDocuments handles POST /collections/{collection}/documents.
// The body is one JSON object or an array of objects.
func (s *Server) InsertDocuments(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	n, err := s.documents.Insert(r.Context(), chi.URLParam(r, "collection"), body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, InsertResponse{Inserted: n})
}

// ReadDocuments handles GET /collections/{collection}/documents?field=&value=.
func (s *Server) ReadDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fieldName := q.Get("field")
	if fieldName == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "field is required")
		return
	}
	limit, minScore, err := readOptions(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	docs, err := s.search.ReadByField(r.Context(), chi.URLParam(r, "collection"),
		fieldName, q.Get("value"), limit, minScore)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentsToResponse(docs))
}

// DeleteDocuments handles DELETE /collections/{collection}/documents?field=&value=.
// Without field, value is deleted as a term of every indexed text field.
func (s *Server) DeleteDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("value") {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "value is required")
		return
	}

	n, err := s.documents.Delete(r.Context(), chi.URLParam(r, "collection"), q.Get("field"), q.Get("value"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{Deleted: n})
}

// SelectDocuments handles POST /collections/{collection}/select.
func (s *Server) SelectDocuments(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "limit must not be negative")
		return
	}

	docs, err := s.search.Evaluate(r.Context(), chi.URLParam(r, "collection"),
		condition.Query(req.Conditions), req.Limit, req.MinScore)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentsToResponse(docs))
}

// SearchDocuments handles GET /collections/{collection}/search?q=.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("q")
	if text == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "q is required")
		return
	}
	limit, minScore, err := readOptions(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	fuzziness := 0
	if v := q.Get("fuzziness"); v != "" {
		if fuzziness, err = strconv.Atoi(v); err != nil || fuzziness < 0 {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "fuzziness must be a non-negative integer")
			return
		}
	}

	docs, err := s.search.SearchFuzzy(r.Context(), chi.URLParam(r, "collection"), text, fuzziness, limit, minScore)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentsToResponse(docs))
}

// BatchInsert handles POST /collections/{collection}/documents/batch.
func (s *Server) BatchInsert(w http.ResponseWriter, r *http.Request) {
	var req BatchInsertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "documents must not be empty")
		return
	}

	recs := make([]record.Record, len(req.Documents))
	for i, raw := range req.Documents {
		rec, err := record.ParseJSON(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("documents[%d]: %s", i, err))
			return
		}
		recs[i] = rec
	}

	results := s.batch.Insert(r.Context(), chi.URLParam(r, "collection"), recs)
	writeJSON(w, http.StatusOK, batchToResponse(results))
}

// BatchDelete handles DELETE /collections/{collection}/documents/batch.
func (s *Server) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Conditions) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "conditions must not be empty")
		return
	}

	results := s.batch.Delete(r.Context(), chi.URLParam(r, "collection"), req.Conditions)
	writeJSON(w, http.StatusOK, batchToResponse(results))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Get().Version,
		Checks:  checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger).With(
		zap.String("method", r.Method),
		zap.String("collection", chi.URLParam(r, "collection")),
	)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

// readOptions parses the optional limit and min_score query parameters.
func readOptions(q url.Values) (limit int, minScore *float64, err error) {
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			return 0, nil, errors.New("limit must be a non-negative integer")
		}
	}
	if v := q.Get("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, nil, errors.New("min_score must be a number")
		}
		minScore = &f
	}
	return limit, minScore, nil
}
