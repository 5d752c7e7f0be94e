package chi

import (
	"encoding/json"

	dombatch "github.com/sgrust01/json-surf/internal/domain/batch"
	"github.com/sgrust01/json-surf/internal/domain/search/condition"
	"github.com/sgrust01/json-surf/internal/domain/search/result"
	collectionuc "github.com/sgrust01/json-surf/internal/usecase/collection"
)

// FieldResponse describes one schema field.
type FieldResponse struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Stored    bool   `json:"stored"`
	Indexed   bool   `json:"indexed"`
	Tokenized bool   `json:"tokenized,omitempty"`
	Bool      bool   `json:"bool,omitempty"`
}

// CollectionResponse describes one collection.
type CollectionResponse struct {
	Name          string          `json:"name"`
	Path          string          `json:"path"`
	Fields        []FieldResponse `json:"fields,omitempty"`
	DocumentCount uint64          `json:"document_count"`
	Error         string          `json:"error,omitempty"`
}

// CollectionListResponse lists collections in registration order.
type CollectionListResponse struct {
	Items []CollectionResponse `json:"items"`
}

// InsertResponse reports how many documents were written.
type InsertResponse struct {
	Inserted int `json:"inserted"`
}

// DeleteResponse reports how many documents were removed.
type DeleteResponse struct {
	Deleted int `json:"deleted"`
}

// SelectRequest is a boolean condition query: OR over AND-groups.
type SelectRequest struct {
	Conditions []condition.Or `json:"conditions"`
	Limit      int            `json:"limit"`
	MinScore   *float64       `json:"min_score"`
}

// DocumentListResponse carries materialized documents.
type DocumentListResponse struct {
	Items []json.RawMessage `json:"items"`
	Total int               `json:"total"`
}

// BatchInsertRequest carries documents to insert with per-item results.
type BatchInsertRequest struct {
	Documents []json.RawMessage `json:"documents"`
}

// BatchDeleteRequest carries equality pairs, each deleted independently.
type BatchDeleteRequest struct {
	Conditions []condition.And `json:"conditions"`
}

// BatchResultItem is the outcome of one batch item.
type BatchResultItem struct {
	Index    int            `json:"index"`
	Status   string         `json:"status"`
	Affected int            `json:"affected"`
	Error    *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse summarizes a batch operation.
type BatchResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// HealthResponse reports the health of every collection.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

func collectionToResponse(info collectionuc.Info) CollectionResponse {
	resp := CollectionResponse{
		Name:          info.Name,
		Path:          info.Path,
		DocumentCount: info.Documents,
	}
	if info.Err != nil {
		resp.Error = safeDomainMessage(info.Err)
		return resp
	}
	resp.Fields = make([]FieldResponse, len(info.Fields))
	for i, f := range info.Fields {
		resp.Fields[i] = FieldResponse{
			Name:      f.Name(),
			Type:      string(f.FieldType()),
			Stored:    f.Stored(),
			Indexed:   f.Indexed(),
			Tokenized: f.Tokenized(),
			Bool:      f.IsBool(),
		}
	}
	return resp
}

func documentsToResponse(docs []result.Document) DocumentListResponse {
	return DocumentListResponse{Items: result.Bodies(docs), Total: len(docs)}
}

func batchToResponse(results []dombatch.Result) BatchResponse {
	resp := BatchResponse{Items: make([]BatchResultItem, len(results))}
	for i, r := range results {
		item := BatchResultItem{
			Index:    r.Index(),
			Status:   string(r.Status()),
			Affected: r.Affected(),
		}
		if r.Err() != nil {
			item.Error = &ErrorResponse{Code: errorCode(r.Err()), Message: safeDomainMessage(r.Err())}
		}
		resp.Items[i] = item
	}
	resp.Succeeded = dombatch.Count(results, dombatch.StatusOK)
	resp.Failed = dombatch.Count(results, dombatch.StatusError)
	return resp
}
