package document

import (
	"context"
	"fmt"

	"github.com/sgrust01/json-surf/internal/domain"
	"github.com/sgrust01/json-surf/internal/domain/record"
)

// Service writes and deletes documents from raw JSON input.
type Service struct {
	repo Repository
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Insert parses body as one JSON object or an array of objects and writes
// them with one commit. An unknown collection is a not-found error.
func (s *Service) Insert(ctx context.Context, collectionName string, body []byte) (int, error) {
	if _, err := s.repo.Schema(collectionName); err != nil {
		return 0, err
	}
	recs, err := record.ParseJSONList(body)
	if err != nil {
		return 0, domain.NewSerializationError("unable to parse documents", "", err)
	}
	if len(recs) == 0 {
		return 0, nil
	}

	n, err := s.repo.InsertMany(ctx, collectionName, recs)
	if err != nil {
		return n, fmt.Errorf("insert documents: %w", err)
	}
	return n, nil
}

// Delete removes the documents whose field equals value. An empty field
// name deletes by term across every indexed text field.
func (s *Service) Delete(ctx context.Context, collectionName, fieldName, value string) (int, error) {
	var (
		n   int
		err error
	)
	if fieldName == "" {
		n, err = s.repo.DeleteByText(ctx, collectionName, value)
	} else {
		n, err = s.repo.DeleteByField(ctx, collectionName, fieldName, value)
	}
	if err != nil {
		return 0, fmt.Errorf("delete documents: %w", err)
	}
	return n, nil
}
