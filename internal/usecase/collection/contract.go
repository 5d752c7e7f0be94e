package collection

import (
	"context"

	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
)

// Repository exposes the opened collections.
type Repository interface {
	Names() []string
	Schema(name string) (*domcol.Schema, error)
	WhichPath(name string) (string, bool)
	Count(ctx context.Context, name string) (uint64, error)
	Failures() map[string]error
}
