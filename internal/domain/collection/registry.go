package collection

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sgrust01/json-surf/internal/domain"
)

// ErrRegistryConsumed is returned when a registry is used after Consume.
var ErrRegistryConsumed = errors.New("registry already consumed")

// Registry accumulates named collection schemas and the home directory.
// It is consumed exactly once to open a lifecycle manager.
type Registry struct {
	home     string
	names    []string
	schemas  map[string]*Schema
	consumed bool
}

// NewRegistry creates an empty registry with the default home.
func NewRegistry() *Registry {
	return &Registry{home: domain.DefaultHome, schemas: make(map[string]*Schema)}
}

// SetHome sets the directory holding one index per collection.
// An empty home resets to the default.
func (r *Registry) SetHome(home string) error {
	if r.consumed {
		return ErrRegistryConsumed
	}
	if home == "" {
		home = domain.DefaultHome
	}
	r.home = home
	return nil
}

// Register adds or replaces the schema for name. Zero-field schemas are
// rejected.
func (r *Registry) Register(name string, s *Schema) error {
	if r.consumed {
		return ErrRegistryConsumed
	}
	if err := ValidateName(name); err != nil {
		return domain.NewSchemaError("invalid collection", err.Error(), nil)
	}
	if s == nil || s.IsEmpty() {
		return domain.NewSchemaError("invalid collection",
			fmt.Sprintf("schema for %s has no fields", name), domain.ErrNotFlat)
	}
	if _, ok := r.schemas[name]; !ok {
		r.names = append(r.names, name)
	}
	r.schemas[name] = s
	return nil
}

// Consume marks the registry as used. A second call fails.
func (r *Registry) Consume() error {
	if r.consumed {
		return ErrRegistryConsumed
	}
	r.consumed = true
	return nil
}

// Home returns the home directory.
func (r *Registry) Home() string { return r.home }

// Names returns the collection names in registration order.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }

// Schema returns the registered schema for name.
func (r *Registry) Schema(name string) (*Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Path returns the index directory for name: home/name.
func (r *Registry) Path(name string) string {
	return filepath.Join(r.home, name)
}

func (r *Registry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Home: %s\n", r.home)
	for _, name := range r.names {
		fmt.Fprintf(&b, "Index: %s\n%s", name, r.schemas[name])
	}
	return b.String()
}
