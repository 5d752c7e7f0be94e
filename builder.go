package jsonsurf

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	blevestore "github.com/sgrust01/json-surf/internal/db/bleve"
	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
	collectionrepo "github.com/sgrust01/json-surf/internal/repository/collection"
	searchuc "github.com/sgrust01/json-surf/internal/usecase/search"
)

// Schema is the ordered, typed field list of a collection.
type Schema = domcol.Schema

// FieldOptions overrides how one inferred field is stored and indexed.
// Use TextOptions for string and bool fields, NumericOptions for numbers.
type FieldOptions = field.Options

// TextOptions configures a text field.
type TextOptions = field.TextOptions

// NumericOptions configures a numeric field.
type NumericOptions = field.NumericOptions

// Infer derives a schema from a sample struct, string-keyed map or record.
// Struct fields keep their declaration order; map keys are sorted.
func Infer(sample any, overrides map[string]FieldOptions) (*Schema, error) {
	return domcol.Infer(sample, overrides)
}

// Builder collects collections before they are opened together.
type Builder struct {
	reg *domcol.Registry
}

// NewBuilder creates a builder with the default home directory.
func NewBuilder() *Builder {
	return &Builder{reg: domcol.NewRegistry()}
}

// SetHome sets the directory holding one index per collection.
func (b *Builder) SetHome(home string) error {
	return b.reg.SetHome(home)
}

// Register infers a schema from sample and registers it under name.
// Registering a name again replaces its schema.
func (b *Builder) Register(name string, sample any, overrides map[string]FieldOptions) error {
	s, err := domcol.Infer(sample, overrides)
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	return b.RegisterSchema(name, s)
}

// RegisterSchema registers an explicit schema under name.
func (b *Builder) RegisterSchema(name string, s *Schema) error {
	if err := b.reg.Register(name, s); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	return nil
}

// RegisterType registers the schema inferred from T's zero value.
func RegisterType[T any](b *Builder, name string, overrides map[string]FieldOptions) error {
	var sample T
	return b.Register(name, sample, overrides)
}

func (b *Builder) String() string { return b.reg.String() }

// Open opens every registered collection. The builder cannot be opened twice.
// A collection that fails to open does not fail Open; see Surfer.Failures.
func (b *Builder) Open(ctx context.Context, opts ...Option) (*Surfer, error) {
	cfg := defaultSurferConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	store := blevestore.NewStore(blevestore.Config{LockTimeout: cfg.lockTimeout})
	m, err := collectionrepo.Open(ctx, b.reg, store, collectionrepo.Config{
		WriterMemoryBudget: cfg.writerMemoryBudget,
		OpenConcurrency:    cfg.openConcurrency,
	}, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("jsonsurf: %w", err)
	}

	for name, ferr := range m.Failures() {
		cfg.logger.Error("collection unavailable", zap.String("collection", name), zap.Error(ferr))
	}

	return &Surfer{
		manager: m,
		search:  searchuc.New(m, cfg.query),
		query:   cfg.query,
		logger:  cfg.logger,
	}, nil
}
