package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	domcol "github.com/sgrust01/json-surf/internal/domain/collection"
	"github.com/sgrust01/json-surf/internal/domain/collection/field"
	"github.com/sgrust01/json-surf/internal/domain/record"
)

// CollectionConfig declares one collection by an example record. The sample
// stays a yaml.Node so its key order becomes the field order.
type CollectionConfig struct {
	Name   string                  `yaml:"name"`
	Sample yaml.Node               `yaml:"sample"`
	Fields map[string]FieldOptions `yaml:"fields"`
}

// FieldOptions overrides how one sampled field is stored and indexed.
// Unset flags keep the default.
type FieldOptions struct {
	Stored    *bool `yaml:"stored"`
	Indexed   *bool `yaml:"indexed"`
	Tokenized *bool `yaml:"tokenized"` // text fields only
}

// Schema infers the collection schema from the sample and the overrides.
func (c CollectionConfig) Schema() (*domcol.Schema, error) {
	rec, err := record.FromYAML(&c.Sample)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", c.Name, err)
	}

	overrides := make(map[string]field.Options, len(c.Fields))
	for name, o := range c.Fields {
		v, ok := rec.Get(name)
		if !ok {
			return nil, fmt.Errorf("collection %s: option for unknown field %q", c.Name, name)
		}
		switch v.Kind() {
		case record.KindString, record.KindBool:
			t := field.DefaultTextOptions()
			setFlag(&t.Stored, o.Stored)
			setFlag(&t.Indexed, o.Indexed)
			setFlag(&t.Tokenized, o.Tokenized)
			overrides[name] = t
		case record.KindUint, record.KindInt, record.KindFloat:
			n := field.DefaultNumericOptions()
			setFlag(&n.Stored, o.Stored)
			setFlag(&n.Indexed, o.Indexed)
			overrides[name] = n
		}
	}

	s, err := domcol.InferRecord(rec, overrides)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", c.Name, err)
	}
	return s, nil
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
