// Package condition models boolean equality queries: a query is an ordered
// list of OR-groups, each an AND-group of (field, value) pairs.
package condition

import (
	"fmt"
	"strings"
)

// MaxConditionsPerGroup is the maximum number of pairs in one AND-group.
const MaxConditionsPerGroup = 32

// And is a single equality pair. Value is parsed according to the field type
// when the query runs.
type And struct {
	Field string `json:"field_name"`
	Value string `json:"value"`
}

// NewAnd creates an equality pair.
func NewAnd(field, value string) (And, error) {
	if field == "" {
		return And{}, fmt.Errorf("condition field is required")
	}
	return And{Field: field, Value: value}, nil
}

func (a And) String() string { return a.Field + "=" + a.Value }

// Or is one OR-group: every pair must match.
type Or struct {
	Conditions []And `json:"and_conditions"`
}

// NewOr validates and creates an OR-group.
func NewOr(conditions ...And) (Or, error) {
	if len(conditions) > MaxConditionsPerGroup {
		return Or{}, fmt.Errorf("too many conditions in group (max %d)", MaxConditionsPerGroup)
	}
	for i, c := range conditions {
		if c.Field == "" {
			return Or{}, fmt.Errorf("condition %d: field is required", i)
		}
	}
	return Or{Conditions: conditions}, nil
}

// From is a shorthand for a single-pair group.
func From(field, value string) Or {
	return Or{Conditions: []And{{Field: field, Value: value}}}
}

// IsEmpty reports whether the group has no pairs.
func (o Or) IsEmpty() bool { return len(o.Conditions) == 0 }

func (o Or) String() string {
	parts := make([]string, len(o.Conditions))
	for i, c := range o.Conditions {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

// Query is a list of OR-groups whose results are unioned.
type Query []Or

// Validate checks every group.
func (q Query) Validate() error {
	for i, g := range q {
		if _, err := NewOr(g.Conditions...); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}
	return nil
}

func (q Query) String() string {
	parts := make([]string, len(q))
	for i, g := range q {
		parts[i] = g.String()
	}
	return strings.Join(parts, " OR ")
}
