package jsonsurf

import "github.com/sgrust01/json-surf/internal/domain/search/condition"

// And is one field = value equality pair.
type And = condition.And

// Or is one AND-group: all its pairs must match.
type Or = condition.Or

// Query is a list of AND-groups whose matches are unioned.
type Query = condition.Query

// Cond builds an equality pair. value is parsed by the field's type when
// the query runs.
func Cond(field, value string) And {
	return And{Field: field, Value: value}
}

// AllOf groups pairs that must all match.
func AllOf(pairs ...And) Or {
	return Or{Conditions: pairs}
}

// Where is a query with a single pair.
func Where(field, value string) Query {
	return Query{condition.From(field, value)}
}
