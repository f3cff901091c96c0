// Package filter composes optional search criteria into a single AND-combined predicate that can be
// evaluated in memory or translated into a store query by persistence adapters.
package filter

import (
	"fmt"
	"strings"
)

// Operator names the comparison a criterion applies to its field.
type Operator string

const (
	// OpEqual matches when the field equals the value exactly.
	OpEqual Operator = "eq"
	// OpContainsFold matches when the field contains the value, ignoring case.
	OpContainsFold Operator = "icontains"
)

// Criterion is a single clause of a filter. Field and Op describe the clause for adapters that build
// queries; Match evaluates it against an in-memory value.
type Criterion[T any] struct {
	Field string
	Op    Operator
	Value any
	Match func(T) bool
}

// Filter is an immutable conjunction of criteria. The zero value matches everything.
type Filter[T any] struct {
	criteria []Criterion[T]
}

// All returns a filter without criteria.
func All[T any]() Filter[T] {
	return Filter[T]{}
}

// And returns a new filter with c appended.
func (f Filter[T]) And(c Criterion[T]) Filter[T] {
	next := make([]Criterion[T], 0, len(f.criteria)+1)
	next = append(next, f.criteria...)
	next = append(next, c)
	return Filter[T]{criteria: next}
}

// AndIf appends the criterion built by build only when present is true.
func (f Filter[T]) AndIf(present bool, build func() Criterion[T]) Filter[T] {
	if !present || build == nil {
		return f
	}
	return f.And(build())
}

// Matches reports whether v satisfies every criterion.
func (f Filter[T]) Matches(v T) bool {
	for _, c := range f.criteria {
		if c.Match != nil && !c.Match(v) {
			return false
		}
	}
	return true
}

// Apply returns the subset of items matching the filter, preserving order.
func (f Filter[T]) Apply(items []T) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			result = append(result, item)
		}
	}
	return result
}

// Criteria returns a copy of the clauses.
func (f Filter[T]) Criteria() []Criterion[T] {
	return append([]Criterion[T](nil), f.criteria...)
}

// IsEmpty reports whether the filter has no clauses.
func (f Filter[T]) IsEmpty() bool {
	return len(f.criteria) == 0
}

func (f Filter[T]) String() string {
	if len(f.criteria) == 0 {
		return "all"
	}
	parts := make([]string, 0, len(f.criteria))
	for _, c := range f.criteria {
		parts = append(parts, fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value))
	}
	return strings.Join(parts, " AND ")
}

// Equal builds an equality criterion over the field read by get.
func Equal[T any, V comparable](field string, value V, get func(T) V) Criterion[T] {
	return Criterion[T]{
		Field: field,
		Op:    OpEqual,
		Value: value,
		Match: func(v T) bool { return get(v) == value },
	}
}

// ContainsFold builds a case-insensitive substring criterion over the field read by get.
func ContainsFold[T any](field, value string, get func(T) string) Criterion[T] {
	needle := strings.ToLower(value)
	return Criterion[T]{
		Field: field,
		Op:    OpContainsFold,
		Value: value,
		Match: func(v T) bool { return strings.Contains(strings.ToLower(get(v)), needle) },
	}
}
