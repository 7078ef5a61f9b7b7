// Package query holds the store-agnostic description of a directory lookup:
// a boolean predicate tree over dotted field paths, relation-aware ordering
// and the paging window. Repositories translate it to their own dialect.
package query

import (
	"fmt"
	"strings"
)

// Source names the root collection a lookup runs against.
type Source string

const (
	SourceDoctor     Source = "doctor"
	SourceHospital   Source = "hospital"
	SourceDepartment Source = "department"
	SourceProfile    Source = "profile"
)

// Op is a field comparison operator.
type Op string

const (
	// OpEq is exact equality.
	OpEq Op = "eq"
	// OpContains is a case-insensitive substring match on text fields.
	OpContains Op = "contains"
	// OpNotEmpty matches present, non-blank values.
	OpNotEmpty Op = "not_empty"
)

// Predicate is one node of the filter tree: And, Or or Cond.
type Predicate interface {
	predicate()
}

// And matches when every clause matches. An empty And matches everything.
type And []Predicate

// Or matches when at least one clause matches. An empty Or matches everything.
type Or []Predicate

// Cond compares one field with a value. Field paths are dotted relation
// traversals rooted at the Source, e.g. "user.profile.city".
type Cond struct {
	Field string
	Op    Op
	Value any
}

func (And) predicate()  {}
func (Or) predicate()   {}
func (Cond) predicate() {}

func (c Cond) String() string {
	if c.Op == OpNotEmpty {
		return fmt.Sprintf("%s %s", c.Field, c.Op)
	}
	return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value)
}

func Eq(field string, value any) Cond {
	return Cond{Field: field, Op: OpEq, Value: value}
}

func Contains(field, value string) Cond {
	return Cond{Field: field, Op: OpContains, Value: value}
}

func NotEmpty(field string) Cond {
	return Cond{Field: field, Op: OpNotEmpty}
}

// All builds a conjunction, dropping nil clauses and flattening nested Ands.
func All(clauses ...Predicate) And {
	out := make(And, 0, len(clauses))
	for _, c := range clauses {
		switch v := c.(type) {
		case nil:
		case And:
			out = append(out, v...)
		default:
			out = append(out, c)
		}
	}
	return out
}

// Any builds a disjunction, dropping nil clauses.
func Any(clauses ...Predicate) Or {
	out := make(Or, 0, len(clauses))
	for _, c := range clauses {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Fields lists every field path referenced by p, in tree order.
func Fields(p Predicate) []string {
	var out []string
	var walk func(Predicate)
	walk = func(p Predicate) {
		switch v := p.(type) {
		case And:
			for _, c := range v {
				walk(c)
			}
		case Or:
			for _, c := range v {
				walk(c)
			}
		case Cond:
			out = append(out, v.Field)
		}
	}
	walk(p)
	return out
}

// Describe renders p for logs.
func Describe(p Predicate) string {
	switch v := p.(type) {
	case nil:
		return "true"
	case And:
		return join(v, " AND ")
	case Or:
		return join(v, " OR ")
	case Cond:
		return v.String()
	default:
		return fmt.Sprintf("%T", p)
	}
}

func join(ps []Predicate, sep string) string {
	if len(ps) == 0 {
		return "true"
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = Describe(p)
	}
	return "(" + strings.Join(parts, sep) + ")"
}
