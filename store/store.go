// Package store is the document database contract the services are written
// against, plus the adapters that implement it.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get and Update when the addressed document does
// not exist.
var ErrNotFound = errors.New("document not found")

// Fields is the field mapping of a single document. Values are plain Go
// values: string, bool, float64, int64, time.Time, nil, []any, map[string]any
// and the ServerTimestamp sentinel.
type Fields map[string]any

// serverTimestamp is a request-time placeholder that the adapter replaces with
// its own clock value at write time.
type serverTimestamp struct{}

// ServerTimestamp asks the store to stamp the field with its write time.
var ServerTimestamp = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// Collection addresses a collection either at the root ("meals") or nested
// under a parent document ("users/{uid}/foods").
type Collection struct {
	Parent *DocRef
	Name   string
}

// Root returns a top-level collection.
func Root(name string) Collection {
	return Collection{Name: name}
}

// Doc addresses the document id inside c.
func (c Collection) Doc(id string) DocRef {
	return DocRef{Collection: c, ID: id}
}

// Path renders the slash separated path of the collection.
func (c Collection) Path() string {
	if c.Parent == nil {
		return c.Name
	}
	return c.Parent.Path() + "/" + c.Name
}

// DocRef addresses a single document.
type DocRef struct {
	Collection Collection
	ID         string
}

// Sub returns the collection name nested under d.
func (d DocRef) Sub(name string) Collection {
	parent := d
	return Collection{Parent: &parent, Name: name}
}

// Path renders the slash separated path of the document.
func (d DocRef) Path() string {
	return d.Collection.Path() + "/" + d.ID
}

// Op is a filter comparison.
type Op string

const (
	OpEqual        Op = "=="
	OpGreaterEqual Op = ">="
	OpLessEqual    Op = "<="
)

// Filter restricts a query to documents whose Field compares to Value.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Eq, Gte and Lte build filters.
func Eq(field string, v any) Filter  { return Filter{Field: field, Op: OpEqual, Value: v} }
func Gte(field string, v any) Filter { return Filter{Field: field, Op: OpGreaterEqual, Value: v} }
func Lte(field string, v any) Filter { return Filter{Field: field, Op: OpLessEqual, Value: v} }

// Direction of an ordering clause.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Order sorts query results by Field.
type Order struct {
	Field     string
	Direction Direction
}

// Query selects documents of a collection. Filters are AND-combined, orders
// apply in listed order, and Limit <= 0 means no cap.
type Query struct {
	Collection Collection
	Filters    []Filter
	Orders     []Order
	Limit      int
}

// From starts a query over c.
func From(c Collection) Query {
	return Query{Collection: c}
}

// Where appends a filter.
func (q Query) Where(f ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), f...)
	return q
}

// OrderBy appends an ordering clause.
func (q Query) OrderBy(field string, dir Direction) Query {
	q.Orders = append(append([]Order(nil), q.Orders...), Order{Field: field, Direction: dir})
	return q
}

// Take caps the number of results.
func (q Query) Take(n int) Query {
	q.Limit = n
	return q
}

// Snapshot is a document read back from the store. Timestamps come back as
// time.Time.
type Snapshot struct {
	Ref  DocRef
	Data Fields
}

// ID is the document id.
func (s *Snapshot) ID() string {
	return s.Ref.ID
}

// Store is implemented by every adapter.
type Store interface {
	// Add creates a document with a store-assigned id.
	Add(ctx context.Context, c Collection, data Fields) (string, error)
	// Set creates or overwrites the document.
	Set(ctx context.Context, d DocRef, data Fields) error
	// Update merges data into an existing document; ErrNotFound otherwise.
	Update(ctx context.Context, d DocRef, data Fields) error
	// Get reads one document; ErrNotFound when missing.
	Get(ctx context.Context, d DocRef) (*Snapshot, error)
	// Delete removes the document. Missing documents are not an error.
	Delete(ctx context.Context, d DocRef) error
	Query(ctx context.Context, q Query) ([]*Snapshot, error)
	Close() error
}

// resolve copies data, replacing every ServerTimestamp sentinel with now.
func resolve(data Fields, now time.Time) Fields {
	out := make(Fields, len(data))
	for k, v := range data {
		if IsServerTimestamp(v) {
			out[k] = now
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case Fields:
		return cloneValue(map[string]any(t))
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	default:
		return v
	}
}
