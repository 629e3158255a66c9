// Package docstore defines the document-store contract the catalog and
// search compilers are written against, plus an in-memory adapter that
// honors the filter/order/limit/cursor semantics a real document database
// (Firestore, MongoDB, ...) would provide. No such client appears anywhere
// in the example pack for this kind of service, so the in-memory adapter
// is the seam a real client would plug into — see DESIGN.md.
package docstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// Op is a comparison operator a Store must support on a single field.
type Op int

const (
	OpEq Op = iota
	OpGt
	OpGte
	OpLt
	OpLte
)

// Filter is one field comparison. Filters within a Query are ANDed.
type Filter struct {
	Field string
	Op    Op
	Value string
}

// SortDirection orders a Query's result rows.
type SortDirection int

const (
	Ascending SortDirection = iota
)

// SortField names one component of an ORDER BY clause, applied in order.
type SortField struct {
	Field     string
	Direction SortDirection
}

// Cursor is an after-value start point: rows are returned strictly after
// this tuple in the query's sort order. Values line up positionally with
// the Query's OrderBy fields.
type Cursor struct {
	Values []string
}

// Query describes one document-store read.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    []SortField
	Limit      int
	After      *Cursor
	// Fields restricts the returned projection; nil/empty means all fields.
	Fields []string
}

// Row is a single document, keyed by field name -> string value plus the
// document's stable ID. Numeric/bool fields are stored as their string
// representation to keep the adapter format-agnostic, matching the
// lexicographic string comparisons the spec's filter compiler assumes.
type Row map[string]string

// ErrNotFound is returned by Get when no document matches.
var ErrNotFound = errors.New("docstore: not found")

// Store is the contract the catalog/search packages consume.
type Store interface {
	// Insert creates a document under id, failing if id already exists.
	Insert(ctx context.Context, collection, id string, doc Row) error
	// Replace overwrites an existing document's fields, failing if absent.
	Replace(ctx context.Context, collection, id string, doc Row) error
	// Get fetches a single document by id.
	Get(ctx context.Context, collection, id string) (Row, error)
	// Select runs a filtered, ordered, paginated query.
	Select(ctx context.Context, q Query) ([]Row, error)
	// AllIDs returns every document id in a collection.
	AllIDs(ctx context.Context, collection string) ([]string, error)
	// DeleteBatch removes a set of documents by id; partial failure returns
	// an error but callers should treat the batch as atomic-enough for reset.
	DeleteBatch(ctx context.Context, collection string, ids []string) error
}

// Memory is an in-memory Store, safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Row
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Row)}
}

func (m *Memory) coll(name string) map[string]Row {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]Row)
		m.collections[name] = c
	}
	return c
}

func (m *Memory) Insert(_ context.Context, collection, id string, doc Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(collection)
	if _, exists := c[id]; exists {
		return errors.New("docstore: document already exists")
	}
	c[id] = cloneRow(doc)
	return nil
}

func (m *Memory) Replace(_ context.Context, collection, id string, doc Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(collection)
	if _, exists := c[id]; !exists {
		return ErrNotFound
	}
	c[id] = cloneRow(doc)
	return nil
}

func (m *Memory) Get(_ context.Context, collection, id string) (Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.collections[collection]
	row, ok := c[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRow(row), nil
}

func (m *Memory) AllIDs(_ context.Context, collection string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.collections[collection]
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *Memory) DeleteBatch(_ context.Context, collection string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(collection)
	for _, id := range ids {
		delete(c, id)
	}
	return nil
}

func (m *Memory) Select(_ context.Context, q Query) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.collections[q.Collection]

	var rows []Row
	for id, row := range c {
		if !matches(row, q.Filters) {
			continue
		}
		r := cloneRow(row)
		r["__id"] = id
		rows = append(rows, r)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, s := range q.OrderBy {
			vi, vj := fieldValue(rows[i], s.Field), fieldValue(rows[j], s.Field)
			if vi == vj {
				continue
			}
			return vi < vj
		}
		return false
	})

	if q.After != nil {
		rows = afterCursor(rows, q.OrderBy, q.After)
	}

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	if len(q.Fields) > 0 {
		projected := make([]Row, len(rows))
		for i, r := range rows {
			p := Row{"__id": r["__id"]}
			for _, f := range q.Fields {
				if v, ok := r[f]; ok {
					p[f] = v
				}
			}
			projected[i] = p
		}
		rows = projected
	}

	return rows, nil
}

func fieldValue(row Row, field string) string {
	if field == "__id" {
		return row["__id"]
	}
	return row[field]
}

func afterCursor(rows []Row, orderBy []SortField, after *Cursor) []Row {
	if len(after.Values) != len(orderBy) {
		return rows
	}
	idx := sort.Search(len(rows), func(i int) bool {
		return tupleGreater(rows[i], orderBy, after.Values)
	})
	return rows[idx:]
}

// tupleGreater reports whether row's ordered tuple is strictly greater
// than the cursor's values, under lexicographic comparison.
func tupleGreater(row Row, orderBy []SortField, cursor []string) bool {
	for i, s := range orderBy {
		v := fieldValue(row, s.Field)
		c := cursor[i]
		if v == c {
			continue
		}
		return v > c
	}
	return false
}

func matches(row Row, filters []Filter) bool {
	for _, f := range filters {
		v, ok := row[f.Field]
		if !ok {
			return false
		}
		switch f.Op {
		case OpEq:
			if v != f.Value {
				return false
			}
		case OpGt:
			if strings.Compare(v, f.Value) <= 0 {
				return false
			}
		case OpGte:
			if strings.Compare(v, f.Value) < 0 {
				return false
			}
		case OpLt:
			if strings.Compare(v, f.Value) >= 0 {
				return false
			}
		case OpLte:
			if strings.Compare(v, f.Value) > 0 {
				return false
			}
		}
	}
	return true
}

func cloneRow(row Row) Row {
	c := make(Row, len(row))
	for k, v := range row {
		c[k] = v
	}
	return c
}
