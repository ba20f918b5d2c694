package domain

import (
	"sort"
	"strings"
)

type QueryType int

const (
	QueryByID QueryType = iota
	QuerySearch
	QueryList
)

func (t QueryType) String() string {
	switch t {
	case QueryByID:
		return "get"
	case QuerySearch:
		return "search"
	case QueryList:
		return "list"
	}
	return "unknown"
}

// Query is one request against a catalog, answered identically by the
// remote source and the fallback snapshot.
type Query struct {
	Kind   Kind
	Type   QueryType
	ID     string
	Search string
	Page   int
	Limit  int
	// Where restricts list queries to entities whose fields equal the given values.
	Where map[string]string
}

func ByID(kind Kind, id string) Query {
	return Query{Kind: kind, Type: QueryByID, ID: id}
}

func Search(kind Kind, term string) Query {
	return Query{Kind: kind, Type: QuerySearch, Search: term}
}

func List(kind Kind, page, limit int) Query {
	return Query{Kind: kind, Type: QueryList, Page: page, Limit: limit}
}

// WithWhere returns a copy of q restricted to entities where field equals value.
func (q Query) WithWhere(field, value string) Query {
	where := make(map[string]string, len(q.Where)+1)
	for k, v := range q.Where {
		where[k] = v
	}
	where[field] = value
	q.Where = where
	return q
}

// WithDefaults replaces non-positive page/limit values.
func (q Query) WithDefaults(defaultLimit int) Query {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	return q
}

func (q Query) Validate() error {
	if SchemaFor(q.Kind) == nil {
		return &ValidationError{Field: "kind", Message: "unknown entity kind " + string(q.Kind)}
	}
	switch q.Type {
	case QueryByID:
		if strings.TrimSpace(q.ID) == "" {
			return &ValidationError{Field: "id", Message: "must not be empty"}
		}
	case QuerySearch:
		if strings.TrimSpace(q.Search) == "" {
			return &ValidationError{Field: "search", Message: "must not be empty"}
		}
	case QueryList:
	default:
		return &ValidationError{Field: "type", Message: "unknown query type"}
	}
	return nil
}

// Filter keeps the entities that satisfy the Where clause.
func (q Query) Filter(entities []Entity) []Entity {
	if len(q.Where) == 0 {
		return entities
	}
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if q.accepts(e) {
			out = append(out, e)
		}
	}
	return out
}

func (q Query) accepts(e Entity) bool {
	for field, want := range q.Where {
		if e.Text(field) != want {
			return false
		}
	}
	return true
}

// WhereFields returns the Where keys in stable order.
func (q Query) WhereFields() []string {
	fields := make([]string, 0, len(q.Where))
	for k := range q.Where {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
