package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies a catalog entity type.
type Kind string

const (
	KindCharacter Kind = "character"
	KindNews      Kind = "news"
	KindComponent Kind = "component"
	KindComment   Kind = "comment"
)

// Kinds lists every catalog kind in display order.
var Kinds = []Kind{KindCharacter, KindNews, KindComponent, KindComment}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schemas[k]; !ok {
		return "", &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown entity kind %q", s)}
	}
	return k, nil
}

// Plural is the collection name used in routes and messages.
func (k Kind) Plural() string {
	switch k {
	case KindNews:
		return "news"
	case KindCharacter:
		return "characters"
	case KindComponent:
		return "components"
	case KindComment:
		return "comments"
	}
	return string(k) + "s"
}

// Entity is the canonical, source-independent shape of a catalog record.
type Entity map[string]any

// ID returns the identity field as a string. Numeric ids are formatted
// without a fractional part.
func (e Entity) ID() string {
	return e.Text("id")
}

// Text returns a scalar field formatted as a string, or "" when absent.
func (e Entity) Text(field string) string {
	switch v := e[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Fields returns the sorted field names of the entity.
func (e Entity) Fields() []string {
	names := make([]string, 0, len(e))
	for k := range e {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy. Snapshot entities are handed out as clones so
// callers can never write through to shared state.
func (e Entity) Clone() Entity {
	if e == nil {
		return nil
	}
	return Entity(cloneMap(e))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Entity:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

// CloneAll deep-copies a slice of entities.
func CloneAll(entities []Entity) []Entity {
	out := make([]Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out
}
