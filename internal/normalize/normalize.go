// Package normalize maps upstream records of any arity into canonical entities.
package normalize

import (
	"github.com/dom/catalog-facade/internal/domain"
)

// Entity maps raw into the canonical shape described by schema. Fields the
// schema does not name are dropped. Mapping a canonical entity again returns
// an equal entity.
func Entity(schema *domain.Schema, raw map[string]any) domain.Entity {
	out := make(domain.Entity, len(schema.Scalars)+len(schema.Lists)+len(schema.Maps)+len(schema.Nested))

	for _, f := range schema.Scalars {
		out[f] = scalar(raw[f])
	}
	for _, f := range schema.Lists {
		out[f] = list(raw[f])
	}
	for _, f := range schema.Maps {
		out[f] = mapping(raw[f])
	}
	for f, sub := range schema.Nested {
		out[f] = nested(sub, raw[f])
	}
	return out
}

// All maps every record with schema.
func All(schema *domain.Schema, raws []map[string]any) []domain.Entity {
	out := make([]domain.Entity, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Entity(schema, raw))
	}
	return out
}

func scalar(v any) any {
	switch t := v.(type) {
	case map[string]any, []any, domain.Entity:
		return cloneAny(t)
	default:
		return v
	}
}

func list(v any) []any {
	items, ok := v.([]any)
	if !ok {
		return []any{}
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = cloneAny(item)
	}
	return out
}

func mapping(v any) map[string]any {
	var m map[string]any
	switch t := v.(type) {
	case map[string]any:
		m = t
	case domain.Entity:
		m = t
	default:
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = cloneAny(val)
	}
	return out
}

// nested returns []any rather than []domain.Entity so a canonical record
// and its re-mapped copy hold the same dynamic types.
func nested(schema *domain.Schema, v any) []any {
	items, ok := v.([]any)
	if !ok {
		return []any{}
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		switch rec := item.(type) {
		case map[string]any:
			out = append(out, map[string]any(Entity(schema, rec)))
		case domain.Entity:
			out = append(out, map[string]any(Entity(schema, rec)))
		}
	}
	return out
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(domain.Entity(t).Clone())
	case domain.Entity:
		return map[string]any(t.Clone())
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneAny(t[i])
		}
		return out
	default:
		return v
	}
}
