package normalize

import (
	"github.com/dom/catalog-facade/internal/domain"
)

// ByID resolves a get-by-id answer. For an array payload the record whose id
// equals id wins; when none does, the first record is returned. That lenient
// behavior is relied upon by existing callers.
func ByID(schema *domain.Schema, id string, p domain.Payload) (domain.Entity, error) {
	if !p.IsMany {
		if p.Single == nil {
			return nil, domain.NotFound(schema.Kind, id)
		}
		return Entity(schema, p.Single), nil
	}
	if len(p.Many) == 0 {
		return nil, domain.NotFound(schema.Kind, id)
	}
	for _, raw := range p.Many {
		if domain.Entity(raw).ID() == id {
			return Entity(schema, raw), nil
		}
	}
	return Entity(schema, p.Many[0]), nil
}

// Search resolves a search answer. Array payloads are filtered by a
// case-insensitive substring match on the name field; a single object is
// taken as the one candidate.
func Search(schema *domain.Schema, term string, p domain.Payload) ([]domain.Entity, error) {
	if !p.IsMany {
		if p.Single == nil {
			return nil, domain.NotFound(schema.Kind, term)
		}
		return []domain.Entity{Entity(schema, p.Single)}, nil
	}

	var out []domain.Entity
	for _, raw := range p.Many {
		if schema.Matches(domain.Entity(raw), term) {
			out = append(out, Entity(schema, raw))
		}
	}
	if len(out) == 0 {
		return nil, domain.NotFound(schema.Kind, term)
	}
	return out, nil
}

// List maps a list payload. A single object is treated as a one-item list.
func List(schema *domain.Schema, p domain.Payload) []domain.Entity {
	if !p.IsMany {
		if p.Single == nil {
			return []domain.Entity{}
		}
		return []domain.Entity{Entity(schema, p.Single)}
	}
	return All(schema, p.Many)
}
