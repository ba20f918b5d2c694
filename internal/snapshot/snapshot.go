// Package snapshot holds the bundled, read-only fallback dataset.
package snapshot

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"

	"github.com/dom/catalog-facade/internal/domain"
	"github.com/dom/catalog-facade/internal/normalize"
)

//go:embed data/*.json
var bundled embed.FS

// Snapshot is an immutable collection of canonical entities per kind. It has
// no write API; every accessor hands out copies.
type Snapshot struct {
	collections map[domain.Kind][]domain.Entity
}

// New normalizes raw records into a snapshot. The input is not retained.
func New(raw map[domain.Kind][]map[string]any) (*Snapshot, error) {
	s := &Snapshot{collections: make(map[domain.Kind][]domain.Entity, len(raw))}
	for kind, records := range raw {
		schema := domain.SchemaFor(kind)
		if schema == nil {
			return nil, fmt.Errorf("snapshot: unknown kind %q", kind)
		}
		entities := normalize.All(schema, records)
		seen := make(map[string]bool, len(entities))
		for i, e := range entities {
			id := e.ID()
			if id == "" {
				return nil, fmt.Errorf("snapshot: %s record %d has no id", kind, i)
			}
			if seen[id] {
				return nil, fmt.Errorf("snapshot: duplicate %s id %q", kind, id)
			}
			seen[id] = true
		}
		s.collections[kind] = entities
	}
	return s, nil
}

// Has reports whether the snapshot carries a collection for kind.
func (s *Snapshot) Has(kind domain.Kind) bool {
	_, ok := s.collections[kind]
	return ok
}

func (s *Snapshot) Len(kind domain.Kind) int {
	return len(s.collections[kind])
}

// Kinds returns the kinds present, in domain.Kinds order.
func (s *Snapshot) Kinds() []domain.Kind {
	kinds := make([]domain.Kind, 0, len(s.collections))
	for _, k := range domain.Kinds {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// All returns a copy of the collection for kind.
func (s *Snapshot) All(kind domain.Kind) ([]domain.Entity, bool) {
	entities, ok := s.collections[kind]
	if !ok {
		return nil, false
	}
	return domain.CloneAll(entities), true
}

// view exposes the shared slice to the resolver, which copies only what it returns.
func (s *Snapshot) view(kind domain.Kind) ([]domain.Entity, bool) {
	entities, ok := s.collections[kind]
	return entities, ok
}

var files = map[domain.Kind]string{
	domain.KindCharacter: "data/characters.json",
	domain.KindNews:      "data/news.json",
	domain.KindComponent: "data/components.json",
	domain.KindComment:   "data/comments.json",
}

// Bundled returns the snapshot compiled into the binary. It is decoded on
// first use and shared for the lifetime of the process.
var Bundled = sync.OnceValues(func() (*Snapshot, error) {
	return Load(bundled)
})

// Load reads one JSON array per kind from fsys.
func Load(fsys fs.FS) (*Snapshot, error) {
	raw := make(map[domain.Kind][]map[string]any, len(files))
	for kind, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("snapshot: failed to read %s: %w", name, err)
		}
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("snapshot: failed to decode %s: %w", name, err)
		}
		raw[kind] = records
	}
	return New(raw)
}
