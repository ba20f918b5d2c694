package domain

import (
	"sort"
	"strings"
)

// Schema describes the canonical field layout of one entity kind.
//
// Scalar fields are copied verbatim (null when absent). List and map fields
// default to an empty sequence or mapping. Nested fields hold lists of
// records that are mapped with their own schema.
type Schema struct {
	Kind      Kind
	NameField string
	Scalars   []string
	Lists     []string
	Maps      []string
	Nested    map[string]*Schema
}

var schemas = map[Kind]*Schema{}

func init() {
	ability := &Schema{
		NameField: "name",
		Scalars:   []string{"key", "name", "description", "image"},
		Lists:     []string{"cooldowns"},
	}

	schemas[KindCharacter] = &Schema{
		Kind:      KindCharacter,
		NameField: "name",
		Scalars:   []string{"id", "name", "title", "image", "role", "difficulty"},
		Lists:     []string{"tags", "counters", "strongAgainst", "recommendedRunes", "recommendedItems"},
		Maps:      []string{"stats"},
		Nested:    map[string]*Schema{"abilities": ability},
	}

	schemas[KindNews] = &Schema{
		Kind:      KindNews,
		NameField: "title",
		Scalars:   []string{"id", "title", "summary", "content", "image", "author", "publishedAt"},
		Lists:     []string{"tags"},
	}

	schemas[KindComponent] = &Schema{
		Kind:      KindComponent,
		NameField: "name",
		Scalars:   []string{"id", "name", "category", "manufacturer", "price", "image"},
		Lists:     []string{"compatibleWith"},
		Maps:      []string{"specs"},
	}

	// Replies are comments themselves.
	comment := &Schema{
		Kind:      KindComment,
		NameField: "author",
		Scalars:   []string{"id", "newsId", "parentId", "author", "content", "createdAt"},
	}
	comment.Nested = map[string]*Schema{"replies": comment}
	schemas[KindComment] = comment
}

// SchemaFor returns the schema of a kind, or nil for an unknown kind.
func SchemaFor(k Kind) *Schema {
	return schemas[k]
}

// FieldSet lists every top-level field a canonical entity of this schema carries.
func (s *Schema) FieldSet() []string {
	fields := make([]string, 0, len(s.Scalars)+len(s.Lists)+len(s.Maps)+len(s.Nested))
	fields = append(fields, s.Scalars...)
	fields = append(fields, s.Lists...)
	fields = append(fields, s.Maps...)
	for name := range s.Nested {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// Matches reports whether the entity's name field contains term,
// case-insensitively.
func (s *Schema) Matches(e Entity, term string) bool {
	return strings.Contains(strings.ToLower(e.Text(s.NameField)), strings.ToLower(term))
}
