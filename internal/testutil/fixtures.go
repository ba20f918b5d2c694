package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/dom/catalog-facade/internal/domain"
	"github.com/dom/catalog-facade/internal/snapshot"
	"github.com/golang-jwt/jwt/v5"
)

// CharacterBuilder creates raw character records with a builder pattern
type CharacterBuilder struct {
	record map[string]any
}

// NewCharacterBuilder creates a new CharacterBuilder with default values
func NewCharacterBuilder() *CharacterBuilder {
	id := fmt.Sprintf("champion%d", time.Now().UnixNano()%10000)
	return &CharacterBuilder{record: map[string]any{
		"id":    id,
		"name":  id,
		"title": "the Test Champion",
		"image": fmt.Sprintf("https://ddragon.leagueoflegends.com/cdn/14.1.1/img/champion/%s.png", id),
		"role":  "mid",
		"abilities": []any{
			map[string]any{"key": "Q", "name": "Test Strike", "description": "Hits things."},
		},
		"stats": map[string]any{"1": float64(600), "2": float64(30)},
	}}
}

// WithID sets the id and, like the live data, the name
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.record["id"] = id
	b.record["name"] = id
	return b
}

func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.record["name"] = name
	return b
}

func (b *CharacterBuilder) WithTitle(title string) *CharacterBuilder {
	b.record["title"] = title
	return b
}

// With sets an arbitrary field
func (b *CharacterBuilder) With(field string, value any) *CharacterBuilder {
	b.record[field] = value
	return b
}

// Build returns the raw record
func (b *CharacterBuilder) Build() map[string]any {
	out := make(map[string]any, len(b.record))
	for k, v := range b.record {
		out[k] = v
	}
	return out
}

// Characters creates count raw character records named "Test Champion N"
func Characters(count int) []map[string]any {
	records := make([]map[string]any, count)
	for i := 0; i < count; i++ {
		records[i] = NewCharacterBuilder().
			WithID(fmt.Sprintf("test-champion-%d", i)).
			WithName(fmt.Sprintf("Test Champion %d", i)).
			Build()
	}
	return records
}

// NewSnapshot builds a snapshot from raw records or fails the test
func NewSnapshot(t *testing.T, raw map[domain.Kind][]map[string]any) *snapshot.Snapshot {
	t.Helper()

	snap, err := snapshot.New(raw)
	if err != nil {
		t.Fatalf("failed to build snapshot: %v", err)
	}
	return snap
}

// IssueToken signs an HS256 token for subject with TestJWTSecret
func IssueToken(t *testing.T, subject string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}
