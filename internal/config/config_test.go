package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dom/catalog-facade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REMOTE_BASE_URL", "")
	t.Setenv("UPSTREAM_TIMEOUT", "")
	t.Setenv("SNAPSHOT_SOURCE", SnapshotEmbedded)
	t.Setenv("CATALOG_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.RemoteEnabled())
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, DefaultPolicies(), cfg.Entities)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("REMOTE_BASE_URL", " https://api.example.com ")
	t.Setenv("UPSTREAM_TIMEOUT", "3")
	t.Setenv("COALESCE_REMOTE", "true")
	t.Setenv("SNAPSHOT_SOURCE", SnapshotPostgres)
	t.Setenv("CATALOG_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.RemoteEnabled())
	assert.Equal(t, "https://api.example.com", cfg.RemoteBaseURL)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.True(t, cfg.CoalesceRemote)
	assert.Equal(t, SnapshotPostgres, cfg.SnapshotSource)
}

func TestLoad_InvalidSnapshotSource(t *testing.T) {
	t.Setenv("SNAPSHOT_SOURCE", "s3")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "750ms")
	assert.Equal(t, 750*time.Millisecond, getEnvDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "garbage")
	assert.Equal(t, time.Second, getEnvDuration("TEST_DURATION", time.Second))
}

func TestApplyPolicies(t *testing.T) {
	cfg := &Config{Entities: DefaultPolicies()}

	err := cfg.ApplyPolicies([]byte(`
entities:
  news:
    fallbackOnNotFound: true
    defaultLimit: 5
  character:
    path: /v2/champions
`))
	require.NoError(t, err)

	news := cfg.Entities[domain.KindNews]
	assert.True(t, news.FallbackOnNotFound)
	assert.Equal(t, 5, news.DefaultLimit)
	assert.Equal(t, "/news", news.Path)

	character := cfg.Entities[domain.KindCharacter]
	assert.Equal(t, "/v2/champions", character.Path)
	assert.True(t, character.FallbackOnNotFound)
}

func TestApplyPolicies_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown kind", yaml: "entities:\n  spell: {path: /spells}\n"},
		{name: "non-positive limit", yaml: "entities:\n  news: {defaultLimit: 0}\n"},
		{name: "empty path", yaml: "entities:\n  news: {path: \"\"}\n"},
		{name: "malformed", yaml: "entities: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Entities: DefaultPolicies()}
			assert.Error(t, cfg.ApplyPolicies([]byte(tt.yaml)))
		})
	}
}

func TestLoad_PolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities:\n  comment: {fallbackOnNotFound: true}\n"), 0o600))
	t.Setenv("CATALOG_CONFIG", path)
	t.Setenv("SNAPSHOT_SOURCE", SnapshotEmbedded)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Entities[domain.KindComment].FallbackOnNotFound)
}
