package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/dom/catalog-facade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CATALOG_CONFIG", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--remote", ""}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGet(t *testing.T) {
	out, err := run(t, "get", "character", "ezreal")
	require.NoError(t, err)

	var entity map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entity))
	assert.Equal(t, "ezreal", entity["id"])
}

func TestList(t *testing.T) {
	out, err := run(t, "list", "character", "--page", "2", "--limit", "4")
	require.NoError(t, err)

	var list domain.ListResult
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, 4, list.Limit)
	assert.Equal(t, 6, list.Total)
	assert.Len(t, list.Data, 2)
}

func TestSearchAll(t *testing.T) {
	out, err := run(t, "search", "character", "ezr", "--all")
	require.NoError(t, err)

	var entities []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entities))
	require.Len(t, entities, 1)
	assert.Equal(t, "ezreal", entities[0]["id"])
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "not found", args: []string{"get", "character", "nonexistent"}, want: 2},
		{name: "unknown kind", args: []string{"get", "weapon", "x"}, want: 3},
		{name: "wrong arity", args: []string{"get", "character"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(err))
		})
	}

	assert.Equal(t, 1, exitCode(fmt.Errorf("boom")))
}
