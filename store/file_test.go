package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDocumentWritesIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	b := NewFileBackend()

	doc := map[string][]map[string]any{
		"2024": {{"id": "p1", "name": "Al", "score": 0}},
	}
	require.NoError(t, SaveDocument(b, path, doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := "{\n  \"2024\": [\n    {\n      \"id\": \"p1\",\n      \"name\": \"Al\",\n      \"score\": 0\n    }\n  ]\n}"
	assert.Equal(t, expected, string(raw))
}

func TestSaveDocumentOverwritesInFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	b := NewFileBackend()

	require.NoError(t, SaveDocument(b, path, map[string]any{"science": []int{1, 2, 3}, "history": []int{4}}))
	require.NoError(t, SaveDocument(b, path, map[string]any{"art": []int{}}))

	var got map[string]any
	require.NoError(t, LoadDocument(b, path, &got))
	assert.Equal(t, map[string]any{"art": []any{}}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLoadDocumentMissingFile(t *testing.T) {
	var got map[string]any
	err := LoadDocument(NewFileBackend(), filepath.Join(t.TempDir(), "nope.json"), &got)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDocumentInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"science": [`), 0o644))

	var got map[string]any
	err := LoadDocument(NewFileBackend(), path, &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse document")
}
