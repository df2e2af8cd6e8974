// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/granola-sync/pkg/types"
)

const sampleState = `{
	"state": {
		"documents": {
			"m2": {"id": "m2", "title": "Second"},
			"m1": {"id": "m1", "title": "First"},
			"m3": {"title": "Keyed only"},
			"bad": "not an object"
		},
		"transcripts": {
			"m1": [
				{"source": "microphone", "text": "hi", "start_timestamp": "2024-01-01T10:00:00Z", "end_timestamp": "2024-01-01T10:00:01Z"},
				{"source": "zoom", "text": "hello"},
				{"source": 7, "text": ["x"]},
				"garbage"
			]
		},
		"documentPanels": {
			"m1": {
				"p2": {"content": {"type": "doc"}},
				"p1": {"content": {"type": "doc", "content": []}},
				"px": 3
			}
		},
		"documentLists": {
			"l1": ["m1", "m2", 4],
			"l2": {"m3": true}
		},
		"documentListsMetadata": {
			"l1": {"title": "Sales"},
			"l2": {"title": 12}
		}
	}
}`

func TestNormalizeInline(t *testing.T) {
	state, err := Normalize([]byte(sampleState))
	require.NoError(t, err)
	assertSampleState(t, state)
}

func TestNormalizeDoubleEncoded(t *testing.T) {
	encoded, err := json.Marshal(sampleState)
	require.NoError(t, err)
	wrapped := []byte(`{"cache": ` + string(encoded) + `}`)

	state, err := Normalize(wrapped)
	require.NoError(t, err)
	assertSampleState(t, state)
}

func TestNormalizeStructuredCache(t *testing.T) {
	wrapped := []byte(`{"cache": ` + sampleState + `}`)

	state, err := Normalize(wrapped)
	require.NoError(t, err)
	assertSampleState(t, state)
}

func assertSampleState(t *testing.T, state types.State) {
	t.Helper()

	require.Len(t, state.Documents, 3, "non-object documents are dropped")
	assert.Equal(t, "m2", state.Documents[0].ID(), "mapping order is preserved")
	assert.Equal(t, "m1", state.Documents[1].ID())
	assert.Equal(t, "m3", state.Documents[2].ID(), "missing id falls back to mapping key")
	assert.Equal(t, "Keyed only", state.Documents[2].String("title"))

	utts := state.Transcripts["m1"]
	require.Len(t, utts, 3)
	assert.Equal(t, "microphone", utts[0].Source)
	assert.Equal(t, "2024-01-01T10:00:00Z", utts[0].StartTimestamp)
	assert.Equal(t, "unknown", utts[1].Source, "unrecognized source")
	assert.Equal(t, "unknown", utts[2].Source, "non-string source")
	assert.Equal(t, "", utts[2].Text)

	panels := state.DocumentPanels["m1"]
	require.Len(t, panels, 2)
	assert.Equal(t, "p2", panels[0].ID)
	assert.Equal(t, "p1", panels[1].ID)

	require.Len(t, state.DocumentLists, 2)
	assert.Equal(t, "l1", state.DocumentLists[0].ID)
	assert.Equal(t, []string{"m1", "m2"}, state.DocumentLists[0].MeetingIDs)
	assert.Equal(t, []string{"m3"}, state.DocumentLists[1].MeetingIDs)

	assert.Equal(t, "Sales", state.DocumentListsMetadata["l1"].Title)
	assert.Equal(t, "", state.DocumentListsMetadata["l2"].Title)
}

func TestNormalizeDocumentsSequence(t *testing.T) {
	state, err := Normalize([]byte(`{"state": {"documents": [{"id": "a"}, 5, {"id": "b"}]}}`))
	require.NoError(t, err)
	require.Len(t, state.Documents, 2)
	assert.Equal(t, "a", state.Documents[0].ID())
	assert.Equal(t, "b", state.Documents[1].ID())
}

func TestNormalizeDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no state", `{"other": 1}`},
		{"state not an object", `{"state": []}`},
		{"top level array", `[1, 2, 3]`},
		{"null cache", `{"cache": null}`},
		{"tables of wrong shape", `{"state": {"documents": 3, "transcripts": [], "documentPanels": "x", "documentLists": 1, "documentListsMetadata": null}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := Normalize([]byte(tt.input))
			require.NoError(t, err)
			assert.Empty(t, state.Documents)
			assert.Empty(t, state.Transcripts)
			assert.Empty(t, state.DocumentPanels)
			assert.Empty(t, state.DocumentLists)
			assert.Empty(t, state.DocumentListsMetadata)
		})
	}
}

func TestNormalizeInvalidJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated", `{"state": {`},
		{"empty", ``},
		{"nested string not json", `{"cache": "{not json"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]byte(tt.input))
			assert.ErrorIs(t, err, ErrInvalidCache)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache-v3.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleState), 0o644))

	state, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, state.Documents, 3)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCacheNotFound))
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache-v3.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidCache)
}

func TestUnwrapKeepsPlainPayload(t *testing.T) {
	payload, err := Unwrap([]byte(`{"state": {}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"state": {}}`, string(payload))
}
