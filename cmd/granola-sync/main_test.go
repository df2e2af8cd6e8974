// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/granola-sync/internal/index"
	"github.com/pdiddy/granola-sync/pkg/types"
)

func TestFormatSearchOutputTable(t *testing.T) {
	results := []types.Meeting{
		{ID: "m1", Title: "Budget Review", CreatedAt: "2024-03-01T09:00:00Z", Folder: "Finance", Duration: "45m"},
		{ID: "m2", Title: strings.Repeat("Long title ", 6), CreatedAt: "2024-03-05", Folder: "Product", Duration: "Unknown"},
	}

	var buf bytes.Buffer
	require.NoError(t, formatSearchOutput(&buf, results, false))
	out := buf.String()

	assert.Contains(t, out, "2024-03-01  Budget Review")
	assert.Contains(t, out, "Long title Long title Long title Long...")
	assert.Contains(t, out, "\n2 results\n")
}

func TestFormatSearchOutputEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatSearchOutput(&buf, nil, false))
	assert.Equal(t, "No results found.\n", buf.String())

	buf.Reset()
	require.NoError(t, formatSearchOutput(&buf, nil, true))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatSearchOutputJSON(t *testing.T) {
	results := []types.Meeting{{ID: "m1", Title: "Budget Review", URL: types.MeetingURL("m1")}}

	var buf bytes.Buffer
	require.NoError(t, formatSearchOutput(&buf, results, true))

	var decoded []types.Meeting
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "granola://meeting/m1", decoded[0].URL)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "Réu...", truncate("Réunion", 6))
}

func TestFormatRuns(t *testing.T) {
	var buf bytes.Buffer
	formatRuns(&buf, nil)
	assert.Equal(t, "No sync runs recorded.\n", buf.String())

	buf.Reset()
	formatRuns(&buf, []index.Run{{
		ID:        "run-1",
		StartedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Synced:    3,
		Skipped:   1,
	}})
	assert.Contains(t, buf.String(), "run-1  synced: 3, skipped: 1, failed: 0")
}

func TestQueryOptsFromFlags(t *testing.T) {
	require.NoError(t, indexSearchCmd.Flags().Set("folder", "Finance"))
	t.Cleanup(func() { indexSearchCmd.Flags().Set("folder", "") })

	opts := queryOptsFromFlags(indexSearchCmd, []string{"budget", "review"})
	assert.Equal(t, "budget review", opts.Query)
	assert.Equal(t, "Finance", opts.Folder)
	assert.Empty(t, opts.Participant)
	assert.Zero(t, opts.MaxResults)
}

func TestSyncConfigNegatedFlags(t *testing.T) {
	require.NoError(t, syncCmd.Flags().Set("no-transcripts", "true"))
	t.Cleanup(func() { syncCmd.Flags().Set("no-transcripts", "false") })

	cfg := syncConfig(syncCmd)
	assert.False(t, cfg.IncludeTranscripts)
	assert.True(t, cfg.Index)
	assert.Equal(t, types.DefaultSyncDays, cfg.Days)
	assert.Equal(t, defaultOutputDir, cfg.OutputDir)
	assert.NotEmpty(t, cfg.CachePath)
}
