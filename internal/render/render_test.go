// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/granola-sync/pkg/types"
)

func sampleMeeting() types.Meeting {
	return types.Meeting{
		ID:           "abc12345-6789",
		Title:        "Quarterly Review",
		CreatedAt:    "2024-03-01T09:00:00Z",
		UpdatedAt:    "2024-03-01T10:00:00Z",
		Folder:       "Finance",
		Participants: []string{"Ada", "bob@example.com"},
		Tags:         []string{"q1"},
		Duration:     "1h 30m",
		Transcript:   "**🎤 You**: hi",
		Notes:        "- decided X",
		AISummary:    "Went well.",
		URL:          "granola://meeting/abc12345-6789",
	}
}

// frontmatter mirrors the main document header for YAML round-trip checks.
type frontmatter struct {
	GranolaID    string   `yaml:"granola_id"`
	Title        string   `yaml:"title"`
	CreatedAt    string   `yaml:"created_at"`
	UpdatedAt    string   `yaml:"updated_at"`
	Folder       string   `yaml:"folder"`
	Duration     string   `yaml:"duration"`
	GranolaURL   string   `yaml:"granola_url"`
	Participants []string `yaml:"participants"`
	Tags         []string `yaml:"tags"`
}

// splitFrontmatter returns the YAML header and the body of a document.
func splitFrontmatter(t *testing.T, doc string) (string, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(doc, "---\n"), "document should start with frontmatter")
	rest := doc[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	require.GreaterOrEqual(t, end, 0, "frontmatter should be closed")
	return rest[:end], rest[end+len("\n---\n"):]
}

func TestMainDocument(t *testing.T) {
	got := Main(sampleMeeting())

	want := `---
granola_id: abc12345-6789
title: "Quarterly Review"
created_at: 2024-03-01T09:00:00Z
updated_at: 2024-03-01T10:00:00Z
folder: Finance
duration: 1h 30m
granola_url: granola://meeting/abc12345-6789
participants:
  - Ada
  - bob@example.com
tags:
  - q1
---

# Quarterly Review

## AI Summary

Went well.

## Notes

- decided X
`
	assert.Equal(t, want, got)
}

func TestMainFrontmatterParses(t *testing.T) {
	header, _ := splitFrontmatter(t, Main(sampleMeeting()))

	var fm frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(header), &fm))
	assert.Equal(t, "abc12345-6789", fm.GranolaID)
	assert.Equal(t, "Quarterly Review", fm.Title)
	assert.Equal(t, "2024-03-01T09:00:00Z", fm.CreatedAt)
	assert.Equal(t, "Finance", fm.Folder)
	assert.Equal(t, "1h 30m", fm.Duration)
	assert.Equal(t, "granola://meeting/abc12345-6789", fm.GranolaURL)
	assert.Equal(t, []string{"Ada", "bob@example.com"}, fm.Participants)
	assert.Equal(t, []string{"q1"}, fm.Tags)
}

func TestMainQuotedTitle(t *testing.T) {
	m := sampleMeeting()
	m.Title = `The "Big" Launch \ v2`

	doc := Main(m)
	assert.Contains(t, doc, `title: "The \"Big\" Launch \\ v2"`)
	assert.Contains(t, doc, "# The \"Big\" Launch \\ v2\n", "heading keeps the title verbatim")

	header, _ := splitFrontmatter(t, doc)
	var fm frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(header), &fm))
	assert.Equal(t, m.Title, fm.Title)
}

func TestMainOmitsEmptySections(t *testing.T) {
	m := sampleMeeting()
	m.AISummary = ""
	m.Notes = ""
	m.Participants = nil
	m.Tags = nil

	doc := Main(m)
	assert.NotContains(t, doc, "## AI Summary")
	assert.NotContains(t, doc, "## Notes")
	assert.NotContains(t, doc, "participants:")
	assert.NotContains(t, doc, "tags:")
	assert.True(t, strings.HasSuffix(doc, "---\n\n# Quarterly Review\n"))
}

func TestMainNotesOnly(t *testing.T) {
	m := sampleMeeting()
	m.AISummary = ""

	_, body := splitFrontmatter(t, Main(m))
	assert.Equal(t, "\n# Quarterly Review\n\n## Notes\n\n- decided X\n", body)
}

func TestTranscript(t *testing.T) {
	doc, ok := Transcript(sampleMeeting())
	require.True(t, ok)

	want := `---
granola_id: abc12345-6789
title: "Quarterly Review"
created_at: 2024-03-01T09:00:00Z
duration: 1h 30m
---

# Quarterly Review - Transcript

**🎤 You**: hi`
	assert.Equal(t, want, doc)
}

func TestTranscriptEmpty(t *testing.T) {
	m := sampleMeeting()
	m.Transcript = ""

	doc, ok := Transcript(m)
	assert.False(t, ok)
	assert.Empty(t, doc)
}

func TestFilenames(t *testing.T) {
	tests := []struct {
		name           string
		meeting        types.Meeting
		wantNotes      string
		wantTranscript string
	}{
		{
			name:           "typical",
			meeting:        types.Meeting{ID: "abc12345-6789", Title: "Quarterly Review", CreatedAt: "2024-03-01T09:00:00Z"},
			wantNotes:      "2024-03-01_Quarterly Review_abc12345.md",
			wantTranscript: "2024-03-01_Quarterly Review_abc12345_transcript.md",
		},
		{
			name:           "punctuation stripped",
			meeting:        types.Meeting{ID: "id1", Title: "  1:1 / Ada & Bob (sync)!  ", CreatedAt: "2024-03-01"},
			wantNotes:      "2024-03-01_11  Ada  Bob sync_id1.md",
			wantTranscript: "2024-03-01_11  Ada  Bob sync_id1_transcript.md",
		},
		{
			name:           "missing date",
			meeting:        types.Meeting{ID: "id2", Title: "Standup"},
			wantNotes:      "unknown_Standup_id2.md",
			wantTranscript: "unknown_Standup_id2_transcript.md",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, transcript := Filenames(tt.meeting)
			assert.Equal(t, tt.wantNotes, notes)
			assert.Equal(t, tt.wantTranscript, transcript)
		})
	}
}

func TestSafeTitle(t *testing.T) {
	long := strings.Repeat("a", 60)
	assert.Equal(t, strings.Repeat("a", 50), SafeTitle(long))

	assert.Equal(t, "Réunion équipe", SafeTitle("Réunion équipe"))
	// Decomposed input normalizes to the same filename as composed input.
	assert.Equal(t, "Caf\u00e9", SafeTitle("Cafe\u0301"))

	assert.Equal(t, "", SafeTitle("!!!"))
	assert.Equal(t, "snake_case-title", SafeTitle("snake_case-title"))
}
