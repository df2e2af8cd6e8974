// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package meeting assembles the canonical Meeting record from one raw cache
// entry and the cache's cross-referenced tables. Assembly performs no I/O
// and never fails: every missing or malformed field falls back to its
// documented default.
package meeting

import (
	"strings"

	"github.com/pdiddy/granola-sync/internal/folder"
	"github.com/pdiddy/granola-sync/internal/prosemirror"
	"github.com/pdiddy/granola-sync/internal/transcript"
	"github.com/pdiddy/granola-sync/pkg/types"
)

// SummarySeparator joins the text of multiple AI panels.
const SummarySeparator = "\n\n---\n\n"

// Lookups are the read-only tables a Meeting is assembled from. They are
// built once per run and shared by every Build call.
type Lookups struct {
	Transcripts map[string][]types.Utterance
	Panels      map[string][]types.Panel
	Folders     folder.Index
}

// NewLookups derives the lookup tables from a normalized cache state.
func NewLookups(state types.State) Lookups {
	return Lookups{
		Transcripts: state.Transcripts,
		Panels:      state.DocumentPanels,
		Folders:     folder.Build(state.DocumentLists, state.DocumentListsMetadata),
	}
}

// Build assembles the Meeting for one raw cache entry.
func Build(raw types.RawMeeting, lk Lookups) types.Meeting {
	id := raw.ID()

	title := raw.String("title")
	if title == "" {
		title = types.DefaultTitle
	}

	m := types.Meeting{
		ID:           id,
		Title:        title,
		CreatedAt:    raw.String("created_at"),
		UpdatedAt:    raw.String("updated_at"),
		Folder:       types.DefaultFolder,
		Participants: Participants(raw["people"]),
		Tags:         Tags(raw["tags"]),
		Duration:     types.UnknownDuration,
		Notes:        Notes(raw),
		AISummary:    Summary(lk.Panels[id]),
		URL:          types.MeetingURL(id),
	}

	if name, ok := lk.Folders.Lookup(id); ok {
		m.Folder = name
	}

	if utts := lk.Transcripts[id]; len(utts) > 0 {
		m.Transcript = transcript.Format(utts)
		m.Duration = transcript.Duration(utts)
	}

	return m
}

// Notes returns the meeting notes, preferring Granola's pre-rendered
// Markdown, then its plain text, then the flattened rich-text tree.
func Notes(raw types.RawMeeting) string {
	if md := raw.String("notes_markdown"); md != "" {
		return md
	}
	if plain := raw.String("notes_plain"); plain != "" {
		return plain
	}
	return prosemirror.Text(raw["notes"])
}

// Summary flattens each panel's content and joins the non-empty results.
func Summary(panels []types.Panel) string {
	var parts []string
	for _, p := range panels {
		if text := prosemirror.Text(p.Content); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, SummarySeparator)
}

// Participants returns a display name for each person object, preferring
// "name" over "email". People with neither are skipped; duplicates are kept.
func Participants(people any) []string {
	list, ok := people.([]any)
	if !ok {
		return nil
	}
	var names []string
	for _, p := range list {
		person, ok := p.(map[string]any)
		if !ok {
			continue
		}
		name, _ := person["name"].(string)
		if name == "" {
			name, _ = person["email"].(string)
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Tags returns the string entries of a tag list.
func Tags(tags any) []string {
	list, ok := tags.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, t := range list {
		if s, ok := t.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
