// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes a Meeting as Markdown documents with YAML
// frontmatter: a main document carrying metadata, AI summary, and notes,
// and a separate transcript document.
package render

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/granola-sync/pkg/types"
)

const (
	// maxTitleRunes caps the title portion of a filename.
	maxTitleRunes = 50
	// idPrefixRunes is how much of the meeting ID goes into a filename.
	idPrefixRunes = 8
	// datePrefixRunes is the YYYY-MM-DD prefix of created_at.
	datePrefixRunes = 10

	unknownDate = "unknown"
)

// Main renders the main document for m. The AI Summary and Notes sections
// are emitted only when they have content.
func Main(m types.Meeting) string {
	lines := []string{
		"---",
		"granola_id: " + m.ID,
		"title: " + quote(m.Title),
		"created_at: " + m.CreatedAt,
		"updated_at: " + m.UpdatedAt,
		"folder: " + m.Folder,
		"duration: " + m.Duration,
		"granola_url: " + m.URL,
	}
	lines = appendList(lines, "participants", m.Participants)
	lines = appendList(lines, "tags", m.Tags)
	lines = append(lines, "---", "")

	lines = append(lines, "# "+m.Title, "")
	if m.AISummary != "" {
		lines = append(lines, "## AI Summary", "", m.AISummary, "")
	}
	if m.Notes != "" {
		lines = append(lines, "## Notes", "", m.Notes, "")
	}
	return strings.Join(lines, "\n")
}

// Transcript renders the transcript document for m. It reports false, and
// renders nothing, when the meeting has no transcript.
func Transcript(m types.Meeting) (string, bool) {
	if m.Transcript == "" {
		return "", false
	}
	lines := []string{
		"---",
		"granola_id: " + m.ID,
		"title: " + quote(m.Title),
		"created_at: " + m.CreatedAt,
		"duration: " + m.Duration,
		"---",
		"",
		"# " + m.Title + " - Transcript",
		"",
		m.Transcript,
	}
	return strings.Join(lines, "\n"), true
}

// appendList adds a frontmatter list ("key:" then "  - value" lines) when
// values is non-empty.
func appendList(lines []string, key string, values []string) []string {
	if len(values) == 0 {
		return lines
	}
	lines = append(lines, key+":")
	for _, v := range values {
		lines = append(lines, "  - "+v)
	}
	return lines
}

// quote renders s as a double-quoted scalar. Quotes, backslashes, and
// control characters are escaped so the frontmatter stays well formed.
func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// Filenames returns the main and transcript document filenames for m:
// "{date}_{title}_{id prefix}.md" and "..._transcript.md".
func Filenames(m types.Meeting) (notes, transcript string) {
	base := fmt.Sprintf("%s_%s_%s", datePrefix(m.CreatedAt), SafeTitle(m.Title), prefix(m.ID, idPrefixRunes))
	return base + ".md", base + "_transcript.md"
}

// SafeTitle reduces a title to letters, digits, spaces, hyphens, and
// underscores, trimmed and capped in length. The title is NFC-normalized
// first so that composed and decomposed input give the same filename.
func SafeTitle(title string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(title) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return prefix(strings.TrimSpace(b.String()), maxTitleRunes)
}

func datePrefix(createdAt string) string {
	if createdAt == "" {
		return unknownDate
	}
	return prefix(createdAt, datePrefixRunes)
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
