// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcript rebuilds a speaker-labeled transcript from the
// utterances Granola records, and estimates meeting duration from their
// timestamps.
package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/granola-sync/pkg/types"
)

const (
	// SourceMicrophone is the local user's audio channel.
	SourceMicrophone = "microphone"
	// SourceSystem is the other participants' audio channel.
	SourceSystem = "system"
	// SourceUnknown replaces a missing or unrecognized source.
	SourceUnknown = "unknown"

	// LabelYou and LabelSystem are the speaker labels written to the transcript.
	LabelYou    = "🎤 You"
	LabelSystem = "💬 System"
)

// Label returns the speaker label for an utterance source.
func Label(source string) string {
	if source == SourceMicrophone {
		return LabelYou
	}
	return LabelSystem
}

// NormalizeSource maps any source outside the known set to SourceUnknown.
func NormalizeSource(source string) string {
	switch source {
	case SourceMicrophone, SourceSystem:
		return source
	default:
		return SourceUnknown
	}
}

// Format groups consecutive utterances from the same source into labeled
// blocks ("**🎤 You**: hi there") separated by blank lines. Utterances
// whose text is blank are skipped. Input order is preserved.
func Format(entries []types.Utterance) string {
	var (
		blocks  []string
		current string
		texts   []string
	)

	flush := func() {
		if len(texts) == 0 {
			return
		}
		blocks = append(blocks, fmt.Sprintf("**%s**: %s", Label(current), strings.Join(texts, " ")))
	}

	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		if len(texts) > 0 && e.Source == current {
			texts = append(texts, text)
			continue
		}
		flush()
		current = e.Source
		texts = []string{text}
	}
	flush()

	return strings.Join(blocks, "\n\n")
}

// Duration estimates the meeting length from the first utterance's start
// and the last utterance's end. It returns types.UnknownDuration for fewer
// than two utterances, unparsable timestamps, or a non-positive span.
func Duration(entries []types.Utterance) string {
	if len(entries) < 2 {
		return types.UnknownDuration
	}

	start, startZoned, ok := ParseTimestamp(entries[0].StartTimestamp)
	if !ok {
		return types.UnknownDuration
	}
	end, endZoned, ok := ParseTimestamp(entries[len(entries)-1].EndTimestamp)
	if !ok {
		return types.UnknownDuration
	}
	// A zoned and a naive timestamp cannot be compared meaningfully.
	if startZoned != endZoned {
		return types.UnknownDuration
	}

	seconds := int64(end.Sub(start) / time.Second)
	if seconds <= 0 {
		return types.UnknownDuration
	}
	return FormatSeconds(seconds)
}

// FormatSeconds renders a positive number of seconds as "{h}h {m}m", or
// "{m}m" under an hour. Leftover seconds are truncated.
func FormatSeconds(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// zonedLayouts parse timestamps that carry a UTC designator or offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// naiveLayouts parse timestamps without zone information; they are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. A trailing "Z" is accepted
// as UTC. zoned reports whether the input carried zone information.
func ParseTimestamp(s string) (t time.Time, zoned bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, true
		}
	}
	return time.Time{}, false, false
}
