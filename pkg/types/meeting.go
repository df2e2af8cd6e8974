// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data structures shared by the sync pipeline:
// the normalized cache state, the raw meeting entries it carries, and the
// canonical Meeting record rendered to Markdown.
package types

const (
	// DefaultTitle is used when a meeting has no usable title.
	DefaultTitle = "Untitled Meeting"

	// DefaultFolder is used when a meeting belongs to no document list.
	DefaultFolder = "Uncategorized"

	// UnknownDuration is reported when no duration can be derived.
	UnknownDuration = "Unknown"

	// URLPrefix is the deep-link scheme that reopens a meeting in Granola.
	URLPrefix = "granola://meeting/"
)

// Meeting is the canonical record assembled for one meeting. It is built
// once from the cache and rendered once; callers treat it as immutable.
type Meeting struct {
	// ID is the Granola document identifier.
	ID string `json:"id" yaml:"id"`

	// Title is the meeting title, DefaultTitle when the cache has none.
	Title string `json:"title" yaml:"title"`

	// CreatedAt and UpdatedAt are the cache timestamps, passed through verbatim.
	CreatedAt string `json:"created_at" yaml:"created_at"`
	UpdatedAt string `json:"updated_at" yaml:"updated_at"`

	// Folder is the title of the document list containing the meeting.
	Folder string `json:"folder" yaml:"folder"`

	// Participants lists display names in cache order. Duplicates are kept.
	Participants []string `json:"participants" yaml:"participants"`

	// Tags lists the string tags attached to the meeting.
	Tags []string `json:"tags" yaml:"tags"`

	// Duration is "1h 30m", "45m", or UnknownDuration.
	Duration string `json:"duration" yaml:"duration"`

	// Transcript is the speaker-labeled transcript text, possibly empty.
	Transcript string `json:"transcript" yaml:"transcript"`

	// Notes is the flattened meeting notes, possibly empty.
	Notes string `json:"notes" yaml:"notes"`

	// AISummary is the merged text of all AI panels, possibly empty.
	AISummary string `json:"ai_summary" yaml:"ai_summary"`

	// URL is the granola:// deep link for this meeting.
	URL string `json:"granola_url" yaml:"granola_url"`
}

// MeetingURL returns the deep link for a meeting ID.
func MeetingURL(id string) string {
	return URLPrefix + id
}
