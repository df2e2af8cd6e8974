// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// State is the normalized `state` object of the Granola cache. Tables keyed
// by meeting ID may omit any meeting; a missing entry means "no data".
type State struct {
	// Documents holds the meetings in cache order.
	Documents []RawMeeting

	// Transcripts maps a meeting ID to its utterances in recorded order.
	Transcripts map[string][]Utterance

	// DocumentPanels maps a meeting ID to its AI panels in cache order.
	DocumentPanels map[string][]Panel

	// DocumentLists holds the folder lists in cache order.
	DocumentLists []DocumentList

	// DocumentListsMetadata maps a list ID to its display metadata.
	DocumentListsMetadata map[string]ListMetadata
}

// RawMeeting is one entry of state.documents exactly as decoded from JSON.
// Fields are loosely typed; readers must tolerate any shape.
type RawMeeting map[string]any

// ID returns the meeting identifier, or "" when absent or not a string.
func (m RawMeeting) ID() string {
	return m.String("id")
}

// String returns the named field when it is a string, or "".
func (m RawMeeting) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Utterance is one timestamped unit of transcribed speech.
type Utterance struct {
	// Source is the audio channel: "microphone", "system", or "unknown".
	Source string `json:"source" yaml:"source"`

	Text           string `json:"text" yaml:"text"`
	StartTimestamp string `json:"start_timestamp" yaml:"start_timestamp"`
	EndTimestamp   string `json:"end_timestamp" yaml:"end_timestamp"`
}

// Panel is one AI-generated artifact attached to a meeting.
type Panel struct {
	ID string

	// Content is the rich-text tree as decoded from JSON.
	Content any
}

// DocumentList is a folder: a named set of meeting IDs.
type DocumentList struct {
	ID         string
	MeetingIDs []string
}

// ListMetadata carries the display fields of a document list.
type ListMetadata struct {
	Title string `json:"title" yaml:"title"`
}
