// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package folder resolves which folder a meeting belongs to from Granola's
// document lists.
package folder

import "github.com/pdiddy/granola-sync/pkg/types"

// UnknownTitle names a list whose metadata is missing or has no title.
const UnknownTitle = "Unknown"

// Index maps a meeting ID to the title of the folder containing it.
type Index map[string]string

// Build walks lists in order and assigns each list's title to every meeting
// it contains. A meeting in several lists gets the title of the last one.
func Build(lists []types.DocumentList, metadata map[string]types.ListMetadata) Index {
	idx := make(Index)
	for _, list := range lists {
		title := UnknownTitle
		if md, ok := metadata[list.ID]; ok && md.Title != "" {
			title = md.Title
		}
		for _, id := range list.MeetingIDs {
			idx[id] = title
		}
	}
	return idx
}

// Lookup returns the folder title for a meeting and whether it is in any list.
func (idx Index) Lookup(meetingID string) (string, bool) {
	title, ok := idx[meetingID]
	return title, ok
}

// Titles returns the distinct folder titles in the index.
func (idx Index) Titles() []string {
	seen := make(map[string]bool)
	var titles []string
	for _, title := range idx {
		if !seen[title] {
			seen[title] = true
			titles = append(titles, title)
		}
	}
	return titles
}
