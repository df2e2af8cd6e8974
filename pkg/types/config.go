// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultSyncDays is the default look-back window for sync, in days.
const DefaultSyncDays = 7

// OutputConfig holds the output locations shared by sync and the index.
type OutputConfig struct {
	// OutputDir is the base directory (contains meetings/, transcripts/, index/).
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// SyncConfig holds settings for the sync stage.
type SyncConfig struct {
	OutputConfig `yaml:",inline"`

	// CachePath is the Granola cache file (default: the macOS application
	// support location of cache-v3.json).
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// Days limits sync to meetings created within the last Days days.
	// Zero syncs every meeting.
	Days int `json:"days" yaml:"days"`

	// Folder, when set, restricts sync to meetings in that folder.
	Folder string `json:"folder,omitempty" yaml:"folder,omitempty"`

	// IncludeTranscripts controls whether transcript documents are written.
	IncludeTranscripts bool `json:"include_transcripts" yaml:"include_transcripts"`

	// Index controls whether synced meetings are written to the meeting index.
	Index bool `json:"index" yaml:"index"`
}

// IndexConfig holds settings for the meeting index.
type IndexConfig struct {
	OutputConfig `yaml:",inline"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
