// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package syncer drives one sync run: it walks the cached meetings in source
// order, applies the date and folder filters, and writes the rendered notes
// and transcript documents under the output directory.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/granola-sync/internal/meeting"
	"github.com/pdiddy/granola-sync/internal/render"
	"github.com/pdiddy/granola-sync/internal/transcript"
	"github.com/pdiddy/granola-sync/pkg/types"
)

const (
	// MeetingsDir is the subdirectory under the output dir for notes documents.
	MeetingsDir = "meetings"
	// TranscriptsDir is the subdirectory under the output dir for transcripts.
	TranscriptsDir = "transcripts"
	// LastSyncFile records the time of the most recent run.
	LastSyncFile = ".last-sync"
)

// Result holds the outcome of a sync run.
type Result struct {
	Synced  int
	Skipped int
	Failed  int

	// Meetings are the records that were written, in source order.
	Meetings []types.Meeting
}

// Total returns the total number of meetings considered.
func (r Result) Total() int {
	return r.Synced + r.Skipped + r.Failed
}

// HasFailures reports whether any meeting failed to sync.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Run syncs every meeting in state that passes the filters in cfg, printing
// per-meeting status to w. A failure on one meeting is counted and the run
// continues. The returned error is reserved for problems that stop the run:
// an unusable output directory, a cancelled context, or a failed
// .last-sync write.
func Run(ctx context.Context, state types.State, cfg types.SyncConfig, now time.Time, w io.Writer, log zerolog.Logger) (Result, error) {
	var result Result

	meetingsDir := filepath.Join(cfg.OutputDir, MeetingsDir)
	transcriptsDir := filepath.Join(cfg.OutputDir, TranscriptsDir)
	for _, dir := range []string{meetingsDir, transcriptsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	lk := meeting.NewLookups(state)

	fmt.Fprintf(w, "Found %d total meetings in cache\n", len(state.Documents))
	fmt.Fprintf(w, "Found %d transcripts in cache\n", len(state.Transcripts))
	fmt.Fprintf(w, "Found %d folders in cache\n", len(state.DocumentListsMetadata))
	fmt.Fprintf(w, "Found %d meetings with AI panels\n", len(state.DocumentPanels))

	if cfg.Folder != "" && !slices.Contains(lk.Folders.Titles(), cfg.Folder) {
		log.Warn().Str("folder", cfg.Folder).Msg("folder filter matches no known folder")
	}

	var cutoff time.Time
	if cfg.Days > 0 {
		cutoff = now.Add(-time.Duration(cfg.Days) * 24 * time.Hour)
	}

	for _, raw := range state.Documents {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if !cutoff.IsZero() && !createdSince(raw.String("created_at"), cutoff) {
			log.Debug().Str("meeting_id", raw.ID()).Msg("outside date window")
			result.Skipped++
			continue
		}

		m, err := syncMeeting(raw, lk, cfg, meetingsDir, transcriptsDir)
		switch {
		case errors.Is(err, errFiltered):
			log.Debug().Str("meeting_id", m.ID).Str("folder", m.Folder).Msg("folder filtered")
			result.Skipped++
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", raw.ID(), err)
			log.Error().Err(err).Str("meeting_id", raw.ID()).Msg("sync failed")
			result.Failed++
		default:
			fmt.Fprintf(w, "synced:  %s\n", m.Title)
			result.Synced++
			result.Meetings = append(result.Meetings, m)
		}
	}

	marker := filepath.Join(cfg.OutputDir, LastSyncFile)
	if err := os.WriteFile(marker, []byte(now.Format(time.RFC3339)), 0o644); err != nil {
		return result, fmt.Errorf("writing %s: %w", marker, err)
	}

	fmt.Fprintf(w, "\nSync summary: %d synced, %d skipped, %d failed (total: %d)\n",
		result.Synced, result.Skipped, result.Failed, result.Total())
	fmt.Fprintf(w, "  Notes: %s\n  Transcripts: %s\n", meetingsDir, transcriptsDir)
	return result, nil
}

// errFiltered marks a meeting excluded by the folder filter.
var errFiltered = errors.New("not in requested folder")

// syncMeeting builds, renders, and writes one meeting. A panic while doing
// so is returned as an error.
func syncMeeting(raw types.RawMeeting, lk meeting.Lookups, cfg types.SyncConfig, meetingsDir, transcriptsDir string) (m types.Meeting, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	m = meeting.Build(raw, lk)
	if cfg.Folder != "" && m.Folder != cfg.Folder {
		return m, errFiltered
	}

	notesName, transcriptName := render.Filenames(m)
	if err := os.WriteFile(filepath.Join(meetingsDir, notesName), []byte(render.Main(m)), 0o644); err != nil {
		return m, err
	}

	if !cfg.IncludeTranscripts {
		return m, nil
	}
	if body, ok := render.Transcript(m); ok {
		if err := os.WriteFile(filepath.Join(transcriptsDir, transcriptName), []byte(body), 0o644); err != nil {
			return m, err
		}
	}
	return m, nil
}

// createdSince reports whether createdAt is a parseable timestamp at or after
// cutoff. Timestamps without a zone are read as UTC.
func createdSince(createdAt string, cutoff time.Time) bool {
	if createdAt == "" {
		return false
	}
	ts, _, ok := transcript.ParseTimestamp(createdAt)
	if !ok {
		return false
	}
	return !ts.Before(cutoff)
}
