// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pdiddy/granola-sync/pkg/types"
)

// QueryOptions holds parameters for index searches and exports.
type QueryOptions struct {
	// Query is an FTS4 MATCH expression over title, notes, AI summary, and
	// transcript.
	Query string

	// Folder restricts results to one folder title.
	Folder string

	// Participant restricts results to meetings listing this participant.
	Participant string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Folder == "" && q.Participant == ""
}

var meetingColumns = []string{
	"m.id", "m.title", "m.created_at", "m.updated_at", "m.folder",
	"m.participants", "m.tags", "m.duration", "m.transcript", "m.notes",
	"m.ai_summary", "m.granola_url",
}

// Search returns meetings matching opts, newest first.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]types.Meeting, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	q := sq.Select(meetingColumns...).From("meetings m")
	if opts.Query != "" {
		q = q.Join("meetings_fts ON meetings_fts.docid = m.rowid").
			Where("meetings_fts MATCH ?", opts.Query)
	}
	if opts.Folder != "" {
		q = q.Where(sq.Eq{"m.folder": opts.Folder})
	}
	if opts.Participant != "" {
		q = q.Where("EXISTS (SELECT 1 FROM json_each(m.participants) WHERE value = ?)", opts.Participant)
	}
	q = q.OrderBy("m.created_at DESC", "m.id").Limit(uint64(maxResults))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building search query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []types.Meeting
	for rows.Next() {
		var (
			m                types.Meeting
			participantsJSON string
			tagsJSON         string
		)
		if err := rows.Scan(
			&m.ID, &m.Title, &m.CreatedAt, &m.UpdatedAt, &m.Folder,
			&participantsJSON, &tagsJSON,
			&m.Duration, &m.Transcript, &m.Notes, &m.AISummary, &m.URL,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := decodeList(participantsJSON, &m.Participants); err != nil {
			return nil, fmt.Errorf("decoding participants of %s: %w", m.ID, err)
		}
		if err := decodeList(tagsJSON, &m.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags of %s: %w", m.ID, err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// decodeList reverses encodeList. An empty array decodes to nil so search
// results compare equal to freshly built meetings.
func decodeList(data string, out *[]string) error {
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return err
	}
	if len(values) > 0 {
		*out = values
	}
	return nil
}
