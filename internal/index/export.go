// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/granola-sync/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the matching meetings to index/export.yaml and returns
// the file path. It supports the same filters as Search.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	meetings, err := s.exportMeetings(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(meetings)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("export.yaml", data)
}

// ExportJSON writes the matching meetings to index/export.json and returns
// the file path. It supports the same filters as Search.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	meetings, err := s.exportMeetings(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(meetings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("export.json", data)
}

func (s *Store) exportMeetings(ctx context.Context, opts QueryOptions) ([]types.Meeting, error) {
	opts.MaxResults = exportLimit
	meetings, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if meetings == nil {
		meetings = []types.Meeting{}
	}
	return meetings, nil
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
