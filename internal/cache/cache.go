// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache reads the Granola cache file and normalizes its `state`
// object into types.State. Granola stores the payload either inline or as
// a JSON document re-encoded into a string under the `cache` key; both are
// accepted.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/granola-sync/pkg/types"
)

// DefaultFile is the cache location relative to the user's home directory.
const DefaultFile = "Library/Application Support/Granola/cache-v3.json"

var (
	// ErrCacheNotFound is returned when the cache file does not exist.
	ErrCacheNotFound = errors.New("granola cache not found")

	// ErrInvalidCache is returned when the cache is not valid JSON.
	ErrInvalidCache = errors.New("granola cache is not valid JSON")
)

// DefaultPath returns the default cache location for the current user.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFile
	}
	return filepath.Join(home, DefaultFile)
}

// Load reads and normalizes the cache at path. Errors wrap ErrCacheNotFound
// or ErrInvalidCache; either means no meeting can be synced.
func Load(path string) (types.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.State{}, fmt.Errorf("%w at %s", ErrCacheNotFound, path)
		}
		return types.State{}, fmt.Errorf("reading cache %s: %w", path, err)
	}
	state, err := Normalize(data)
	if err != nil {
		return types.State{}, fmt.Errorf("%s: %w", path, err)
	}
	return state, nil
}

// Normalize parses raw cache bytes into a State. Only top-level JSON errors
// are reported; tables of unexpected shape decode as empty.
func Normalize(data []byte) (types.State, error) {
	payload, err := Unwrap(data)
	if err != nil {
		return types.State{}, err
	}

	top, ok := decodeObject(payload)
	if !ok {
		return emptyState(), nil
	}
	stateRaw, ok := top.get("state")
	if !ok {
		return emptyState(), nil
	}
	state, ok := decodeObject(stateRaw)
	if !ok {
		return emptyState(), nil
	}
	return decodeState(state), nil
}

// Unwrap returns the cache payload. If data has a `cache` field holding a
// string, that string is the payload; if `cache` holds any other value, the
// value is the payload; otherwise data itself is.
func Unwrap(data []byte) (json.RawMessage, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidCache
	}

	top, ok := decodeObject(data)
	if !ok {
		return json.RawMessage(data), nil
	}
	inner, ok := top.get("cache")
	if !ok {
		return json.RawMessage(data), nil
	}

	trimmed := bytes.TrimSpace(inner)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		// Not a string: the payload is stored inline.
		return inner, nil
	}
	var encoded string
	if err := json.Unmarshal(trimmed, &encoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCache, err)
	}
	if !json.Valid([]byte(encoded)) {
		return nil, fmt.Errorf("%w: nested cache string", ErrInvalidCache)
	}
	return json.RawMessage(encoded), nil
}

func emptyState() types.State {
	return types.State{
		Transcripts:           map[string][]types.Utterance{},
		DocumentPanels:        map[string][]types.Panel{},
		DocumentListsMetadata: map[string]types.ListMetadata{},
	}
}
