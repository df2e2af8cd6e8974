// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pdiddy/granola-sync/internal/transcript"
	"github.com/pdiddy/granola-sync/pkg/types"
)

// object is a decoded JSON object that remembers key order. The cache's
// tables are mappings whose order decides meeting order and folder
// precedence, so plain Go maps are not enough.
type object struct {
	keys   []string
	values map[string]json.RawMessage
}

func (o object) get(key string) (json.RawMessage, bool) {
	v, ok := o.values[key]
	return v, ok
}

// decodeObject decodes raw as a JSON object. It reports false when raw is
// not an object. A repeated key keeps its first position and last value.
func decodeObject(raw []byte) (object, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return object{}, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return object{}, false
	}

	o := object{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return object{}, false
		}
		key, ok := tok.(string)
		if !ok {
			return object{}, false
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return object{}, false
		}
		if _, dup := o.values[key]; !dup {
			o.keys = append(o.keys, key)
		}
		o.values[key] = v
	}
	return o, true
}

// decodeArray decodes raw as a JSON array of raw elements.
func decodeArray(raw []byte) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}
	return items, true
}

// decodeMap decodes raw as a generic JSON object value.
func decodeMap(raw []byte) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

// entries returns the (key, value) pairs of a mapping, or index keys for a
// sequence, in source order.
func entries(raw []byte) (keys []string, values []json.RawMessage) {
	if o, ok := decodeObject(raw); ok {
		for _, k := range o.keys {
			keys = append(keys, k)
			values = append(values, o.values[k])
		}
		return keys, values
	}
	if items, ok := decodeArray(raw); ok {
		for i, item := range items {
			keys = append(keys, strconv.Itoa(i))
			values = append(values, item)
		}
	}
	return keys, values
}

func decodeState(o object) types.State {
	state := emptyState()
	if raw, ok := o.get("documents"); ok {
		state.Documents = decodeDocuments(raw)
	}
	if raw, ok := o.get("transcripts"); ok {
		state.Transcripts = decodeTranscripts(raw)
	}
	if raw, ok := o.get("documentPanels"); ok {
		state.DocumentPanels = decodePanels(raw)
	}
	if raw, ok := o.get("documentLists"); ok {
		state.DocumentLists = decodeLists(raw)
	}
	if raw, ok := o.get("documentListsMetadata"); ok {
		state.DocumentListsMetadata = decodeListMetadata(raw)
	}
	return state
}

// decodeDocuments accepts a mapping of meeting ID to meeting or a sequence
// of meetings. Entries that are not objects are dropped. A meeting stored
// in a mapping without its own id takes the mapping key.
func decodeDocuments(raw []byte) []types.RawMeeting {
	_, isObject := decodeObject(raw)
	keys, values := entries(raw)

	docs := make([]types.RawMeeting, 0, len(values))
	for i, v := range values {
		m, ok := decodeMap(v)
		if !ok {
			continue
		}
		doc := types.RawMeeting(m)
		if isObject && doc.ID() == "" {
			doc["id"] = keys[i]
		}
		docs = append(docs, doc)
	}
	return docs
}

func decodeTranscripts(raw []byte) map[string][]types.Utterance {
	out := make(map[string][]types.Utterance)
	o, ok := decodeObject(raw)
	if !ok {
		return out
	}
	for _, id := range o.keys {
		items, ok := decodeArray(o.values[id])
		if !ok {
			continue
		}
		utterances := make([]types.Utterance, 0, len(items))
		for _, item := range items {
			m, ok := decodeMap(item)
			if !ok {
				continue
			}
			utterances = append(utterances, decodeUtterance(m))
		}
		out[id] = utterances
	}
	return out
}

func decodeUtterance(m map[string]any) types.Utterance {
	source, _ := m["source"].(string)
	text, _ := m["text"].(string)
	start, _ := m["start_timestamp"].(string)
	end, _ := m["end_timestamp"].(string)
	return types.Utterance{
		Source:         transcript.NormalizeSource(source),
		Text:           text,
		StartTimestamp: start,
		EndTimestamp:   end,
	}
}

func decodePanels(raw []byte) map[string][]types.Panel {
	out := make(map[string][]types.Panel)
	o, ok := decodeObject(raw)
	if !ok {
		return out
	}
	for _, meetingID := range o.keys {
		panelIDs, values := entries(o.values[meetingID])
		var panels []types.Panel
		for i, v := range values {
			m, ok := decodeMap(v)
			if !ok {
				continue
			}
			panels = append(panels, types.Panel{ID: panelIDs[i], Content: m["content"]})
		}
		out[meetingID] = panels
	}
	return out
}

// decodeLists accepts, per list, either a sequence of meeting IDs or a
// mapping keyed by meeting ID.
func decodeLists(raw []byte) []types.DocumentList {
	o, ok := decodeObject(raw)
	if !ok {
		return nil
	}
	lists := make([]types.DocumentList, 0, len(o.keys))
	for _, listID := range o.keys {
		list := types.DocumentList{ID: listID}
		member := o.values[listID]
		if items, ok := decodeArray(member); ok {
			for _, item := range items {
				var id string
				if err := json.Unmarshal(item, &id); err == nil {
					list.MeetingIDs = append(list.MeetingIDs, id)
				}
			}
		} else if byID, ok := decodeObject(member); ok {
			list.MeetingIDs = append(list.MeetingIDs, byID.keys...)
		}
		lists = append(lists, list)
	}
	return lists
}

func decodeListMetadata(raw []byte) map[string]types.ListMetadata {
	out := make(map[string]types.ListMetadata)
	o, ok := decodeObject(raw)
	if !ok {
		return out
	}
	for _, listID := range o.keys {
		m, ok := decodeMap(o.values[listID])
		if !ok {
			continue
		}
		title, _ := m["title"].(string)
		out[listID] = types.ListMetadata{Title: title}
	}
	return out
}
