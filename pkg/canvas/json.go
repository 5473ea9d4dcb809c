package canvas

import (
	"bytes"
	"encoding/json"
	"maps"
)

// UnmarshalJSON decodes a node leniently. Only a malformed position is an
// error; any other field that does not fit its Go type is kept verbatim in
// Extra along with the fields this package does not model. Non-string ids
// and types are read as their JSON text. The React Flow layout is accepted
// too: top-level "width"/"height" fill Size and "parentNode" fills ParentID.
func (n *Node) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*n = Node{}
	for key, raw := range fields {
		kept := true
		switch key {
		case "id":
			n.ID = jsonText(raw)
		case "type":
			n.Type = NodeType(jsonText(raw))
		case "parentId":
			n.ParentID = jsonText(raw)
		case "position":
			if err := json.Unmarshal(raw, &n.Position); err != nil {
				return err
			}
		case "size":
			kept = decodeField(raw, &n.Size)
		case "data":
			kept = decodeField(raw, &n.Data)
		case "style":
			kept = decodeField(raw, &n.Style)
		case "selected":
			decodeField(raw, &n.Selected)
		case "dragging":
			decodeField(raw, &n.Dragging)
		default:
			kept = false
		}
		if !kept {
			keepField(&n.Extra, key, raw)
		}
	}

	if p, ok := n.Extra["parentNode"]; ok && n.ParentID == "" {
		n.ParentID = jsonText(p)
	}
	if n.Size == nil {
		var w, h float64
		if decodeField(n.Extra["width"], &w) && decodeField(n.Extra["height"], &h) {
			n.Size = &Size{Width: w, Height: h}
		}
	}
	return nil
}

// MarshalJSON writes the modelled fields and then the Extra ones. The
// React Flow mirrors "parentNode", "width" and "height" are refreshed from
// ParentID and Size when the node was read with them.
func (n Node) MarshalJSON() ([]byte, error) {
	type plain Node
	b, err := marshal(plain(n))
	if err != nil || len(n.Extra) == 0 {
		return b, err
	}

	extra := maps.Clone(n.Extra)
	if _, ok := extra["parentNode"]; ok {
		if n.ParentID == "" {
			delete(extra, "parentNode")
		} else {
			extra["parentNode"], _ = json.Marshal(n.ParentID)
		}
	}
	if n.Size != nil {
		if _, ok := extra["width"]; ok {
			extra["width"], _ = json.Marshal(n.Size.Width)
		}
		if _, ok := extra["height"]; ok {
			extra["height"], _ = json.Marshal(n.Size.Height)
		}
	}
	return mergeExtra(b, extra)
}

// UnmarshalJSON decodes an edge leniently: non-string ids and endpoints are
// read as their JSON text, and a label or style of the wrong shape is kept
// in Extra with the unmodelled fields.
func (e *Edge) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*e = Edge{}
	for key, raw := range fields {
		kept := true
		switch key {
		case "id":
			e.ID = jsonText(raw)
		case "source":
			e.Source = jsonText(raw)
		case "target":
			e.Target = jsonText(raw)
		case "type":
			e.Type = jsonText(raw)
		case "label":
			kept = decodeField(raw, &e.Label)
		case "animated":
			kept = decodeField(raw, &e.Animated)
		case "style":
			kept = decodeField(raw, &e.Style)
		case "selected":
			decodeField(raw, &e.Selected)
		default:
			kept = false
		}
		if !kept {
			keepField(&e.Extra, key, raw)
		}
	}
	return nil
}

// MarshalJSON writes the modelled fields and then the Extra ones.
func (e Edge) MarshalJSON() ([]byte, error) {
	type plain Edge
	b, err := marshal(plain(e))
	if err != nil || len(e.Extra) == 0 {
		return b, err
	}
	return mergeExtra(b, e.Extra)
}

// decodeField decodes raw into dst and reports success. dst is left
// untouched on failure.
func decodeField[T any](raw json.RawMessage, dst *T) bool {
	if raw == nil {
		return false
	}
	var v T
	if json.Unmarshal(raw, &v) != nil {
		return false
	}
	*dst = v
	return true
}

func keepField(extra *map[string]json.RawMessage, key string, raw json.RawMessage) {
	if *extra == nil {
		*extra = make(map[string]json.RawMessage)
	}
	(*extra)[key] = raw
}

// jsonText returns a JSON string's value, "" for null, and the compact JSON
// text of anything else.
func jsonText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if json.Compact(&buf, raw) != nil {
		return string(bytes.TrimSpace(raw))
	}
	return buf.String()
}

// mergeExtra adds extra to the JSON object in known. A modelled field wins
// unless it encodes as empty ({}, null or ""), in which case the kept
// original is written back; this is how an unreadable "data" survives.
func mergeExtra(known []byte, extra map[string]json.RawMessage) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if cur, ok := fields[k]; !ok || emptyJSON(cur) {
			fields[k] = v
		}
	}
	return marshal(fields)
}

// marshal encodes v without HTML escaping, matching the file encoder.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func emptyJSON(v json.RawMessage) bool {
	switch string(bytes.TrimSpace(v)) {
	case "{}", "null", `""`:
		return true
	}
	return false
}
