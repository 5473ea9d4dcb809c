package io

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
	"github.com/matzehuels/moodboard/pkg/observability"
)

// Result is a successfully parsed canvas.
type Result struct {
	// Document is the sanitized document, ready to replace the editor state.
	Document *canvas.Document

	// Viewport is the saved camera, or nil when the file had none (or an
	// invalid one).
	Viewport *canvas.Viewport

	// Warnings lists the integrity problems that were repaired while
	// loading: dropped dangling or duplicate edges, cleared parent links
	// and discarded viewports.
	Warnings []canvas.Issue
}

// Deserialize parses data in the persisted format.
//
// Structural problems are fatal and return an *errors.Error:
//   - invalid JSON: [errors.ErrCodeMalformedDocument]
//   - "nodes" or "edges" missing, null or not an array: [errors.ErrCodeInvalidDocument]
//   - a node that is not an object or has no id: [errors.ErrCodeInvalidDocument]
//   - a node whose position is not a point: [errors.ErrCodeMalformedDocument]
//   - two nodes sharing an id: [errors.ErrCodeDuplicateID]
//
// Everything else is tolerated. Node types and data are not validated;
// values of an unexpected shape and unknown fields are kept and written
// back on export (see [canvas.Node.UnmarshalJSON]). React Flow style type
// names are normalized, edges without a type become "button" edges, and
// edges that are not objects, integrity issues and an unreadable viewport
// are repaired and reported in Result.Warnings. Unreadable export metadata
// is ignored; the next export stamps it afresh.
//
// Deserialize never panics and never returns a partial document.
func Deserialize(data []byte) (*Result, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "canvas is not a JSON object")
	}
	for _, key := range []string{"nodes", "edges"} {
		if err := requireArray(raw, key); err != nil {
			return nil, err
		}
	}
	var nodes, edges []json.RawMessage
	if err := stderrors.Join(json.Unmarshal(raw["nodes"], &nodes), json.Unmarshal(raw["edges"], &edges)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "decode canvas")
	}

	doc := canvas.Document{
		Nodes: make([]canvas.Node, 0, len(nodes)),
		Edges: make([]canvas.Edge, 0, len(edges)),
	}
	var warnings []canvas.Issue

	seen := make(map[string]bool, len(nodes))
	for i, r := range nodes {
		if !isObject(r) {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "node at index %d is not an object", i)
		}
		var n canvas.Node
		if err := json.Unmarshal(r, &n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "decode node at index %d", i)
		}
		if n.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "node at index %d has no id", i)
		}
		if seen[n.ID] {
			return nil, errors.New(errors.ErrCodeDuplicateID, "node id %q is used more than once", n.ID)
		}
		seen[n.ID] = true
		n.Type = canvas.NormalizeType(n.Type)
		if n.Data == nil {
			n.Data = map[string]any{}
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	for i, r := range edges {
		var e canvas.Edge
		if !isObject(r) || json.Unmarshal(r, &e) != nil {
			warnings = append(warnings, canvas.Issue{
				Kind:    canvas.IssueMalformedEdge,
				Message: fmt.Sprintf("dropped edge at index %d: not an object", i),
			})
			continue
		}
		if e.ID == "" {
			e.ID = fmt.Sprintf("e%s-%s", e.Source, e.Target)
		}
		if e.Type == "" {
			e.Type = canvas.EdgeTypeButton
		}
		doc.Edges = append(doc.Edges, e)
	}

	if v, ok := raw["viewport"]; ok && string(bytes.TrimSpace(v)) != "null" {
		var vp canvas.Viewport
		if err := json.Unmarshal(v, &vp); err != nil {
			warnings = append(warnings, canvas.Issue{Kind: canvas.IssueInvalidViewport, Message: "dropped unreadable viewport"})
		} else {
			doc.Viewport = &vp
		}
	}
	if m, ok := raw["metadata"]; ok {
		var meta canvas.Metadata
		if json.Unmarshal(m, &meta) == nil {
			doc.Metadata = meta
		}
	}

	warnings = append(warnings, doc.Sanitize()...)
	return &Result{Document: &doc, Viewport: doc.Viewport, Warnings: warnings}, nil
}

func isObject(r json.RawMessage) bool {
	r = bytes.TrimSpace(r)
	return len(r) > 0 && r[0] == '{'
}

func requireArray(raw map[string]json.RawMessage, key string) error {
	v, ok := raw[key]
	if !ok {
		return errors.New(errors.ErrCodeInvalidDocument, "canvas has no %q array", key)
	}
	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] != '[' {
		return errors.New(errors.ErrCodeInvalidDocument, "canvas field %q must be an array", key)
	}
	return nil
}

// Import parses data like [Deserialize] and reports the outcome to the
// registered document hooks.
func Import(ctx context.Context, data []byte) (*Result, error) {
	start := time.Now()
	res, err := Deserialize(data)
	if err != nil {
		observability.Document().OnImport(ctx, 0, 0, 0, time.Since(start), err)
		return nil, err
	}
	observability.Document().OnImport(ctx, res.Document.NodeCount(), res.Document.EdgeCount(), len(res.Warnings), time.Since(start), nil)
	return res, nil
}

// ReadJSON reads a canvas from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Deserialize(data)
}

// ImportJSON reads the canvas file at path.
//
// A missing file yields [errors.ErrCodeFileNotFound]; decoding errors are
// the same as for [Deserialize].
func ImportJSON(path string) (*Result, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
