package io

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
	"github.com/matzehuels/moodboard/pkg/observability"
)

const (
	// FormatVersion is written to metadata.version on every export.
	FormatVersion = "1.0.0"

	// DefaultFilename is the suggested name of an export artifact.
	DefaultFilename = "canvas-export.json"

	// ContentType is the MIME type of the persisted format.
	ContentType = "application/json"
)

// Option configures [Serialize] and the functions built on it.
type Option func(*options)

type options struct {
	now      func() time.Time
	viewport *canvas.Viewport
	filename string
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, filename: DefaultFilename}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides the time source used to stamp metadata.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithViewport records v as the document camera, replacing any viewport
// the document already carries.
func WithViewport(v *canvas.Viewport) Option {
	return func(o *options) { o.viewport = v }
}

// WithFilename sets the suggested file name of the [Artifact] built by [Export].
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// Stamp returns meta updated for a save at now: LastModified is set,
// CreatedAt is kept when present (and set to now otherwise) and Version
// defaults to [FormatVersion].
func Stamp(meta canvas.Metadata, now time.Time) canvas.Metadata {
	now = now.UTC()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = now
	}
	meta.LastModified = now
	if meta.Version == "" {
		meta.Version = FormatVersion
	}
	return meta
}

// Serialize encodes doc in the persisted format.
//
// The input document is not modified. The encoded copy has every
// selected/dragging flag cleared and its metadata stamped with [Stamp].
// Output is pretty-printed with two-space indentation, and nodes, edges and
// data maps are always present (empty rather than null).
func Serialize(doc *canvas.Document, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	out := doc.Clone()
	out.ClearTransient()
	out.Metadata = Stamp(out.Metadata, o.now())
	if o.viewport != nil {
		v := *o.viewport
		out.Viewport = &v
	}
	if out.Viewport != nil {
		if err := out.Viewport.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid viewport")
		}
	}
	for i := range out.Nodes {
		if out.Nodes[i].Data == nil {
			out.Nodes[i].Data = map[string]any{}
		}
	}
	if out.Nodes == nil {
		out.Nodes = []canvas.Node{}
	}
	if out.Edges == nil {
		out.Edges = []canvas.Edge{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode canvas")
	}
	return buf.Bytes(), nil
}

// Artifact is a serialized canvas ready to be handed to a platform adapter
// (browser download, file dialog, HTTP response).
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export serializes doc into an [Artifact]. The suggested file name
// defaults to [DefaultFilename] and must be a plain ".json" basename.
func Export(ctx context.Context, doc *canvas.Document, opts ...Option) (*Artifact, error) {
	o := newOptions(opts)
	start := time.Now()

	if err := errors.ValidateExportFilename(o.filename); err != nil {
		return nil, err
	}
	data, err := Serialize(doc, opts...)
	observability.Document().OnExport(ctx, doc.NodeCount(), doc.EdgeCount(), len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &Artifact{Filename: o.filename, ContentType: ContentType, Data: data}, nil
}

// WriteJSON serializes doc and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(doc *canvas.Document, w io.Writer, opts ...Option) error {
	data, err := Serialize(doc, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc *canvas.Document, path string, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f, opts...)
}
