// Package session holds the editing state of one open canvas.
//
// A [Session] owns the document, the sketch surfaces of its sketch nodes
// and the services used while editing: the content classifier for pastes
// and the metadata service for link previews. Every mutation goes through
// [Session.Apply], which edits a copy, validates it and only then swaps it
// in, so a failed edit never leaves a half-applied document behind.
//
// Sessions are safe for concurrent use; the HTTP server and the CLI share
// them freely. Platform concerns (clipboard, file dialogs, the current
// camera) are reached through the [Host] interface.
//
//	s := session.New(session.WithMetadata(metadata.NewService(nil)))
//	node, err := s.Paste("https://youtu.be/dQw4w9WgXcQ", false, canvas.Position{X: 100, Y: 100})
//	art, err := s.Export(ctx, nil, "")
package session

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/classify"
	"github.com/matzehuels/moodboard/pkg/errors"
	cio "github.com/matzehuels/moodboard/pkg/io"
	"github.com/matzehuels/moodboard/pkg/metadata"
	"github.com/matzehuels/moodboard/pkg/sketch"
)

// Session is one open canvas.
type Session struct {
	mu        sync.Mutex
	doc       *canvas.Document
	sketches  map[string]*sketch.Surface
	guard     *metadata.Guard
	meta      *metadata.Service
	classify  classify.Classifier
	maxStates int
	filename  string
	logger    *log.Logger
}

// Option configures a [Session].
type Option func(*Session)

// WithDocument starts the session from a copy of doc.
func WithDocument(doc *canvas.Document) Option {
	return func(s *Session) { s.doc = doc.Clone() }
}

// WithMetadata sets the link-preview service.
func WithMetadata(svc *metadata.Service) Option {
	return func(s *Session) { s.meta = svc }
}

// WithClassifier sets the classifier used for pastes.
func WithClassifier(c classify.Classifier) Option {
	return func(s *Session) { s.classify = c }
}

// WithMaxStates sets the undo depth of sketch surfaces.
func WithMaxStates(n int) Option {
	return func(s *Session) { s.maxStates = n }
}

// WithFilename sets the default export file name.
func WithFilename(name string) Option {
	return func(s *Session) { s.filename = name }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New returns a session with an empty document unless [WithDocument] is
// given. Without [WithMetadata] link previews are fetched through the
// default proxy.
func New(opts ...Option) *Session {
	s := &Session{
		doc:       canvas.New(),
		sketches:  make(map[string]*sketch.Surface),
		guard:     metadata.NewGuard(),
		maxStates: sketch.DefaultMaxStates,
		filename:  cio.DefaultFilename,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.meta == nil {
		s.meta = metadata.NewService(nil, metadata.WithLogger(s.logger))
	}
	return s
}

// Document returns a copy of the current document.
func (s *Session) Document() *canvas.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Metadata returns the session's link-preview service.
func (s *Session) Metadata() *metadata.Service { return s.meta }

// Apply runs fn on a copy of the document. When fn succeeds and the result
// passes [cio.Check] the copy replaces the document; otherwise the document
// is unchanged and the error is returned. Sketch surfaces of removed nodes
// are discarded.
func (s *Session) Apply(fn func(*canvas.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(fn)
}

func (s *Session) apply(fn func(*canvas.Document) error) error {
	next := s.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := cio.Check(next); err != nil {
		return err
	}
	s.doc = next
	for id := range s.sketches {
		if _, ok := next.Node(id); !ok {
			delete(s.sketches, id)
			s.guard.Forget(id)
		}
	}
	return nil
}

// AddNode appends n to the document.
func (s *Session) AddNode(n canvas.Node) error {
	return s.Apply(func(d *canvas.Document) error { return d.AddNode(n) })
}

// RemoveNode deletes the node with id along with its edges. Children of a
// removed group move up to the group's parent.
func (s *Session) RemoveNode(id string) error {
	err := s.Apply(func(d *canvas.Document) error { return d.RemoveNode(id) })
	if err == nil {
		s.guard.Forget(id)
	}
	return err
}

// DropNode re-parents the node onto the smallest group containing its
// centre, or onto the root when no group does. It returns the new parent id.
func (s *Session) DropNode(id string) (string, error) {
	var parent string
	err := s.Apply(func(d *canvas.Document) error {
		p, err := d.DropIntoGroup(id)
		parent = p
		return err
	})
	return parent, err
}

// Paste classifies content and appends the resulting node at pos.
func (s *Session) Paste(content string, isImage bool, pos canvas.Position) (canvas.Node, error) {
	res := s.classify.Classify(content, isImage, pos)
	if err := s.AddNode(res.Node); err != nil {
		return canvas.Node{}, err
	}
	return res.Node, nil
}

// PasteBytes classifies raw clipboard or drop data and appends the
// resulting node at pos.
func (s *Session) PasteBytes(data []byte, pos canvas.Position) (canvas.Node, error) {
	res, err := s.classify.ClassifyBytes(data, pos)
	if err != nil {
		return canvas.Node{}, err
	}
	if err := s.AddNode(res.Node); err != nil {
		return canvas.Node{}, err
	}
	return res.Node, nil
}

// Export serializes the document. A nil viewport keeps the document's own
// camera; an empty filename uses the session default.
func (s *Session) Export(ctx context.Context, viewport *canvas.Viewport, filename string) (*cio.Artifact, error) {
	if filename == "" {
		filename = s.filename
	}
	doc := s.Document()
	if viewport != nil {
		doc.Viewport = viewport
	}
	return cio.Export(ctx, doc, cio.WithViewport(doc.Viewport), cio.WithFilename(filename))
}

// Import replaces the document with the canvas in data. On error the
// session is left exactly as it was. Open sketch surfaces are dropped.
func (s *Session) Import(ctx context.Context, data []byte) (*cio.Result, error) {
	res, err := cio.Import(ctx, data)
	if err != nil {
		return nil, err
	}
	s.replace(res)
	for _, w := range res.Warnings {
		s.logger.Warn("canvas repaired", "issue", w.String())
	}
	return res, nil
}

func (s *Session) replace(res *cio.Result) {
	doc := res.Document.Clone()
	doc.Viewport = res.Viewport

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	clear(s.sketches)
	s.guard = metadata.NewGuard()
}

// RefreshLink fetches the preview of a link node and stores it under
// data.metadata. The node title is replaced when it still holds a
// placeholder or a previous preview title. The result is discarded, and
// false returned, when the node was removed or its URL changed while the
// fetch was in flight.
func (s *Session) RefreshLink(ctx context.Context, nodeID string) (bool, error) {
	s.mu.Lock()
	n, ok := s.doc.Node(nodeID)
	if !ok {
		s.mu.Unlock()
		return false, errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID)
	}
	url, _ := n.Data["url"].(string)
	if n.Type != canvas.TypeLink || url == "" {
		s.mu.Unlock()
		return false, errors.New(errors.ErrCodeInvalidInput, "node %q is not a link", nodeID)
	}
	ticket := s.guard.Begin(nodeID, url)
	s.mu.Unlock()

	og := s.meta.Fetch(ctx, url)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard.Valid(ticket) {
		return false, nil
	}
	cur, ok := s.doc.Node(nodeID)
	if !ok || cur.Data["url"] != url {
		return false, nil
	}
	err := s.apply(func(d *canvas.Document) error {
		n, _ := d.Node(nodeID)
		if n.Data == nil {
			n.Data = map[string]any{}
		}
		if title, _ := n.Data["title"].(string); replaceableTitle(title, n.Data["metadata"]) && og.Title != "" {
			n.Data["title"] = og.Title
		}
		n.Data["metadata"] = previewData(*og)
		return nil
	})
	return err == nil, err
}

// Placeholder titles given to new link nodes.
var placeholderTitles = []string{"", canvas.DefaultData(canvas.TypeLink)["title"].(string), "Click to edit title"}

func replaceableTitle(title string, prev any) bool {
	for _, p := range placeholderTitles {
		if title == p {
			return true
		}
	}
	if m, ok := prev.(map[string]any); ok {
		return m["title"] == title
	}
	return false
}

func previewData(og metadata.OpenGraph) map[string]any {
	m := map[string]any{}
	for k, v := range map[string]string{
		"title":       og.Title,
		"description": og.Description,
		"image":       og.Image,
		"siteName":    og.SiteName,
		"type":        og.Type,
		"url":         og.URL,
	} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}
