package session

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
	cio "github.com/matzehuels/moodboard/pkg/io"
	"github.com/matzehuels/moodboard/pkg/metadata"
	"github.com/matzehuels/moodboard/pkg/sketch"
)

const ogPage = `<html><head><meta property="og:title" content="The Go Programming Language"></head></html>`

// fakeHost records the calls a session makes to the platform.
type fakeHost struct {
	center  canvas.Position
	clip    Clipboard
	clipErr error
	open    []byte
	saved   []*cio.Artifact
}

func (h *fakeHost) ViewportCenter() canvas.Position { return h.center }
func (h *fakeHost) Viewport() *canvas.Viewport      { return &canvas.Viewport{X: 1, Y: 2, Zoom: 1.5} }

func (h *fakeHost) ReadClipboard(context.Context) (Clipboard, error) { return h.clip, h.clipErr }
func (h *fakeHost) Open(context.Context) ([]byte, error)             { return h.open, nil }

func (h *fakeHost) Save(_ context.Context, art *cio.Artifact) error {
	h.saved = append(h.saved, art)
	return nil
}

func offlineMetadata(pages map[string]string) *metadata.Service {
	return metadata.NewService(metadata.FetcherFunc(func(_ context.Context, u string) (string, error) {
		if p, ok := pages[u]; ok {
			return p, nil
		}
		return "", stderrors.New("offline")
	}))
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	return New(append([]Option{WithMetadata(offlineMetadata(nil))}, opts...)...)
}

func TestPasteAppendsClassifiedNode(t *testing.T) {
	s := newTestSession(t)
	at := canvas.Position{X: 40, Y: 60}

	n, err := s.Paste("https://www.youtube.com/watch?v=abc", false, at)
	if err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if n.Type != canvas.TypeVideo || n.Position != at {
		t.Errorf("pasted node = %+v", n)
	}
	doc := s.Document()
	if doc.NodeCount() != 1 || doc.Nodes[0].ID != n.ID {
		t.Fatalf("document nodes = %+v", doc.Nodes)
	}

	doc.Nodes[0].Data["url"] = "changed"
	if s.Document().Nodes[0].Data["url"] == "changed" {
		t.Error("Document must return a copy")
	}
}

func TestPasteBytesRejectsUnsupported(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.PasteBytes([]byte{0x00, 0x01, 0xff, 0xfe}, canvas.Position{}); !errors.Is(err, errors.ErrCodeUnsupportedContent) {
		t.Errorf("PasteBytes(binary) = %v", err)
	}
	if s.Document().NodeCount() != 0 {
		t.Error("failed paste must not add nodes")
	}
}

func TestApplyIsAllOrNothing(t *testing.T) {
	s := newTestSession(t)
	_ = s.AddNode(canvas.Node{ID: "a", Type: canvas.TypeText})

	err := s.Apply(func(d *canvas.Document) error {
		d.Nodes = append(d.Nodes, canvas.Node{ID: "b", Type: canvas.TypeText})
		d.Edges = append(d.Edges, canvas.Edge{ID: "e", Source: "a", Target: "ghost"})
		return nil
	})
	if !errors.Is(err, errors.ErrCodeDanglingEdge) {
		t.Fatalf("Apply = %v, want DANGLING_EDGE", err)
	}
	if doc := s.Document(); doc.NodeCount() != 1 || doc.EdgeCount() != 0 {
		t.Errorf("document changed by failed Apply: %d nodes, %d edges", doc.NodeCount(), doc.EdgeCount())
	}

	boom := stderrors.New("boom")
	if err := s.Apply(func(d *canvas.Document) error {
		d.Nodes = nil
		return boom
	}); err != boom {
		t.Errorf("Apply should return the callback error, got %v", err)
	}
	if s.Document().NodeCount() != 1 {
		t.Error("callback error must discard the edit")
	}
}

func TestDropNode(t *testing.T) {
	s := newTestSession(t)
	_ = s.AddNode(canvas.Node{ID: "big", Type: canvas.TypeGroup, Size: &canvas.Size{Width: 1000, Height: 1000}})
	_ = s.AddNode(canvas.Node{ID: "small", Type: canvas.TypeGroup, Position: canvas.Position{X: 100, Y: 100}, Size: &canvas.Size{Width: 300, Height: 300}})
	_ = s.AddNode(canvas.Node{ID: "n", Type: canvas.TypeText, Position: canvas.Position{X: 150, Y: 150}, Size: &canvas.Size{Width: 50, Height: 50}})

	parent, err := s.DropNode("n")
	if err != nil || parent != "small" {
		t.Fatalf("DropNode = %q, %v; want small", parent, err)
	}
	n, _ := s.Document().Node("n")
	if n.Position != (canvas.Position{X: 50, Y: 50}) {
		t.Errorf("relative position = %+v", n.Position)
	}
}

func TestImportReplacesOrKeeps(t *testing.T) {
	s := newTestSession(t)
	_ = s.AddNode(canvas.Node{ID: "keep", Type: canvas.TypeText})

	for _, bad := range []string{`not json`, `{"nodes": []}`, `{"nodes":[{"id":"x"},{"id":"x"}],"edges":[]}`} {
		if _, err := s.Import(context.Background(), []byte(bad)); err == nil {
			t.Errorf("Import(%s) should fail", bad)
		}
	}
	if doc := s.Document(); doc.NodeCount() != 1 || doc.Nodes[0].ID != "keep" {
		t.Fatal("failed import changed the document")
	}

	res, err := s.Import(context.Background(), []byte(`{
		"nodes": [{"id": "n1", "type": "textNode", "position": {"x": 0, "y": 0}, "data": {"text": "hi"}}],
		"edges": [{"id": "e", "source": "n1", "target": "gone"}],
		"viewport": {"x": 5, "y": 6, "zoom": 2}
	}`))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want one dropped edge", res.Warnings)
	}
	doc := s.Document()
	if doc.NodeCount() != 1 || doc.Nodes[0].Type != canvas.TypeText || doc.EdgeCount() != 0 {
		t.Errorf("imported document = %+v", doc)
	}
	if doc.Viewport == nil || doc.Viewport.Zoom != 2 {
		t.Errorf("viewport = %+v", doc.Viewport)
	}
}

func TestDispatchShortcuts(t *testing.T) {
	s := newTestSession(t)
	host := &fakeHost{center: canvas.Position{X: 500, Y: 300}, clip: Clipboard{Text: "# Plan\n- item"}}
	ctx := context.Background()

	if act, err := s.Dispatch(ctx, KeyEvent{Key: "v"}, host); act != ActionNone || err != nil {
		t.Errorf("plain v = %q, %v", act, err)
	}
	if s.Document().NodeCount() != 0 {
		t.Fatal("plain v must not paste")
	}

	if act, err := s.Dispatch(ctx, KeyEvent{Key: "v", Ctrl: true}, host); act != ActionPaste || err != nil {
		t.Fatalf("Ctrl+V = %q, %v", act, err)
	}
	doc := s.Document()
	if doc.NodeCount() != 1 || doc.Nodes[0].Type != canvas.TypeMarkdown || doc.Nodes[0].Position != host.center {
		t.Fatalf("pasted = %+v", doc.Nodes)
	}

	host.clip = Clipboard{Text: "   "}
	_, _ = s.Dispatch(ctx, KeyEvent{Key: "V", Meta: true}, host)
	host.clipErr = stderrors.New("denied")
	if _, err := s.Dispatch(ctx, KeyEvent{Key: "v", Ctrl: true}, host); err != nil {
		t.Errorf("clipboard failure should be swallowed, got %v", err)
	}
	if s.Document().NodeCount() != 1 {
		t.Error("empty or unreadable clipboard must not paste")
	}

	if act, err := s.Dispatch(ctx, KeyEvent{Key: "s", Ctrl: true}, host); act != ActionExport || err != nil {
		t.Fatalf("Ctrl+S = %q, %v", act, err)
	}
	if len(host.saved) != 1 || host.saved[0].Filename != cio.DefaultFilename {
		t.Fatalf("saved = %+v", host.saved)
	}
	if !strings.Contains(string(host.saved[0].Data), `"zoom": 1.5`) {
		t.Error("export should carry the host viewport")
	}

	host.open = []byte(`{"nodes": "broken"}`)
	if _, err := s.Dispatch(ctx, KeyEvent{Key: "o", Ctrl: true}, host); err == nil {
		t.Error("Ctrl+O with a corrupt file should fail")
	}
	host.open = host.saved[0].Data
	_ = s.AddNode(canvas.Node{ID: "extra", Type: canvas.TypeText})
	if _, err := s.Dispatch(ctx, KeyEvent{Key: "o", Ctrl: true}, host); err != nil {
		t.Fatalf("Ctrl+O: %v", err)
	}
	if s.Document().NodeCount() != 1 {
		t.Error("Ctrl+O should restore the exported canvas")
	}
}

func TestSketchLifecycle(t *testing.T) {
	s := newTestSession(t, WithMaxStates(5))
	_ = s.AddNode(canvas.NewNode(canvas.TypeSketch, canvas.Position{}, func(string) string { return "sk" }))
	_ = s.AddNode(canvas.Node{ID: "txt", Type: canvas.TypeText})

	if _, err := s.OpenSketch("txt", 10, 10); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("OpenSketch(text) = %v", err)
	}
	surf, err := s.OpenSketch("sk", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if surf.Width() != 400 || surf.Height() != 300 {
		t.Errorf("surface size = %dx%d, want node size", surf.Width(), surf.Height())
	}
	if again, _ := s.OpenSketch("sk", 0, 0); again != surf {
		t.Error("OpenSketch should return the open surface")
	}

	st := sketch.DefaultStyle
	st.Tool, st.Fill, st.Color = sketch.ToolRectangle, true, "#ff0000"
	_ = surf.SetStyle(st)
	_ = surf.DrawShape(sketch.Point{X: 10, Y: 10}, sketch.Point{X: 50, Y: 50})

	if err := s.CommitSketch("sk"); err != nil {
		t.Fatalf("CommitSketch: %v", err)
	}
	n, _ := s.Document().Node("sk")
	if d, _ := n.Data["drawing"].(string); !strings.HasPrefix(d, sketch.DataURLPrefix) {
		t.Fatalf("drawing = %.40q", d)
	}

	s.CloseSketch("sk")
	reopened, err := s.OpenSketch("sk", 0, 0)
	if err != nil || reopened == surf || reopened.History().Len() != 1 {
		t.Fatalf("reopen: %v", err)
	}

	if err := s.RemoveNode("sk"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Sketch("sk"); ok {
		t.Error("removing the node should discard its surface")
	}
	if err := s.CommitSketch("sk"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("CommitSketch after removal = %v", err)
	}
}

func TestRefreshLink(t *testing.T) {
	s := newTestSession(t, WithMetadata(offlineMetadata(map[string]string{"https://go.dev": ogPage})))
	link := canvas.NewNode(canvas.TypeLink, canvas.Position{}, func(string) string { return "l" })
	link.Data["url"] = "https://go.dev"
	_ = s.AddNode(link)

	ok, err := s.RefreshLink(context.Background(), "l")
	if !ok || err != nil {
		t.Fatalf("RefreshLink = %v, %v", ok, err)
	}
	n, _ := s.Document().Node("l")
	if n.Data["title"] != "The Go Programming Language" {
		t.Errorf("placeholder title not replaced: %v", n.Data["title"])
	}
	meta, _ := n.Data["metadata"].(map[string]any)
	if meta["title"] != "The Go Programming Language" || meta["url"] != "https://go.dev" {
		t.Errorf("metadata = %v", meta)
	}

	_ = s.Apply(func(d *canvas.Document) error {
		n, _ := d.Node("l")
		n.Data["title"] = "My own title"
		return nil
	})
	_, _ = s.RefreshLink(context.Background(), "l")
	if n, _ := s.Document().Node("l"); n.Data["title"] != "My own title" {
		t.Error("user title must survive a refresh")
	}

	if _, err := s.RefreshLink(context.Background(), "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing node: %v", err)
	}
}

func TestRefreshLinkDiscardsStale(t *testing.T) {
	var s *Session
	svc := metadata.NewService(metadata.FetcherFunc(func(context.Context, string) (string, error) {
		// The user edits the URL while the fetch is in flight.
		_ = s.Apply(func(d *canvas.Document) error {
			n, _ := d.Node("l")
			n.Data["url"] = "https://other.example"
			return nil
		})
		return ogPage, nil
	}))
	s = New(WithMetadata(svc))
	_ = s.AddNode(canvas.Node{ID: "l", Type: canvas.TypeLink, Data: map[string]any{"url": "https://go.dev", "title": "New Link"}})

	ok, err := s.RefreshLink(context.Background(), "l")
	if ok || err != nil {
		t.Fatalf("stale refresh = %v, %v; want false, nil", ok, err)
	}
	n, _ := s.Document().Node("l")
	if n.Data["title"] != "New Link" || n.Data["metadata"] != nil {
		t.Errorf("stale preview applied: %v", n.Data)
	}
}

func TestSaveAndOpenFile(t *testing.T) {
	s := newTestSession(t)
	_ = s.AddNode(canvas.Node{ID: "a", Type: canvas.TypeNote, Data: map[string]any{"note": "x"}})
	path := filepath.Join(t.TempDir(), "boards", "mine.json")

	if err := s.SaveFile(context.Background(), path, &canvas.Viewport{Zoom: 1}); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	other := newTestSession(t)
	if _, err := other.OpenFile(context.Background(), path); err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if n, ok := other.Document().Node("a"); !ok || n.Data["note"] != "x" {
		t.Error("opened document differs from the saved one")
	}
	if _, err := other.OpenFile(context.Background(), path+".missing"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}
}
