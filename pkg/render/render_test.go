package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/moodboard/pkg/cache"
	"github.com/matzehuels/moodboard/pkg/canvas"
)

func sampleDoc() *canvas.Document {
	doc := canvas.New()
	doc.Nodes = []canvas.Node{
		{ID: "g", Type: canvas.TypeGroup, Position: canvas.Position{X: 100, Y: 100}, Data: map[string]any{"label": "Research"}},
		{ID: "a", Type: canvas.TypeText, Position: canvas.Position{X: 10, Y: 20}, ParentID: "g", Data: map[string]any{"text": "hello\nworld"}},
		{ID: "b", Type: canvas.TypeLink, Data: map[string]any{"url": "https://go.dev"}},
		{ID: "orphan", Type: canvas.TypeNote, ParentID: "missing", Data: map[string]any{"note": "lost"}},
	}
	doc.Edges = []canvas.Edge{
		{ID: "e1", Source: "a", Target: "b", Label: "see", Animated: true},
		{ID: "e2", Source: "b", Target: "orphan"},
	}
	return doc
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleDoc(), Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=LR;",
		`subgraph "cluster_g" {`,
		`label="Research";`,
		`"a" [label="text\nhello"`,
		`"b" [label="link\nhttps://go.dev"`,
		`"orphan" [label="note\nlost", shape=note`,
		`"a" -> "b" [label="see", style=dashed];`,
		`"b" -> "orphan";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}

	// Children are written inside their cluster.
	cluster := dot[strings.Index(dot, "subgraph"):]
	cluster = cluster[:strings.Index(cluster, "\n  }")]
	if !strings.Contains(cluster, `"a"`) || strings.Contains(cluster, `"b"`) {
		t.Errorf("cluster contents wrong:\n%s", cluster)
	}
	if strings.Count(dot, `"a" [`) != 1 {
		t.Error("nested node written more than once")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleDoc(), Options{Detailed: true, RankDir: "TB"})
	if !strings.Contains(dot, "rankdir=TB;") {
		t.Error("RankDir not applied")
	}
	if !strings.Contains(dot, `id: a\nat: 110, 120`) {
		t.Errorf("detailed label should carry the absolute position\n%s", dot)
	}
}

func TestToDOTParentCycle(t *testing.T) {
	doc := canvas.New()
	doc.Nodes = []canvas.Node{
		{ID: "x", Type: canvas.TypeGroup, ParentID: "y"},
		{ID: "y", Type: canvas.TypeGroup, ParentID: "x"},
	}
	dot := ToDOT(doc, Options{})
	if strings.Count(dot, `"x" [`) != 1 || strings.Count(dot, `"y" [`) != 1 {
		t.Errorf("cyclic groups should be written once each\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeViewBox([]byte(tt.svg)); string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleDoc(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRendererServesFromCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := cache.NewDefaultKeyer()
	dot := "not valid DOT at all {"
	key := k.RenderKey(dot, cache.RenderKeyOpts{Format: "svg"})
	if err := c.Set(context.Background(), key, []byte("<svg>cached</svg>"), 0); err != nil {
		t.Fatal(err)
	}

	got, err := NewRenderer(c, k).SVG(context.Background(), dot)
	if err != nil || string(got) != "<svg>cached</svg>" {
		t.Errorf("SVG() = %q, %v; want the cached bytes", got, err)
	}
}
