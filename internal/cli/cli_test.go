package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/integrations/docsys"
	"github.com/matzehuels/moodboard/pkg/interchange"
	cio "github.com/matzehuels/moodboard/pkg/io"
)

// writeConfig writes a config file holding body into dir.
func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()
	c := New(io.Discard, LogInfo)
	c.configPath = writeConfig(t, dir, "[metadata]\nstore = \"none\"\n")
	return c, dir
}

func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c, _ := testCLI(t)
	root := c.RootCommand()
	for _, name := range []string{"new", "validate", "classify", "metadata", "render", "doc", "inspect", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	c, _ := testCLI(t)
	out, err := execute(t, c, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "moodboard version ") {
		t.Errorf("version output = %q", out)
	}
}

func TestNewThenValidate(t *testing.T) {
	c, dir := testCLI(t)
	path := filepath.Join(dir, "boards", "welcome.json")

	if _, err := execute(t, c, "new", path); err != nil {
		t.Fatalf("new: %v", err)
	}
	res, err := cio.ImportJSON(path)
	if err != nil {
		t.Fatalf("import written canvas: %v", err)
	}
	if res.Document.NodeCount() == 0 {
		t.Error("welcome canvas should have nodes")
	}

	if _, err := execute(t, c, "new", path); err == nil {
		t.Error("new should refuse to overwrite without --force")
	}
	if _, err := execute(t, c, "new", path, "--empty", "--force"); err != nil {
		t.Fatalf("new --force: %v", err)
	}
	if res, _ := cio.ImportJSON(path); res.Document.NodeCount() != 0 {
		t.Errorf("--empty canvas has %d nodes", res.Document.NodeCount())
	}

	if _, err := execute(t, c, "validate", path); err != nil {
		t.Errorf("validate: %v", err)
	}
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"nodes": []}`), 0o644)
	if _, err := execute(t, c, "validate", path, bad); err == nil {
		t.Error("validate should fail when a file is invalid")
	}
}

func TestClassifyAdd(t *testing.T) {
	c, dir := testCLI(t)
	path := filepath.Join(dir, "board.json")

	if _, err := execute(t, c, "classify", "https://youtu.be/abc", "--add", path, "--x", "10"); err != nil {
		t.Fatalf("classify --add: %v", err)
	}
	if _, err := execute(t, c, "classify", "# Ideas\n- one", "--add", path); err != nil {
		t.Fatalf("classify --add markdown: %v", err)
	}

	res, err := cio.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Document.NodeCount(); got != 2 {
		t.Fatalf("nodes = %d, want 2", got)
	}
	if n := res.Document.Nodes[0]; n.Type != canvas.TypeVideo || n.Position.X != 10 {
		t.Errorf("first node = %s at %v", n.Type, n.Position)
	}
}

func TestClassifyPrintsNode(t *testing.T) {
	c, _ := testCLI(t)
	out, err := execute(t, c, "classify", "hello board")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"type": "text"`) {
		t.Errorf("classify output = %s", out)
	}
}

func TestAddDocuments(t *testing.T) {
	c, dir := testCLI(t)
	c.Logger = log.New(io.Discard)
	docs := filepath.Join(dir, "docs")
	src, err := docsys.NewDirSource(docs)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, d := range []interchange.DocumentSchema{
		{ID: "brief", Title: "Creative brief"},
		{ID: "palette", Title: "Palette", Categories: []string{"color"}},
	} {
		if err := src.Put(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(dir, "board.json")
	n, err := c.addDocuments(ctx, src, path, []string{"brief", "palette"}, canvas.Position{X: 100, Y: 100})
	if err != nil || n != 2 {
		t.Fatalf("addDocuments = %d, %v", n, err)
	}

	res, err := cio.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	node, ok := res.Document.Node("doc-palette")
	if !ok || node.Type != canvas.TypeDocument || node.Position.X != 140 {
		t.Fatalf("doc-palette = %+v, %v", node, ok)
	}

	// Adding again refreshes in place instead of failing on the duplicate id.
	if _, err := c.addDocuments(ctx, src, path, []string{"palette"}, canvas.Position{}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	res, _ = cio.ImportJSON(path)
	if node, _ := res.Document.Node("doc-palette"); res.Document.NodeCount() != 2 || node.Position.X != 140 {
		t.Errorf("re-add changed the canvas: %d nodes, palette at %v", res.Document.NodeCount(), node.Position)
	}

	if _, err := c.addDocuments(ctx, src, path, []string{"missing"}, canvas.Position{}); err == nil {
		t.Error("unknown document id should fail")
	}
}

func TestNodeRowsNestGroups(t *testing.T) {
	doc := canvas.New()
	doc.Nodes = []canvas.Node{
		{ID: "a", Type: canvas.TypeText, Data: map[string]any{"text": "loose"}},
		{ID: "child", Type: canvas.TypeNote, ParentID: "g", Data: map[string]any{}},
		{ID: "g", Type: canvas.TypeGroup, Data: map[string]any{"label": "G"}},
		{ID: "orphan", Type: canvas.TypeNote, ParentID: "gone", Data: map[string]any{}},
	}
	doc.Edges = []canvas.Edge{{ID: "e", Source: "a", Target: "child"}}

	rows := nodeRows(doc)
	var got []string
	for _, r := range rows {
		got = append(got, strings.Repeat(">", r.depth)+r.node.ID)
	}
	if want := "a g >child orphan"; strings.Join(got, " ") != want {
		t.Errorf("rows = %v, want %s", got, want)
	}
	if rows[2].edges != 1 {
		t.Errorf("child edges = %d, want 1", rows[2].edges)
	}
}

func TestNodeListModelNavigation(t *testing.T) {
	doc := canvas.New()
	doc.Nodes = []canvas.Node{
		{ID: "one", Type: canvas.TypeText, Data: map[string]any{"text": "first"}},
		{ID: "two", Type: canvas.TypeImage, Data: map[string]any{"imageUrl": "data:image/png;base64," + strings.Repeat("A", 200)}},
	}

	var m tea.Model = NewNodeListModel(doc)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	nl := m.(NodeListModel)
	if nl.Cursor != 1 || !nl.Detailed {
		t.Fatalf("cursor = %d, detailed = %v", nl.Cursor, nl.Detailed)
	}
	view := nl.View()
	if !strings.Contains(view, "two") || !strings.Contains(view, "…") {
		t.Errorf("detail view should show the truncated image data:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	stdout = &buf
	defer func() { stdout = os.Stdout }()

	printStats(3, 1, 0)
	printStats(2, 0, 2)

	out := buf.String()
	for _, want := range []string{"3 nodes", "1 edges", "clean", "2 repaired"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestCompletion(t *testing.T) {
	c, _ := testCLI(t)
	out, err := execute(t, c, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "moodboard") {
		t.Error("bash completion should mention the command name")
	}
	if _, err := execute(t, c, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should be rejected")
	}
}
