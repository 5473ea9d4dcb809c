package render

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/moodboard/pkg/canvas"
)

// maxLabelTitle caps the title part of a node label, in runes.
const maxLabelTitle = 40

// Options configures DOT generation.
type Options struct {
	// Detailed adds the node id and absolute position to labels.
	Detailed bool

	// RankDir is the Graphviz rank direction. Empty means "LR".
	RankDir string
}

// ToDOT converts a canvas to Graphviz DOT. Nodes become boxes labelled with
// their type and title, group nodes become clusters that contain their
// children, and animated edges are dashed. Nodes whose parent is missing
// are drawn at the top level.
func ToDOT(doc *canvas.Document, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	w := dotWriter{doc: doc, opts: opts, buf: &buf, seen: make(map[string]bool)}
	for _, n := range doc.Nodes {
		if n.ParentID == "" || !w.hasNode(n.ParentID) {
			w.node(n, 1)
		}
	}
	// Nodes caught in a parent cycle are unreachable from the top level.
	for _, n := range doc.Nodes {
		if !w.seen[n.ID] {
			w.node(n, 1)
		}
	}

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		fmt.Fprintf(&buf, "  %q -> %q", e.Source, e.Target)
		if attrs := edgeAttrs(e); len(attrs) > 0 {
			fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	doc  *canvas.Document
	opts Options
	buf  *bytes.Buffer
	seen map[string]bool
}

func (w *dotWriter) hasNode(id string) bool {
	_, ok := w.doc.Node(id)
	return ok
}

func (w *dotWriter) node(n canvas.Node, depth int) {
	if w.seen[n.ID] {
		return
	}
	w.seen[n.ID] = true
	indent := strings.Repeat("  ", depth)

	if n.Type != canvas.TypeGroup {
		fmt.Fprintf(w.buf, "%s%q [%s];\n", indent, n.ID, strings.Join(nodeAttrs(n, w.label(n)), ", "))
		return
	}

	fmt.Fprintf(w.buf, "%ssubgraph %q {\n", indent, "cluster_"+n.ID)
	fmt.Fprintf(w.buf, "%s  label=%q;\n", indent, truncate(n.Title(), maxLabelTitle))
	fmt.Fprintf(w.buf, "%s  style=\"rounded,dashed\";\n", indent)
	fmt.Fprintf(w.buf, "%s  %q [%s];\n", indent, n.ID, strings.Join(nodeAttrs(n, w.label(n)), ", "))
	for _, id := range w.doc.Children(n.ID) {
		if child, ok := w.doc.Node(id); ok {
			w.node(*child, depth+1)
		}
	}
	fmt.Fprintf(w.buf, "%s}\n", indent)
}

func (w *dotWriter) label(n canvas.Node) string {
	label := string(n.Type) + "\n" + truncate(n.Title(), maxLabelTitle)
	if !w.opts.Detailed {
		return label
	}
	pos, _ := w.doc.AbsolutePosition(n.ID)
	return fmt.Sprintf("%s\nid: %s\nat: %.0f, %.0f", label, n.ID, pos.X, pos.Y)
}

func nodeAttrs(n canvas.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Type {
	case canvas.TypeGroup:
		attrs = append(attrs, "shape=tab", "fillcolor=\"#f1f5f9\"")
	case canvas.TypeNote:
		attrs = append(attrs, "shape=note", "fillcolor=\"#fef9c3\"")
	case canvas.TypeCircle:
		attrs = append(attrs, "shape=ellipse")
	}
	if color, ok := n.Data["color"].(string); ok && strings.HasPrefix(color, "#") {
		attrs = append(attrs, fmt.Sprintf("color=%q", color))
	}
	return attrs
}

func edgeAttrs(e canvas.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Animated {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
