package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/moodboard/pkg/canvas"
	cio "github.com/matzehuels/moodboard/pkg/io"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailPaneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// maxValueLen truncates long data values (data URLs, markdown) in the detail pane.
const maxValueLen = 60

// inspectCommand creates the "inspect" command, an interactive node browser.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Browse the nodes of a canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := cio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				printWarning("%s", w.String())
			}
			m := NewNodeListModel(res.Document)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}
}

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// nodeRow is one line of the browser: a node and its nesting depth.
type nodeRow struct {
	node  canvas.Node
	depth int
	edges int
}

// NodeListModel is the bubbletea model for browsing canvas nodes. Nodes
// are listed depth-first with group children indented under their group.
type NodeListModel struct {
	Doc      *canvas.Document
	Rows     []nodeRow
	Cursor   int
	Height   int
	Offset   int
	Detailed bool
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(doc *canvas.Document) NodeListModel {
	return NodeListModel{Doc: doc, Rows: nodeRows(doc), Height: 15}
}

// nodeRows orders nodes depth-first under their groups. Nodes whose parent
// is missing are listed at the top level.
func nodeRows(doc *canvas.Document) []nodeRow {
	degree := make(map[string]int)
	for _, e := range doc.Edges {
		degree[e.Source]++
		degree[e.Target]++
	}

	var rows []nodeRow
	seen := make(map[string]bool)
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		n, ok := doc.Node(id)
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		rows = append(rows, nodeRow{node: *n, depth: depth, edges: degree[id]})
		for _, child := range doc.Children(id) {
			visit(child, depth+1)
		}
	}
	for _, n := range doc.Nodes {
		if _, ok := doc.Node(n.ParentID); n.ParentID == "" || !ok {
			visit(n.ID, 0)
		}
	}
	for _, n := range doc.Nodes {
		visit(n.ID, 0)
	}
	return rows
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			m.Detailed = !m.Detailed
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Canvas"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d nodes · %d edges", m.Doc.NodeCount(), m.Doc.EdgeCount())))
	if !m.Doc.Metadata.LastModified.IsZero() {
		b.WriteString(listDimStyle.Render(" · saved " + formatRelativeTime(m.Doc.Metadata.LastModified)))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  empty board"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		title := truncate(r.node.Title(), 40)
		pos := fmt.Sprintf("%.0f, %.0f", r.node.Position.X, r.node.Position.Y)
		rows = append(rows, []string{
			cursor,
			strings.Repeat("  ", r.depth) + r.node.ID,
			string(r.node.Type),
			title,
			pos,
			fmt.Sprint(r.edges),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Type", "Title", "Position", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 4 || col == 5 {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if m.Rows[idx].node.Type == canvas.TypeGroup {
				return base.Foreground(colorGreen)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Detailed {
		b.WriteString(detailPaneStyle.Render(nodeDetail(m.Rows[m.Cursor].node)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// nodeDetail renders the node's data with long values shortened.
func nodeDetail(n canvas.Node) string {
	short := make(map[string]any, len(n.Data))
	for k, v := range n.Data {
		if s, ok := v.(string); ok {
			v = truncate(s, maxValueLen)
		}
		short[k] = v
	}
	data, err := json.MarshalIndent(short, "", "  ")
	if err != nil {
		return err.Error()
	}
	size := n.Dimensions()
	head := fmt.Sprintf("%s %s  %.0f×%.0f", StyleHighlight.Render(string(n.Type)), n.ID, size.Width, size.Height)
	if n.ParentID != "" {
		head += listDimStyle.Render("  in " + n.ParentID)
	}
	return head + "\n" + string(data)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
