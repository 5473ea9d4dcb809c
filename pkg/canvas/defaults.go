package canvas

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDFunc generates a fresh node id for the given prefix.
type IDFunc func(prefix string) string

// NewID returns "{prefix}-{unix millis}-{9 char suffix}". The suffix is
// taken from a random UUID, so two ids minted in the same millisecond
// still differ.
func NewID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}

// DefaultData returns the payload a freshly created node of type t starts
// with. Every call returns a new map.
func DefaultData(t NodeType) map[string]any {
	switch t {
	case TypeText:
		return map[string]any{"text": "New text node"}
	case TypeLink:
		return map[string]any{"url": "https://example.com", "title": "New Link"}
	case TypeImage:
		return map[string]any{"imageUrl": "", "caption": "New image"}
	case TypeNote:
		return map[string]any{"note": "New note...", "color": "yellow"}
	case TypeDocument:
		return map[string]any{
			"title":       "New Document",
			"content":     "",
			"categories":  []any{},
			"actors":      []any{},
			"attachments": []any{},
		}
	case TypeVideo:
		return map[string]any{"url": "", "title": "New Video"}
	case TypeIframe:
		return map[string]any{"url": "", "title": "Web View"}
	case TypeSketch:
		return map[string]any{"title": "New Sketch", "drawing": ""}
	case TypeMarkdown:
		return map[string]any{
			"content": "# New note\n\nWrite **markdown** here.",
			"title":   "Markdown Note",
		}
	case TypeGroup:
		return map[string]any{"label": "Group"}
	case TypeAnnotation:
		return map[string]any{"label": "Annotation", "arrow": "→"}
	case TypeCircle:
		return map[string]any{"label": "Circle"}
	}
	return map[string]any{}
}

// DefaultSize returns the initial dimensions for a node of type t.
func DefaultSize(t NodeType) Size {
	switch t {
	case TypeText, TypeLink:
		return Size{Width: 300, Height: 150}
	case TypeImage:
		return Size{Width: 300, Height: 250}
	case TypeNote:
		return Size{Width: 200, Height: 120}
	case TypeDocument:
		return Size{Width: 400, Height: 350}
	case TypeVideo:
		return Size{Width: 350, Height: 250}
	case TypeIframe:
		return Size{Width: 400, Height: 300}
	case TypeSketch:
		return Size{Width: 400, Height: 300}
	case TypeMarkdown:
		return Size{Width: 450, Height: 400}
	case TypeGroup:
		return Size{Width: 600, Height: 400}
	case TypeCircle:
		return Size{Width: 120, Height: 120}
	}
	return Size{Width: 200, Height: 100}
}

// NewNode builds a node of type t at pos with default data and size and an
// id minted by ids (or [NewID] when ids is nil).
func NewNode(t NodeType, pos Position, ids IDFunc) Node {
	if ids == nil {
		ids = NewID
	}
	size := DefaultSize(t)
	return Node{
		ID:       ids(string(t)),
		Type:     t,
		Position: pos,
		Size:     &size,
		Data:     DefaultData(t),
	}
}
