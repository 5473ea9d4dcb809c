package canvas

import (
	"encoding/json"
	"strings"
	"time"
)

// NodeType names the kind of content block a node renders.
// It is an open string type: unknown values read from files are kept as-is.
type NodeType string

const (
	TypeText       NodeType = "text"
	TypeNote       NodeType = "note"
	TypeImage      NodeType = "image"
	TypeLink       NodeType = "link"
	TypeVideo      NodeType = "video"
	TypeIframe     NodeType = "iframe"
	TypeDocument   NodeType = "document"
	TypeMarkdown   NodeType = "markdown"
	TypeSketch     NodeType = "sketch"
	TypeGroup      NodeType = "group"
	TypeAnnotation NodeType = "annotation"
	TypeCircle     NodeType = "circle"
)

// KnownTypes lists every node type the editor ships renderers for.
var KnownTypes = []NodeType{
	TypeText, TypeNote, TypeImage, TypeLink, TypeVideo, TypeIframe,
	TypeDocument, TypeMarkdown, TypeSketch, TypeGroup, TypeAnnotation, TypeCircle,
}

// IsKnown reports whether t is one of [KnownTypes].
func (t NodeType) IsKnown() bool {
	for _, k := range KnownTypes {
		if t == k {
			return true
		}
	}
	return false
}

// NormalizeType maps React Flow style names ("textNode", "linkNode") to the
// short form used by this package. Other values are returned unchanged.
func NormalizeType(t NodeType) NodeType {
	s := string(t)
	if trimmed, ok := strings.CutSuffix(s, "Node"); ok && trimmed != "" {
		if n := NodeType(trimmed); n.IsKnown() {
			return n
		}
	}
	return t
}

// EdgeTypeButton is the default edge renderer: a bezier with a delete button.
const EdgeTypeButton = "button"

// Position is a point in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Position) Add(q Position) Position { return Position{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Position) Sub(q Position) Position { return Position{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is the rendered width and height of a node.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns Width*Height.
func (s Size) Area() float64 { return s.Width * s.Height }

// Node is a content block on the canvas.
//
// Position is relative to the parent group's origin when ParentID is set, and
// absolute otherwise. Data holds the type-specific payload and is passed
// through untouched by the persistence layer. Selected and Dragging are view
// state and are cleared on export. Extra keeps the fields this package does
// not model, such as React Flow's zIndex or hidden, so they survive a load
// and save.
type Node struct {
	ID       string         `json:"id"`
	Type     NodeType       `json:"type"`
	Position Position       `json:"position"`
	Size     *Size          `json:"size,omitempty"`
	ParentID string         `json:"parentId,omitempty"`
	Data     map[string]any `json:"data"`
	Style    map[string]any `json:"style,omitempty"`
	Selected bool           `json:"selected,omitempty"`
	Dragging bool           `json:"dragging,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Dimensions returns the node's size. Explicit Size wins, then numeric
// style.width/style.height, then [DefaultSize] for the node type.
func (n Node) Dimensions() Size {
	if n.Size != nil {
		return *n.Size
	}
	w, wok := number(n.Style["width"])
	h, hok := number(n.Style["height"])
	if wok && hok {
		return Size{Width: w, Height: h}
	}
	return DefaultSize(n.Type)
}

// Title returns a short human label for the node, taken from the usual
// data keys, falling back to the id.
func (n Node) Title() string {
	for _, key := range []string{"title", "label", "caption", "text", "note", "url"} {
		if s, ok := n.Data[key].(string); ok && strings.TrimSpace(s) != "" {
			line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
			return line
		}
	}
	return n.ID
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// Edge is a directed connection between two nodes. Extra keeps unmodelled
// fields such as sourceHandle, targetHandle and markerEnd.
type Edge struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Type     string         `json:"type,omitempty"`
	Label    string         `json:"label,omitempty"`
	Animated bool           `json:"animated,omitempty"`
	Style    map[string]any `json:"style,omitempty"`
	Selected bool           `json:"selected,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Viewport is the camera: pan offset and zoom factor.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Validate returns [ErrInvalidZoom] when Zoom is not positive.
func (v Viewport) Validate() error {
	if v.Zoom <= 0 {
		return ErrInvalidZoom
	}
	return nil
}

// Metadata is stamped by the serializer on every export.
type Metadata struct {
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	LastModified time.Time `json:"lastModified,omitzero"`
	Version      string    `json:"version,omitempty"`
}
