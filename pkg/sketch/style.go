package sketch

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Tool is a drawing tool.
type Tool string

const (
	ToolPen       Tool = "pen"
	ToolBrush     Tool = "brush"
	ToolEraser    Tool = "eraser"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolText      Tool = "text"
)

// IsShape reports whether t draws from a start and end point rather than
// following the pointer.
func (t Tool) IsShape() bool {
	switch t {
	case ToolLine, ToolRectangle, ToolCircle, ToolText:
		return true
	}
	return false
}

func (t Tool) valid() bool {
	return t.IsShape() || t == ToolPen || t == ToolBrush || t == ToolEraser
}

// PlaceholderText is stamped by the text tool.
const PlaceholderText = "Click to edit text"

// Style is the current drawing state of a surface.
type Style struct {
	Tool     Tool
	Color    string  // CSS hex colour, "#rgb" or "#rrggbb"
	Size     float64 // line width in pixels
	Opacity  float64 // 0 < Opacity <= 1
	Fill     bool    // fill rectangles and circles instead of stroking
	FontSize float64 // text tool size in pixels
}

// DefaultStyle is a 2px opaque black pen.
var DefaultStyle = Style{
	Tool:     ToolPen,
	Color:    "#000000",
	Size:     2,
	Opacity:  1,
	FontSize: 16,
}

var (
	ErrUnknownTool  = errors.New("unknown drawing tool")
	ErrNotShapeTool = errors.New("tool does not draw shapes")
	ErrInvalidColor = errors.New("invalid colour")
	ErrInvalidStyle = errors.New("invalid style")
)

// Validate checks the tool, colour and numeric ranges.
func (s Style) Validate() error {
	if !s.Tool.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTool, s.Tool)
	}
	if _, err := ParseColor(s.Color); err != nil {
		return err
	}
	if s.Size <= 0 {
		return fmt.Errorf("%w: size must be positive", ErrInvalidStyle)
	}
	if s.Opacity <= 0 || s.Opacity > 1 {
		return fmt.Errorf("%w: opacity must be in (0, 1]", ErrInvalidStyle)
	}
	if s.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive", ErrInvalidStyle)
	}
	return nil
}

// paint returns the style colour with the opacity applied.
func (s Style) paint() color.NRGBA {
	c, _ := ParseColor(s.Color)
	c.A = uint8(s.Opacity*255 + 0.5)
	return c
}

// ParseColor parses "#rgb" and "#rrggbb" colours.
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
