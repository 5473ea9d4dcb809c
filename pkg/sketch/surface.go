package sketch

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Point is a position on a surface in pixels.
type Point struct {
	X, Y float64
}

// Background is the colour of a blank surface. The eraser paints it.
var Background = color.White

var (
	ErrNoStroke      = errors.New("no stroke in progress")
	ErrNotStrokeTool = errors.New("tool does not draw freehand strokes")
)

// Surface is a raster sketch pad with undo/redo. It is not safe for
// concurrent use.
type Surface struct {
	dc      *gg.Context
	history *History
	style   Style
	stroke  *Point
	faces   map[float64]font.Face
}

// NewSurface returns a blank w×h surface whose history holds up to
// maxStates snapshots. The blank state is saved as snapshot 0, so the
// first edit can always be undone.
func NewSurface(w, h, maxStates int) *Surface {
	dc := gg.NewContext(w, h)
	dc.SetColor(Background)
	dc.Clear()
	return newSurface(dc, maxStates)
}

// OpenSurface returns a surface initialised from a PNG data URL as
// produced by [Surface.DataURL]. The loaded drawing is snapshot 0.
func OpenSurface(dataURL string, maxStates int) (*Surface, error) {
	img, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return newSurface(gg.NewContextForRGBA(dst), maxStates), nil
}

func newSurface(dc *gg.Context, maxStates int) *Surface {
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	s := &Surface{
		dc:      dc,
		history: NewHistory(maxStates),
		style:   DefaultStyle,
		faces:   map[float64]font.Face{},
	}
	s.history.Save(s)
	return s
}

func (s *Surface) Width() int  { return s.dc.Width() }
func (s *Surface) Height() int { return s.dc.Height() }

// History returns the surface's undo history.
func (s *Surface) History() *History { return s.history }

// Style returns the current drawing style.
func (s *Surface) Style() Style { return s.style }

// SetStyle validates and applies st. A stroke in progress keeps going with
// the new style.
func (s *Surface) SetStyle(st Style) error {
	if err := st.Validate(); err != nil {
		return err
	}
	s.style = st
	return nil
}

func (s *Surface) pixels() *image.RGBA {
	return s.dc.Image().(*image.RGBA)
}

// Snapshot returns a copy of the current pixels.
func (s *Surface) Snapshot() *image.RGBA {
	return cloneRGBA(s.pixels())
}

// Restore overwrites the surface with img.
func (s *Surface) Restore(img *image.RGBA) {
	dst := s.pixels()
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
}

// BeginStroke starts a freehand stroke at p with the pen, brush or eraser.
func (s *Surface) BeginStroke(p Point) error {
	if s.style.Tool.IsShape() {
		return fmt.Errorf("%w: %s", ErrNotStrokeTool, s.style.Tool)
	}
	s.stroke = &p
	s.segment(p, p)
	return nil
}

// StrokeTo extends the current stroke to p.
func (s *Surface) StrokeTo(p Point) error {
	if s.stroke == nil {
		return ErrNoStroke
	}
	s.segment(*s.stroke, p)
	s.stroke = &p
	return nil
}

// EndStroke finishes the current stroke and records it as one undo step.
func (s *Surface) EndStroke() error {
	if s.stroke == nil {
		return ErrNoStroke
	}
	s.stroke = nil
	s.history.Save(s)
	return nil
}

// Drawing reports whether a stroke is in progress.
func (s *Surface) Drawing() bool { return s.stroke != nil }

func (s *Surface) segment(from, to Point) {
	width := s.style.Size
	var c color.Color = s.style.paint()
	switch s.style.Tool {
	case ToolBrush:
		width *= 2
	case ToolEraser:
		width *= 2
		c = Background
	}
	s.dc.SetLineWidth(width)
	s.dc.SetColor(c)
	s.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	s.dc.Stroke()
}

// DrawShape draws the current shape tool from a drag's start point to its
// end point and records the result as one undo step.
//
// Rectangles span end-start and may have negative width or height. Circles
// are centred on start with radius |end-start|. The text tool stamps
// [PlaceholderText] with its baseline at start.
func (s *Surface) DrawShape(start, end Point) error {
	st := s.style
	if !st.Tool.IsShape() {
		return fmt.Errorf("%w: %s", ErrNotShapeTool, st.Tool)
	}
	s.dc.SetColor(st.paint())
	s.dc.SetLineWidth(st.Size)

	switch st.Tool {
	case ToolLine:
		s.dc.DrawLine(start.X, start.Y, end.X, end.Y)
		s.dc.Stroke()
	case ToolRectangle:
		s.dc.DrawRectangle(start.X, start.Y, end.X-start.X, end.Y-start.Y)
		s.fillOrStroke(st.Fill)
	case ToolCircle:
		r := math.Hypot(end.X-start.X, end.Y-start.Y)
		s.dc.DrawCircle(start.X, start.Y, r)
		s.fillOrStroke(st.Fill)
	case ToolText:
		face, err := s.face(st.FontSize)
		if err != nil {
			return err
		}
		s.dc.SetFontFace(face)
		s.dc.DrawString(PlaceholderText, start.X, start.Y)
	}
	s.history.Save(s)
	return nil
}

func (s *Surface) fillOrStroke(fill bool) {
	if fill {
		s.dc.Fill()
	} else {
		s.dc.Stroke()
	}
}

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

func (s *Surface) face(size float64) (font.Face, error) {
	if f, ok := s.faces[size]; ok {
		return f, nil
	}
	monoOnce.Do(func() {
		monoFont, monoErr = truetype.Parse(gomono.TTF)
	})
	if monoErr != nil {
		return nil, fmt.Errorf("parse font: %w", monoErr)
	}
	f := truetype.NewFace(monoFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	s.faces[size] = f
	return f, nil
}

// Clear paints the whole surface with the background colour. Clearing is
// itself an undo step.
func (s *Surface) Clear() {
	s.stroke = nil
	s.dc.SetColor(Background)
	s.dc.Clear()
	s.history.Save(s)
}

// Undo reverts the last stroke or shape.
func (s *Surface) Undo() bool {
	s.stroke = nil
	return s.history.Undo(s)
}

// Redo re-applies the last undone stroke or shape.
func (s *Surface) Redo() bool {
	s.stroke = nil
	return s.history.Redo(s)
}

// PNG encodes the current pixels.
func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.pixels()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURLPrefix starts every data URL produced by [Surface.DataURL].
const DataURLPrefix = "data:image/png;base64,"

// DataURL returns the drawing as a base64 PNG data URL, the form stored in
// a sketch node's "drawing" field.
func (s *Surface) DataURL() (string, error) {
	data, err := s.PNG()
	if err != nil {
		return "", err
	}
	return DataURLPrefix + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURL decodes a base64 PNG data URL.
func DecodeDataURL(dataURL string) (image.Image, error) {
	payload, ok := strings.CutPrefix(dataURL, DataURLPrefix)
	if !ok {
		return nil, errors.New("not a PNG data URL")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}

var _ Buffer = (*Surface)(nil)
