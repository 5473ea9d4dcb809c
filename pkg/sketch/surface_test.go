package sketch

import (
	"errors"
	"image/color"
	"strings"
	"testing"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
)

func at(s *Surface, x, y int) color.RGBA {
	return s.pixels().RGBAAt(x, y)
}

func withStyle(t *testing.T, s *Surface, mod func(*Style)) {
	t.Helper()
	st := DefaultStyle
	mod(&st)
	if err := s.SetStyle(st); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
}

func TestNewSurfaceIsBlankSnapshot(t *testing.T) {
	s := NewSurface(40, 30, 5)
	if s.Width() != 40 || s.Height() != 30 {
		t.Errorf("size = %dx%d", s.Width(), s.Height())
	}
	if at(s, 20, 15) != white {
		t.Errorf("blank pixel = %v", at(s, 20, 15))
	}
	if s.History().Len() != 1 || s.History().Index() != 0 {
		t.Errorf("blank state not recorded: len=%d", s.History().Len())
	}
	if s.Undo() {
		t.Error("undo on a fresh surface must be a no-op")
	}
}

func TestFirstStrokeUndoesToBlank(t *testing.T) {
	s := NewSurface(50, 50, 10)
	withStyle(t, s, func(st *Style) { st.Color = "#ff0000"; st.Size = 6 })

	if err := s.BeginStroke(Point{X: 5, Y: 25}); err != nil {
		t.Fatal(err)
	}
	for x := 10.0; x <= 45; x += 5 {
		if err := s.StrokeTo(Point{X: x, Y: 25}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.EndStroke(); err != nil {
		t.Fatal(err)
	}

	if at(s, 25, 25) != red {
		t.Fatalf("stroke pixel = %v, want red", at(s, 25, 25))
	}
	if s.History().Len() != 2 {
		t.Errorf("one stroke should add one snapshot, have %d", s.History().Len())
	}
	if !s.Undo() || at(s, 25, 25) != white {
		t.Errorf("after undo pixel = %v, want white", at(s, 25, 25))
	}
	if !s.Redo() || at(s, 25, 25) != red {
		t.Errorf("after redo pixel = %v, want red", at(s, 25, 25))
	}
}

func TestRectangleNegativeDimensions(t *testing.T) {
	s := NewSurface(100, 100, 10)
	withStyle(t, s, func(st *Style) { st.Tool = ToolRectangle; st.Color = "#f00"; st.Fill = true })

	if err := s.DrawShape(Point{X: 60, Y: 70}, Point{X: 20, Y: 30}); err != nil {
		t.Fatalf("DrawShape: %v", err)
	}
	if at(s, 40, 50) != red {
		t.Errorf("inside pixel = %v, want red", at(s, 40, 50))
	}
	for _, p := range [][2]int{{10, 50}, {80, 50}, {40, 20}, {40, 90}} {
		if at(s, p[0], p[1]) != white {
			t.Errorf("outside pixel %v = %v, want white", p, at(s, p[0], p[1]))
		}
	}
}

func TestCircleRadiusIsDistance(t *testing.T) {
	s := NewSurface(100, 100, 10)
	withStyle(t, s, func(st *Style) { st.Tool = ToolCircle; st.Color = "#ff0000"; st.Fill = true })

	// radius 5 = |(3,4)|
	if err := s.DrawShape(Point{X: 50, Y: 50}, Point{X: 53, Y: 54}); err != nil {
		t.Fatal(err)
	}
	if at(s, 50, 50) != red || at(s, 52, 50) != red {
		t.Error("circle interior should be filled")
	}
	if at(s, 58, 50) != white || at(s, 50, 58) != white {
		t.Error("pixels beyond the radius should stay white")
	}
}

func TestStrokedRectangleLeavesInteriorEmpty(t *testing.T) {
	s := NewSurface(100, 100, 10)
	withStyle(t, s, func(st *Style) { st.Tool = ToolRectangle; st.Color = "#ff0000"; st.Size = 2 })

	_ = s.DrawShape(Point{X: 10, Y: 10}, Point{X: 90, Y: 90})
	if at(s, 50, 50) != white {
		t.Errorf("interior = %v, want white", at(s, 50, 50))
	}
	if at(s, 10, 50) != red {
		t.Errorf("edge = %v, want red", at(s, 10, 50))
	}
}

func TestTextStampsPlaceholder(t *testing.T) {
	s := NewSurface(300, 60, 10)
	withStyle(t, s, func(st *Style) { st.Tool = ToolText; st.FontSize = 24 })

	if err := s.DrawShape(Point{X: 5, Y: 40}, Point{X: 200, Y: 50}); err != nil {
		t.Fatalf("DrawShape(text): %v", err)
	}
	dark := 0
	for y := 10; y < 45; y++ {
		for x := 0; x < 300; x++ {
			if at(s, x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("text tool left no ink")
	}
}

func TestEraserPaintsBackground(t *testing.T) {
	s := NewSurface(50, 50, 10)
	withStyle(t, s, func(st *Style) { st.Tool = ToolRectangle; st.Color = "#ff0000"; st.Fill = true })
	_ = s.DrawShape(Point{X: 0, Y: 0}, Point{X: 50, Y: 50})

	withStyle(t, s, func(st *Style) { st.Tool = ToolEraser; st.Size = 5 })
	_ = s.BeginStroke(Point{X: 5, Y: 25})
	_ = s.StrokeTo(Point{X: 45, Y: 25})
	_ = s.EndStroke()

	if at(s, 25, 25) != white {
		t.Errorf("erased pixel = %v, want background", at(s, 25, 25))
	}
	if at(s, 25, 5) != red {
		t.Errorf("untouched pixel = %v, want red", at(s, 25, 5))
	}
}

func TestToolMismatch(t *testing.T) {
	s := NewSurface(10, 10, 3)
	if err := s.DrawShape(Point{}, Point{X: 5, Y: 5}); !errors.Is(err, ErrNotShapeTool) {
		t.Errorf("DrawShape with pen: %v", err)
	}
	if err := s.StrokeTo(Point{}); !errors.Is(err, ErrNoStroke) {
		t.Errorf("StrokeTo without BeginStroke: %v", err)
	}
	withStyle(t, s, func(st *Style) { st.Tool = ToolLine })
	if err := s.BeginStroke(Point{}); !errors.Is(err, ErrNotStrokeTool) {
		t.Errorf("BeginStroke with line tool: %v", err)
	}
	if s.History().Len() != 1 {
		t.Error("failed operations must not add snapshots")
	}
}

func TestClearIsUndoable(t *testing.T) {
	s := NewSurface(20, 20, 10)
	withStyle(t, s, func(st *Style) { st.Tool = ToolRectangle; st.Color = "#ff0000"; st.Fill = true })
	_ = s.DrawShape(Point{}, Point{X: 20, Y: 20})

	s.Clear()
	if at(s, 10, 10) != white {
		t.Fatal("Clear should blank the surface")
	}
	s.Undo()
	if at(s, 10, 10) != red {
		t.Error("undo after Clear should restore the drawing")
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	s := NewSurface(30, 20, 5)
	withStyle(t, s, func(st *Style) { st.Tool = ToolRectangle; st.Color = "#ff0000"; st.Fill = true })
	_ = s.DrawShape(Point{X: 5, Y: 5}, Point{X: 15, Y: 15})

	url, err := s.DataURL()
	if err != nil {
		t.Fatalf("DataURL: %v", err)
	}
	if !strings.HasPrefix(url, DataURLPrefix) {
		t.Fatalf("DataURL prefix: %.30s", url)
	}

	opened, err := OpenSurface(url, 5)
	if err != nil {
		t.Fatalf("OpenSurface: %v", err)
	}
	if opened.Width() != 30 || opened.Height() != 20 {
		t.Errorf("opened size = %dx%d", opened.Width(), opened.Height())
	}
	if at(opened, 10, 10) != red || at(opened, 25, 18) != white {
		t.Error("opened surface does not match the saved drawing")
	}
	if opened.History().Len() != 1 {
		t.Error("loaded drawing should be snapshot 0")
	}

	if _, err := OpenSurface("data:text/plain;base64,AAAA", 5); err == nil {
		t.Error("OpenSurface should reject non-PNG data URLs")
	}
}

func TestStyleValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Style)
		err  error
	}{
		{"default", func(*Style) {}, nil},
		{"unknown tool", func(s *Style) { s.Tool = "spray" }, ErrUnknownTool},
		{"bad colour", func(s *Style) { s.Color = "red" }, ErrInvalidColor},
		{"bad hex", func(s *Style) { s.Color = "#12345z" }, ErrInvalidColor},
		{"zero size", func(s *Style) { s.Size = 0 }, ErrInvalidStyle},
		{"opacity above one", func(s *Style) { s.Opacity = 1.5 }, ErrInvalidStyle},
		{"zero font", func(s *Style) { s.FontSize = 0 }, ErrInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := DefaultStyle
			tt.mod(&st)
			err := st.Validate()
			if tt.err == nil && err != nil || tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("Validate() = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#0a0")
	if err != nil || c != (color.NRGBA{G: 0xaa, A: 255}) {
		t.Errorf("ParseColor(#0a0) = %v, %v", c, err)
	}
	c, err = ParseColor(" #336699 ")
	if err != nil || c != (color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 255}) {
		t.Errorf("ParseColor(#336699) = %v, %v", c, err)
	}
}
