package sketch

import (
	"image"
	"image/draw"
)

// DefaultMaxStates bounds a [History] created with a non-positive limit.
const DefaultMaxStates = 50

// Buffer is a raster surface whose full contents can be copied out and
// written back.
type Buffer interface {
	// Snapshot returns a copy of the current pixels.
	Snapshot() *image.RGBA

	// Restore replaces the current pixels with img.
	Restore(img *image.RGBA)
}

// History is a bounded, linear undo/redo stack of full raster snapshots.
//
// States are ordered oldest first and index points at the snapshot that is
// currently on screen. Saving after an undo discards the redo states; saving
// past the limit evicts the oldest state. Memory use is bounded by
// max × snapshot size.
type History struct {
	states []*image.RGBA
	index  int
	max    int
}

// NewHistory returns an empty history holding at most max states
// ([DefaultMaxStates] when max <= 0).
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultMaxStates
	}
	return &History{index: -1, max: max}
}

// Save pushes a copy of buf's current pixels as the newest state.
func (h *History) Save(buf Buffer) {
	h.Push(buf.Snapshot())
}

// Push appends a copy of img as the newest state.
func (h *History) Push(img *image.RGBA) {
	h.states = h.states[:h.index+1]
	h.states = append(h.states, cloneRGBA(img))
	if len(h.states) > h.max {
		h.states[0] = nil
		h.states = h.states[1:]
	}
	h.index = len(h.states) - 1
}

// Undo steps back one state and repaints buf from it. It reports false and
// leaves everything untouched when there is nothing to undo.
func (h *History) Undo(buf Buffer) bool {
	if !h.CanUndo() {
		return false
	}
	h.index--
	buf.Restore(h.states[h.index])
	return true
}

// Redo steps forward one state and repaints buf from it. It reports false
// when there is nothing to redo.
func (h *History) Redo(buf Buffer) bool {
	if !h.CanRedo() {
		return false
	}
	h.index++
	buf.Restore(h.states[h.index])
	return true
}

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index < len(h.states)-1 }

// Len returns the number of stored states.
func (h *History) Len() int { return len(h.states) }

// Index returns the position of the current state, or -1 when empty.
func (h *History) Index() int { return h.index }

// Max returns the state limit.
func (h *History) Max() int { return h.max }

// Current returns the current state, or nil when empty. The image is
// owned by the history and must not be modified.
func (h *History) Current() *image.RGBA {
	if h.index < 0 {
		return nil
	}
	return h.states[h.index]
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
