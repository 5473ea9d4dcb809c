package session

import (
	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
	"github.com/matzehuels/moodboard/pkg/sketch"
)

// OpenSketch returns the drawing surface of a sketch node, creating it on
// first use. A node with a saved drawing is reopened from data.drawing;
// otherwise a blank w×h surface is created (the node's size when w or h is
// not positive).
//
// Surfaces are not safe for concurrent use; callers drawing from several
// goroutines must serialize access themselves.
func (s *Session) OpenSketch(nodeID string, w, h int) (*sketch.Surface, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if surf, ok := s.sketches[nodeID]; ok {
		return surf, nil
	}
	n, err := s.sketchNode(nodeID)
	if err != nil {
		return nil, err
	}

	var surf *sketch.Surface
	if drawing, _ := n.Data["drawing"].(string); drawing != "" {
		surf, err = sketch.OpenSurface(drawing, s.maxStates)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "sketch %q has an unreadable drawing", nodeID)
		}
	} else {
		if w <= 0 || h <= 0 {
			size := n.Dimensions()
			w, h = int(size.Width), int(size.Height)
		}
		surf = sketch.NewSurface(w, h, s.maxStates)
	}
	s.sketches[nodeID] = surf
	return surf, nil
}

// Sketch returns the open surface of nodeID.
func (s *Session) Sketch(nodeID string) (*sketch.Surface, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	surf, ok := s.sketches[nodeID]
	return surf, ok
}

// CommitSketch stores the surface of nodeID as a PNG data URL in the
// node's data.drawing.
func (s *Session) CommitSketch(nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	surf, ok := s.sketches[nodeID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "sketch %q is not open", nodeID)
	}
	url, err := surf.DataURL()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode sketch %q", nodeID)
	}
	return s.apply(func(d *canvas.Document) error {
		n, ok := d.Node(nodeID)
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID)
		}
		if n.Data == nil {
			n.Data = map[string]any{}
		}
		n.Data["drawing"] = url
		return nil
	})
}

// CloseSketch discards the surface of nodeID without committing it.
func (s *Session) CloseSketch(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sketches, nodeID)
}

func (s *Session) sketchNode(nodeID string) (*canvas.Node, error) {
	n, ok := s.doc.Node(nodeID)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID)
	}
	if n.Type != canvas.TypeSketch {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node %q is a %s node, not a sketch", nodeID, n.Type)
	}
	return n, nil
}
