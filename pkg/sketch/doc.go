// Package sketch implements the freehand drawing surface behind sketch
// nodes, with bounded undo/redo over full raster snapshots.
//
// [History] is the undo engine: a linear stack of [image.RGBA] copies with
// a fixed capacity. It works on any [Buffer]. [Surface] is the buffer used by
// the editor, a fogleman/gg raster that draws freehand strokes (pen, brush,
// eraser) and drag-defined shapes (line, rectangle, circle, text).
//
// Each completed stroke or shape is one undo step. The blank surface is
// snapshot 0, so the first edit always undoes back to an empty page:
//
//	s := sketch.NewSurface(400, 300, sketch.DefaultMaxStates)
//	s.BeginStroke(sketch.Point{X: 10, Y: 10})
//	s.StrokeTo(sketch.Point{X: 80, Y: 40})
//	s.EndStroke()
//	s.Undo() // blank again
//
// The finished drawing is stored on the node as a PNG data URL
// ([Surface.DataURL]); [OpenSurface] loads it back for further editing.
package sketch
