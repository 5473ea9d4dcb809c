// Package io reads and writes mood-board canvases in their persisted JSON
// format.
//
// # Overview
//
// The format is designed for:
//
//   - Round-trip preservation: export, import and export again yields the
//     same nodes, edges and data
//   - Tolerance: per-node data is passed through untouched, so node kinds
//     this version does not know survive a load/save cycle
//   - Compatibility with React Flow style files ("textNode" type names,
//     top-level width/height, "parentNode")
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": "1", "type": "text", "position": {"x": 100, "y": 100},
//	     "size": {"width": 400, "height": 200}, "data": {"text": "Hello"}}
//	  ],
//	  "edges": [
//	    {"id": "e1-2", "source": "1", "target": "2", "type": "button", "label": "see"}
//	  ],
//	  "viewport": {"x": 0, "y": 0, "zoom": 1},
//	  "metadata": {"createdAt": "...", "lastModified": "...", "version": "1.0.0"}
//	}
//
// "nodes" and "edges" are required; everything else is optional.
//
// # Export
//
// [Serialize] produces the bytes; [Export] wraps them in an [Artifact] with
// a suggested file name so that the platform layer decides where they go.
// [WriteJSON] and [ExportJSON] write to an io.Writer or a file path.
//
//	art, err := io.Export(ctx, doc, io.WithViewport(&canvas.Viewport{Zoom: 1}))
//
// # Import
//
// [Deserialize] validates the structure and returns a [Result] with the
// sanitized document, its viewport and any repaired integrity issues.
// Structural problems are returned as *errors.Error values; the caller's
// current document is never touched by a failed import.
//
//	res, err := io.ImportJSON("canvas-export.json")
//	for _, w := range res.Warnings {
//	    log.Warn(w.String())
//	}
//
// # Starter canvas
//
// [Welcome] returns the embedded board that new sessions open with.
package io
