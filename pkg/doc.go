// Package pkg provides the core libraries of moodboard, an infinite-canvas
// mood board editor.
//
// # Overview
//
// A board is a [canvas.Document]: typed content nodes (text, notes, images,
// links, videos, sketches, groups, documents) in render order, the edges
// between them and an optional camera. The packages below build, check,
// persist and enrich that document; the editor front end only draws it.
//
// # Architecture
//
// The typical flow of one edit:
//
//	clipboard / drop / keyboard
//	         ↓
//	    [classify] (content → node)
//	         ↓
//	    [session] (transactional apply, sketches, link refresh)
//	         ↓
//	    [canvas] (document model, groups, integrity)
//	         ↓
//	    [io] (canvas-export.json import/export)
//
// # Quick Start
//
//	s := session.New()
//	node, _ := s.Paste("https://youtu.be/dQw4w9WgXcQ", false, canvas.Position{X: 100, Y: 100})
//	_, _ = s.RefreshLink(ctx, node.ID) // no-op for videos, previews links
//	art, _ := s.Export(ctx, nil, "")
//	os.WriteFile(art.Filename, art.Data, 0o644)
//
// # Main Packages
//
// ## Document
//
// [canvas] - Nodes, edges, viewport, group containment (absolute positions,
// smallest-group drop target) and referential integrity checks.
//
// [io] - Persisted format: sanitizing import with warnings, stamped export,
// the bundled welcome board.
//
// [interchange] - Flat node records and the document-node adapter.
//
// ## Editing
//
// [classify] - Paste classification into image, video, link, markdown or text.
//
// [sketch] - Raster drawing surface with bounded undo history.
//
// [session] - One open board: paste, drop, import/export, keyboard
// shortcuts, sketches and link previews.
//
// [markdown] - Minimal markdown to HTML for note and markdown nodes.
//
// ## Services
//
// [metadata] - OpenGraph link previews behind an LRU, an optional persistent
// tier and request coalescing.
//
// [render] - Graphviz structure preview of a board.
//
// [integrations] - Outbound HTTP client; [integrations/docsys] document sources.
//
// ## Infrastructure
//
// [cache] - Null, file and Redis caches behind one interface.
//
// [config] - TOML, .env and environment configuration.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for import/export, cache and HTTP events.
//
// [httputil] - Retry with backoff for transient failures.
//
// [canvas]: github.com/matzehuels/moodboard/pkg/canvas
// [io]: github.com/matzehuels/moodboard/pkg/io
// [interchange]: github.com/matzehuels/moodboard/pkg/interchange
// [classify]: github.com/matzehuels/moodboard/pkg/classify
// [sketch]: github.com/matzehuels/moodboard/pkg/sketch
// [session]: github.com/matzehuels/moodboard/pkg/session
// [markdown]: github.com/matzehuels/moodboard/pkg/markdown
// [metadata]: github.com/matzehuels/moodboard/pkg/metadata
// [render]: github.com/matzehuels/moodboard/pkg/render
// [integrations]: github.com/matzehuels/moodboard/pkg/integrations
// [integrations/docsys]: github.com/matzehuels/moodboard/pkg/integrations/docsys
// [cache]: github.com/matzehuels/moodboard/pkg/cache
// [config]: github.com/matzehuels/moodboard/pkg/config
// [errors]: github.com/matzehuels/moodboard/pkg/errors
// [observability]: github.com/matzehuels/moodboard/pkg/observability
// [httputil]: github.com/matzehuels/moodboard/pkg/httputil
package pkg
