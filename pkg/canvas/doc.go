// Package canvas defines the mood-board document model.
//
// # Overview
//
// A [Document] holds typed content blocks ([Node]) in render order, directed
// connections between them ([Edge]), an optional camera ([Viewport]) and
// persistence [Metadata]. Node payloads live in an untyped Data map so that
// new node kinds and unknown fields survive a load/save cycle.
//
// # Invariants
//
// The mutating methods keep the document consistent:
//
//   - node and edge ids are unique
//   - both endpoints of an edge exist ([Document.AddEdge])
//   - ParentID, when set, names an existing group node and never forms a cycle
//   - removing a node removes its edges ([Document.RemoveNode])
//
// Documents read from disk may violate these rules. [Document.Validate]
// lists the problems and [Document.Sanitize] repairs the ones that have a
// safe fix, returning an [Issue] for each.
//
// # Groups
//
// Child positions are relative to their group. [Document.AbsolutePosition]
// resolves canvas coordinates, and [Document.ContainingGroup] picks the
// drop target for a point: the smallest containing group wins.
//
// # Defaults
//
// [NewNode] creates a node with the default payload ([DefaultData]) and
// size ([DefaultSize]) the editor uses when a block is dragged from the
// palette. Ids come from [NewID].
package canvas
