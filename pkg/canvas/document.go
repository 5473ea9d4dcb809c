package canvas

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Document.AddNode] when the node id is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Document.AddNode] when a node with
	// the same id already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrNodeNotFound is returned when an operation names a node that is not
	// in the document.
	ErrNodeNotFound = errors.New("node not found")

	// ErrInvalidEdgeID is returned by [Document.AddEdge] when the edge id is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Document.AddEdge] when an edge with
	// the same id already exists.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrEdgeNotFound is returned by [Document.RemoveEdge] for unknown ids.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrUnknownSourceNode is returned by [Document.AddEdge] when the source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Document.AddEdge] when the target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidParent is returned when ParentID names a node that is missing
	// or is not a group.
	ErrInvalidParent = errors.New("parent must be an existing group node")

	// ErrParentCycle is returned when re-parenting would make a group contain itself.
	ErrParentCycle = errors.New("parent chain contains a cycle")

	// ErrInvalidZoom is returned by [Viewport.Validate] for non-positive zoom.
	ErrInvalidZoom = errors.New("viewport zoom must be positive")
)

// Document is the complete canvas: nodes in render order, edges, an optional
// camera and persistence metadata.
//
// The zero value is an empty, usable document. Document is not safe for
// concurrent use; the session layer serializes access.
type Document struct {
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges"`
	Viewport *Viewport `json:"viewport,omitempty"`
	Metadata Metadata  `json:"metadata"`
}

// New returns an empty document with non-nil node and edge slices, so that
// it serializes as {"nodes": [], "edges": []}.
func New() *Document {
	return &Document{Nodes: []Node{}, Edges: []Edge{}}
}

// NodeCount returns the number of nodes.
func (d *Document) NodeCount() int { return len(d.Nodes) }

// EdgeCount returns the number of edges.
func (d *Document) EdgeCount() int { return len(d.Edges) }

// Node returns a pointer to the node with the given id. The pointer stays
// valid until the next structural change to d.Nodes.
func (d *Document) Node(id string) (*Node, bool) {
	i := d.nodeIndex(id)
	if i < 0 {
		return nil, false
	}
	return &d.Nodes[i], true
}

// Edge returns a pointer to the edge with the given id.
func (d *Document) Edge(id string) (*Edge, bool) {
	i := d.edgeIndex(id)
	if i < 0 {
		return nil, false
	}
	return &d.Edges[i], true
}

func (d *Document) nodeIndex(id string) int {
	return slices.IndexFunc(d.Nodes, func(n Node) bool { return n.ID == id })
}

func (d *Document) edgeIndex(id string) int {
	return slices.IndexFunc(d.Edges, func(e Edge) bool { return e.ID == id })
}

// AddNode appends a node. It returns [ErrInvalidNodeID] for an empty id,
// [ErrDuplicateNodeID] if the id is taken and [ErrInvalidParent] when
// ParentID does not name an existing group. A nil Data map is replaced
// with an empty one.
func (d *Document) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if d.nodeIndex(n.ID) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
	}
	if err := d.checkParent(n.ID, n.ParentID); err != nil {
		return err
	}
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	d.Nodes = append(d.Nodes, n)
	return nil
}

// UpdateNode replaces the node that has n.ID, keeping its place in render order.
func (d *Document) UpdateNode(n Node) error {
	i := d.nodeIndex(n.ID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, n.ID)
	}
	if err := d.checkParent(n.ID, n.ParentID); err != nil {
		return err
	}
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	d.Nodes[i] = n
	return nil
}

func (d *Document) checkParent(id, parentID string) error {
	if parentID == "" {
		return nil
	}
	p, ok := d.Node(parentID)
	if !ok || p.Type != TypeGroup {
		return fmt.Errorf("%w: %q", ErrInvalidParent, parentID)
	}
	if parentID == id || slices.Contains(d.ancestors(parentID), id) {
		return fmt.Errorf("%w: %q", ErrParentCycle, id)
	}
	return nil
}

// RemoveNode deletes a node together with every edge that touches it.
// Children of the removed node move to its own parent (or the root) and
// keep their absolute position.
func (d *Document) RemoveNode(id string) error {
	i := d.nodeIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	removed := d.Nodes[i]
	for j := range d.Nodes {
		if d.Nodes[j].ParentID == id {
			d.Nodes[j].ParentID = removed.ParentID
			d.Nodes[j].Position = d.Nodes[j].Position.Add(removed.Position)
		}
	}
	d.Nodes = slices.Delete(d.Nodes, i, i+1)
	d.Edges = slices.DeleteFunc(d.Edges, func(e Edge) bool {
		return e.Source == id || e.Target == id
	})
	return nil
}

// AddEdge appends an edge between two existing nodes. An empty Type
// defaults to [EdgeTypeButton].
func (d *Document) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	if d.edgeIndex(e.ID) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateEdgeID, e.ID)
	}
	if d.nodeIndex(e.Source) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownSourceNode, e.Source)
	}
	if d.nodeIndex(e.Target) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownTargetNode, e.Target)
	}
	if e.Type == "" {
		e.Type = EdgeTypeButton
	}
	d.Edges = append(d.Edges, e)
	return nil
}

// RemoveEdge deletes the edge with the given id.
func (d *Document) RemoveEdge(id string) error {
	i := d.edgeIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrEdgeNotFound, id)
	}
	d.Edges = slices.Delete(d.Edges, i, i+1)
	return nil
}

// ClearTransient resets the selected and dragging view flags.
func (d *Document) ClearTransient() {
	for i := range d.Nodes {
		d.Nodes[i].Selected = false
		d.Nodes[i].Dragging = false
	}
	for i := range d.Edges {
		d.Edges[i].Selected = false
	}
}

// Clone returns a deep copy of d. Data and Style maps are copied
// recursively so that edits to the clone never reach the original.
func (d *Document) Clone() *Document {
	out := &Document{
		Nodes:    make([]Node, len(d.Nodes)),
		Edges:    make([]Edge, len(d.Edges)),
		Metadata: d.Metadata,
	}
	for i, n := range d.Nodes {
		out.Nodes[i] = n.Clone()
	}
	for i, e := range d.Edges {
		e.Style = cloneMap(e.Style)
		e.Extra = maps.Clone(e.Extra)
		out.Edges[i] = e
	}
	if d.Viewport != nil {
		v := *d.Viewport
		out.Viewport = &v
	}
	return out
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	if n.Size != nil {
		s := *n.Size
		n.Size = &s
	}
	n.Data = cloneMap(n.Data)
	n.Style = cloneMap(n.Style)
	n.Extra = maps.Clone(n.Extra)
	return n
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(x)
	case map[string]string:
		return maps.Clone(x)
	}
	return v
}
