package canvas

import "fmt"

// IssueKind classifies a referential-integrity problem.
type IssueKind string

const (
	IssueDuplicateNode   IssueKind = "duplicate_node"
	IssueDuplicateEdge   IssueKind = "duplicate_edge"
	IssueDanglingEdge    IssueKind = "dangling_edge"
	IssueMalformedEdge   IssueKind = "malformed_edge"
	IssueInvalidParent   IssueKind = "invalid_parent"
	IssueParentCycle     IssueKind = "parent_cycle"
	IssueInvalidViewport IssueKind = "invalid_viewport"
)

// Issue is one integrity problem found by [Document.Validate] or repaired
// by [Document.Sanitize]. ID names the offending node or edge.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	ID      string    `json:"id,omitempty"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	if i.ID == "" {
		return fmt.Sprintf("%s: %s", i.Kind, i.Message)
	}
	return fmt.Sprintf("%s %q: %s", i.Kind, i.ID, i.Message)
}

// Validate reports every integrity issue in d without changing it.
// An empty result means the document satisfies all invariants.
func (d *Document) Validate() []Issue {
	var issues []Issue

	nodes := make(map[string]*Node, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if _, dup := nodes[n.ID]; dup {
			issues = append(issues, Issue{IssueDuplicateNode, n.ID, "node id is not unique"})
			continue
		}
		nodes[n.ID] = n
	}

	seenEdges := make(map[string]bool, len(d.Edges))
	for _, e := range d.Edges {
		if seenEdges[e.ID] {
			issues = append(issues, Issue{IssueDuplicateEdge, e.ID, "edge id is not unique"})
			continue
		}
		seenEdges[e.ID] = true
		if msg := danglingReason(e, nodes); msg != "" {
			issues = append(issues, Issue{IssueDanglingEdge, e.ID, msg})
		}
	}

	for _, n := range d.Nodes {
		if n.ParentID == "" {
			continue
		}
		p, ok := nodes[n.ParentID]
		switch {
		case !ok:
			issues = append(issues, Issue{IssueInvalidParent, n.ID, fmt.Sprintf("parent %q does not exist", n.ParentID)})
		case p.Type != TypeGroup:
			issues = append(issues, Issue{IssueInvalidParent, n.ID, fmt.Sprintf("parent %q is a %s node, not a group", n.ParentID, p.Type)})
		case d.inCycle(n.ID):
			issues = append(issues, Issue{IssueParentCycle, n.ID, "node is its own ancestor"})
		}
	}

	if d.Viewport != nil && d.Viewport.Validate() != nil {
		issues = append(issues, Issue{Kind: IssueInvalidViewport, Message: fmt.Sprintf("zoom %v is not positive", d.Viewport.Zoom)})
	}
	return issues
}

func danglingReason(e Edge, nodes map[string]*Node) string {
	_, src := nodes[e.Source]
	_, dst := nodes[e.Target]
	switch {
	case !src && !dst:
		return fmt.Sprintf("source %q and target %q do not exist", e.Source, e.Target)
	case !src:
		return fmt.Sprintf("source %q does not exist", e.Source)
	case !dst:
		return fmt.Sprintf("target %q does not exist", e.Target)
	}
	return ""
}

// inCycle reports whether following ParentID links from id returns to id.
func (d *Document) inCycle(id string) bool {
	seen := map[string]bool{}
	cur := id
	for {
		n, ok := d.Node(cur)
		if !ok || n.ParentID == "" {
			return false
		}
		if n.ParentID == id {
			return true
		}
		if seen[n.ParentID] {
			return false
		}
		seen[n.ParentID] = true
		cur = n.ParentID
	}
}

// Sanitize repairs the issues that have a safe fix and returns what it
// changed:
//   - edges with a duplicate id or a missing endpoint are dropped
//   - parent references to a missing node are cleared
//   - parent references to a non-group node are cleared and the child is
//     moved to its absolute position
//   - parent cycles are broken by detaching the node at its absolute
//     position
//   - an invalid viewport is dropped
//
// Duplicate node ids cannot be repaired and are left for the caller.
func (d *Document) Sanitize() []Issue {
	var fixed []Issue

	nodes := make(map[string]*Node, len(d.Nodes))
	for i := range d.Nodes {
		if _, dup := nodes[d.Nodes[i].ID]; !dup {
			nodes[d.Nodes[i].ID] = &d.Nodes[i]
		}
	}

	seenEdges := make(map[string]bool, len(d.Edges))
	kept := d.Edges[:0]
	for _, e := range d.Edges {
		if seenEdges[e.ID] {
			fixed = append(fixed, Issue{IssueDuplicateEdge, e.ID, "dropped edge with repeated id"})
			continue
		}
		if msg := danglingReason(e, nodes); msg != "" {
			fixed = append(fixed, Issue{IssueDanglingEdge, e.ID, "dropped: " + msg})
			continue
		}
		seenEdges[e.ID] = true
		kept = append(kept, e)
	}
	clear(d.Edges[len(kept):])
	d.Edges = kept

	// Resolve absolute positions before any parent link changes.
	abs := make(map[string]Position, len(d.Nodes))
	for _, n := range d.Nodes {
		abs[n.ID], _ = d.AbsolutePosition(n.ID)
	}
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.ParentID == "" {
			continue
		}
		p, ok := nodes[n.ParentID]
		switch {
		case !ok:
			fixed = append(fixed, Issue{IssueInvalidParent, n.ID, fmt.Sprintf("cleared missing parent %q", n.ParentID)})
			n.ParentID = ""
		case p.Type != TypeGroup:
			fixed = append(fixed, Issue{IssueInvalidParent, n.ID, fmt.Sprintf("detached from non-group parent %q", n.ParentID)})
			n.ParentID = ""
			n.Position = abs[n.ID]
		case d.inCycle(n.ID):
			fixed = append(fixed, Issue{IssueParentCycle, n.ID, "detached to break parent cycle"})
			n.ParentID = ""
			n.Position = abs[n.ID]
		}
	}

	if d.Viewport != nil && d.Viewport.Validate() != nil {
		fixed = append(fixed, Issue{Kind: IssueInvalidViewport, Message: fmt.Sprintf("dropped viewport with zoom %v", d.Viewport.Zoom)})
		d.Viewport = nil
	}
	return fixed
}
