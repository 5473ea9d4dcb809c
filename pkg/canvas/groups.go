package canvas

import (
	"fmt"
	"slices"
)

// ancestors returns the parent chain of id, nearest first. The walk stops
// at a missing parent or at the first repeated id.
func (d *Document) ancestors(id string) []string {
	var chain []string
	seen := map[string]bool{id: true}
	n, ok := d.Node(id)
	for ok && n.ParentID != "" && !seen[n.ParentID] {
		seen[n.ParentID] = true
		chain = append(chain, n.ParentID)
		n, ok = d.Node(n.ParentID)
	}
	return chain
}

// Children returns the ids of nodes whose ParentID is id, in render order.
func (d *Document) Children(id string) []string {
	var out []string
	for _, n := range d.Nodes {
		if n.ParentID == id {
			out = append(out, n.ID)
		}
	}
	return out
}

// Descendants returns every node nested below id at any depth.
func (d *Document) Descendants(id string) []string {
	var out []string
	queue := d.Children(id)
	seen := map[string]bool{id: true}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		queue = append(queue, d.Children(next)...)
	}
	return out
}

// AbsolutePosition resolves the node's position in canvas coordinates by
// adding the positions of all its ancestors.
func (d *Document) AbsolutePosition(id string) (Position, bool) {
	n, ok := d.Node(id)
	if !ok {
		return Position{}, false
	}
	pos := n.Position
	for _, anc := range d.ancestors(id) {
		p, _ := d.Node(anc)
		pos = pos.Add(p.Position)
	}
	return pos, true
}

// Bounds returns the node's absolute top-left corner and its dimensions.
func (d *Document) Bounds(id string) (Position, Size, bool) {
	pos, ok := d.AbsolutePosition(id)
	if !ok {
		return Position{}, Size{}, false
	}
	n, _ := d.Node(id)
	return pos, n.Dimensions(), true
}

// ContainingGroup returns the id of the group whose rectangle contains p.
//
// When groups overlap the one with the smallest area wins; equal areas go
// to the group later in render order, which is the one drawn on top.
// The node named by exclude and everything nested in it are never
// candidates, so a group cannot be dropped into itself.
func (d *Document) ContainingGroup(p Position, exclude string) (string, bool) {
	skip := map[string]bool{}
	if exclude != "" {
		skip[exclude] = true
		for _, id := range d.Descendants(exclude) {
			skip[id] = true
		}
	}

	best, bestArea := "", 0.0
	for _, n := range d.Nodes {
		if n.Type != TypeGroup || skip[n.ID] {
			continue
		}
		origin, size, _ := d.Bounds(n.ID)
		if p.X < origin.X || p.Y < origin.Y || p.X > origin.X+size.Width || p.Y > origin.Y+size.Height {
			continue
		}
		if area := size.Area(); best == "" || area <= bestArea {
			best, bestArea = n.ID, area
		}
	}
	return best, best != ""
}

// DropIntoGroup re-parents the node onto the group that contains its
// centre point, or detaches it to the root when no group does. The node's
// absolute position is preserved. It returns the new parent id.
func (d *Document) DropIntoGroup(id string) (string, error) {
	origin, size, ok := d.Bounds(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	center := Position{X: origin.X + size.Width/2, Y: origin.Y + size.Height/2}
	parent, _ := d.ContainingGroup(center, id)
	return parent, d.SetParent(id, parent)
}

// SetParent moves a node under parentID (or to the root when empty),
// converting its position so it stays in place on screen.
func (d *Document) SetParent(id, parentID string) error {
	abs, ok := d.AbsolutePosition(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	if err := d.checkParent(id, parentID); err != nil {
		return err
	}

	var origin Position
	if parentID != "" {
		origin, _ = d.AbsolutePosition(parentID)
	}
	n, _ := d.Node(id)
	n.ParentID = parentID
	n.Position = abs.Sub(origin)

	// Parents must precede children in render order.
	if parentID != "" {
		pi, ci := d.nodeIndex(parentID), d.nodeIndex(id)
		if ci < pi {
			moved := d.Nodes[ci]
			d.Nodes = slices.Delete(d.Nodes, ci, ci+1)
			d.Nodes = slices.Insert(d.Nodes, pi, moved)
		}
	}
	return nil
}
