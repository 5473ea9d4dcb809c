package interchange

import (
	"github.com/google/uuid"

	"github.com/matzehuels/moodboard/pkg/canvas"
)

// NodeRecord is the flattened, library-neutral form of a node used to move
// content between the canvas and other systems.
type NodeRecord struct {
	ID       string           `json:"id"`
	Type     canvas.NodeType  `json:"type"`
	Position *canvas.Position `json:"position,omitempty"`
	Data     map[string]any   `json:"data"`
	Metadata *RecordMetadata  `json:"metadata,omitempty"`
}

// RecordMetadata carries the presentational attributes of a record.
type RecordMetadata struct {
	Width  *float64       `json:"width,omitempty"`
	Height *float64       `json:"height,omitempty"`
	Style  map[string]any `json:"style,omitempty"`
}

// ExtractNodeData converts nodes to records. Dimensions are taken from
// [canvas.Node.Dimensions], so a record always carries width and height.
func ExtractNodeData(nodes []canvas.Node) []NodeRecord {
	out := make([]NodeRecord, len(nodes))
	for i, n := range nodes {
		n = n.Clone()
		pos := n.Position
		size := n.Dimensions()
		out[i] = NodeRecord{
			ID:       n.ID,
			Type:     n.Type,
			Position: &pos,
			Data:     n.Data,
			Metadata: &RecordMetadata{
				Width:  &size.Width,
				Height: &size.Height,
				Style:  n.Style,
			},
		}
		if out[i].Data == nil {
			out[i].Data = map[string]any{}
		}
	}
	return out
}

// CreateNodesFromData converts records back to nodes, filling gaps:
// a missing id becomes a random UUID, a missing type becomes text, a
// missing position becomes the origin and missing data becomes an empty
// map. Width and height are applied only when both are present.
func CreateNodesFromData(records []NodeRecord) []canvas.Node {
	out := make([]canvas.Node, len(records))
	for i, r := range records {
		n := canvas.Node{
			ID:   r.ID,
			Type: r.Type,
			Data: r.Data,
		}
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if n.Type == "" {
			n.Type = canvas.TypeText
		}
		if r.Position != nil {
			n.Position = *r.Position
		}
		if n.Data == nil {
			n.Data = map[string]any{}
		}
		if m := r.Metadata; m != nil {
			if m.Width != nil && m.Height != nil {
				n.Size = &canvas.Size{Width: *m.Width, Height: *m.Height}
			}
			n.Style = m.Style
		}
		out[i] = n.Clone()
	}
	return out
}
