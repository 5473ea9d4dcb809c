package interchange

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/moodboard/pkg/canvas"
)

func TestExtractNodeData(t *testing.T) {
	nodes := []canvas.Node{
		{ID: "a", Type: canvas.TypeText, Position: canvas.Position{X: 3, Y: 4}, Data: map[string]any{"text": "hi"}},
		{ID: "b", Type: canvas.TypeImage, Size: &canvas.Size{Width: 120, Height: 80}, Style: map[string]any{"opacity": 0.5}},
	}
	recs := ExtractNodeData(nodes)
	if len(recs) != 2 {
		t.Fatalf("len = %d", len(recs))
	}

	a := recs[0]
	if a.ID != "a" || a.Type != canvas.TypeText || *a.Position != (canvas.Position{X: 3, Y: 4}) {
		t.Errorf("record a = %+v", a)
	}
	def := canvas.DefaultSize(canvas.TypeText)
	if *a.Metadata.Width != def.Width || *a.Metadata.Height != def.Height {
		t.Errorf("record a size = %vx%v, want default %v", *a.Metadata.Width, *a.Metadata.Height, def)
	}

	b := recs[1]
	if *b.Metadata.Width != 120 || *b.Metadata.Height != 80 {
		t.Errorf("record b size = %vx%v", *b.Metadata.Width, *b.Metadata.Height)
	}
	if b.Data == nil {
		t.Error("nil data should become an empty map")
	}
	if b.Metadata.Style["opacity"] != 0.5 {
		t.Errorf("style lost: %v", b.Metadata.Style)
	}

	// Records are copies.
	recs[0].Data["text"] = "changed"
	if nodes[0].Data["text"] != "hi" {
		t.Error("ExtractNodeData shares data with its input")
	}
}

func TestCreateNodesFromDataFillsGaps(t *testing.T) {
	w := 10.0
	nodes := CreateNodesFromData([]NodeRecord{
		{},
		{ID: "x", Type: canvas.TypeNote, Metadata: &RecordMetadata{Width: &w}},
	})

	n := nodes[0]
	if _, err := uuid.Parse(n.ID); err != nil {
		t.Errorf("generated id %q is not a UUID", n.ID)
	}
	if n.Type != canvas.TypeText || n.Position != (canvas.Position{}) || n.Data == nil {
		t.Errorf("defaults not applied: %+v", n)
	}

	if nodes[1].ID != "x" || nodes[1].Size != nil {
		t.Errorf("partial dimensions should be ignored: %+v", nodes[1])
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	nodes := []canvas.Node{
		{ID: "a", Type: canvas.TypeLink, Position: canvas.Position{X: 1, Y: 2}, Size: &canvas.Size{Width: 300, Height: 200}, Data: map[string]any{"url": "https://go.dev"}},
	}
	back := CreateNodesFromData(ExtractNodeData(nodes))
	if !reflect.DeepEqual(back, nodes) {
		t.Errorf("round trip:\n got  %+v\n want %+v", back, nodes)
	}
}

func TestDocumentIntegration(t *testing.T) {
	var di DocumentIntegration
	doc := DocumentSchema{
		ID:         "42",
		Title:      "Brand guide",
		Content:    "Colours and type.",
		Categories: []string{"design"},
		Actors:     []Actor{{ID: "u1", Name: "Ada"}},
		Metadata:   &DocumentMeta{Tags: []string{"v2"}},
	}

	n, err := di.CreateDocumentNode(doc, canvas.Position{X: 50, Y: 60})
	if err != nil {
		t.Fatalf("CreateDocumentNode: %v", err)
	}
	if n.ID != "doc-42" || n.Type != canvas.TypeDocument || n.Position != (canvas.Position{X: 50, Y: 60}) {
		t.Errorf("node = %+v", n)
	}
	if n.Data["documentId"] != "42" || n.Data["title"] != "Brand guide" {
		t.Errorf("data = %v", n.Data)
	}
	if att, ok := n.Data["attachments"].([]any); !ok || len(att) != 0 {
		t.Errorf("missing attachments should be an empty list, got %#v", n.Data["attachments"])
	}

	got := di.ExtractDocumentData(n)
	if got == nil {
		t.Fatal("ExtractDocumentData returned nil for a document node")
	}
	doc.Attachments = []Attachment{}
	if !reflect.DeepEqual(*got, doc) {
		t.Errorf("extracted:\n got  %+v\n want %+v", *got, doc)
	}
}

func TestExtractDocumentDataIgnoresOtherNodes(t *testing.T) {
	var di DocumentIntegration
	tests := []canvas.Node{
		{ID: "t", Type: canvas.TypeText, Data: map[string]any{"text": "x"}},
		{ID: "d", Type: canvas.TypeDocument, Data: map[string]any{"title": 7}},
	}
	for _, n := range tests {
		if got := di.ExtractDocumentData(n); got != nil {
			t.Errorf("ExtractDocumentData(%s) = %+v, want nil", n.ID, got)
		}
	}
}
