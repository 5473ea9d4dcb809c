package interchange

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/moodboard/pkg/canvas"
)

// DocumentSchema is a record from an external document-management system.
type DocumentSchema struct {
	ID          string        `json:"id" bson:"id"`
	Title       string        `json:"title" bson:"title"`
	Content     string        `json:"content,omitempty" bson:"content,omitempty"`
	Categories  []string      `json:"categories,omitempty" bson:"categories,omitempty"`
	Actors      []Actor       `json:"actors,omitempty" bson:"actors,omitempty"`
	Attachments []Attachment  `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Metadata    *DocumentMeta `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Actor is a person associated with a document.
type Actor struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// Attachment is a file linked from a document.
type Attachment struct {
	ID        string `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	Type      string `json:"type" bson:"type"`
	URL       string `json:"url" bson:"url"`
	Thumbnail string `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
}

// DocumentMeta holds the external system's bookkeeping fields.
type DocumentMeta struct {
	CreatedAt string   `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	Tags      []string `json:"tags,omitempty" bson:"tags,omitempty"`
}

// DocumentNodePrefix is prepended to the external id to form the node id.
const DocumentNodePrefix = "doc-"

// documentData is the node payload of a document node.
type documentData struct {
	DocumentID  string        `json:"documentId"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	Categories  []string      `json:"categories"`
	Actors      []Actor       `json:"actors"`
	Attachments []Attachment  `json:"attachments"`
	Metadata    *DocumentMeta `json:"metadata,omitempty"`
}

// DocumentIntegration maps external documents onto canvas nodes and back.
// The zero value is ready to use.
type DocumentIntegration struct{}

// CreateDocumentNode builds a document node for doc at pos. The node id is
// "doc-" + doc.ID; list fields are always present (empty, never null).
func (DocumentIntegration) CreateDocumentNode(doc DocumentSchema, pos canvas.Position) (canvas.Node, error) {
	payload := documentData{
		DocumentID:  doc.ID,
		Title:       doc.Title,
		Content:     doc.Content,
		Categories:  nonNil(doc.Categories),
		Actors:      nonNil(doc.Actors),
		Attachments: nonNil(doc.Attachments),
		Metadata:    doc.Metadata,
	}
	data, err := toMap(payload)
	if err != nil {
		return canvas.Node{}, fmt.Errorf("document %s: %w", doc.ID, err)
	}
	size := canvas.DefaultSize(canvas.TypeDocument)
	return canvas.Node{
		ID:       DocumentNodePrefix + doc.ID,
		Type:     canvas.TypeDocument,
		Position: pos,
		Size:     &size,
		Data:     data,
	}, nil
}

// ExtractDocumentData recovers the external record from a document node.
// It returns nil for any node that is not a document node, and for
// document nodes whose data cannot be read as a document.
func (DocumentIntegration) ExtractDocumentData(n canvas.Node) *DocumentSchema {
	if canvas.NormalizeType(n.Type) != canvas.TypeDocument {
		return nil
	}
	var payload documentData
	if err := fromMap(n.Data, &payload); err != nil {
		return nil
	}
	return &DocumentSchema{
		ID:          payload.DocumentID,
		Title:       payload.Title,
		Content:     payload.Content,
		Categories:  payload.Categories,
		Actors:      payload.Actors,
		Attachments: payload.Attachments,
		Metadata:    payload.Metadata,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// toMap converts a struct into the generic map form stored in node data.
func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	return m, json.Unmarshal(b, &m)
}

func fromMap(m map[string]any, v any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
