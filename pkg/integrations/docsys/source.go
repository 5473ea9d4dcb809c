// Package docsys reads records from external document-management systems.
//
// A [Source] yields [interchange.DocumentSchema] records, which
// [interchange.DocumentIntegration] turns into document nodes. Two backends
// exist:
//   - dir: one "<id>.json" file per document, for local folders and tests
//   - mongo: a MongoDB collection keyed by the "id" field
//
// # Usage
//
//	src, err := docsys.NewDirSource("./docs")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	doc, err := src.Get(ctx, "brand-guide")
//	node, err := interchange.DocumentIntegration{}.CreateDocumentNode(*doc, pos)
package docsys

import (
	"context"

	"github.com/matzehuels/moodboard/pkg/interchange"
)

// Source is the interface for document-system backends.
type Source interface {
	// Get returns the document with the given id, or an
	// [errors.ErrCodeNotFound] error when it does not exist.
	Get(ctx context.Context, id string) (*interchange.DocumentSchema, error)

	// List returns all documents ordered by id.
	List(ctx context.Context) ([]interchange.DocumentSchema, error)

	// Close releases backend resources.
	Close() error
}
