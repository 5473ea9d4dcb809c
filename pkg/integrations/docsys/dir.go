package docsys

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/moodboard/pkg/errors"
	"github.com/matzehuels/moodboard/pkg/interchange"
)

// DirSource is a directory-backed document source. Each document is stored
// as "<id>.json" in the base directory.
type DirSource struct {
	mu      sync.RWMutex
	baseDir string
}

// NewDirSource opens the document directory at dir, creating it if needed.
func NewDirSource(dir string) (*DirSource, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "document directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &DirSource{baseDir: dir}, nil
}

func (s *DirSource) docPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *DirSource) Get(ctx context.Context, id string) (*interchange.DocumentSchema, error) {
	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.docPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "document %q not found", id)
		}
		return nil, fmt.Errorf("read document file: %w", err)
	}
	return decodeDocument(id, data)
}

func (s *DirSource) List(ctx context.Context) ([]interchange.DocumentSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}
	var docs []interchange.DocumentSchema
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read document file: %w", err)
		}
		doc, err := decodeDocument(id, data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	slices.SortFunc(docs, func(a, b interchange.DocumentSchema) int { return strings.Compare(a.ID, b.ID) })
	return docs, nil
}

// Put stores doc, replacing any document with the same id.
func (s *DirSource) Put(ctx context.Context, doc interchange.DocumentSchema) error {
	if err := errors.ValidateDocumentID(doc.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(s.docPath(doc.ID), data, 0644); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	return nil
}

func (s *DirSource) Close() error { return nil }

// Path returns the base directory.
func (s *DirSource) Path() string { return s.baseDir }

// decodeDocument parses a document file. A file without an id takes its
// id from the file name.
func decodeDocument(id string, data []byte) (*interchange.DocumentSchema, error) {
	var doc interchange.DocumentSchema
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "parse document %q", id)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return &doc, nil
}

var _ Source = (*DirSource)(nil)
