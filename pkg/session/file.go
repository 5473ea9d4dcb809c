package session

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
	cio "github.com/matzehuels/moodboard/pkg/io"
)

// OpenFile imports the canvas file at path. See [Session.Import].
func (s *Session) OpenFile(ctx context.Context, path string) (*cio.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "canvas file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read canvas file")
	}
	return s.Import(ctx, data)
}

// SaveFile exports the document to path, creating parent directories as
// needed. A nil viewport keeps the document's own camera.
func (s *Session) SaveFile(ctx context.Context, path string, viewport *canvas.Viewport) error {
	art, err := s.Export(ctx, viewport, "")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create canvas dir")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, art.Data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write canvas file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write canvas file")
	}
	return nil
}
