package session

import (
	"context"
	"strings"

	"github.com/matzehuels/moodboard/pkg/canvas"
	cio "github.com/matzehuels/moodboard/pkg/io"
)

// KeyEvent is a key press as reported by the host platform.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

// Clipboard is the clipboard content at paste time. Image holds raw image
// bytes when the clipboard carries a picture.
type Clipboard struct {
	Text  string
	Image []byte
}

// Host is the platform adapter a session talks to for shortcuts.
type Host interface {
	// ViewportCenter returns the canvas position under the centre of the
	// visible area.
	ViewportCenter() canvas.Position

	// Viewport returns the current camera, or nil when unknown.
	Viewport() *canvas.Viewport

	// ReadClipboard returns the clipboard content.
	ReadClipboard(ctx context.Context) (Clipboard, error)

	// Save hands an exported canvas to the user (download, save dialog).
	Save(ctx context.Context, art *cio.Artifact) error

	// Open asks the user for a canvas file and returns its bytes.
	// An empty result with a nil error means the user cancelled.
	Open(ctx context.Context) ([]byte, error)
}

// Action names the effect of a handled shortcut.
type Action string

const (
	ActionNone   Action = ""
	ActionPaste  Action = "paste"
	ActionExport Action = "export"
	ActionImport Action = "import"
)

// Dispatch handles the editor shortcuts: Ctrl/Cmd+V pastes at the viewport
// centre, Ctrl/Cmd+S exports through [Host.Save] and Ctrl/Cmd+O imports
// through [Host.Open]. Other keys return [ActionNone].
//
// An unreadable clipboard or an empty paste is ignored. Export and import
// errors are returned, and a failed import leaves the document unchanged.
func (s *Session) Dispatch(ctx context.Context, ev KeyEvent, host Host) (Action, error) {
	if !(ev.Ctrl || ev.Meta) || ev.Alt {
		return ActionNone, nil
	}
	switch strings.ToLower(ev.Key) {
	case "v":
		return ActionPaste, s.pasteFromHost(ctx, host)
	case "s":
		art, err := s.Export(ctx, host.Viewport(), "")
		if err != nil {
			return ActionExport, err
		}
		return ActionExport, host.Save(ctx, art)
	case "o":
		data, err := host.Open(ctx)
		if err != nil || len(data) == 0 {
			return ActionImport, err
		}
		_, err = s.Import(ctx, data)
		return ActionImport, err
	}
	return ActionNone, nil
}

func (s *Session) pasteFromHost(ctx context.Context, host Host) error {
	clip, err := host.ReadClipboard(ctx)
	if err != nil {
		s.logger.Warn("failed to paste from clipboard", "err", err)
		return nil
	}
	at := host.ViewportCenter()
	if len(clip.Image) > 0 {
		_, err := s.PasteBytes(clip.Image, at)
		return err
	}
	if strings.TrimSpace(clip.Text) == "" {
		return nil
	}
	_, err = s.Paste(clip.Text, false, at)
	return err
}
