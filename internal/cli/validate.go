package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/moodboard/pkg/errors"
	cio "github.com/matzehuels/moodboard/pkg/io"
	"github.com/matzehuels/moodboard/pkg/metadata"
)

// watchSettle is how long a file must stay quiet before it is re-checked.
// Editors often write a file in several steps.
const watchSettle = 150 * time.Millisecond

// validateCommand creates the "validate" command.
func (c *CLI) validateCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check canvas files",
		Long: `Check that canvas files load. Structural problems fail the command;
integrity problems that loading repairs (dangling edges, broken parent
links) are listed as warnings.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if !validateFile(path) {
					failed++
				}
			}
			if watch {
				return c.watch(cmd.Context(), args)
			}
			if failed > 0 {
				return errors.New(errors.ErrCodeInvalidDocument, "%d of %d canvas files failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-check files whenever they change")

	return cmd
}

// validateFile prints the outcome of loading path and reports success.
func validateFile(path string) bool {
	res, err := cio.ImportJSON(path)
	if err != nil {
		printError("%s: %s", path, errors.UserMessage(err))
		return false
	}
	printSuccess("%s", path)
	printStats(res.Document.NodeCount(), res.Document.EdgeCount(), len(res.Warnings))
	for _, w := range res.Warnings {
		printWarning("%s", w.String())
	}
	return true
}

// watch re-validates paths on change until ctx is cancelled.
func (c *CLI) watch(ctx context.Context, paths []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "start file watcher")
	}
	defer w.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", p)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// Directories, not files: editors replace files by renaming over them.
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", dir)
		}
	}

	debounce := metadata.NewDebouncer(watchSettle)
	defer debounce.Stop()

	printNewline()
	printInfo("Watching %d file(s), press Ctrl+C to stop", len(targets))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !targets[ev.Name] || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			path := ev.Name
			c.Logger.Debug("file changed", "path", path, "op", ev.Op.String())
			debounce.Do(path, func() { validateFile(path) })
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "err", err)
		}
	}
}
