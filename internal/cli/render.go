package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
	cio "github.com/matzehuels/moodboard/pkg/io"
	"github.com/matzehuels/moodboard/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

var validFormats = map[string]bool{formatDOT: true, formatSVG: true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file, base path for several formats, "-" for stdout
	formats  []string // "dot", "svg"
	detailed bool     // add ids and absolute positions to labels
	rankDir  string   // graphviz rankdir
	noCache  bool     // bypass the render cache
}

// renderCommand creates the render command, which draws a canvas as a
// Graphviz diagram of its nodes, groups and edges.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{rankDir: "LR"}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a canvas structure preview (DOT or SVG)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, or base path for several formats ("-" for stdout)`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids and absolute positions")
	cmd.Flags().StringVar(&opts.rankDir, "rankdir", opts.rankDir, "graph direction: LR, TB, RL, BT")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot or svg)", f)
		}
	}
	return nil
}

// basePath derives the base output path. Without output it strips the
// extension from input; a known format extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for format. A single format written to an
// explicit output keeps that name as given.
func outputPath(opts *renderOpts, input, format string) string {
	if opts.output == "-" {
		return ""
	}
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	res, err := cio.ImportJSON(input)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		logger.Warn("canvas repaired", "issue", w.String())
	}
	logger.Infof("Loaded canvas: %d nodes, %d edges", res.Document.NodeCount(), res.Document.EdgeCount())

	dotOpts := render.Options{Detailed: opts.detailed, RankDir: opts.rankDir}
	renderer := c.newRenderer(opts.noCache)

	for _, format := range opts.formats {
		data, err := renderCanvas(ctx, renderer, res.Document, format, dotOpts)
		if err != nil {
			return err
		}
		path := outputPath(opts, input, format)
		if err := writeOutput(path, data); err != nil {
			return err
		}
		if path != "" {
			printFile(path)
		}
	}
	return nil
}

func renderCanvas(ctx context.Context, r *render.Renderer, doc *canvas.Document, format string, opts render.Options) ([]byte, error) {
	switch format {
	case formatDOT:
		return []byte(render.ToDOT(doc, opts)), nil
	case formatSVG:
		spin := newSpinnerWithContext(ctx, "Rendering SVG...")
		spin.Start()
		defer spin.Stop()
		return r.Document(ctx, doc, opts)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
