package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/classify"
	"github.com/matzehuels/moodboard/pkg/errors"
)

type classifyOpts struct {
	image bool
	add   string
	x, y  float64
}

// classifyCommand creates the "classify" command. It shows which node a
// pasted value turns into and, with --add, places it on a canvas.
func (c *CLI) classifyCommand() *cobra.Command {
	var opts classifyOpts

	cmd := &cobra.Command{
		Use:   "classify [content | -]",
		Short: "Show the node a pasted value becomes",
		Long: `Classify text, a URL or a data URL the way a paste on the board would.
With "-" or no argument the content is read from stdin; binary input such as
a PNG is detected by its bytes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runClassify(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.image, "image", false, "treat the content as an image source")
	cmd.Flags().StringVar(&opts.add, "add", "", "append the node to this canvas file")
	cmd.Flags().Float64Var(&opts.x, "x", 0, "x position of the node")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "y position of the node")

	return cmd
}

func (c *CLI) runClassify(cmd *cobra.Command, args []string, opts classifyOpts) error {
	pos := canvas.Position{X: opts.x, Y: opts.y}

	var raw []byte
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		raw = data
	} else {
		raw = []byte(args[0])
	}

	var (
		res classify.Result
		err error
	)
	if opts.image {
		res = classify.Classify(strings.TrimSpace(string(raw)), true, pos)
	} else if res, err = classify.ClassifyBytes(raw, pos); err != nil {
		return err
	}

	if opts.add == "" {
		out, err := json.MarshalIndent(res.Node, "", "  ")
		if err != nil {
			return err
		}
		printKeyValue("Kind", StyleHighlight.Render(string(res.Kind)))
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	s, err := c.newSession(nil)
	if err != nil {
		return err
	}
	if _, err := s.OpenFile(cmd.Context(), opts.add); err != nil && !errors.Is(err, errors.ErrCodeFileNotFound) {
		return err
	}
	if err := s.AddNode(res.Node); err != nil {
		return err
	}
	if err := s.SaveFile(cmd.Context(), opts.add, nil); err != nil {
		return err
	}
	printSuccess("Added %s node %s", res.Node.Type, StyleValue.Render(res.Node.ID))
	printFile(opts.add)
	return nil
}
