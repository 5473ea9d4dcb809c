package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
	cio "github.com/matzehuels/moodboard/pkg/io"
	"github.com/matzehuels/moodboard/pkg/session"
)

// newCommand creates the "new" command, which writes a starter canvas.
func (c *CLI) newCommand() *cobra.Command {
	var empty, force bool

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create a canvas file",
		Long:  `Create a canvas file holding the welcome board, or an empty board with --empty.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			path := cfg.Export.Filename
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			}

			doc := canvas.New()
			if !empty {
				if doc, err = cio.Welcome(); err != nil {
					return err
				}
			}
			s := session.New(session.WithDocument(doc), session.WithLogger(c.Logger))
			if err := s.SaveFile(cmd.Context(), path, nil); err != nil {
				return err
			}

			printSuccess("Created canvas")
			printFile(path)
			printStats(doc.NodeCount(), doc.EdgeCount(), 0)
			printNextStep("Browse it", fmt.Sprintf("%s inspect %s", appName, path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&empty, "empty", false, "start from an empty board")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}
