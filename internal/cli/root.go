package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/moodboard/pkg/buildinfo"
	"github.com/matzehuels/moodboard/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Moodboard edits infinite-canvas mood boards",
		Long:         `Moodboard works with canvas files of notes, images, links, videos, sketches and groups: create, validate, preview and serve them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.metadataCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.docCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
