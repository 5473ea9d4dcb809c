package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/moodboard/internal/server"
)

// serveCommand creates the "serve" command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve classification, link previews, canvas validation and render
previews over HTTP. The listen address and CORS origins come from the
[server] configuration section unless overridden.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			meta, closeStore, err := c.newMetadata(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer closeStore()

			logger := loggerFromContext(cmd.Context())
			srv := server.New(meta,
				server.WithRenderer(c.newRenderer(noCache)),
				server.WithCORSOrigins(cfg.Server.CORSOrigins...),
				server.WithLogger(logger),
			)
			printInfo("Listening on %s", StyleLink.Render(addr))
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the persistent preview and render caches")

	return cmd
}
