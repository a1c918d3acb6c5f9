package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/internal/api"
	"github.com/matzehuels/mindmap/pkg/layout"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the maps over a JSON HTTP API",
		Long: `Serve the maps over a JSON HTTP API.

Requests are handled one at a time against a single editor session. The
listen address defaults to the [server] addr of the config file. Stop the
server with Ctrl-C; in-flight requests are allowed to finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			s, err := e.openSession(ctx, c.Logger, layout.PixelSizer(), "")
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.cfg.Server.Addr
			}

			printSuccess("Serving %s on http://%s", appName, addr)
			printKeyValue("Active map", s.Name())
			printKeyValue("Layout", s.Mode().String())
			printKeyValue("Store", e.cfg.Storage.Backend)
			printNewline()
			c.Logger.Info("listening", "addr", addr)

			if err := api.New(s, c.Logger).ListenAndServe(ctx, addr); err != nil {
				return err
			}
			c.Logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: [server] addr)")
	return cmd
}
