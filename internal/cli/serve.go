package cli

import (
	"github.com/spf13/cobra"

	"github.com/paneforge/paneforge/internal/server"
	"github.com/paneforge/paneforge/pkg/config"
)

// serveCommand creates the serve command: a preview server that recompiles
// the document on every request.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		layoutFlag string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the compiled document over HTTP",
		Long: `Preview the compiled document over HTTP.

The server rebuilds the document per request, so template and layout edits
show up on refresh; unchanged inputs are served from the document cache.
Build failures return a minimal error page instead of a broken document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}

			layoutPath := layoutFlag
			if layoutPath == "" {
				layoutPath = cfg.Resolve(cfg.Layouts[0])
			}

			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Serving %s on %s", layoutPath, addr)
			srv := server.New(runner, c.buildOptions(cfg, layoutPath), c.Logger)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultFilename, "project configuration file")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default: from config, \":8080\")")
	cmd.Flags().StringVarP(&layoutFlag, "layout", "l", "", "layout file (default: first configured layout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
