package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/paneforge/paneforge/pkg/config"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	configPath string // project config file
	layout     string // layout file override (skips the picker)
	output     string // output file override
	noCache    bool   // disable the document cache
	refresh    bool   // rebuild even on a cache hit
}

// buildCommand creates the build command for compiling documents.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{configPath: config.DefaultFilename}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the layout and template into an HTML document",
		Long: `Compile the layout and template into an HTML document.

The build command reads the project configuration, parses the JSON layout
spec into a split tree, percolates pane sizes and styles, and substitutes
the emitted markup, CSS, and size map into the page template.

When the configuration lists several layouts and no --layout is given, an
interactive picker is shown. Results are cached locally; use --refresh to
force a rebuild or --no-cache to disable caching entirely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", opts.configPath, "project configuration file")
	cmd.Flags().StringVarP(&opts.layout, "layout", "l", "", "layout file (default: from config, picker when several)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even when cached")

	return cmd
}

// runBuild loads the project, resolves the layout choice, and compiles.
func (c *CLI) runBuild(ctx context.Context, opts *buildOpts) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	layoutPath, err := c.chooseLayout(cfg, opts.layout)
	if err != nil {
		return err
	}
	if layoutPath == "" {
		printDetail("No layout selected")
		return nil
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	buildOpts := c.buildOptions(cfg, layoutPath)
	buildOpts.Refresh = opts.refresh
	if opts.output != "" {
		buildOpts.Output = opts.output
	}

	p := newProgress(c.Logger)
	result, err := runner.Build(ctx, buildOpts)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Compiled %s", layoutPath))

	printSuccess("Document compiled")
	printStats(result.Panes, result.CacheInfo.DocumentHit)
	if buildOpts.Output != "" {
		printFile(buildOpts.Output)
	}
	printNextStep("Preview it", appName+" serve")
	return nil
}

// chooseLayout resolves which layout file to build: the explicit flag wins,
// a single configured layout is used directly, and several configured
// layouts bring up the interactive picker. Returns "" when the picker was
// dismissed without a selection.
func (c *CLI) chooseLayout(cfg *config.Config, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	layouts := cfg.ResolveAll(cfg.Layouts)
	if len(layouts) == 1 {
		return layouts[0], nil
	}

	m := NewLayoutListModel(layouts)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	fm, ok := final.(LayoutListModel)
	if !ok || fm.Selected == "" {
		return "", nil
	}
	return fm.Selected, nil
}
