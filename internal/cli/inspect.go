package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/paneforge/paneforge/pkg/errors"
	"github.com/paneforge/paneforge/pkg/layout"
)

// inspectCommand creates the inspect command: a diagnostic dump of the
// parsed layout tree.
func (c *CLI) inspectCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Print an indented dump of the parsed layout tree",
		Long: `Print an indented dump of the parsed layout tree.

By default the tree is shown after percolation, with the collected size and
style for each pane slot. Use --raw to dump the tree as parsed, before any
size/style propagation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "dump the tree before percolation")
	return cmd
}

func runInspect(ctx context.Context, path string, raw bool) error {
	logger := loggerFromContext(ctx)

	root, err := loadTree(path)
	if err != nil {
		return err
	}
	logger.Debug("parsed layout", "path", path, "panes", root.PaneCount())
	if !raw {
		root.Percolate()
	}
	root.Dump(os.Stdout)
	return nil
}

// loadTree reads and parses a layout spec file.
func loadTree(path string) (*layout.Node, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIORead, err, "read layout %s", path)
	}

	var spec any
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout spec is not valid JSON")
	}
	return layout.Parse(spec)
}
