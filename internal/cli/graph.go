package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paneforge/paneforge/pkg/layout"
)

// graphCommand creates the graph command for exporting the layout tree as
// Graphviz DOT or rendered SVG.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "graph [layout.json]",
		Short: "Export the layout tree as Graphviz DOT or SVG",
		Long: `Export the layout tree as Graphviz DOT or SVG.

The tree is shown after percolation: edges carry the position tag and the
collected pane size for that slot. SVG rendering happens in-process via
Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), dot")
	return cmd
}

func (c *CLI) runGraph(input, output, format string) error {
	if format != "svg" && format != "dot" {
		return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", format)
	}

	root, err := loadTree(input)
	if err != nil {
		return err
	}
	root.Percolate()

	dot := layout.ToDOT(root)

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = layout.RenderSVG(dot)
		if err != nil {
			return err
		}
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}

	printSuccess("Exported layout tree")
	printFile(output)
	return nil
}
