package layout

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a layout tree to Graphviz DOT format for visual inspection.
// Split nodes are drawn as boxes labelled with their axis, transparent
// wrappers with dashed outlines, and leaves as ellipses with their (possibly
// truncated) source text. Edges are labelled with the child's position tag
// and, when percolation has run, the collected size for that slot.
//
// The resulting DOT string can be rendered in-process with [RenderSVG].
func ToDOT(root *Node) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	seq := 0
	writeDOTNode(&buf, root, &seq)

	buf.WriteString("}\n")
	return buf.String()
}

// writeDOTNode emits the node and its subtree, returning the node's DOT id.
func writeDOTNode(buf *bytes.Buffer, n *Node, seq *int) string {
	id := fmt.Sprintf("n%d", *seq)
	*seq++

	fmt.Fprintf(buf, "  %s [%s];\n", id, strings.Join(dotAttrs(n), ", "))
	for i, c := range n.Children {
		childID := writeDOTNode(buf, c.Node, seq)
		label := string(c.Tag)
		if i < len(n.Sizes) && n.Sizes[i] != SizeUnset {
			label = fmt.Sprintf("%s (%g)", c.Tag, n.Sizes[i])
		}
		fmt.Fprintf(buf, "  %s -> %s [label=%q];\n", id, childID, label)
	}
	return id
}

func dotAttrs(n *Node) []string {
	switch {
	case n.IsLeaf():
		return []string{fmt.Sprintf("label=%q", truncate(n.Source, 24)), "shape=ellipse"}
	case len(n.Children) == 1:
		return []string{`label="wrap"`, `style="rounded,filled,dashed"`, "fillcolor=lightgrey"}
	case n.Children[0].Tag == TagLeft:
		return []string{`label="split left|right"`}
	default:
		return []string{`label="split top|bottom"`}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
