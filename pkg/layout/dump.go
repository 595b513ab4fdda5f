package layout

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable indented view of the tree to w, for debugging.
//
// Each child line shows the position tag, the collected style/size for that
// slot (after percolation), and either the leaf text or the recursed subtree:
//
//	top [size=0.3 style="color:red"]
//	    only
//	        leaf "A"
//	bottom [size=0.7]
//	    leaf "B"
func (n *Node) Dump(w io.Writer) {
	n.dump(w, 0)
}

func (n *Node) dump(w io.Writer, depth int) {
	indent := strings.Repeat(" ", depth*4)
	for i, c := range n.Children {
		fmt.Fprintf(w, "%s%s%s\n", indent, c.Tag, n.slotInfo(i))
		if c.Node.IsLeaf() {
			fmt.Fprintf(w, "%s    leaf %q\n", indent, c.Node.Source)
		} else {
			c.Node.dump(w, depth+1)
		}
	}
	if len(n.Children) == 0 {
		fmt.Fprintf(w, "%sleaf %q\n", indent, n.Source)
	}
}

// slotInfo formats the collected size/style for child i, or "" if neither is set.
func (n *Node) slotInfo(i int) string {
	var parts []string
	if i < len(n.Sizes) && n.Sizes[i] != SizeUnset {
		parts = append(parts, fmt.Sprintf("size=%g", n.Sizes[i]))
	}
	if i < len(n.Styles) && n.Styles[i] != "" {
		parts = append(parts, fmt.Sprintf("style=%q", n.Styles[i]))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " ") + "]"
}

// String returns the Dump output as a string.
func (n *Node) String() string {
	var b strings.Builder
	n.Dump(&b)
	return b.String()
}
