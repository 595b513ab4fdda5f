// Package layout implements the recursive split-tree at the heart of paneforge.
//
// A layout is a binary tree of splits. Each interior node divides its area
// into two panes along an axis (left/right or top/bottom), or wraps a single
// child without splitting. Leaves carry the source text rendered inside the
// innermost panes.
//
// # Grammar
//
// The tree is parsed from a JSON value with a closed set of shapes:
//
//	"text"                             -> leaf
//	{"left": <spec>, "right": <spec>}  -> horizontal split
//	{"top": <spec>, "bottom": <spec>}  -> vertical split
//	{"only": <spec>}                   -> transparent wrapper (no split)
//
// Any object form may additionally carry a "style" key: a string of
// semicolon-separated CSS declarations. A "size:<fraction>" declaration is
// extracted into the node's pending size and removed from the retained style.
//
// # Percolation
//
// Style and size are authored on a child spec but rendered by the parent that
// owns the pane pair. Percolate moves each pending declaration up exactly one
// level, into the parent's per-child Styles/Sizes slots, and derives the
// sibling size so that the two fractions of a split always sum to 1.
//
// # Usage
//
//	root, err := layout.Parse(spec)
//	if err != nil {
//	    return err
//	}
//	root.Percolate()
package layout

import (
	"strconv"
	"strings"

	"github.com/paneforge/paneforge/pkg/errors"
)

// Tag identifies a child's position within its parent.
type Tag string

// Position tags, mirroring the spec keys of the input grammar.
const (
	TagLeft   Tag = "left"
	TagRight  Tag = "right"
	TagTop    Tag = "top"
	TagBottom Tag = "bottom"
	TagOnly   Tag = "only"
)

// SizeUnset marks an absent size slot. Valid sizes are fractions in [0, 1].
const SizeUnset = -1.0

// Child pairs a position tag with a subtree.
type Child struct {
	Tag  Tag
	Node *Node
}

// Node is one node of the split tree.
//
// A node is either a leaf (Source non-empty, no children) or an interior node
// (Source empty, one or two children per the tag pairing rules). Styles and
// Sizes run parallel to Children and are filled in by Percolate; before
// percolation they hold empty strings and SizeUnset.
type Node struct {
	Children []Child
	Source   string

	// Styles holds one CSS declaration string per child, collected bottom-up.
	Styles []string

	// Sizes holds one fractional size per child, collected bottom-up. After
	// percolation, if one size of a pair is known the sibling is forced to
	// the complement.
	Sizes []float64

	// pending declarations authored on this node's spec, waiting to be
	// absorbed by the parent during percolation.
	pendingStyle   string
	pendingSize    float64
	hasPendingSize bool
}

// IsLeaf reports whether the node carries source text and no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// PendingStyle returns the style declaration waiting to be absorbed by the
// parent, or "" if none. Exposed for diagnostics.
func (n *Node) PendingStyle() string {
	return n.pendingStyle
}

// PendingSize returns the size declaration waiting to be absorbed by the
// parent, and whether one exists. Exposed for diagnostics.
func (n *Node) PendingSize() (float64, bool) {
	return n.pendingSize, n.hasPendingSize
}

// Parse builds a layout tree from a decoded JSON value.
//
// It validates the spec once against the closed grammar above and returns a
// typed error for anything outside it: INVALID_STRUCTURE for an object that
// matches no split shape (including partial pairs like {"top": ...} with no
// "bottom"), INVALID_STYLE for a "style" value that is not a string.
func Parse(spec any) (*Node, error) {
	switch v := spec.(type) {
	case string:
		return &Node{Source: v}, nil
	case map[string]any:
		return parseObject(v)
	default:
		return nil, errors.New(errors.ErrCodeInvalidStructure, "layout spec must be a string or object, got %T", spec)
	}
}

// shapes lists the valid tag pairings, checked in spec order.
var shapes = [][]Tag{
	{TagLeft, TagRight},
	{TagTop, TagBottom},
	{TagOnly},
}

func parseObject(obj map[string]any) (*Node, error) {
	n := &Node{pendingSize: SizeUnset}

	if raw, ok := obj["style"]; ok {
		style, ok := raw.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidStyle, "style must be a string, got %T", raw)
		}
		retained, size, hasSize := extractSize(style)
		n.pendingStyle = retained
		if hasSize {
			n.pendingSize = size
			n.hasPendingSize = true
		}
	}

	shape := matchShape(obj)
	if shape == nil {
		return nil, errors.New(errors.ErrCodeInvalidStructure, "layout spec matches no split shape (want left/right, top/bottom, or only): keys %v", keysOf(obj))
	}

	for _, tag := range shape {
		child, err := Parse(obj[string(tag)])
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, Child{Tag: tag, Node: child})
	}

	n.Styles = make([]string, len(n.Children))
	n.Sizes = make([]float64, len(n.Children))
	for i := range n.Sizes {
		n.Sizes[i] = SizeUnset
	}
	return n, nil
}

// matchShape returns the first tag pairing fully present in obj, or nil.
// A partial pairing (one tag of a pair present) matches nothing.
func matchShape(obj map[string]any) []Tag {
	for _, shape := range shapes {
		complete := true
		for _, tag := range shape {
			if _, ok := obj[string(tag)]; !ok {
				complete = false
				break
			}
		}
		if complete {
			return shape
		}
	}
	return nil
}

func keysOf(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	return keys
}

// extractSize splits a style string into retained declarations and the
// declared pane size. Only the last "size:<fraction>" declaration is removed
// and used; earlier ones are retained verbatim.
func extractSize(style string) (retained string, size float64, ok bool) {
	decls := strings.Split(style, ";")

	last := -1
	var lastVal float64
	for i, decl := range decls {
		key, val, found := strings.Cut(decl, ":")
		if !found || strings.TrimSpace(key) != "size" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			continue // unparseable size is retained as an ordinary declaration
		}
		last = i
		lastVal = f
	}
	if last < 0 {
		return style, 0, false
	}

	kept := make([]string, 0, len(decls)-1)
	for i, decl := range decls {
		if i == last {
			continue
		}
		kept = append(kept, decl)
	}
	return strings.Join(kept, ";"), lastVal, true
}

// Percolate propagates pending style/size declarations upward, post-order.
//
// Each child's pending declarations are absorbed into this node's Styles and
// Sizes at the child's index and cleared from the child. Afterwards, if any
// size of a two-way split is known, the sibling is derived as the complement:
// the second size is always recomputed as 1 - Sizes[0], even when the input
// declared an inconsistent pair.
func (n *Node) Percolate() {
	for i, c := range n.Children {
		c.Node.Percolate()

		if c.Node.pendingStyle != "" {
			n.Styles[i] = c.Node.pendingStyle
			c.Node.pendingStyle = ""
		}
		if c.Node.hasPendingSize {
			n.Sizes[i] = c.Node.pendingSize
			c.Node.hasPendingSize = false
			c.Node.pendingSize = SizeUnset
		}
	}

	if len(n.Children) != 2 {
		return
	}
	switch {
	case n.Sizes[0] != SizeUnset:
		n.Sizes[1] = 1 - n.Sizes[0]
	case n.Sizes[1] != SizeUnset:
		n.Sizes[0] = 1 - n.Sizes[1]
	}
}

// PaneCount returns the number of panes the tree will emit: children with a
// position tag other than "only", counted over the whole tree.
func (n *Node) PaneCount() int {
	count := 0
	for _, c := range n.Children {
		if c.Tag != TagOnly {
			count++
		}
		count += c.Node.PaneCount()
	}
	return count
}
