package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/paneforge/paneforge/pkg/layout"
)

// Context accumulates the output of one emission pass: pane markup lines, CSS
// rules, and size-map entries. A fresh Context is created per emission, so
// concurrent emissions never interfere.
type Context struct {
	HTML  []string // indented markup lines, joined and trimmed at substitution
	CSS   []string // one "#winN {decls}" rule per styled pane
	Sizes []string // one `"winN":fraction` entry per sized pane

	panes int // last allocated pane id; ids start at 1
}

// Panes returns the number of pane ids allocated so far.
func (c *Context) Panes() int {
	return c.panes
}

// nextPane allocates the next globally-increasing pane id.
func (c *Context) nextPane() int {
	c.panes++
	return c.panes
}

// SizeMap returns the comma-joined size entries wrapped as an object literal,
// e.g. {"win1":0.3,"win2":0.7}. An empty map renders as {}.
func (c *Context) SizeMap() string {
	return "{" + strings.Join(c.Sizes, ",") + "}"
}

// Emitter walks a percolated layout tree and produces the document fragments.
type Emitter struct {
	Vars   Vars
	Logger *log.Logger
}

// NewEmitter creates an emitter with the given substitution table. A nil
// logger defaults to the package-level default.
func NewEmitter(vars Vars, logger *log.Logger) *Emitter {
	if logger == nil {
		logger = log.Default()
	}
	return &Emitter{Vars: vars, Logger: logger}
}

// Emit renders the tree into a fresh Context, pre-order.
//
// Per child: children tagged other than "only" allocate a pane id and emit an
// opening div (class "resizable-<tag>", id "winN") indented depth*4+12 spaces,
// plus a CSS rule and a size-map entry when the parent collected a style or
// size for that slot. Leaf children emit their placeholder-formatted source as
// one indented line; interior children recurse one level deeper. "only"
// children are transparent: no div, no pane id, no size or style output.
func (e *Emitter) Emit(root *layout.Node) *Context {
	ctx := &Context{}
	e.emitNode(ctx, root, 0)
	return ctx
}

func (e *Emitter) emitNode(ctx *Context, n *layout.Node, depth int) {
	indent := strings.Repeat(" ", depth*4+12)

	for i, c := range n.Children {
		pane := c.Tag != layout.TagOnly
		if pane {
			id := ctx.nextPane()
			ctx.HTML = append(ctx.HTML, fmt.Sprintf("%s<div class=%q id=\"win%d\">", indent, "resizable-"+string(c.Tag), id))
			if size := n.Sizes[i]; size != layout.SizeUnset {
				ctx.Sizes = append(ctx.Sizes, fmt.Sprintf("\"win%d\":%s", id, strconv.FormatFloat(size, 'g', -1, 64)))
			}
			if style := n.Styles[i]; style != "" {
				ctx.CSS = append(ctx.CSS, fmt.Sprintf("#win%d {%s}", id, style))
			}
		}

		if c.Node.IsLeaf() {
			ctx.HTML = append(ctx.HTML, indent+"    "+e.formatSource(c.Node.Source))
		} else {
			e.emitNode(ctx, c.Node, depth+1)
		}

		if pane {
			ctx.HTML = append(ctx.HTML, indent+"</div>")
		}
	}
}

// formatSource runs leaf text through the placeholder formatter, warning when
// the substitution cap truncates processing.
func (e *Emitter) formatSource(source string) string {
	formatted, truncated := Format(source, e.Vars)
	if truncated {
		e.Logger.Warn("placeholder substitution hit iteration cap; output left partially processed",
			"cap", MaxSubstitutions)
	}
	return formatted
}
