package layout

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/paneforge/paneforge/pkg/errors"
)

// decode parses a JSON literal the way the pipeline does.
func decode(t *testing.T, src string) any {
	t.Helper()
	var spec any
	if err := json.Unmarshal([]byte(src), &spec); err != nil {
		t.Fatalf("bad test JSON: %v", err)
	}
	return spec
}

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	n, err := Parse(decode(t, src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return n
}

func TestParseLeaf(t *testing.T) {
	n := mustParse(t, `"hello"`)
	if !n.IsLeaf() {
		t.Fatal("string spec should parse to a leaf")
	}
	if n.Source != "hello" {
		t.Errorf("Source = %q, want %q", n.Source, "hello")
	}
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		tags []Tag
	}{
		{"left-right", `{"left":"A","right":"B"}`, []Tag{TagLeft, TagRight}},
		{"top-bottom", `{"top":"A","bottom":"B"}`, []Tag{TagTop, TagBottom}},
		{"only", `{"only":"A"}`, []Tag{TagOnly}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustParse(t, tt.src)
			if len(n.Children) != len(tt.tags) {
				t.Fatalf("children = %d, want %d", len(n.Children), len(tt.tags))
			}
			for i, tag := range tt.tags {
				if n.Children[i].Tag != tag {
					t.Errorf("child %d tag = %s, want %s", i, n.Children[i].Tag, tag)
				}
			}
			if len(n.Styles) != len(n.Children) || len(n.Sizes) != len(n.Children) {
				t.Error("Styles/Sizes should run parallel to Children")
			}
			for _, s := range n.Sizes {
				if s != SizeUnset {
					t.Errorf("size before percolation = %v, want unset", s)
				}
			}
		})
	}
}

func TestParseInvalidStructure(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"partial pair top", `{"top":"A"}`},
		{"partial pair left", `{"left":"A"}`},
		{"mixed partial", `{"left":"A","bottom":"B"}`},
		{"empty object", `{}`},
		{"style only", `{"style":"color:red"}`},
		{"number", `42`},
		{"array", `["A","B"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(decode(t, tt.src))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, errors.ErrCodeInvalidStructure) {
				t.Errorf("error code = %s, want INVALID_STRUCTURE", errors.GetCode(err))
			}
		})
	}
}

func TestParseStyleMustBeString(t *testing.T) {
	_, err := Parse(decode(t, `{"only":"A","style":42}`))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("error code = %s, want INVALID_STYLE", errors.GetCode(err))
	}
}

func TestParseStructureErrorInNestedChild(t *testing.T) {
	_, err := Parse(decode(t, `{"left":{"top":"A"},"right":"B"}`))
	if !errors.Is(err, errors.ErrCodeInvalidStructure) {
		t.Errorf("nested structure error should propagate, got %v", err)
	}
}

func TestExtractSize(t *testing.T) {
	tests := []struct {
		name     string
		style    string
		retained string
		size     float64
		ok       bool
	}{
		{"no size", "color:red", "color:red", 0, false},
		{"size only", "size:0.3", "", 0.3, true},
		{"size with style", "color:red;size:0.3", "color:red", 0.3, true},
		{"size first", "size:0.3;color:red", "color:red", 0.3, true},
		// Duplicate size: only the last occurrence is removed and used;
		// the earlier declaration is retained verbatim.
		{"duplicate size", "size:0.2;color:red;size:0.3", "size:0.2;color:red", 0.3, true},
		{"unparseable size retained", "size:wide;color:red", "size:wide;color:red", 0, false},
		{"spaced declaration", " size : 0.4 ;color:red", "color:red", 0.4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retained, size, ok := extractSize(tt.style)
			if retained != tt.retained {
				t.Errorf("retained = %q, want %q", retained, tt.retained)
			}
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && math.Abs(size-tt.size) > 1e-9 {
				t.Errorf("size = %v, want %v", size, tt.size)
			}
		})
	}
}

func TestPercolateCollectsStyleAndSize(t *testing.T) {
	n := mustParse(t, `{"top":{"only":"A","style":"color:red;size:0.3"},"bottom":"B"}`)
	n.Percolate()

	if got := n.Styles[0]; got != "color:red" {
		t.Errorf("Styles[0] = %q, want %q (size declaration stripped)", got, "color:red")
	}
	if math.Abs(n.Sizes[0]-0.3) > 1e-9 {
		t.Errorf("Sizes[0] = %v, want 0.3", n.Sizes[0])
	}
	if math.Abs(n.Sizes[1]-0.7) > 1e-9 {
		t.Errorf("Sizes[1] = %v, want 0.7 (derived complement)", n.Sizes[1])
	}
	if math.Abs(n.Sizes[0]+n.Sizes[1]-1) > 1e-9 {
		t.Error("split sizes must sum to 1")
	}

	// Pending declarations are cleared from the child once absorbed.
	top := n.Children[0].Node
	if top.PendingStyle() != "" {
		t.Error("pending style should be cleared after percolation")
	}
	if _, has := top.PendingSize(); has {
		t.Error("pending size should be cleared after percolation")
	}
}

func TestPercolateOverwritesDeclaredSecondSize(t *testing.T) {
	// Both children declare a size; the second is never trusted and is
	// recomputed as the complement of the first.
	n := mustParse(t, `{"left":{"only":"A","style":"size:0.3"},"right":{"only":"B","style":"size:0.5"}}`)
	n.Percolate()

	if math.Abs(n.Sizes[0]-0.3) > 1e-9 {
		t.Errorf("Sizes[0] = %v, want 0.3", n.Sizes[0])
	}
	if math.Abs(n.Sizes[1]-0.7) > 1e-9 {
		t.Errorf("Sizes[1] = %v, want 0.7 (declared 0.5 overwritten)", n.Sizes[1])
	}
}

func TestPercolateDerivesFirstFromSecond(t *testing.T) {
	n := mustParse(t, `{"left":"A","right":{"only":"B","style":"size:0.25"}}`)
	n.Percolate()

	if math.Abs(n.Sizes[1]-0.25) > 1e-9 {
		t.Errorf("Sizes[1] = %v, want 0.25", n.Sizes[1])
	}
	if math.Abs(n.Sizes[0]-0.75) > 1e-9 {
		t.Errorf("Sizes[0] = %v, want 0.75 (derived complement)", n.Sizes[0])
	}
}

func TestPercolateNoSizes(t *testing.T) {
	n := mustParse(t, `{"left":"A","right":"B"}`)
	n.Percolate()

	for i, s := range n.Sizes {
		if s != SizeUnset {
			t.Errorf("Sizes[%d] = %v, want unset when nothing was declared", i, s)
		}
	}
}

func TestPercolateDeepTree(t *testing.T) {
	n := mustParse(t, `{
		"left": {"top":{"only":"A","style":"size:0.2"}, "bottom":"B", "style":"size:0.6"},
		"right": "C"
	}`)
	n.Percolate()

	// The left child's own style percolates to the root.
	if math.Abs(n.Sizes[0]-0.6) > 1e-9 {
		t.Errorf("root Sizes[0] = %v, want 0.6", n.Sizes[0])
	}
	if math.Abs(n.Sizes[1]-0.4) > 1e-9 {
		t.Errorf("root Sizes[1] = %v, want 0.4", n.Sizes[1])
	}

	// The grandchild's style percolates to the left split.
	left := n.Children[0].Node
	if math.Abs(left.Sizes[0]-0.2) > 1e-9 {
		t.Errorf("left Sizes[0] = %v, want 0.2", left.Sizes[0])
	}
	if math.Abs(left.Sizes[1]-0.8) > 1e-9 {
		t.Errorf("left Sizes[1] = %v, want 0.8", left.Sizes[1])
	}
}

func TestPaneCount(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"leaf", `"A"`, 0},
		{"pair", `{"left":"A","right":"B"}`, 2},
		{"only is transparent", `{"only":"A"}`, 0},
		{"nested", `{"left":{"top":"A","bottom":"B"},"right":{"only":"C"}}`, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustParse(t, tt.src).PaneCount(); got != tt.want {
				t.Errorf("PaneCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
