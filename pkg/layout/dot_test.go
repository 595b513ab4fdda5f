package layout

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	n := mustParse(t, `{"top":{"only":"A","style":"size:0.3"},"bottom":"a very long source line that will not fit"}`)
	n.Percolate()

	dot := ToDOT(n)

	checks := []string{
		"digraph layout {",
		`label="split top|bottom"`,
		`label="wrap"`,
		`label="A"`,
		`[label="top (0.3)"]`,
		`[label="bottom (0.7)"]`,
	}
	for _, want := range checks {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	// Long leaf text is truncated with an ellipsis.
	if !strings.Contains(dot, "…") {
		t.Errorf("long leaf source should be truncated:\n%s", dot)
	}
}

func TestToDOTUnsizedEdges(t *testing.T) {
	n := mustParse(t, `{"left":"A","right":"B"}`)
	n.Percolate()

	dot := ToDOT(n)
	if !strings.Contains(dot, `[label="left"]`) || !strings.Contains(dot, `[label="right"]`) {
		t.Errorf("edges without sizes should carry bare tag labels:\n%s", dot)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 24, "short"},
		{"exactly-four", 12, "exactly-four"},
		{"0123456789", 5, "0123…"},
		{"héllo wörld zürich here", 10, "héllo wör…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
