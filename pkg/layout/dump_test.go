package layout

import (
	"strings"
	"testing"
)

func TestDump(t *testing.T) {
	n := mustParse(t, `{"top":{"only":"A","style":"color:red;size:0.3"},"bottom":"B"}`)
	n.Percolate()

	got := n.String()
	want := strings.Join([]string{
		`top [size=0.3 style="color:red"]`,
		`    only`,
		`        leaf "A"`,
		`bottom [size=0.7]`,
		`    leaf "B"`,
		``,
	}, "\n")

	if got != want {
		t.Errorf("Dump output:\n%s\nwant:\n%s", got, want)
	}
}

func TestDumpLeafRoot(t *testing.T) {
	n := mustParse(t, `"solo"`)
	if got := n.String(); got != "leaf \"solo\"\n" {
		t.Errorf("Dump of leaf root = %q", got)
	}
}

func TestDumpBeforePercolation(t *testing.T) {
	n := mustParse(t, `{"left":{"only":"A","style":"size:0.3"},"right":"B"}`)

	got := n.String()
	if strings.Contains(got, "size=") {
		t.Errorf("raw dump should show no collected sizes:\n%s", got)
	}
	if !strings.Contains(got, "left\n") || !strings.Contains(got, "right\n") {
		t.Errorf("tags missing from dump:\n%s", got)
	}
}
