package render

import (
	"fmt"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	vars := Vars{
		"NAME": "world",
		"URI":  "a/b.json",
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"no placeholders", "plain text", "plain text"},
		{"known name", "hello {NAME}", "hello world"},
		{"two known names", "{NAME} at {URI}", "world at a/b.json"},
		{"unknown name verbatim", "keep {FOO} as is", "keep {FOO} as is"},
		{"mixed known and unknown", "{FOO} {NAME}", "{FOO} world"},
		{"unclosed brace", "dangling { here", "dangling { here"},
		{"empty name unknown", "{}", "{}"},
		// A ')' inside the run disqualifies the '{' as a placeholder opener.
		{"paren blocks match", "f({NAME) and more}", "f({NAME) and more}"},
		{"paren before brace is fine", "f() {NAME}", "f() world"},
		{"brace at end", "tail {", "tail {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := Format(tt.text, vars)
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.text, got, tt.want)
			}
			if truncated {
				t.Errorf("Format(%q) reported truncation", tt.text)
			}
		})
	}
}

func TestFormatRescansReplacement(t *testing.T) {
	vars := Vars{
		"OUTER": "see {INNER}",
		"INNER": "done",
	}
	got, truncated := Format("{OUTER}", vars)
	if got != "see done" {
		t.Errorf("Format = %q, want %q (replacement must be rescanned)", got, "see done")
	}
	if truncated {
		t.Error("unexpected truncation")
	}
}

func TestFormatIdempotentOnUnknowns(t *testing.T) {
	text := "left {FOO} right {BAR}"
	once, _ := Format(text, nil)
	twice, _ := Format(once, nil)
	if once != twice {
		t.Errorf("second pass changed output: %q -> %q", once, twice)
	}
}

func TestFormatCapTerminatesSelfReference(t *testing.T) {
	// A replacement that reproduces its own placeholder would loop forever
	// without the cap.
	vars := Vars{"LOOP": "{LOOP}"}
	got, truncated := Format("{LOOP}", vars)
	if !truncated {
		t.Fatal("self-referential replacement should hit the substitution cap")
	}
	if got != "{LOOP}" {
		t.Errorf("Format = %q, want %q", got, "{LOOP}")
	}
}

func TestFormatCapLeavesRemainderVerbatim(t *testing.T) {
	vars := Vars{"X": "y"}
	text := strings.Repeat("{X}", MaxSubstitutions+50)

	got, truncated := Format(text, vars)
	if !truncated {
		t.Fatalf("%d placeholders should exceed the cap of %d", MaxSubstitutions+50, MaxSubstitutions)
	}
	want := strings.Repeat("y", MaxSubstitutions) + strings.Repeat("{X}", 50)
	if got != want {
		t.Errorf("Format processed %d leading matches, want %d verbatim trailing placeholders",
			strings.Count(got, "y"), 50)
	}
}

func TestFormatCapOnUnresolvablePlaceholders(t *testing.T) {
	var b strings.Builder
	for i := 0; i < MaxSubstitutions+50; i++ {
		fmt.Fprintf(&b, "{MISSING%d}", i)
	}
	text := b.String()

	got, truncated := Format(text, nil)
	if !truncated {
		t.Fatal("150 unresolvable placeholders should hit the cap")
	}
	// Unknown names stay verbatim whether scanned or copied after the cap.
	if got != text {
		t.Errorf("output changed: %q", got)
	}
}

func TestFormatUnderCapNotTruncated(t *testing.T) {
	vars := Vars{"X": "y"}
	got, truncated := Format(strings.Repeat("{X}", MaxSubstitutions), vars)
	if truncated {
		t.Error("exactly MaxSubstitutions matches should not report truncation")
	}
	if got != strings.Repeat("y", MaxSubstitutions) {
		t.Errorf("got %q", got)
	}
}

func TestBaseVars(t *testing.T) {
	vars := BaseVars("my dir/layout.json")

	if got := vars["URI"]; got != "my%20dir/layout.json" {
		t.Errorf("URI = %q, want percent-encoded segments", got)
	}
	if got := vars["BACKSLASH"]; got != `\` {
		t.Errorf("BACKSLASH = %q, want a literal backslash", got)
	}
}

func TestVarsMergeOverrides(t *testing.T) {
	base := BaseVars("a.json")
	merged := base.Merge(map[string]string{"URI": "custom", "EXTRA": "1"})

	if merged["URI"] != "custom" {
		t.Errorf("URI = %q, extra entries should win on conflict", merged["URI"])
	}
	if merged["EXTRA"] != "1" {
		t.Error("extra entry missing after merge")
	}
	if base["URI"] == "custom" {
		t.Error("Merge must not mutate the receiver")
	}
}
