// Package render turns a percolated layout tree into the pieces of the final
// HTML document: the pane markup, the per-pane CSS sheet, and the size map
// consumed by the client-side resize script.
//
// Emission threads an explicit [Context] (pane counter plus output buffers)
// through the traversal, so concurrent emissions never share state. Leaf
// source text passes through the placeholder formatter, which substitutes
// {NAME}-style placeholders from a [Vars] table.
package render

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Vars maps placeholder names to their replacement text.
type Vars map[string]string

// BaseVars returns the builtin substitution table: URI carries the
// slash-normalized, percent-encoded form of path, and BACKSLASH a literal
// backslash for leaf text that needs to spell one inside a placeholder-bearing
// line.
func BaseVars(path string) Vars {
	return Vars{
		"URI":       pathToURI(path),
		"BACKSLASH": `\`,
	}
}

// Merge returns a copy of v with the entries of extra added. Entries in extra
// win on conflict; builtin names can therefore be overridden per project.
func (v Vars) Merge(extra map[string]string) Vars {
	out := make(Vars, len(v)+len(extra))
	for k, val := range v {
		out[k] = val
	}
	for k, val := range extra {
		out[k] = val
	}
	return out
}

// pathToURI converts a filesystem path into a form usable inside href/src
// attributes: forward slashes and percent-encoded segments.
func pathToURI(path string) string {
	slashed := filepath.ToSlash(path)
	segs := strings.Split(slashed, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// MaxSubstitutions caps the number of placeholder matches processed in one
// Format call. Text with more matches is returned partially processed, with
// the remainder copied verbatim.
const MaxSubstitutions = 100

// Format substitutes {NAME} placeholders in text using the vars table.
//
// A placeholder is a '{', a run of characters containing neither ')' nor '}',
// and the first following '}'. A '{' whose run hits a ')' first is not a
// placeholder and is copied through. Known names are replaced and scanning
// resumes at the start of the replacement, so a replacement value is itself
// subject to substitution. Unknown names are left in place verbatim, with
// scanning advancing one character past the '{'.
//
// The scan is a single bounded left-to-right pass and always terminates. It
// stops early after [MaxSubstitutions] placeholder matches; truncated reports
// whether that cap was hit, in which case the rest of text is appended
// unprocessed. Callers should log a warning when truncated is true.
func Format(text string, vars Vars) (formatted string, truncated bool) {
	var b strings.Builder
	b.Grow(len(text))

	matches := 0
	for len(text) > 0 {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			b.WriteString(text)
			break
		}

		// Find the first '}' after the '{', giving up at a ')'.
		end := -1
		for j := open + 1; j < len(text); j++ {
			if text[j] == ')' {
				break
			}
			if text[j] == '}' {
				end = j
				break
			}
		}
		if end < 0 {
			// Not a placeholder; copy past the '{' and keep scanning.
			b.WriteString(text[:open+1])
			text = text[open+1:]
			continue
		}

		if matches >= MaxSubstitutions {
			b.WriteString(text)
			return b.String(), true
		}
		matches++

		name := text[open+1 : end]
		if value, ok := vars[name]; ok {
			// Resume at the start of the replacement: the value is rescanned.
			b.WriteString(text[:open])
			text = value + text[end+1:]
		} else {
			// Unknown name stays verbatim; advance one character past '{'.
			b.WriteString(text[:open+1])
			text = text[open+1:]
		}
	}

	return b.String(), false
}
