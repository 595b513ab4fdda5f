package render

import (
	"fmt"
	"strings"

	"github.com/paneforge/paneforge/pkg/errors"
)

// Template placeholder names. Each must appear exactly once in the page
// template; Substitute validates presence before replacing.
const (
	PlaceholderStyles   = "STYLES"
	PlaceholderContents = "CONTENTS"
	PlaceholderCSS      = "CSS"
	PlaceholderSizes    = "SIZES"
	PlaceholderScripts  = "SCRIPTS"
)

// placeholders lists all required template placeholders.
var placeholders = []string{
	PlaceholderStyles,
	PlaceholderContents,
	PlaceholderCSS,
	PlaceholderSizes,
	PlaceholderScripts,
}

// Assets names the external files linked into the compiled document.
type Assets struct {
	Stylesheets []string
	Scripts     []string
}

// Substitute injects the emission results and asset references into the page
// template:
//
//   - STYLES: one <link> tag per stylesheet
//   - CONTENTS: the joined, trimmed pane markup
//   - CSS: the joined, trimmed per-pane rules
//   - SIZES: the size map as an object literal
//   - SCRIPTS: one <script> tag per script
//
// A template missing any placeholder yields an INVALID_TEMPLATE error.
func Substitute(template string, ctx *Context, assets Assets) (string, error) {
	for _, p := range placeholders {
		if !strings.Contains(template, p) {
			return "", errors.New(errors.ErrCodeInvalidTemplate, "template is missing the %s placeholder", p)
		}
	}

	// A single-pass Replacer never rescans substituted text, so emitted
	// markup containing a placeholder name verbatim stays untouched.
	r := strings.NewReplacer(
		PlaceholderStyles, linkTags(assets.Stylesheets),
		PlaceholderContents, strings.TrimSpace(strings.Join(ctx.HTML, "\n")),
		PlaceholderCSS, strings.TrimSpace(strings.Join(ctx.CSS, "\n")),
		PlaceholderSizes, ctx.SizeMap(),
		PlaceholderScripts, scriptTags(assets.Scripts),
	)
	return r.Replace(template), nil
}

func linkTags(hrefs []string) string {
	tags := make([]string, len(hrefs))
	for i, href := range hrefs {
		tags[i] = fmt.Sprintf("<link rel=\"stylesheet\" href=%q>", pathToURI(href))
	}
	return strings.Join(tags, "\n")
}

func scriptTags(srcs []string) string {
	tags := make([]string, len(srcs))
	for i, src := range srcs {
		tags[i] = fmt.Sprintf("<script src=%q></script>", pathToURI(src))
	}
	return strings.Join(tags, "\n")
}
