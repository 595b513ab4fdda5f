package pipeline

import (
	"fmt"
	"html"

	"github.com/paneforge/paneforge/pkg/errors"
)

// ErrorPage renders a minimal valid HTML shell describing a failed build, for
// callers that must always return a document (the preview server). The error
// message is HTML-escaped; the structured code is shown when available.
func ErrorPage(err error) string {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>paneforge: build failed</title>
</head>
<body>
    <h1>Build failed</h1>
    <p><code>%s</code></p>
    <p>%s</p>
</body>
</html>
`, code, html.EscapeString(errors.UserMessage(err)))
}
