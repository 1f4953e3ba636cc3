// Package render converts markdown post content to sanitized HTML.
package render

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dmitrymomot/pressroom/pkg/sanitizer"
)

var (
	md       goldmark.Markdown
	initOnce sync.Once
)

func markdown() goldmark.Markdown {
	initOnce.Do(func() {
		md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Raw HTML in post content is allowed through goldmark and
			// cleaned by the sanitizer afterwards, so HTML-bodied posts
			// render the same as markdown ones.
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)
	})
	return md
}

// Markdown renders content to HTML and sanitizes the result.
func Markdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown().Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return sanitizer.SanitizeHTML(buf.String()), nil
}
