// Package sanitizer strips dangerous markup from untrusted HTML.
//
// Feed entries arrive with arbitrary markup; StripTags reduces them to
// plain text for excerpts, SanitizeHTML keeps basic formatting for post
// bodies while removing scripts, event handlers, and javascript: URLs.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"h1", "h2", "h3", "h4",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"img",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.AllowAttrs("src", "alt").OnElements("img")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// SanitizeHTML keeps safe formatting tags and drops everything else.
func SanitizeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}

// StripTags removes all HTML, returning plain text.
func StripTags(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}
