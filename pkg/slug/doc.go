// Package slug generates URL-safe slugs from arbitrary strings.
//
// Make normalizes text into a web-friendly identifier: it lowercases the
// input, folds Turkish diacritics to ASCII, collapses everything outside
// [a-z0-9] into single hyphens, and caps the result at 80 characters.
//
//	s := slug.Make("React ile Modern Web Geliştirme")
//	// Output: "react-ile-modern-web-gelistirme"
//
// Inputs with no convertible characters fall back to "post":
//
//	s = slug.Make("???")
//	// Output: "post"
//
// MakeUnique appends a deterministic numeric suffix derived from an
// external identifier (a feed entry GUID, permalink, or title), so items
// with identical titles receive distinct but stable slugs:
//
//	s = slug.MakeUnique("hello-world", "https://example.com/posts/42")
//	// Output: "hello-world-<8 digits>"
//
// The suffix is a pure function of the identifier: repeated ingestion of
// the same feed always maps an entry to the same slug.
package slug
