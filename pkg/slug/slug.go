package slug

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// maxLength caps generated slugs so they stay usable in URLs and indexes.
const maxLength = 80

// fallback is returned when the input yields no usable characters.
const fallback = "post"

// turkish folds Turkish letters to their ASCII equivalents before the
// generic replacement pass strips everything else.
var turkish = strings.NewReplacer(
	"ğ", "g",
	"ü", "u",
	"ş", "s",
	"ı", "i",
	"ö", "o",
	"ç", "c",
)

// Make converts arbitrary text into a URL-safe slug: lowercase, Turkish
// diacritics folded to ASCII, every run of other characters collapsed to a
// single hyphen, edges trimmed, then capped at 80 characters. Returns
// "post" when nothing usable remains.
func Make(text string) string {
	text = turkish.Replace(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(text))
	pendingDash := false
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	s := b.String()
	if s == "" {
		return fallback
	}
	// The cap may land on a separator; the hyphen stays so slugs
	// generated before the cut stay reproducible.
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	return s
}

// MakeUnique appends a stable numeric suffix derived from externalID so
// that distinct items with colliding titles get distinct slugs. The suffix
// is reproducible across runs, which is what makes repeated feed ingestion
// update posts instead of duplicating them. An empty externalID returns
// base unchanged: no uniqueness guarantee in that case.
func MakeUnique(base, externalID string) string {
	if externalID == "" {
		return base
	}
	return base + "-" + fingerprint(externalID)
}

// fingerprint computes the 32-bit signed rolling hash h = h*31 + unit over
// the UTF-16 code units of s, wrapping each step, then keeps the first 8
// decimal digits of its absolute value. The formula is kept bit-exact with
// the platform this store migrated from so re-ingesting the same feeds
// converges to the slugs already persisted.
func fingerprint(s string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}

	// Widen before negating: -math.MinInt32 overflows in 32-bit.
	v := int64(h)
	if v < 0 {
		v = -v
	}

	digits := strconv.FormatInt(v, 10)
	if len(digits) > 8 {
		digits = digits[:8]
	}
	return digits
}
