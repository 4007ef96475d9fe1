package article

import (
	"cmp"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 100

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a title into a URL-safe slug: lowercase alphanumerics
// with single hyphens between words, no leading or trailing hyphen,
// truncated to 100 characters.
func Slugify(title string) string {
	if folded, _, err := transform.String(deaccent, title); err == nil {
		title = folded
	}

	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}

	return slug
}

// UniqueSlug appends a timestamp plus random token suffix so that
// concurrently ingested items with similar titles cannot collide.
// The slug unique constraint in the database remains the backstop.
func UniqueSlug(title string, now time.Time) string {
	slug := cmp.Or(Slugify(title), "article")
	return fmt.Sprintf("%s-%d-%06d", slug, now.UnixMilli(), rand.Intn(1000000))
}
