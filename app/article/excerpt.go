package article

import (
	"regexp"
	"strings"
)

const (
	maxExcerptLength = 200
	ellipsis         = "..."
)

var (
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	entityPattern   = regexp.MustCompile(`&[a-zA-Z#0-9]+;`)
	spacePattern    = regexp.MustCompile(`\s+`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// StripMarkup removes HTML tags and entities from the given text and
// collapses runs of whitespace.
func StripMarkup(text string) string {
	text = tagPattern.ReplaceAllString(text, "")
	text = entityPattern.ReplaceAllString(text, " ")
	text = spacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Excerpt produces a short plain-text summary of the description: the
// first two sentences when sentence boundaries are present, otherwise
// the leading text, hard-truncated to 200 characters plus an ellipsis.
// The result is never longer than 203 characters.
func Excerpt(description string) string {
	clean := StripMarkup(description)

	sentences := sentencePattern.FindAllString(clean, 3)
	if len(sentences) >= 2 {
		lead := strings.TrimSpace(sentences[0] + sentences[1])
		if len([]rune(lead)) <= maxExcerptLength {
			return lead
		}
	}

	runes := []rune(clean)
	if len(runes) <= maxExcerptLength {
		return clean
	}

	return strings.TrimSpace(string(runes[:maxExcerptLength])) + ellipsis
}
