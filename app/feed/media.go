package feed

import (
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Image URLs are embedded in feeds under four different conventions.
// Each convention is an extraction strategy returning an optional
// match; strategies are tried in priority order and the first success
// short-circuits.
var (
	mediaContentPattern = regexp.MustCompile(`<media:content[^>]*?url="([^"]*)"[^>]*?>`)
	enclosurePattern    = regexp.MustCompile(`<enclosure[^>]*?url="([^"]*)"[^>]*?type="image/[^"]*"[^>]*?>`)
	imageTagPattern     = regexp.MustCompile(`<image[^>]*?url="([^"]*)"[^>]*?>`)
	inlineImgPattern    = regexp.MustCompile(`<img[^>]*?src="([^"]*)"[^>]*?>`)
)

type imageStrategy func() string

// firstImage runs the strategies in order and returns the first
// non-empty URL, or "" when every convention misses.
func firstImage(strategies ...imageStrategy) string {
	for _, strategy := range strategies {
		if url := strategy(); url != "" {
			return strings.TrimSpace(url)
		}
	}
	return ""
}

// extractItemImage resolves an item image from a structurally parsed
// item: media extension, image-typed enclosure, feed-level image tag
// equivalents, then an inline <img> inside the description body.
func extractItemImage(entry *gofeed.Item, description string) string {
	return firstImage(
		func() string { return mediaExtensionURL(entry) },
		func() string { return imageEnclosureURL(entry) },
		func() string { return imageURLFromItemImage(entry) },
		func() string { return patternMatch(inlineImgPattern, description) },
	)
}

// extractRawImage is the pattern-based twin used by the fallback parser.
func extractRawImage(block, description string) string {
	return firstImage(
		func() string { return patternMatch(mediaContentPattern, block) },
		func() string { return patternMatch(enclosurePattern, block) },
		func() string { return patternMatch(imageTagPattern, block) },
		func() string { return patternMatch(inlineImgPattern, description) },
	)
}

func patternMatch(pattern *regexp.Regexp, text string) string {
	if m := pattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func mediaExtensionURL(entry *gofeed.Item) string {
	media, ok := entry.Extensions["media"]
	if !ok {
		return ""
	}
	for _, name := range []string{"content", "thumbnail"} {
		for _, ext := range media[name] {
			if url := ext.Attrs["url"]; url != "" {
				return url
			}
		}
	}
	return ""
}

func imageEnclosureURL(entry *gofeed.Item) string {
	for _, enclosure := range entry.Enclosures {
		if enclosure == nil {
			continue
		}
		if strings.HasPrefix(enclosure.Type, "image/") && enclosure.URL != "" {
			return enclosure.URL
		}
	}
	return ""
}

func imageURLFromItemImage(entry *gofeed.Item) string {
	if entry.Image != nil {
		return entry.Image.URL
	}
	return ""
}
