package feed

import (
	"cmp"
	"regexp"
	"strings"
)

// Pattern-based extraction for feeds a strict parser rejects. Each field
// is pulled independently: the CDATA-wrapped form is tried first, the
// plain-text form second.
var (
	itemBlockPattern = regexp.MustCompile(`(?s)<item[\s>].*?</item>`)

	titleCDATAPattern = regexp.MustCompile(`(?s)<title><!\[CDATA\[(.*?)\]\]></title>`)
	titlePlainPattern = regexp.MustCompile(`(?s)<title>(.*?)</title>`)

	linkPattern = regexp.MustCompile(`(?s)<link>(.*?)</link>`)

	descCDATAPattern = regexp.MustCompile(`(?s)<description><!\[CDATA\[(.*?)\]\]></description>`)
	descPlainPattern = regexp.MustCompile(`(?s)<description>(.*?)</description>`)

	pubDatePattern = regexp.MustCompile(`(?s)<pubDate>(.*?)</pubDate>`)
	guidPattern    = regexp.MustCompile(`(?s)<guid[^>]*>(.*?)</guid>`)
)

// parseRaw isolates each <item> block and extracts fields with
// first-match-wins pattern chains. A document without any <item>
// block yields an empty sequence, not an error.
func (p *Parser) parseRaw(data []byte) []Item {
	blocks := itemBlockPattern.FindAllString(string(data), -1)

	var items []Item
	for _, block := range blocks {
		title := firstMatch(block, titleCDATAPattern, titlePlainPattern)
		link := firstMatch(block, linkPattern)
		if title == "" || link == "" {
			continue
		}

		description := firstMatch(block, descCDATAPattern, descPlainPattern)

		item := Item{
			GUID:        cmp.Or(firstMatch(block, guidPattern), link),
			Title:       unescapeBasic(title),
			Link:        link,
			Description: unescapeBasic(description),
			PublishedAt: parseDate(firstMatch(block, pubDatePattern)),
		}
		item.ImageURL = extractRawImage(block, item.Description)

		items = append(items, item)
	}

	return items
}

// firstMatch tries each pattern in order and returns the first captured
// group, trimmed. An empty string means no pattern matched.
func firstMatch(block string, patterns ...*regexp.Regexp) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(block); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func unescapeBasic(s string) string {
	replacer := strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">")
	return replacer.Replace(s)
}
