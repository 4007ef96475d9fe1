package feed

import (
	"bytes"
	"cmp"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw feed data into normalized items. A conformant RSS/Atom
// parse is attempted first; when the document is rejected outright, the
// tolerant pattern-based extraction takes over so loosely-formed feeds
// still yield their items. Unparseable data yields an empty sequence,
// never an error. Items missing a title or link are dropped.
func (p *Parser) Run(data []byte) []Item {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Debug("Strict feed parse failed, falling back to pattern extraction", "error", err)
		return p.parseRaw(data)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		item, ok := p.normalizeItem(entry)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	return items
}

func (p *Parser) normalizeItem(entry *gofeed.Item) (Item, bool) {
	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		return Item{}, false
	}

	item := Item{
		GUID:        strings.TrimSpace(cmp.Or(entry.GUID, entry.Link)),
		Title:       title,
		Link:        link,
		Description: strings.TrimSpace(cmp.Or(entry.Description, entry.Content)),
	}

	if entry.PublishedParsed != nil {
		item.PublishedAt = *entry.PublishedParsed
	} else if entry.Published != "" {
		item.PublishedAt = parseDate(entry.Published)
	}

	item.ImageURL = extractItemImage(entry, item.Description)

	return item, true
}

// parseDate tolerates the many date formats seen in the wild. The zero
// time signals an unparseable date; the writer substitutes ingestion
// time in that case.
func parseDate(raw string) time.Time {
	parsed, err := dateparse.ParseAny(strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return parsed
}
