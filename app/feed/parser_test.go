package feed

import (
	"testing"
	"time"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Daily Nation</title>
    <link>https://example.co.ke</link>
    <description>Kenya news</description>
    <item>
      <title>Parliament resumes sittings</title>
      <link>https://example.co.ke/parliament-resumes</link>
      <description><![CDATA[<p>MPs return from recess.</p>]]></description>
      <guid>story-1</guid>
      <pubDate>Mon, 03 Jun 2024 10:00:00 +0300</pubDate>
      <media:content url="https://example.co.ke/img/parliament.jpg" medium="image" />
    </item>
    <item>
      <title>Harambee Stars squad named</title>
      <link>https://example.co.ke/stars-squad</link>
      <description>Coach names squad for AFCON qualifier.</description>
      <pubDate>Mon, 03 Jun 2024 11:00:00 +0300</pubDate>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	items := parser.Run([]byte(rssData))

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	first := items[0]
	if first.Title != "Parliament resumes sittings" {
		t.Errorf("Expected title 'Parliament resumes sittings', got: %s", first.Title)
	}
	if first.GUID != "story-1" {
		t.Errorf("Expected GUID 'story-1', got: %s", first.GUID)
	}
	if first.ImageURL != "https://example.co.ke/img/parliament.jpg" {
		t.Errorf("Expected media:content image, got: %s", first.ImageURL)
	}
	if first.PublishedAt.IsZero() {
		t.Error("Expected parsed publish date")
	}

	second := items[1]
	if second.GUID != "https://example.co.ke/stars-squad" {
		t.Errorf("Expected GUID to fall back to link, got: %s", second.GUID)
	}
	if second.ImageURL != "" {
		t.Errorf("Expected no image, got: %s", second.ImageURL)
	}
}

func TestParseDropsIncompleteItems(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test</title>
    <item>
      <title>Has title but no link</title>
      <description>dropped</description>
    </item>
    <item>
      <link>https://example.com/no-title</link>
      <description>dropped too</description>
    </item>
    <item>
      <title>Complete item</title>
      <link>https://example.com/complete</link>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	items := parser.Run([]byte(rssData))

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].Title != "Complete item" {
		t.Errorf("Expected the complete item to survive, got: %s", items[0].Title)
	}
}

func TestParseNoItems(t *testing.T) {
	inputs := map[string]string{
		"empty channel": `<?xml version="1.0"?><rss version="2.0"><channel><title>Empty</title></channel></rss>`,
		"not xml":       "this is not a feed at all",
		"empty input":   "",
		"html page":     "<html><body><h1>404</h1></body></html>",
	}

	parser := NewParser()
	for name, input := range inputs {
		items := parser.Run([]byte(input))
		if len(items) != 0 {
			t.Errorf("%s: expected empty sequence, got %d items", name, len(items))
		}
	}
}

func TestParseRawFallback(t *testing.T) {
	// Unclosed channel tag: rejected by the strict parser, recovered by
	// pattern extraction.
	malformed := `<rss><channel>
<item>
<title><![CDATA[Breaking & entering suspect held]]></title>
<link>https://example.co.ke/suspect-held</link>
<description><![CDATA[Police say &amp; confirm arrest.]]></description>
<guid isPermaLink="false">raw-guid-7</guid>
<pubDate>Tue, 04 Jun 2024 08:00:00 +0300</pubDate>
</item>
<item>
<title>No link so dropped</title>
</item>`

	parser := NewParser()
	items := parser.Run([]byte(malformed))

	if len(items) != 1 {
		t.Fatalf("Expected 1 recovered item, got: %d", len(items))
	}

	item := items[0]
	if item.Title != "Breaking & entering suspect held" {
		t.Errorf("Unexpected title: %s", item.Title)
	}
	if item.GUID != "raw-guid-7" {
		t.Errorf("Expected guid attribute form to parse, got: %s", item.GUID)
	}
	if item.Description != "Police say & confirm arrest." {
		t.Errorf("Expected entities unescaped, got: %s", item.Description)
	}
	if item.PublishedAt.IsZero() {
		t.Error("Expected pubDate to parse in fallback mode")
	}
}

func TestParseDateFallback(t *testing.T) {
	if got := parseDate("2024-06-03 10:00:00"); got.IsZero() {
		t.Error("Expected dateparse to handle non-RFC format")
	}
	if got := parseDate("not a date"); !got.IsZero() {
		t.Errorf("Expected zero time for garbage date, got: %v", got)
	}
	if got := parseDate(""); !got.IsZero() {
		t.Errorf("Expected zero time for empty date, got: %v", got)
	}
}

func TestFilterToday(t *testing.T) {
	now := time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)

	items := []Item{
		{Title: "today morning", Link: "l1", PublishedAt: time.Date(2024, 6, 3, 6, 0, 0, 0, time.UTC)},
		{Title: "yesterday", Link: "l2", PublishedAt: time.Date(2024, 6, 2, 23, 59, 0, 0, time.UTC)},
		{Title: "tomorrow", Link: "l3", PublishedAt: time.Date(2024, 6, 4, 0, 1, 0, 0, time.UTC)},
		{Title: "no date", Link: "l4"},
	}

	filtered := FilterToday(items, now)
	if len(filtered) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(filtered))
	}
	if filtered[0].Title != "today morning" || filtered[1].Title != "no date" {
		t.Errorf("Unexpected filter result: %v, %v", filtered[0].Title, filtered[1].Title)
	}
}
