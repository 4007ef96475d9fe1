package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"path"
	"strings"
	"time"

	"github.com/kikao/newsfeed/app/cfg"
	"github.com/kikao/newsfeed/app/database"
)

// Generator renders published articles as an RSS 2.0 document. The
// channel describes the site (optionally narrowed to one category);
// each item links back to the article's original story.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(category *database.Category, articles []database.Article) (string, error) {
	c := cfg.Get()

	title := c.SiteTitle
	feedPath := "/feed.xml"
	if category != nil {
		title = fmt.Sprintf("%s - %s", c.SiteTitle, category.Name)
		feedPath = fmt.Sprintf("/feed.xml?category=%s", category.Slug)
	}

	siteURL := c.BaseUrl
	if siteURL == "" {
		siteURL = fmt.Sprintf("http://localhost:%s", c.Port)
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", title, 4)
	g.writeElement(&buf, "link", siteURL, 4)
	g.writeElement(&buf, "description", c.SiteDescription, 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(siteURL+feedPath)))

	buf.WriteString("    <image>\n")
	g.writeElement(&buf, "url", siteURL+"/placeholder.svg", 6)
	g.writeElement(&buf, "title", title, 6)
	g.writeElement(&buf, "link", siteURL, 6)
	g.writeElement(&buf, "width", "144", 6)
	g.writeElement(&buf, "height", "144", 6)
	buf.WriteString("    </image>\n")

	lastBuildDate := time.Now().In(time.Local)
	if len(articles) > 0 {
		lastBuildDate = cmp.Or(articles[0].PublishedAt, articles[0].CreatedAt, lastBuildDate)
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Kikao-Newsfeed/%s", c.Version), 4)
	g.writeElement(&buf, "language", "en", 4)

	for _, a := range articles {
		g.writeItem(&buf, siteURL, a)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, siteURL string, a database.Article) {
	buf.WriteString("    <item>\n")

	guid := cmp.Or(a.RSSGUID, a.SourceURL)
	if guid != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(guid)))
		xml.EscapeText(buf, []byte(guid))
		buf.WriteString("</guid>\n")
	}

	g.writeElement(buf, "title", a.Title, 6)
	g.writeElement(buf, "link", fmt.Sprintf("%s/articles/%s", siteURL, a.Slug), 6)
	g.writeElement(buf, "description", cmp.Or(a.Excerpt, "No description available"), 6)

	if a.Content != "" && a.Content != a.Excerpt {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(a.Content)
		buf.WriteString("]]></content:encoded>\n")
	}

	g.writeElement(buf, "pubDate", a.PublishedAt.Format(time.RFC1123Z), 6)

	if a.Author != "" {
		g.writeElement(buf, "author", a.Author, 6)
	}

	if a.CategoryName != "" {
		g.writeElement(buf, "category", a.CategoryName, 6)
	}

	if a.SourceURL != "" {
		buf.WriteString(fmt.Sprintf("      <source url=\"%s\">", html.EscapeString(a.SourceURL)))
		xml.EscapeText(buf, []byte(a.Author))
		buf.WriteString("</source>\n")
	}

	// RSS 2.0 requires url, length, and type on enclosures; the byte
	// length of a remote image is unknown here, so zero is written.
	if a.FeaturedImage != "" {
		buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"%s\" />\n",
			html.EscapeString(a.FeaturedImage),
			imageMIMEType(a.FeaturedImage)))
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func imageMIMEType(url string) string {
	ext := strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0]))
	switch ext {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
