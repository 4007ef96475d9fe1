package ingest

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kikao/newsfeed/app/article"
	"github.com/kikao/newsfeed/app/database"
	"github.com/kikao/newsfeed/app/feed"
)

// Writer persists classified, non-duplicate feed items as articles.
type Writer struct {
	articles database.ArticleRepository
	status   string // status assigned to RSS-origin articles
}

func NewWriter(articles database.ArticleRepository, status string) *Writer {
	return &Writer{
		articles: articles,
		status:   status,
	}
}

// Run writes one item. The publish timestamp falls back to ingestion
// time when the source date was unparseable. A duplicate slipping past
// the application-level dedup check is stopped by the unique constraint
// and reported as ErrDuplicate.
func (w *Writer) Run(item feed.Item, categoryID, author string, extractContent bool, now time.Time) (string, error) {
	publishedAt := item.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = now
	}

	extractionStatus := database.ExtractionSkipped
	if extractContent {
		extractionStatus = database.ExtractionPending
	}

	id, err := w.articles.Insert(database.NewArticle{
		Title:            item.Title,
		Slug:             article.UniqueSlug(item.Title, now),
		Content:          item.Description,
		Excerpt:          article.Excerpt(item.Description),
		FeaturedImage:    item.ImageURL,
		SourceURL:        item.Link,
		RSSGUID:          item.GUID,
		CategoryID:       categoryID,
		Status:           w.status,
		Author:           author,
		PublishedAt:      publishedAt,
		ExtractionStatus: extractionStatus,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return "", fmt.Errorf("%w: %s", ErrDuplicate, item.GUID)
		}
		return "", fmt.Errorf("failed to write article: %w", err)
	}

	slog.Debug("Article written", "id", id, "title", item.Title, "author", author)
	return id, nil
}
