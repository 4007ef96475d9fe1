package database

import (
	"time"
)

// NewArticle carries the fields the writer persists for an ingested or
// manually created article.
type NewArticle struct {
	Title            string
	Slug             string
	Content          string
	Excerpt          string
	FeaturedImage    string
	SourceURL        string
	RSSGUID          string
	CategoryID       string
	Status           string
	Author           string
	PublishedAt      time.Time
	ExtractionStatus string
}

// ArticleForExtraction is the minimal projection handed to the content
// extraction task.
type ArticleForExtraction struct {
	ID        string
	SourceURL string
	Attempts  int
}

type ArticleRepository interface {
	// ExistsByGUID is the dedup gate: a point lookup on the unique
	// rss_guid column. "Not found" is not an error.
	ExistsByGUID(guid string) (bool, error)

	Insert(article NewArticle) (string, error)

	GetBySlug(slug string) (*Article, error)
	GetPublished(categorySlug string, limit int) ([]Article, error)
	GetRecent(limit int) ([]Article, error)
	GetStats() (total int, published int, pending int, err error)

	UpdateStatus(id string, status string) error
	SetFeatured(id string, featured bool) error
	IncrementViewCount(slug string) error

	GetArticlesForExtraction(author string, limit int) ([]ArticleForExtraction, error)
	UpdateExtractedContent(id string, content string, extractedAt time.Time) error
	MarkExtractionFailed(id string, reason string) error
}

type CategoryRepository interface {
	GetAll() ([]Category, error)
	GetBySlug(slug string) (*Category, error)
	// SlugIndex returns slug -> id for every active category, fetched
	// once per ingestion cycle.
	SlugIndex() (map[string]string, error)
}

type SourceRepository interface {
	Upsert(name, displayName, url, categorySlug string, active bool) (string, error)
	UpdateLastFetched(name string, fetchedAt time.Time) error
	GetAll() ([]FeedSource, error)
	GetCount() (int, error)
}
