package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kikao/newsfeed/app/database"
	"github.com/kikao/newsfeed/app/feed"
)

type failingInsertRepo struct {
	fakeArticleRepo
	err error
}

func (f *failingInsertRepo) Insert(database.NewArticle) (string, error) {
	return "", f.err
}

func TestWriterFieldMapping(t *testing.T) {
	repo := newFakeArticleRepo()
	writer := NewWriter(repo, database.StatusPublished)
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	published := now.Add(-2 * time.Hour)

	item := feed.Item{
		GUID:        "guid-1",
		Title:       "Shilling gains against the dollar",
		Link:        "https://example.co.ke/shilling",
		Description: "<p>The Kenyan shilling strengthened on Monday.</p>",
		ImageURL:    "https://example.co.ke/shilling.jpg",
		PublishedAt: published,
	}

	id, err := writer.Run(item, "cat-business", "Example News", false, now)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if id == "" {
		t.Error("Expected non-empty article id")
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("Expected one insert, got %d", len(repo.inserted))
	}
	a := repo.inserted[0]
	if a.RSSGUID != "guid-1" || a.SourceURL != item.Link || a.FeaturedImage != item.ImageURL {
		t.Errorf("Unexpected field mapping: %+v", a)
	}
	if !a.PublishedAt.Equal(published) {
		t.Errorf("Expected source publish time preserved, got %v", a.PublishedAt)
	}
	if a.Content != item.Description {
		t.Errorf("Expected raw description stored as content, got %q", a.Content)
	}
	if strings.Contains(a.Excerpt, "<p>") {
		t.Errorf("Expected markup stripped from excerpt, got %q", a.Excerpt)
	}
	if !strings.HasPrefix(a.Slug, "shilling-gains-against-the-dollar-") {
		t.Errorf("Expected slug derived from title, got %q", a.Slug)
	}
	if a.Status != database.StatusPublished {
		t.Errorf("Expected published status, got %q", a.Status)
	}
	if a.ExtractionStatus != database.ExtractionSkipped {
		t.Errorf("Expected extraction skipped, got %q", a.ExtractionStatus)
	}
}

func TestWriterPublishedAtFallback(t *testing.T) {
	repo := newFakeArticleRepo()
	writer := NewWriter(repo, database.StatusPending)
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

	_, err := writer.Run(feed.Item{GUID: "g", Title: "Undated headline", Link: "https://x"}, "cat-latest", "X", true, now)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	a := repo.inserted[0]
	if !a.PublishedAt.Equal(now) {
		t.Errorf("Expected ingestion time fallback, got %v", a.PublishedAt)
	}
	if a.Status != database.StatusPending {
		t.Errorf("Expected pending status, got %q", a.Status)
	}
	if a.ExtractionStatus != database.ExtractionPending {
		t.Errorf("Expected extraction pending, got %q", a.ExtractionStatus)
	}
}

func TestWriterDuplicateConstraint(t *testing.T) {
	repo := &failingInsertRepo{err: errors.New("constraint failed: UNIQUE constraint failed: articles.rss_guid (2067)")}
	writer := NewWriter(repo, database.StatusPublished)

	_, err := writer.Run(feed.Item{GUID: "dup", Title: "t", Link: "l"}, "cat-latest", "X", false, time.Now())
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestWriterInsertError(t *testing.T) {
	repo := &failingInsertRepo{err: errors.New("disk I/O error")}
	writer := NewWriter(repo, database.StatusPublished)

	_, err := writer.Run(feed.Item{GUID: "g", Title: "t", Link: "l"}, "cat-latest", "X", false, time.Now())
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected plain insert error, got %v", err)
	}
}
