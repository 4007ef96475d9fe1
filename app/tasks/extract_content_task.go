package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kikao/newsfeed/app/database"
	"github.com/kikao/newsfeed/app/feed"
	"github.com/kikao/newsfeed/app/sources"
)

// extractionBatchSize bounds how many pending articles one task fetches,
// so a backlog never monopolizes a worker.
const extractionBatchSize = 10

type ExtractContentTask struct {
	Task
	Source           *sources.Source
	httpClient       *http.Client
	contentExtractor *feed.ContentExtractor
	articleRepo      database.ArticleRepository
	userAgent        string
}

func NewExtractContentTask(source *sources.Source, httpClient *http.Client, contentExtractor *feed.ContentExtractor, articleRepo database.ArticleRepository, userAgent string) *ExtractContentTask {
	return &ExtractContentTask{
		Task:             NewTask(TaskTypeExtractContent, source.Name),
		Source:           source,
		httpClient:       httpClient,
		contentExtractor: contentExtractor,
		articleRepo:      articleRepo,
		userAgent:        userAgent,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.ExtractContent {
		slog.Debug("Content extraction disabled for source", "source", t.SourceName)
		return nil
	}

	articles, err := t.articleRepo.GetArticlesForExtraction(t.Source.Author(), extractionBatchSize)
	if err != nil {
		return fmt.Errorf("failed to get articles for content extraction: %w", err)
	}

	if len(articles) == 0 {
		slog.Debug("No articles need content extraction", "source", t.SourceName)
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, a := range articles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.extractArticle(ctx, a); err != nil {
			slog.Error("Failed to extract content for article", "article_id", a.ID, "url", a.SourceURL, "error", err)
			errorCount++

			if markErr := t.articleRepo.MarkExtractionFailed(a.ID, err.Error()); markErr != nil {
				slog.Error("Failed to update content extraction status", "article_id", a.ID, "error", markErr)
			}
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractContentTask) extractArticle(ctx context.Context, a database.ArticleForExtraction) error {
	if a.SourceURL == "" {
		return fmt.Errorf("article has no source URL")
	}

	data, err := t.fetchArticlePage(ctx, a.SourceURL)
	if err != nil {
		return fmt.Errorf("failed to fetch article page: %w", err)
	}

	content, err := t.contentExtractor.Run(data, a.SourceURL)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	now := time.Now().UTC()
	if err := t.articleRepo.UpdateExtractedContent(a.ID, content, now); err != nil {
		return fmt.Errorf("failed to store extracted content: %w", err)
	}

	slog.Debug("Content extracted successfully", "article_id", a.ID, "url", a.SourceURL, "content_length", len(content))
	return nil
}

func (t *ExtractContentTask) fetchArticlePage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Source.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
