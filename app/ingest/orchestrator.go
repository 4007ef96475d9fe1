package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kikao/newsfeed/app/classify"
	"github.com/kikao/newsfeed/app/database"
	"github.com/kikao/newsfeed/app/feed"
	"github.com/kikao/newsfeed/app/sources"
)

// ErrDuplicate marks an insert stopped by the guid unique constraint:
// another run won the race, the item is simply skipped.
var ErrDuplicate = errors.New("duplicate article")

// Orchestrator runs one full ingestion cycle: enumerate active sources,
// fetch and parse each, classify and dedup-check every item, write the
// survivors, and fold per-source results into an aggregate summary.
type Orchestrator struct {
	registry   *sources.Registry
	parser     *feed.Parser
	classifier *classify.Classifier
	writer     *Writer
	articles   database.ArticleRepository
	categories database.CategoryRepository
	sourceRepo database.SourceRepository
	httpClient *http.Client
	userAgent  string
	workers    int
}

func NewOrchestrator(registry *sources.Registry, parser *feed.Parser,
	classifier *classify.Classifier, writer *Writer,
	articles database.ArticleRepository, categories database.CategoryRepository,
	sourceRepo database.SourceRepository, httpClient *http.Client,
	userAgent string, workers int) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		registry:   registry,
		parser:     parser,
		classifier: classifier,
		writer:     writer,
		articles:   articles,
		categories: categories,
		sourceRepo: sourceRepo,
		httpClient: httpClient,
		userAgent:  userAgent,
		workers:    workers,
	}
}

// Run executes one cycle across all active sources. Source fetches run
// concurrently under a bounded worker limit; each source owns its slot
// in the result slice, so counts are folded after all tasks complete
// without shared counters. Only setup failures (the category index)
// propagate as an error.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	categoryIndex, err := o.categories.SlugIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	active := o.registry.Active()
	results := make([]SourceResult, len(active))

	var wg sync.WaitGroup
	sem := make(chan struct{}, o.workers)

	for i, source := range active {
		wg.Add(1)
		go func(i int, source *sources.Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = o.processSource(ctx, source, categoryIndex)
		}(i, source)
	}
	wg.Wait()

	summary := &Summary{
		Success: true,
		Sources: results,
		Message: fmt.Sprintf("Successfully processed %d news sources", len(active)),
	}
	for _, result := range results {
		summary.Processed += result.ItemsFound
		summary.Inserted += result.ItemsInserted
	}

	slog.Info("Ingestion cycle completed",
		"sources", len(active),
		"processed", summary.Processed,
		"inserted", summary.Inserted)

	return summary, nil
}

// RunSource ingests a single source by name, used by the background
// scheduler which owns per-source scheduling.
func (o *Orchestrator) RunSource(ctx context.Context, name string) (SourceResult, error) {
	source, err := o.registry.Get(name)
	if err != nil {
		return SourceResult{}, err
	}

	categoryIndex, err := o.categories.SlugIndex()
	if err != nil {
		return SourceResult{}, fmt.Errorf("failed to load categories: %w", err)
	}

	return o.processSource(ctx, source, categoryIndex), nil
}

func (o *Orchestrator) processSource(ctx context.Context, source *sources.Source, categoryIndex map[string]string) SourceResult {
	result := SourceResult{Name: source.Name, URL: source.URL}

	// The fetch timestamp is recorded regardless of outcome.
	defer func() {
		if err := o.sourceRepo.UpdateLastFetched(source.Name, time.Now()); err != nil {
			slog.Warn("Failed to update last fetched time", "source", source.Name, "error", err)
		}
	}()

	timeout := time.Duration(source.Settings.Timeout) * time.Second
	data, err := fetchFeed(ctx, o.httpClient, source.URL, o.userAgent, timeout)
	if err != nil {
		slog.Error("Source fetch failed", "source", source.Name, "error", err)
		result.Error = err.Error()
		return result
	}

	items := o.parser.Run(data)
	if source.Settings.TodayOnly {
		items = feed.FilterToday(items, time.Now())
	}
	result.ItemsFound = len(items)

	for _, item := range items {
		if inserted := o.processItem(item, source, categoryIndex); inserted {
			result.ItemsInserted++
		}
	}

	slog.Info("Source processed",
		"source", source.Name,
		"found", result.ItemsFound,
		"inserted", result.ItemsInserted)

	return result
}

// processItem classifies, dedup-checks and writes a single item. All
// failures are logged and swallowed: a bad item never stops its source,
// let alone the run.
func (o *Orchestrator) processItem(item feed.Item, source *sources.Source, categoryIndex map[string]string) bool {
	exists, err := o.articles.ExistsByGUID(item.GUID)
	if err != nil {
		slog.Error("Dedup check failed, skipping item", "guid", item.GUID, "error", err)
		return false
	}
	if exists {
		return false
	}

	slug := o.classifier.Run(item.Title, item.Description)
	if slug == classify.DefaultSlug && source.Settings.CategoryHint != "" {
		slug = source.Settings.CategoryHint
	}
	categoryID, ok := categoryIndex[slug]
	if !ok {
		categoryID = categoryIndex[classify.DefaultSlug]
	}

	_, err = o.writer.Run(item, categoryID, source.Author(), source.Settings.ExtractContent, time.Now())
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			slog.Debug("Concurrent duplicate insert skipped", "guid", item.GUID)
		} else {
			slog.Error("Article insert failed", "source", source.Name, "title", item.Title, "error", err)
		}
		return false
	}

	return true
}
