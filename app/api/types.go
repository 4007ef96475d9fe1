package api

import (
	"context"

	"github.com/kikao/newsfeed/app/database"
	"github.com/kikao/newsfeed/app/feed"
	"github.com/kikao/newsfeed/app/ingest"
	"github.com/kikao/newsfeed/app/sources"
)

type GeneratorInterface interface {
	Run(category *database.Category, articles []database.Article) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

// IngesterInterface is what the trigger endpoint needs from the
// orchestrator.
type IngesterInterface interface {
	Run(ctx context.Context) (*ingest.Summary, error)
}

var _ IngesterInterface = (*ingest.Orchestrator)(nil)

type Handler struct {
	articleRepo  database.ArticleRepository
	categoryRepo database.CategoryRepository
	sourceRepo   database.SourceRepository
	registry     *sources.Registry
	generator    GeneratorInterface
	ingester     IngesterInterface
}
