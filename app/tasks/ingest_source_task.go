package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kikao/newsfeed/app/ingest"
)

// IngestSourceTask runs the ingestion pipeline for a single source.
// The orchestrator owns the fetch/parse/classify/write chain; the task
// only adds scheduling concerns (retries, duration, logging).
type IngestSourceTask struct {
	Task
	orchestrator *ingest.Orchestrator
}

func NewIngestSourceTask(sourceName string, orchestrator *ingest.Orchestrator) *IngestSourceTask {
	return &IngestSourceTask{
		Task:         NewTask(TaskTypeIngestSource, sourceName),
		orchestrator: orchestrator,
	}
}

func (t *IngestSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.orchestrator.RunSource(ctx, t.SourceName)
	if err != nil {
		return fmt.Errorf("failed to ingest source: %w", err)
	}
	if result.Error != "" {
		return fmt.Errorf("source fetch failed: %s", result.Error)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"found", result.ItemsFound,
		"inserted", result.ItemsInserted)

	return nil
}
