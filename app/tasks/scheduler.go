package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kikao/newsfeed/app/cfg"
	"github.com/kikao/newsfeed/app/database"
	"github.com/kikao/newsfeed/app/feed"
	"github.com/kikao/newsfeed/app/ingest"
	"github.com/kikao/newsfeed/app/sources"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler drives periodic ingestion. On every tick it checks which
// sources are due (last fetch older than their refresh interval) and
// enqueues tasks for a bounded worker pool. Failed tasks retry with
// exponential backoff up to their retry limit.
type Scheduler struct {
	registry         *sources.Registry
	orchestrator     *ingest.Orchestrator
	contentExtractor *feed.ContentExtractor
	articleRepo      database.ArticleRepository
	sourceRepo       database.SourceRepository
	httpClient       *http.Client
	userAgent        string
	interval         time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface
}

func NewScheduler(registry *sources.Registry, orchestrator *ingest.Orchestrator,
	contentExtractor *feed.ContentExtractor, articleRepo database.ArticleRepository,
	sourceRepo database.SourceRepository, httpClient *http.Client) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		registry:         registry,
		orchestrator:     orchestrator,
		contentExtractor: contentExtractor,
		articleRepo:      articleRepo,
		sourceRepo:       sourceRepo,
		httpClient:       httpClient,
		userAgent:        cfg.UserAgent,
		interval:         time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:      cfg.WorkerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()
}

// Stop cancels the scheduler context and waits for workers to drain.
// The queue is never closed: a late retry goroutine may still attempt
// an enqueue, which EnqueueTask rejects via the cancelled context.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueStartupTasks ingests every active source immediately so a
// fresh deployment serves articles without waiting for the first tick.
func (s *Scheduler) enqueueStartupTasks() {
	active := s.registry.Active()
	if len(active) == 0 {
		slog.Debug("No active source configurations found")
		return
	}

	slog.Debug("Scheduling startup ingestion", "count", len(active))

	for _, source := range active {
		task := NewIngestSourceTask(source.Name, s.orchestrator)
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue IngestSourceTask", "source", source.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueDueTasks() {
	active := s.registry.Active()
	if len(active) == 0 {
		slog.Debug("No active source configurations found")
		return
	}

	fetched := s.lastFetchedIndex()
	now := time.Now().UTC()

	for _, source := range active {
		if due(source, fetched[source.Name], now) {
			task := NewIngestSourceTask(source.Name, s.orchestrator)
			if err := s.EnqueueTask(task); err != nil {
				slog.Warn("Failed to enqueue IngestSourceTask", "source", source.Name, "error", err)
			}
		} else {
			slog.Debug("Source not due for refresh yet", "source", source.Name)
		}

		if source.Settings.ExtractContent {
			task := NewExtractContentTask(source, s.httpClient, s.contentExtractor, s.articleRepo, s.userAgent)
			if err := s.EnqueueTask(task); err != nil {
				slog.Warn("Failed to enqueue ExtractContentTask", "source", source.Name, "error", err)
			}
		}
	}
}

// lastFetchedIndex maps source name to its last fetch time. A source
// missing from the database is simply due.
func (s *Scheduler) lastFetchedIndex() map[string]*time.Time {
	index := make(map[string]*time.Time)
	records, err := s.sourceRepo.GetAll()
	if err != nil {
		slog.Warn("Failed to load source fetch times, treating all as due", "error", err)
		return index
	}
	for _, record := range records {
		index[record.Name] = record.LastFetchedAt
	}
	return index
}

func due(source *sources.Source, lastFetched *time.Time, now time.Time) bool {
	if lastFetched == nil {
		return true
	}
	refresh := time.Duration(source.Settings.RefreshInterval) * time.Second
	return !lastFetched.Add(refresh).After(now)
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
