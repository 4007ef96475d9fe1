package tasks

// TaskSchedulerInterface is the contract the main application uses to
// manage background ingestion and extraction work.
//
//	scheduler := NewScheduler(registry, orchestrator, extractor, articleRepo, sourceRepo, httpClient)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
