package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Ingestion policy
	IngestStatus string
	FeedLimit    int

	// Application metadata
	SiteTitle       string
	SiteDescription string
	UserAgent       string
	Timezone        string
	Debug           bool
	Version         string
}
