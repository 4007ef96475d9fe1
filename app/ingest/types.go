package ingest

// SourceResult is the per-source breakdown reported after an ingestion
// cycle. Error carries a message for sources that failed to fetch; a
// failed source never aborts the cycle.
type SourceResult struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	ItemsFound    int    `json:"items_found"`
	ItemsInserted int    `json:"items_inserted"`
	Error         string `json:"error,omitempty"`
}

// Summary aggregates one full ingestion cycle across all active sources.
type Summary struct {
	Success   bool           `json:"success"`
	Processed int            `json:"processed"`
	Inserted  int            `json:"inserted"`
	Sources   []SourceResult `json:"sources"`
	Message   string         `json:"message,omitempty"`
}
