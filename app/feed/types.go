package feed

import "time"

// Item is a normalized feed item as produced by the parser. It is
// ephemeral: classified, dedup-checked and written within the same
// ingestion pass, then discarded.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	ImageURL    string
	PublishedAt time.Time // zero when the source date was absent or unparseable
}
