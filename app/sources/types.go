package sources

// Source describes one configured news provider. Each source lives in
// its own YAML file under the sources directory; the file name (minus
// extension) becomes the source name used throughout the pipeline.
type Source struct {
	Name        string         `yaml:"-"`
	DisplayName string         `yaml:"name"` // human-readable provider name, used as article author
	URL         string         `yaml:"url"`
	Settings    SourceSettings `yaml:"settings"`
}

// Author returns the label stored on articles ingested from this source.
func (s *Source) Author() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

type SourceSettings struct {
	Enabled         bool   `yaml:"enabled"`
	CategoryHint    string `yaml:"category_hint"`    // fallback category slug when classification misses
	TodayOnly       bool   `yaml:"today_only"`       // restrict ingestion to today's items
	ExtractContent  bool   `yaml:"extract_content"`  // fetch full article bodies after ingestion
	RefreshInterval int    `yaml:"refresh_interval"` // seconds
	Timeout         int    `yaml:"timeout"`          // seconds, per fetch
}
