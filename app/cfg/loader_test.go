package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:            "./test.db",
		SourcesDir:        "./sources",
		Port:              "8080",
		BaseUrl:           "https://news.example.com",
		WorkerCount:       4,
		SchedulerInterval: 60,
		APIAccessKey:      "test-key",
		IngestStatus:      "published",
		FeedLimit:         20,
		SiteTitle:         "Test Newsfeed",
		SiteDescription:   "Test description",
		UserAgent:         "Test Agent",
		Timezone:          "UTC",
		Debug:             true,
		Version:           "test-version",
	}

	if cfg.DBPath != "./test.db" {
		t.Errorf("Expected DB path './test.db', got '%s'", cfg.DBPath)
	}
	if cfg.SourcesDir != "./sources" {
		t.Errorf("Expected sources dir './sources', got '%s'", cfg.SourcesDir)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.BaseUrl != "https://news.example.com" {
		t.Errorf("Expected base URL 'https://news.example.com', got '%s'", cfg.BaseUrl)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("Expected worker count 4, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 60 {
		t.Errorf("Expected scheduler interval 60, got %d", cfg.SchedulerInterval)
	}
	if cfg.IngestStatus != "published" {
		t.Errorf("Expected ingest status 'published', got '%s'", cfg.IngestStatus)
	}
	if cfg.FeedLimit != 20 {
		t.Errorf("Expected feed limit 20, got %d", cfg.FeedLimit)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestGetPanicsWhenUnloaded(t *testing.T) {
	old := globalCfg
	globalCfg = nil
	defer func() {
		globalCfg = old
		if r := recover(); r == nil {
			t.Error("Expected Get to panic when configuration is not loaded")
		}
	}()
	Get()
}
