package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}
}

func TestRegistryRun(t *testing.T) {
	dir := t.TempDir()

	writeSource(t, dir, "tuko.yml", `
name: Tuko.co.ke
url: https://www.tuko.co.ke/rss/all.xml
settings:
  enabled: true
  category_hint: latest
  today_only: true
`)
	writeSource(t, dir, "nation.yml", `
name: Nation Media
url: https://nation.africa/kenya/rss
settings:
  enabled: false
`)

	registry := NewRegistry(dir)
	if err := registry.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if registry.Count() != 2 {
		t.Fatalf("Expected 2 sources, got %d", registry.Count())
	}

	tuko, err := registry.Get("tuko")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if tuko.Author() != "Tuko.co.ke" {
		t.Errorf("Expected author 'Tuko.co.ke', got %q", tuko.Author())
	}
	if !tuko.Settings.TodayOnly {
		t.Error("Expected today_only to be set")
	}
	if tuko.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh interval 3600, got %d", tuko.Settings.RefreshInterval)
	}
	if tuko.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", tuko.Settings.Timeout)
	}

	active := registry.Active()
	if len(active) != 1 || active[0].Name != "tuko" {
		t.Errorf("Expected only tuko to be active, got %d entries", len(active))
	}

	all := registry.All()
	if len(all) != 2 || all[0].Name != "nation" {
		t.Errorf("Expected deterministic name ordering, got %v first", all[0].Name)
	}
}

func TestRegistryMissingDir(t *testing.T) {
	registry := NewRegistry("/nonexistent/sources")
	if err := registry.Run(); err != nil {
		t.Errorf("Expected missing directory to be tolerated, got %v", err)
	}
	if registry.Count() != 0 {
		t.Errorf("Expected empty registry, got %d", registry.Count())
	}
}

func TestRegistryInvalidSource(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "broken.yml", `
name: Broken
settings:
  enabled: true
`)

	registry := NewRegistry(dir)
	if err := registry.Run(); err == nil {
		t.Error("Expected error for source without URL")
	}
}

func TestRegistryAuthorFallback(t *testing.T) {
	source := &Source{Name: "citizen"}
	if source.Author() != "citizen" {
		t.Errorf("Expected author fallback to name, got %q", source.Author())
	}
}
