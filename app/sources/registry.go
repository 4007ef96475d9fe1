package sources

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry loads source configurations from disk and caches them in
// memory. Sources never change during a run; Reload is only called at
// boot and from the admin reload endpoint.
type Registry struct {
	sourcesDir string
	cache      map[string]*Source
	mu         sync.RWMutex
}

func NewRegistry(sourcesDir string) *Registry {
	return &Registry{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Source),
	}
}

func (r *Registry) Run() error {
	if _, err := os.Stat(r.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(r.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}
	yamlFiles, err := filepath.Glob(filepath.Join(r.sourcesDir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)

	for _, file := range files {
		name := sourceName(file)
		source, err := r.Load(name, file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}
		slog.Debug("Source configuration loaded",
			"source", name,
			"enabled", source.Settings.Enabled,
			"today_only", source.Settings.TodayOnly)
	}

	return nil
}

func (r *Registry) Load(name, path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	source.Name = name
	setDefaults(&source)

	if err := validate(&source); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[name] = &source

	return &source, nil
}

func (r *Registry) Get(name string) (*Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.cache[name]
	if !ok {
		return nil, fmt.Errorf("source '%s' not found", name)
	}
	return source, nil
}

// All returns every configured source, ordered by name so ingestion
// runs are deterministic.
func (r *Registry) All() []*Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Source, 0, len(r.cache))
	for _, source := range r.cache {
		all = append(all, source)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Active returns enabled sources in name order.
func (r *Registry) Active() []*Source {
	var active []*Source
	for _, source := range r.All() {
		if source.Settings.Enabled {
			active = append(active, source)
		}
	}
	return active
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(strings.TrimSuffix(base, ".yml"), ".yaml")
}

func setDefaults(source *Source) {
	if source.Settings.RefreshInterval == 0 {
		source.Settings.RefreshInterval = 3600
	}
	if source.Settings.Timeout == 0 {
		source.Settings.Timeout = 30
	}
}

func validate(source *Source) error {
	if source.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if source.Settings.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must be non-negative")
	}
	if source.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}
