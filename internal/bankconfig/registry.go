package bankconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
)

// snapshot is the immutable set of banks a Registry currently serves.
type snapshot struct {
	banks  map[string]*BankConfig
	sorted []*BankConfig
}

// Registry holds every bank's configuration, loaded once from a directory of
// .conf files. Reload swaps an atomic pointer so in-flight requests keep the
// snapshot they started with, rather than observing a partially-updated
// config set (spec §5 concurrency model).
type Registry struct {
	dir string
	v   atomic.Pointer[snapshot]
}

// NewRegistry loads every *.conf file in dir (except app.conf, which holds
// global settings rather than a bank) into a new Registry.
func NewRegistry(dir string) (*Registry, error) {
	r := &Registry{dir: dir}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads every bank config file from disk and atomically swaps the
// snapshot in use. Existing callers holding a prior All()/Get() result are
// unaffected.
func (r *Registry) Reload() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("bankconfig: read dir %s: %w", r.dir, err)
	}

	banks := make(map[string]*BankConfig)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".conf" || e.Name() == "app.conf" {
			continue
		}
		path := filepath.Join(r.dir, e.Name())
		cfg, err := ParseBankConfig(path)
		if err != nil {
			return err
		}
		if cfg.Name == "" {
			cfg.Name = trimConfExt(e.Name())
		}
		banks[cfg.Name] = cfg
	}

	sorted := make([]*BankConfig, 0, len(banks))
	for _, b := range banks {
		sorted = append(sorted, b)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	r.v.Store(&snapshot{banks: banks, sorted: sorted})
	return nil
}

// Get returns the named bank's configuration, or false if unknown.
func (r *Registry) Get(name string) (*BankConfig, bool) {
	s := r.v.Load()
	if s == nil {
		return nil, false
	}
	b, ok := s.banks[name]
	return b, ok
}

// All returns every loaded bank config, sorted by name.
func (r *Registry) All() []*BankConfig {
	s := r.v.Load()
	if s == nil {
		return nil
	}
	return s.sorted
}

// Detect runs bank detection against the currently-loaded snapshot.
func (r *Registry) Detect(filename, content string, headers []string) []DetectionResult {
	return Detect(r.All(), filename, content, headers)
}

func trimConfExt(filename string) string {
	ext := filepath.Ext(filename)
	return filename[:len(filename)-len(ext)]
}
