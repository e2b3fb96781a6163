package config

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Reloader holds the integration config served by `capigen serve` and swaps
// it when the file or .env changes.
type Reloader struct {
	configPath string
	dotenvPath string

	reloadMu sync.Mutex

	mu        sync.RWMutex
	cfg       *Config
	listeners []func(prev, next *Config)
}

// NewReloader creates a Reloader serving initial until the first reload.
func NewReloader(configPath, dotenvPath string, initial *Config) *Reloader {
	return &Reloader{configPath: configPath, dotenvPath: dotenvPath, cfg: initial}
}

// Path is the config file the reloader reads.
func (r *Reloader) Path() string {
	return r.configPath
}

// Current returns the active config. Callers must not mutate it.
func (r *Reloader) Current() *Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// OnReload registers fn to run after each successful reload.
func (r *Reloader) OnReload(fn func(prev, next *Config)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Reload re-reads .env (file values win) and the config file. A config that
// fails to parse or validate is rejected and the active one is kept.
func (r *Reloader) Reload() error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	if err := ReloadDotenv(r.dotenvPath); err != nil {
		return fmt.Errorf("reload dotenv: %w", err)
	}
	next, err := Load(r.configPath)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("reload config: %w", err)
	}

	r.mu.Lock()
	prev := r.cfg
	r.cfg = next
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	added, removed := EventChanges(prev, next)
	slog.Info("config reloaded", "path", r.configPath, "events", len(next.Events), "added", added, "removed", removed)

	for _, fn := range listeners {
		fn(prev, next)
	}
	return nil
}

// EventChanges lists events present only in next (added) and only in prev
// (removed), each in config order.
func EventChanges(prev, next *Config) (added, removed []string) {
	var before, after []string
	if prev != nil {
		before = prev.Events
	}
	if next != nil {
		after = next.Events
	}
	for _, e := range after {
		if !slices.Contains(before, e) {
			added = append(added, e)
		}
	}
	for _, e := range before {
		if !slices.Contains(after, e) {
			removed = append(removed, e)
		}
	}
	return added, removed
}
