// Package heartbeat lets `capigen status` see whether `capigen serve` is running.
package heartbeat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Status represents the liveness state of the gateway.
type Status string

const (
	StatusAlive Status = "alive"
	StatusStale Status = "stale"
	StatusDead  Status = "dead"
)

// DefaultInterval is how often a running gateway refreshes its heartbeat.
const DefaultInterval = 30 * time.Second

// Heartbeat is the data written to the heartbeat file.
type Heartbeat struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	Config    string    `json:"config"`
	Events    []string  `json:"events"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// Writer refreshes a heartbeat file while a gateway runs.
type Writer struct {
	mu       sync.Mutex
	path     string
	interval time.Duration
	base     Heartbeat
	events   func() []string
}

// NewWriter creates a writer for the gateway listening on addr. events reports
// the events of the active config at each beat.
func NewWriter(path, addr, configPath string, events func() []string) *Writer {
	return &Writer{
		path:     path,
		interval: DefaultInterval,
		base:     Heartbeat{PID: os.Getpid(), Addr: addr, Config: configPath},
		events:   events,
	}
}

// Run writes a heartbeat immediately and then every interval until ctx is
// done, at which point the file is removed.
func (w *Writer) Run(ctx context.Context) {
	w.mu.Lock()
	w.base.StartedAt = time.Now()
	w.mu.Unlock()
	w.Beat()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.Beat()
		case <-ctx.Done():
			if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
				slog.Warn("remove heartbeat", "path", w.path, "error", err)
			}
			return
		}
	}
}

// Beat writes the heartbeat file now.
func (w *Writer) Beat() {
	w.mu.Lock()
	defer w.mu.Unlock()

	hb := w.base
	hb.Timestamp = time.Now()
	hb.Uptime = time.Since(hb.StartedAt).Truncate(time.Second).String()
	if w.events != nil {
		hb.Events = w.events()
	}

	data, err := json.MarshalIndent(hb, "", "  ")
	if err != nil {
		return
	}
	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		slog.Warn("write heartbeat", "path", w.path, "error", err)
		return
	}
	if err := os.Rename(tmp, w.path); err != nil {
		slog.Warn("write heartbeat", "path", w.path, "error", err)
	}
}

// Check reads a heartbeat file and returns the liveness status.
// A heartbeat older than maxAge is stale.
func Check(path string, maxAge time.Duration) (Status, *Heartbeat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusDead, nil, nil
		}
		return StatusDead, nil, fmt.Errorf("read heartbeat: %w", err)
	}

	var hb Heartbeat
	if err := json.Unmarshal(data, &hb); err != nil {
		return StatusDead, nil, fmt.Errorf("unmarshal heartbeat: %w", err)
	}

	if time.Since(hb.Timestamp) > maxAge {
		return StatusStale, &hb, nil
	}
	return StatusAlive, &hb, nil
}
