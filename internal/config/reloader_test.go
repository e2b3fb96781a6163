package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeReloadConfig(t *testing.T, path, pixel string, events ...string) {
	t.Helper()
	cfg := Default()
	cfg.PixelID = pixel
	cfg.AccessToken = "tok"
	cfg.GA4MeasurementID = "G-RELOAD"
	cfg.TransportURL = "https://sgtm.example.com"
	cfg.Events = events
	if err := Save(path, &cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestReloader_Current(t *testing.T) {
	r := NewReloader("config.jsonc", "", &Config{PixelID: "123"})
	if got := r.Current(); got.PixelID != "123" {
		t.Errorf("Current().PixelID = %q, want 123", got.PixelID)
	}
	if r.Path() != "config.jsonc" {
		t.Errorf("Path() = %q", r.Path())
	}
}

func TestReloader_Reload(t *testing.T) {
	dir := t.TempDir()
	dotenvPath := filepath.Join(dir, ".env")
	configPath := filepath.Join(dir, "config.jsonc")

	if err := os.WriteFile(configPath, []byte(`{
		"pixelId": "${{ .Env.CAPI_RELOAD_PIXEL }}",
		"accessToken": "tok",
		"ga4MeasurementId": "G-RELOAD",
		"transportUrl": "https://sgtm.example.com",
		"events": ["page_view", "contact_click"]
	}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dotenvPath, []byte("CAPI_RELOAD_PIXEL=reloaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAPI_RELOAD_PIXEL", "initial")

	initial := &Config{Events: []string{"page_view", "lead_submit"}}
	r := NewReloader(configPath, dotenvPath, initial)

	var calls int
	var gotPrev *Config
	r.OnReload(func(prev, next *Config) {
		calls++
		gotPrev = prev
	})

	if err := r.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if calls != 1 {
		t.Errorf("listener called %d times, want 1", calls)
	}
	if gotPrev != initial {
		t.Error("listener did not receive the previous config")
	}
	got := r.Current()
	if got.PixelID != "reloaded" {
		t.Errorf("PixelID = %q, want reloaded", got.PixelID)
	}
}

func TestReloader_ReloadMissingDotenv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.jsonc")
	writeReloadConfig(t, configPath, "1", "page_view")

	r := NewReloader(configPath, filepath.Join(dir, ".env"), &Config{})
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload with missing .env: %v", err)
	}
}

func TestReloader_ReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.jsonc")
	initial := &Config{PixelID: "keep"}
	r := NewReloader(configPath, filepath.Join(dir, ".env"), initial)

	if err := os.WriteFile(configPath, []byte(`{"pixelId": `), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(); err == nil {
		t.Fatal("expected error for malformed config")
	}

	writeReloadConfig(t, configPath, "", "page_view")
	err := r.Reload()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if r.Current() != initial {
		t.Error("config swapped despite reload failure")
	}
}

func TestEventChanges(t *testing.T) {
	prev := &Config{Events: []string{"page_view", "lead_submit"}}
	next := &Config{Events: []string{"lead_submit", "contact_click", "form_start"}}

	added, removed := EventChanges(prev, next)
	if !slices.Equal(added, []string{"contact_click", "form_start"}) {
		t.Errorf("added = %v", added)
	}
	if !slices.Equal(removed, []string{"page_view"}) {
		t.Errorf("removed = %v", removed)
	}

	added, removed = EventChanges(nil, next)
	if len(added) != 3 || removed != nil {
		t.Errorf("from nil: added = %v, removed = %v", added, removed)
	}
}
