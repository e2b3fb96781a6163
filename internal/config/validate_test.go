package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default()
	cfg.PixelID = "123"
	cfg.AccessToken = "tok"
	cfg.GA4MeasurementID = "G-AAA"
	cfg.TransportURL = "https://x.com"
	cfg.Events = []string{"page_view"}
	return &cfg
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty pixel", func(c *Config) { c.PixelID = "  " }, "pixelId is required"},
		{"empty token", func(c *Config) { c.AccessToken = "" }, "accessToken is required"},
		{"bad ga4", func(c *Config) { c.GA4MeasurementID = "UA-123" }, "ga4MeasurementId"},
		{"http transport", func(c *Config) { c.TransportURL = "http://x.com" }, "transportUrl"},
		{"bad tagging url", func(c *Config) { c.TaggingServerURL = "ftp://x" }, "taggingServerUrl"},
		{"no events", func(c *Config) { c.Events = nil }, "at least one event"},
		{"too many events", func(c *Config) { c.Events = []string{"a", "b", "c", "d", "e", "f"} }, "at most 5"},
		{"bad event", func(c *Config) { c.Events = []string{"Page View"} }, `events[0] "Page View"`},
		{"dup event", func(c *Config) { c.Events = []string{"a", "a"} }, "duplicated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestProblems_Aggregates(t *testing.T) {
	problems := Problems(&Config{})
	if len(problems) != 5 {
		t.Errorf("Problems(empty) = %d entries, want 5: %v", len(problems), problems)
	}
}

func TestIsValidGA4ID(t *testing.T) {
	tests := map[string]bool{
		"G-AAA":     true,
		"G-abc123":  true,
		"G-":        false,
		"g-AAA":     false,
		"G-AA A":    false,
		"UA-1234-1": false,
	}
	for in, want := range tests {
		if got := IsValidGA4ID(in); got != want {
			t.Errorf("IsValidGA4ID(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsValidURL(t *testing.T) {
	tests := map[string]bool{
		"https://x.com":          true,
		"https://sgtm.x.com/abc": true,
		"http://x.com":           false,
		"x.com":                  false,
		"":                       false,
		"https://":               false,
	}
	for in, want := range tests {
		if got := IsValidURL(in); got != want {
			t.Errorf("IsValidURL(%q) = %v, want %v", in, got, want)
		}
	}
}
