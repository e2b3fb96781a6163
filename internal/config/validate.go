package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MaxEvents is the largest number of events a container build accepts.
const MaxEvents = 5

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

var (
	ga4IDRe     = regexp.MustCompile(`^G-[A-Za-z0-9]+$`)
	eventNameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// Validate checks cfg against the input contract of the container builders.
// The builders themselves accept anything; callers are expected to run this first.
func Validate(cfg *Config) error {
	problems := Problems(cfg)
	if len(problems) == 0 {
		return nil
	}
	errs := make([]error, len(problems))
	for i, p := range problems {
		errs[i] = errors.New(p)
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Problems lists every validation failure in cfg, in field order.
func Problems(cfg *Config) []string {
	var out []string
	if !nonEmpty(cfg.PixelID) {
		out = append(out, "pixelId is required")
	}
	if !nonEmpty(cfg.AccessToken) {
		out = append(out, "accessToken is required")
	}
	if !IsValidGA4ID(cfg.GA4MeasurementID) {
		out = append(out, fmt.Sprintf("ga4MeasurementId %q must look like G-XXXXXXX", cfg.GA4MeasurementID))
	}
	if !IsValidURL(cfg.TransportURL) {
		out = append(out, fmt.Sprintf("transportUrl %q must be an https URL", cfg.TransportURL))
	}
	if cfg.TaggingServerURL != "" && !IsValidURL(cfg.TaggingServerURL) {
		out = append(out, fmt.Sprintf("taggingServerUrl %q must be an https URL", cfg.TaggingServerURL))
	}

	switch n := len(cfg.Events); {
	case n == 0:
		out = append(out, "events: at least one event is required")
	case n > MaxEvents:
		out = append(out, fmt.Sprintf("events: at most %d events are allowed, got %d", MaxEvents, n))
	}
	seen := make(map[string]bool, len(cfg.Events))
	for i, ev := range cfg.Events {
		if !IsValidEventName(ev) {
			out = append(out, fmt.Sprintf("events[%d] %q must match %s", i, ev, eventNameRe))
			continue
		}
		if seen[ev] {
			out = append(out, fmt.Sprintf("events[%d] %q is duplicated", i, ev))
		}
		seen[ev] = true
	}
	return out
}

// IsValidURL reports whether s is an absolute https URL.
func IsValidURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host != ""
}

// IsValidGA4ID reports whether id looks like a GA4 measurement id.
func IsValidGA4ID(id string) bool {
	return ga4IDRe.MatchString(id)
}

// IsValidEventName reports whether name is a lowercase snake_case event name.
func IsValidEventName(name string) bool {
	return eventNameRe.MatchString(name)
}

func nonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}
