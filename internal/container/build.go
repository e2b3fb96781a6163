package container

import (
	"errors"
	"fmt"
	"time"

	"github.com/dohr-michael/capigen/internal/config"
)

// Options tunes a build.
type Options struct {
	// Now stamps exportTime; time.Now when nil.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Result is everything a build hands back to its caller.
type Result struct {
	Web     *Document       `json:"web"`
	Server  *Document       `json:"server"`
	Mapping []StandardEvent `json:"mapping"`
}

// Build assembles both documents from cfg. The two assemblies share nothing.
func Build(cfg *config.Config, opts Options) *Result {
	return &Result{
		Web:     WebDocument(cfg, opts),
		Server:  ServerDocument(cfg, opts),
		Mapping: EventMapping(cfg.Events),
	}
}

// Kind selects one of the two documents of a build.
type Kind string

const (
	KindWeb    Kind = "web"
	KindServer Kind = "server"
)

// Kinds lists both document kinds in output order.
var Kinds = []Kind{KindWeb, KindServer}

// ParseKind accepts "web" or "server".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindWeb, KindServer:
		return k, nil
	}
	return "", fmt.Errorf("unknown container kind %q (want web or server)", s)
}

// FileName is the conventional export file name of the kind.
func (k Kind) FileName() string {
	return string(k) + "-gtm-container.json"
}

// Document returns the document of the given kind.
func (r *Result) Document(k Kind) *Document {
	if k == KindServer {
		return r.Server
	}
	return r.Web
}

// Resolve checks references in both documents.
func (r *Result) Resolve() error {
	var errs []error
	if err := r.Web.Resolve(); err != nil {
		errs = append(errs, fmt.Errorf("web: %w", err))
	}
	if err := r.Server.Resolve(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	return errors.Join(errs...)
}

// EventMapping translates the configured events, preserving their order.
func EventMapping(events []string) []StandardEvent {
	out := make([]StandardEvent, len(events))
	for i, ev := range events {
		out[i] = StandardEvent{Event: ev, StandardName: MapEventName(ev)}
	}
	return out
}

// Meta's short keys for the user-data fields; the rest keep the field name.
var metaKeys = map[string]string{
	"email": "em",
	"phone": "ph",
}

func metaKey(field string) string {
	if k, ok := metaKeys[field]; ok {
		return k
	}
	return field
}
