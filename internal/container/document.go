package container

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

const (
	// ExportFormatVersion is the GTM export format this package writes.
	ExportFormatVersion = 2

	// PublicID is the placeholder container id; GTM rewrites it on import.
	PublicID = "GTM-XXXXXXX"

	exportTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Document is one container export.
type Document struct {
	ExportFormatVersion int              `json:"exportFormatVersion"`
	ExportTime          string           `json:"exportTime"`
	ContainerVersion    ContainerVersion `json:"containerVersion"`
}

// ContainerVersion holds the entities of a container.
type ContainerVersion struct {
	Container       ContainerInfo     `json:"container"`
	BuiltInVariable []BuiltInVariable `json:"builtInVariable,omitempty"`
	Tag             []Tag             `json:"tag"`
	Trigger         []Trigger         `json:"trigger"`
	Variable        []Variable        `json:"variable"`
	Client          []Client          `json:"client,omitempty"`
}

// ContainerInfo is the container metadata.
type ContainerInfo struct {
	PublicID          string   `json:"publicId"`
	Name              string   `json:"name"`
	UsageContext      []string `json:"usageContext"`
	TaggingServerURLs []string `json:"taggingServerUrls,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// BuiltInVariable enables one of GTM's built-in variables.
type BuiltInVariable struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Built-in variables referenced by the generated triggers.
var (
	BuiltInEvent     = BuiltInVariable{Type: "EVENT", Name: "Event"}
	BuiltInEventName = BuiltInVariable{Type: "EVENT_NAME", Name: "Event Name"}
)

// placeholder is the name GTM uses inside {{ }} for the built-in.
func (b BuiltInVariable) placeholder() string {
	if b.Type == "EVENT" {
		return "_event"
	}
	return b.Name
}

// Ref returns a placeholder pointing at the built-in.
func (b BuiltInVariable) Ref() Ref {
	return Ref(b.placeholder())
}

func newDocument(now time.Time, info ContainerInfo) *Document {
	return &Document{
		ExportFormatVersion: ExportFormatVersion,
		ExportTime:          now.UTC().Format(exportTimeLayout),
		ContainerVersion: ContainerVersion{
			Container: info,
			Tag:       []Tag{},
			Trigger:   []Trigger{},
			Variable:  []Variable{},
		},
	}
}

// Summary counts the entities of a document.
type Summary struct {
	Tags      int `json:"tags"`
	Triggers  int `json:"triggers"`
	Variables int `json:"variables"`
	Clients   int `json:"clients"`
}

// Summary returns entity counts.
func (d *Document) Summary() Summary {
	cv := d.ContainerVersion
	return Summary{
		Tags:      len(cv.Tag),
		Triggers:  len(cv.Trigger),
		Variables: len(cv.Variable),
		Clients:   len(cv.Client),
	}
}

// Encode resolves references and writes the document as 2-space indented JSON.
func (d *Document) Encode(w io.Writer) error {
	if err := d.Resolve(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// MarshalIndent is Encode into a byte slice.
func (d *Document) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
