package container

import (
	"github.com/dohr-michael/capigen/internal/config"
)

// Tag type discriminators.
const (
	TagGA4Config = "gaawc"
	TagGA4Event  = "gaawe"
	TagHTML      = "html"

	// DefaultConversionAPITagType stands in for the custom template id GTM assigns
	// when the Conversions API template is imported. Override with
	// config.Config.CAPITagType once the real id is known.
	DefaultConversionAPITagType = "cvt_facebook_conversions_api"
)

// FiringOncePerEvent is the tag firing option for pixel tags.
const FiringOncePerEvent = "ONCE_PER_EVENT"

// Tag is a unit of behavior wired to one or more triggers.
type Tag struct {
	Name            string      `json:"name"`
	Type            string      `json:"type"`
	Parameter       []Parameter `json:"parameter"`
	FiringTriggerID []string    `json:"firingTriggerId"`
	TagFiringOption string      `json:"tagFiringOption,omitempty"`
}

// FiringContext tags the downstream consumer of a GA4 event tag.
type FiringContext string

const (
	ContextServer    FiringContext = "server"
	ContextReporting FiringContext = "reporting"
)

// AnalyticsConfigTag is the GA4 configuration tag; hits go to transportURL.
func AnalyticsConfigTag(measurementID, transportURL Ref, triggerID string) Tag {
	return Tag{
		Name: "GA4 - Configuration",
		Type: TagGA4Config,
		Parameter: []Parameter{
			Template("measurementId", measurementID),
			Boolean("sendPageView", true),
			List("fieldsToSet",
				nameValue("transport_url", transportURL),
				nameValue("first_party_collection", "true"),
			),
		},
		FiringTriggerID: []string{triggerID},
	}
}

// AnalyticsEventTag is a GA4 event tag for event. Tags for different firing
// contexts differ only in their name.
func AnalyticsEventTag(fc FiringContext, event string, measurementID Ref, params []Pair, triggerID string) Tag {
	rows := make([]Parameter, len(params))
	for i, p := range params {
		rows[i] = nameValue(p.Key, p.Value)
	}
	return Tag{
		Name: "GA4 - " + event + " - " + string(fc),
		Type: TagGA4Event,
		Parameter: []Parameter{
			Template("eventName", event),
			Template("measurementIdOverride", measurementID),
			List("eventParameters", rows...),
		},
		FiringTriggerID: []string{triggerID},
	}
}

// TrackingScriptTag is the Meta Pixel custom HTML tag for event. The internal
// event identifier is translated with MapEventName before it is embedded.
func TrackingScriptTag(event string, pixelID, eventID Ref, matching []Pair, triggerID string) Tag {
	script := TrackingScript{
		PixelID:   pixelID.String(),
		EventName: MapEventName(event),
		EventID:   eventID.String(),
		Matching:  matching,
	}
	return Tag{
		Name: "FB Pixel - " + event,
		Type: TagHTML,
		Parameter: []Parameter{
			Template("html", script.Render()),
			Boolean("supportDocumentWrite", false),
		},
		FiringTriggerID: []string{triggerID},
		TagFiringOption: FiringOncePerEvent,
	}
}

// FormCaptureTag pushes event with user data read from submitted forms.
func FormCaptureTag(event string, sel config.Selectors, triggerID string) Tag {
	return Tag{
		Name: "Form Capture - " + event,
		Type: TagHTML,
		Parameter: []Parameter{
			Template("html", NewFormCaptureScript(event, sel).Render()),
			Boolean("supportDocumentWrite", false),
		},
		FiringTriggerID: []string{triggerID},
		TagFiringOption: FiringOncePerEvent,
	}
}

// ConversionAPI holds the inputs of the server-side Conversions API tag.
type ConversionAPI struct {
	Type          string // "" means DefaultConversionAPITagType
	PixelID       string
	AccessToken   string
	TestEventCode string // omitted from the tag when empty
	EventName     Ref
	EventID       Ref
	UserData      []Pair // Meta user_data key -> placeholder
	FBP           Ref
	FBC           Ref
}

// ConversionAPITag builds the Conversions API tag.
func ConversionAPITag(c ConversionAPI, triggerID string) Tag {
	typ := c.Type
	if typ == "" {
		typ = DefaultConversionAPITagType
	}

	userData := make([]Parameter, len(c.UserData))
	for i, kv := range c.UserData {
		userData[i] = nameValue(kv.Key, kv.Value)
	}

	params := []Parameter{
		Template("pixelId", c.PixelID),
		Template("apiAccessToken", c.AccessToken),
		Template("eventName", c.EventName),
		Template("eventId", c.EventID),
		List("userData", userData...),
		Template("fbp", c.FBP),
		Template("fbc", c.FBC),
	}
	if c.TestEventCode != "" {
		params = append(params, Template("testEventCode", c.TestEventCode))
	}

	return Tag{
		Name:            "FB CAPI - Events",
		Type:            typ,
		Parameter:       params,
		FiringTriggerID: []string{triggerID},
	}
}

// Client declares an inbound request handler of a server container.
type Client struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Parameter []Parameter `json:"parameter"`
}

// AnalyticsClient claims GA4 requests sent to the server container.
func AnalyticsClient() Client {
	return Client{
		Name: "GA4",
		Type: "gaaw_client",
		Parameter: []Parameter{
			Boolean("activateResponseCompression", true),
			Boolean("activateGtagSupport", false),
			Boolean("activateDefaultPaths", true),
			Template("cookieManagement", "js"),
		},
	}
}
