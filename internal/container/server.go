package container

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/dohr-michael/capigen/internal/config"
)

// Server container variable names.
const (
	ServerEventIDVar   = "ED - event_id"
	ServerEventFBPVar  = "ED - fbp"
	ServerEventFBCVar  = "ED - fbc"
	ServerCookieFBPVar = "Cookie - _fbp"
	ServerCookieFBCVar = "Cookie - _fbc"
	ServerFBPVar       = "Lookup - fbp"
	ServerFBCVar       = "Lookup - fbc"
	ServerEventNameVar = "Lookup - FB Event Name"
)

// EventNameLookupSize is how many entries of StandardEvents the server-side
// event name lookup translates; the rest pass through unchanged.
const EventNameLookupSize = 3

// ServerUserDataFieldVar names the event-data variable of one user-data field.
func ServerUserDataFieldVar(field string) string {
	return "ED - user_data." + field
}

// EventPattern anchors the alternation of events: ^(a|b|c)$.
// Each event is regexp-quoted; an empty list yields ^()$.
func EventPattern(events []string) string {
	quoted := make([]string, len(events))
	for i, ev := range events {
		quoted[i] = regexp.QuoteMeta(ev)
	}
	return "^(" + strings.Join(quoted, "|") + ")$"
}

// ServerDocument assembles the server container.
func ServerDocument(cfg *config.Config, opts Options) *Document {
	ids := NewAllocator()

	info := ContainerInfo{
		PublicID:     PublicID,
		Name:         "Server Container - CAPI Setup",
		UsageContext: []string{"SERVER"},
		Notes:        "Generated config for Pixel ID: " + cfg.PixelID,
	}
	if cfg.TaggingServerURL != "" {
		info.TaggingServerURLs = []string{cfg.TaggingServerURL}
	}
	doc := newDocument(opts.now(), info)
	cv := &doc.ContainerVersion
	cv.BuiltInVariable = []BuiltInVariable{BuiltInEventName}

	cv.Client = []Client{AnalyticsClient()}

	cv.Variable = append(cv.Variable,
		EventDataVariable(ServerEventIDVar, "event_id"),
		EventDataVariable(ServerEventFBPVar, "fbp"),
		EventDataVariable(ServerEventFBCVar, "fbc"),
	)
	for _, field := range config.FieldKeys {
		cv.Variable = append(cv.Variable, EventDataVariable(ServerUserDataFieldVar(field), "user_data."+field))
	}
	cv.Variable = append(cv.Variable,
		CookieVariable(ServerCookieFBPVar, "_fbp"),
		CookieVariable(ServerCookieFBCVar, "_fbc"),
		FallbackVariable(ServerFBPVar, Ref(ServerEventFBPVar), Ref(ServerCookieFBPVar)),
		FallbackVariable(ServerFBCVar, Ref(ServerEventFBCVar), Ref(ServerCookieFBCVar)),
		eventNameLookup(),
	)

	trigger := CustomEventRegexTrigger(ids, "CE - CAPI Events", BuiltInEventName.Ref(), EventPattern(cfg.Events))
	cv.Trigger = append(cv.Trigger, trigger)

	userData := make([]Pair, len(config.FieldKeys))
	for i, field := range config.FieldKeys {
		userData[i] = Pair{metaKey(field), Ref(ServerUserDataFieldVar(field)).String()}
	}
	cv.Tag = append(cv.Tag, ConversionAPITag(ConversionAPI{
		Type:          cfg.CAPITagType,
		PixelID:       cfg.PixelID,
		AccessToken:   cfg.AccessToken,
		TestEventCode: cfg.TestEventCode,
		EventName:     Ref(ServerEventNameVar),
		EventID:       Ref(ServerEventIDVar),
		UserData:      userData,
		FBP:           Ref(ServerFBPVar),
		FBC:           Ref(ServerFBCVar),
	}, trigger.TriggerID))

	s := doc.Summary()
	slog.Debug("server container built", "events", len(cfg.Events), "tags", s.Tags, "triggers", s.Triggers, "variables", s.Variables)
	return doc
}

func eventNameLookup() Variable {
	rows := make([]Pair, EventNameLookupSize)
	for i, e := range StandardEvents[:EventNameLookupSize] {
		rows[i] = Pair{e.Event, e.StandardName}
	}
	return LookupVariable(ServerEventNameVar, BuiltInEventName.Ref(), rows, BuiltInEventName.Ref())
}
