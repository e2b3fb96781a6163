package container

import (
	"log/slog"

	"github.com/dohr-michael/capigen/internal/config"
)

// Web container variable names.
const (
	WebEventIDVar      = "JS - Event ID"
	WebCookieFBPVar    = "Cookie - _fbp"
	WebCookieFBCVar    = "Cookie - _fbc"
	WebUserDataVar     = "DLV - user_data"
	WebGA4IDVar        = "Const - GA4 Measurement ID"
	WebTransportURLVar = "Const - Transport URL"
	WebPixelIDVar      = "Const - Pixel ID"

	// FormCaptureEvent is the data layer event the form-capture tag pushes.
	FormCaptureEvent = "lead_submit"
)

// WebUserDataFieldVar names the data layer variable of one user-data field.
func WebUserDataFieldVar(field string) string {
	return WebUserDataVar + "." + field
}

// WebDocument assembles the web container.
func WebDocument(cfg *config.Config, opts Options) *Document {
	ids := NewAllocator()

	doc := newDocument(opts.now(), ContainerInfo{
		PublicID:     PublicID,
		Name:         "Web Container - CAPI Setup",
		UsageContext: []string{"WEB"},
		Notes:        "Generated config for Pixel ID: " + cfg.PixelID,
	})
	cv := &doc.ContainerVersion
	cv.BuiltInVariable = []BuiltInVariable{BuiltInEvent}

	cv.Variable = webVariables(cfg)

	allPages := AllPagesTrigger(ids)
	domReady := DOMReadyTrigger(ids)
	cv.Trigger = append(cv.Trigger, allPages, domReady)

	eventTriggers := make([]string, len(cfg.Events))
	for i, ev := range cfg.Events {
		t := CustomEventTrigger(ids, "CE - "+ev, BuiltInEvent.Ref(), ev)
		eventTriggers[i] = t.TriggerID
		cv.Trigger = append(cv.Trigger, t)
	}

	cv.Tag = append(cv.Tag, AnalyticsConfigTag(Ref(WebGA4IDVar), Ref(WebTransportURLVar), allPages.TriggerID))

	eventParams := []Pair{
		{"event_id", Ref(WebEventIDVar).String()},
		{"user_data", Ref(WebUserDataVar).String()},
		{"fbp", Ref(WebCookieFBPVar).String()},
		{"fbc", Ref(WebCookieFBCVar).String()},
	}
	for i, ev := range cfg.Events {
		for _, fc := range []FiringContext{ContextServer, ContextReporting} {
			cv.Tag = append(cv.Tag, AnalyticsEventTag(fc, ev, Ref(WebGA4IDVar), eventParams, eventTriggers[i]))
		}
	}

	matching := make([]Pair, len(config.FieldKeys))
	for i, field := range config.FieldKeys {
		matching[i] = Pair{metaKey(field), Ref(WebUserDataFieldVar(field)).String()}
	}
	for i, ev := range cfg.Events {
		cv.Tag = append(cv.Tag, TrackingScriptTag(ev, Ref(WebPixelIDVar), Ref(WebEventIDVar), matching, eventTriggers[i]))
	}

	cv.Tag = append(cv.Tag, FormCaptureTag(FormCaptureEvent, cfg.Selectors, domReady.TriggerID))

	s := doc.Summary()
	slog.Debug("web container built", "events", len(cfg.Events), "tags", s.Tags, "triggers", s.Triggers, "variables", s.Variables)
	return doc
}

func webVariables(cfg *config.Config) []Variable {
	vars := []Variable{
		ScriptVariable(WebEventIDVar, eventIDScript()),
		CookieVariable(WebCookieFBPVar, "_fbp"),
		CookieVariable(WebCookieFBCVar, "_fbc"),
		DataLayerVariable(WebUserDataVar, "user_data"),
	}
	for _, field := range config.FieldKeys {
		vars = append(vars, DataLayerVariable(WebUserDataFieldVar(field), "user_data."+field))
	}
	return append(vars,
		ConstantVariable(WebGA4IDVar, cfg.GA4MeasurementID),
		ConstantVariable(WebTransportURLVar, cfg.TransportURL),
		ConstantVariable(WebPixelIDVar, cfg.PixelID),
	)
}
