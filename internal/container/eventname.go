package container

// StandardEvent pairs an internal event identifier with the Meta standard event name.
type StandardEvent struct {
	Event        string `json:"event"`
	StandardName string `json:"standard_name"`
}

// StandardEvents is the fixed translation table, in its canonical order.
// Downstream consumers match on these literal names.
var StandardEvents = []StandardEvent{
	{"page_view", "PageView"},
	{"lead_submit", "Lead"},
	{"contact_click", "Contact"},
	{"form_start", "InitiateCheckout"},
	{"form_submit", "CompleteRegistration"},
}

var standardNames = func() map[string]string {
	m := make(map[string]string, len(StandardEvents))
	for _, e := range StandardEvents {
		m[e.Event] = e.StandardName
	}
	return m
}()

// MapEventName translates an internal event identifier to its standard name.
// Unknown identifiers, including "", are returned unchanged.
func MapEventName(event string) string {
	if name, ok := standardNames[event]; ok {
		return name
	}
	return event
}
