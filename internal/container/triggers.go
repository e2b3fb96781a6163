package container

// Trigger type discriminators.
const (
	TriggerPageview    = "PAGEVIEW"
	TriggerDOMReady    = "DOM_READY"
	TriggerCustomEvent = "CUSTOM_EVENT"
)

// Condition type discriminators.
const (
	ConditionEquals     = "EQUALS"
	ConditionMatchRegex = "MATCH_REGEX"
)

// Trigger decides when the tags wired to its id fire.
type Trigger struct {
	TriggerID         string      `json:"triggerId,omitempty"`
	Name              string      `json:"name"`
	Type              string      `json:"type"`
	CustomEventFilter []Condition `json:"customEventFilter,omitempty"`
}

// Condition compares arg0 (a placeholder) with arg1 using Type.
type Condition struct {
	Type      string      `json:"type"`
	Parameter []Parameter `json:"parameter"`
}

func condition(typ string, subject Ref, operand string) Condition {
	return Condition{
		Type: typ,
		Parameter: []Parameter{
			Template("arg0", subject),
			Template("arg1", operand),
		},
	}
}

// AllPagesTrigger fires on every page view.
func AllPagesTrigger(ids *Allocator) Trigger {
	return Trigger{TriggerID: ids.Next(), Name: "All Pages", Type: TriggerPageview}
}

// DOMReadyTrigger fires once the DOM is ready.
func DOMReadyTrigger(ids *Allocator) Trigger {
	return Trigger{TriggerID: ids.Next(), Name: "DOM Ready", Type: TriggerDOMReady}
}

// CustomEventTrigger fires when subject equals event.
func CustomEventTrigger(ids *Allocator, name string, subject Ref, event string) Trigger {
	return Trigger{
		TriggerID:         ids.Next(),
		Name:              name,
		Type:              TriggerCustomEvent,
		CustomEventFilter: []Condition{condition(ConditionEquals, subject, event)},
	}
}

// CustomEventRegexTrigger fires when subject matches pattern.
func CustomEventRegexTrigger(ids *Allocator, name string, subject Ref, pattern string) Trigger {
	return Trigger{
		TriggerID:         ids.Next(),
		Name:              name,
		Type:              TriggerCustomEvent,
		CustomEventFilter: []Condition{condition(ConditionMatchRegex, subject, pattern)},
	}
}
