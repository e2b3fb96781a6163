package container

import "testing"

func TestMapEventName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"page_view", "PageView"},
		{"lead_submit", "Lead"},
		{"contact_click", "Contact"},
		{"form_start", "InitiateCheckout"},
		{"form_submit", "CompleteRegistration"},
		{"newsletter_signup", "newsletter_signup"},
		{"PageView", "PageView"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MapEventName(tt.in); got != tt.want {
			t.Errorf("MapEventName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStandardEventsOrder(t *testing.T) {
	want := []string{"page_view", "lead_submit", "contact_click", "form_start", "form_submit"}
	if len(StandardEvents) != len(want) {
		t.Fatalf("StandardEvents = %d entries, want %d", len(StandardEvents), len(want))
	}
	for i, e := range StandardEvents {
		if e.Event != want[i] {
			t.Errorf("StandardEvents[%d] = %q, want %q", i, e.Event, want[i])
		}
	}
}

func TestAllocator(t *testing.T) {
	ids := NewAllocator()
	for _, want := range []string{"1", "2", "3"} {
		if got := ids.Next(); got != want {
			t.Errorf("Next = %q, want %q", got, want)
		}
	}
	ids.Reset()
	if got := ids.Next(); got != "1" {
		t.Errorf("Next after Reset = %q, want 1", got)
	}
}

func TestEventPattern(t *testing.T) {
	tests := []struct {
		events []string
		want   string
	}{
		{nil, "^()$"},
		{[]string{"page_view"}, "^(page_view)$"},
		{[]string{"a", "b", "c"}, "^(a|b|c)$"},
		{[]string{"a.b", "c+"}, `^(a\.b|c\+)$`},
	}
	for _, tt := range tests {
		if got := EventPattern(tt.events); got != tt.want {
			t.Errorf("EventPattern(%v) = %q, want %q", tt.events, got, tt.want)
		}
	}
}
