package container

import (
	"slices"
	"strings"
	"testing"

	"github.com/dohr-michael/capigen/internal/config"
)

func TestTrackingScript(t *testing.T) {
	s := TrackingScript{
		PixelID:   "123",
		EventName: "Lead",
		EventID:   "{{JS - Event ID}}",
		Matching:  []Pair{{"em", "{{DLV - user_data.email}}"}, {"ph", ""}},
	}.Render()

	for _, want := range []string{
		"https://connect.facebook.net/en_US/fbevents.js",
		`fbq('init', "123", { "em": "{{DLV - user_data.email}}", "ph": "" });`,
		`fbq('track', "Lead", { }, { eventID: "{{JS - Event ID}}" });`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("script missing %q\n%s", want, s)
		}
	}
}

func TestTrackingScriptEscapes(t *testing.T) {
	s := TrackingScript{
		PixelID:   `1"); alert('x`,
		EventName: "</script><script>evil()",
	}.Render()

	if strings.Contains(s, `"1"); alert`) {
		t.Error("pixel id quote not escaped")
	}
	if strings.Contains(s, "</script><script>evil") {
		t.Error("closing script tag not escaped")
	}
	if !strings.Contains(s, `fbq('init', "1\"); alert('x", { });`) {
		t.Errorf("unexpected init line:\n%s", s)
	}
}

func TestFormCaptureScript(t *testing.T) {
	s := NewFormCaptureScript("lead_submit", config.Default().Selectors).Render()

	for _, want := range []string{
		`var FIELD_KEYS = ["email", "phone", "fn", "ln", "ct", "st", "zp", "country"];`,
		`"email": "input[name=\"email\"]"`,
		`"phone": "#phone_number"`,
		`readCookie('_fbp')`,
		`get('fbclid')`,
		`event: "lead_submit"`,
		`user_data: userData`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("script missing %q", want)
		}
	}
}

func TestFormCaptureScriptEmptySelector(t *testing.T) {
	sel := config.Default().Selectors
	sel.Unbounce.Country = ""
	s := NewFormCaptureScript("lead_submit", sel).Render()
	if !strings.Contains(s, `"country": ""`) {
		t.Error("empty selector should be emitted as an empty string")
	}
}

func TestScriptsHaveNoPlaceholders(t *testing.T) {
	scripts := map[string]string{
		"event id":     eventIDScript(),
		"form capture": NewFormCaptureScript("lead_submit", config.Default().Selectors).Render(),
		"tracking":     TrackingScript{PixelID: "1", EventName: "Lead"}.Render(),
	}
	for name, s := range scripts {
		if refs := References(s); len(refs) != 0 {
			t.Errorf("%s script contains placeholders %v", name, refs)
		}
	}
}

func TestFormCaptureScriptBracesInSelector(t *testing.T) {
	sel := config.Default().Selectors
	sel.Main.Email = `input[data-f="{{x}}"]`
	s := NewFormCaptureScript("lead_submit", sel).Render()

	if refs := References(s); len(refs) != 0 {
		t.Errorf("selector braces read as placeholders %v", refs)
	}
	if !strings.Contains(s, `"email": "input[data-f=\"\u007b\u007bx\u007d\u007d\"]"`) {
		t.Errorf("selector not escaped:\n%s", s)
	}
}

func TestWebDocumentResolvesWithBracesInSelector(t *testing.T) {
	cfg := testConfig("lead_submit")
	cfg.Selectors.Main.Email = `input[data-f="{{x}}"]`
	cfg.Selectors.Unbounce.Phone = `#{phone}`

	doc := WebDocument(cfg, Options{})
	if err := doc.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := doc.MarshalIndent(); err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
}

func TestTrackingScriptKeepsPlaceholders(t *testing.T) {
	s := TrackingScript{
		PixelID:   "{{Const - Pixel ID}}",
		EventName: "Lead",
		EventID:   "{{JS - Event ID}}",
		Matching:  []Pair{{"em", "{{DLV - user_data.email}}"}},
	}.Render()

	want := []string{"Const - Pixel ID", "DLV - user_data.email", "JS - Event ID"}
	got := References(s)
	for _, w := range want {
		if !slices.Contains(got, w) {
			t.Errorf("references %v missing %q", got, w)
		}
	}
}
