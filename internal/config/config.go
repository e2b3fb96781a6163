package config

import "strings"

// FieldKeys lists the user-data fields captured from forms, in emission order.
var FieldKeys = []string{"email", "phone", "fn", "ln", "ct", "st", "zp", "country"}

// Config is the marketing-integration configuration a container build is derived from.
// JSON keys match the export format of capi-config.json.
type Config struct {
	PixelID          string    `json:"pixelId" yaml:"pixelId"`
	AccessToken      string    `json:"accessToken" yaml:"accessToken"`
	TestEventCode    string    `json:"testEventCode,omitempty" yaml:"testEventCode,omitempty"`
	GA4MeasurementID string    `json:"ga4MeasurementId" yaml:"ga4MeasurementId"`
	TaggingServerURL string    `json:"taggingServerUrl" yaml:"taggingServerUrl"`
	TransportURL     string    `json:"transportUrl" yaml:"transportUrl"`
	Events           []string  `json:"events" yaml:"events"`
	Selectors        Selectors `json:"selectors" yaml:"selectors"`

	// CAPITagType overrides the type of the server-side conversions tag
	// (the custom template id of the imported community template).
	CAPITagType string `json:"capiTagType,omitempty" yaml:"capiTagType,omitempty"`
}

// Selectors holds the two form layouts the capture script probes for.
type Selectors struct {
	Main     SelectorSet `json:"main" yaml:"main"`
	Unbounce SelectorSet `json:"unbounce" yaml:"unbounce"`
}

// SelectorSet maps each user-data field to a CSS selector. Empty means "not captured".
type SelectorSet struct {
	Email   string `json:"email" yaml:"email"`
	Phone   string `json:"phone" yaml:"phone"`
	FN      string `json:"fn" yaml:"fn"`
	LN      string `json:"ln" yaml:"ln"`
	CT      string `json:"ct" yaml:"ct"`
	ST      string `json:"st" yaml:"st"`
	ZP      string `json:"zp" yaml:"zp"`
	Country string `json:"country" yaml:"country"`
}

// Get returns the selector for a field key, or "" for unknown keys.
func (s SelectorSet) Get(key string) string {
	switch key {
	case "email":
		return s.Email
	case "phone":
		return s.Phone
	case "fn":
		return s.FN
	case "ln":
		return s.LN
	case "ct":
		return s.CT
	case "st":
		return s.ST
	case "zp":
		return s.ZP
	case "country":
		return s.Country
	}
	return ""
}

// Default returns the configuration a fresh install starts from.
func Default() Config {
	return Config{
		Events: []string{"page_view", "lead_submit", "contact_click", "form_start", "form_submit"},
		Selectors: Selectors{
			Main: SelectorSet{
				Email:   `input[name="email"]`,
				Phone:   `input[name="phone"]`,
				FN:      `input[name="first_name"]`,
				LN:      `input[name="last_name"]`,
				CT:      `input[name="city"]`,
				ST:      `input[name="state"]`,
				ZP:      `input[name="zip"]`,
				Country: `input[name="country"]`,
			},
			Unbounce: SelectorSet{
				Email:   "#email",
				Phone:   "#phone_number",
				FN:      "#first_name",
				LN:      "#last_name",
				CT:      "#city",
				ST:      "#state",
				ZP:      "#zip",
				Country: "#country",
			},
		},
	}
}

// Masked returns a copy safe to print: the access token keeps only its last 4 characters.
func (c Config) Masked() Config {
	c.Events = append([]string(nil), c.Events...)
	c.AccessToken = MaskSecret(c.AccessToken)
	return c
}

// MaskSecret hides all but the last 4 characters of s.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", 8) + s[len(s)-4:]
}
