package container

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/dohr-michael/capigen/internal/config"
)

// Script templates use [[ ]] delimiters so that GTM {{placeholders}} never collide
// with template actions. Configuration strings go through js, which emits a JSON
// string literal with braces written as \u007b and \u007d, so selector text can
// never read as a placeholder. jsRef and jsRefObj keep braces and are reserved
// for values built from Refs.
var scriptFuncs = template.FuncMap{
	"js":       jsString,
	"jsRef":    jsValue,
	"jsList":   jsList,
	"jsObj":    jsObject,
	"jsRefObj": jsRefObject,
}

func parseScript(name, text string) *template.Template {
	return template.Must(template.New(name).Delims("[[", "]]").Funcs(scriptFuncs).Parse(text))
}

var braceEscaper = strings.NewReplacer("{", `\u007b`, "}", `\u007d`)

func jsString(s string) string {
	return braceEscaper.Replace(jsValue(s))
}

func jsValue(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func jsList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = jsString(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func jsObject(pairs []Pair) string {
	return objectLiteral(pairs, jsString)
}

func jsRefObject(pairs []Pair) string {
	return objectLiteral(pairs, jsValue)
}

func objectLiteral(pairs []Pair, value func(string) string) string {
	if len(pairs) == 0 {
		return "{ }"
	}
	entries := make([]string, len(pairs))
	for i, kv := range pairs {
		entries[i] = jsString(kv.Key) + ": " + value(kv.Value)
	}
	return "{ " + strings.Join(entries, ", ") + " }"
}

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Templates are static and data is fully typed; a failure is a programming error.
		panic("container: render " + t.Name() + ": " + err.Error())
	}
	return buf.String()
}

const eventIDScriptText = `function() {
  var id = window.__capiEventId;
  var now = Date.now();
  if (!id || now - window.__capiEventIdAt > 1000) {
    id = now + '.' + Math.random().toString(36).slice(2, 10);
    window.__capiEventId = id;
    window.__capiEventIdAt = now;
  }
  return id;
}`

// eventIDScript is the custom JavaScript variable body that yields the event id
// shared by the browser pixel and the server event for deduplication.
func eventIDScript() string {
	return eventIDScriptText
}

var trackingScriptTmpl = parseScript("tracking", `<script>
!function(f,b,e,v,n,t,s)
{if(f.fbq)return;n=f.fbq=function(){n.callMethod?
n.callMethod.apply(n,arguments):n.queue.push(arguments)};
if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';
n.queue=[];t=b.createElement(e);t.async=!0;
t.src=v;s=b.getElementsByTagName(e)[0];
s.parentNode.insertBefore(t,s)}(window, document, 'script',
'https://connect.facebook.net/en_US/fbevents.js');
fbq('init', [[jsRef .PixelID]], [[jsRefObj .Matching]]);
fbq('track', [[js .EventName]], { }, { eventID: [[jsRef .EventID]] });
</script>
`)

// TrackingScript holds the inputs of a Meta Pixel init + track call.
// PixelID, EventID and the Matching values may hold placeholders.
type TrackingScript struct {
	PixelID   string
	EventName string // standard event name
	EventID   string // usually a placeholder resolved by GTM at runtime
	Matching  []Pair // advanced matching; empty values are kept as ""
}

// Render returns the custom HTML for the tag.
func (s TrackingScript) Render() string {
	return render(trackingScriptTmpl, s)
}

var formCaptureTmpl = parseScript("formCapture", `<script>
(function() {
  var FIELD_KEYS = [[jsList .FieldKeys]];
  var SELECTOR_SETS = [
    { name: 'main', fields: [[jsObj .Main]] },
    { name: 'unbounce', fields: [[jsObj .Unbounce]] }
  ];

  function readCookie(name) {
    var match = document.cookie.match(new RegExp('(^|; )' + name + '=([^;]*)'));
    return match ? decodeURIComponent(match[2]) : '';
  }

  function writeCookie(name, value) {
    var expires = new Date(Date.now() + 90 * 24 * 60 * 60 * 1000).toUTCString();
    document.cookie = name + '=' + encodeURIComponent(value) + '; expires=' + expires + '; path=/; SameSite=Lax';
  }

  var fbp = readCookie('_fbp');
  if (!fbp) {
    fbp = 'fb.1.' + Date.now() + '.' + Math.floor(Math.random() * 10000000000);
    writeCookie('_fbp', fbp);
  }

  var fbc = readCookie('_fbc');
  if (!fbc) {
    var fbclid = new URLSearchParams(window.location.search).get('fbclid');
    if (fbclid) {
      fbc = 'fb.1.' + Date.now() + '.' + fbclid;
      writeCookie('_fbc', fbc);
    }
  }

  function find(form, selector) {
    if (!selector) return null;
    try {
      return form.querySelector(selector);
    } catch (e) {
      return null;
    }
  }

  function pickSet(form) {
    for (var i = 0; i < SELECTOR_SETS.length; i++) {
      var fields = SELECTOR_SETS[i].fields;
      for (var k = 0; k < FIELD_KEYS.length; k++) {
        if (find(form, fields[FIELD_KEYS[k]])) return SELECTOR_SETS[i];
      }
    }
    return null;
  }

  document.addEventListener('submit', function(event) {
    var form = event.target;
    if (!form || form.tagName !== 'FORM') return;
    var set = pickSet(form);
    if (!set) return;

    var userData = { };
    FIELD_KEYS.forEach(function(key) {
      var el = find(form, set.fields[key]);
      userData[key] = el && el.value ? String(el.value).trim() : '';
    });

    window.dataLayer = window.dataLayer || [];
    window.dataLayer.push({
      event: [[js .EventName]],
      user_data: userData,
      fbp: fbp,
      fbc: fbc
    });
  }, true);
})();
</script>
`)

// FormCaptureScript holds the inputs of the form-capture tag.
type FormCaptureScript struct {
	EventName string
	FieldKeys []string
	Main      []Pair
	Unbounce  []Pair
}

// NewFormCaptureScript orders both selector sets by config.FieldKeys.
func NewFormCaptureScript(event string, sel config.Selectors) FormCaptureScript {
	return FormCaptureScript{
		EventName: event,
		FieldKeys: config.FieldKeys,
		Main:      selectorPairs(sel.Main),
		Unbounce:  selectorPairs(sel.Unbounce),
	}
}

// Render returns the custom HTML for the tag.
func (s FormCaptureScript) Render() string {
	return render(formCaptureTmpl, s)
}

func selectorPairs(set config.SelectorSet) []Pair {
	pairs := make([]Pair, len(config.FieldKeys))
	for i, key := range config.FieldKeys {
		pairs[i] = Pair{key, set.Get(key)}
	}
	return pairs
}
