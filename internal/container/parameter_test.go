package container

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestParamScalar(t *testing.T) {
	tests := []struct {
		name string
		p    Parameter
		want string
	}{
		{"template", Template("name", "_fbp"), `{"type":"TEMPLATE","key":"name","value":"_fbp"}`},
		{"empty value kept", Template("value", ""), `{"type":"TEMPLATE","key":"value","value":""}`},
		{"boolean", Boolean("decodeCookie", false), `{"type":"BOOLEAN","key":"decodeCookie","value":"false"}`},
		{"integer", Integer("dataLayerVersion", 2), `{"type":"INTEGER","key":"dataLayerVersion","value":"2"}`},
		{"ref", Template("input", Ref("Event Name")), `{"type":"TEMPLATE","key":"input","value":"{{Event Name}}"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.p)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParamNoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Template("html", "<script>a && b</script>")); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"type":"TEMPLATE","key":"html","value":"<script>a && b</script>"}` + "\n"
	if buf.String() != want {
		t.Errorf("got  %s\nwant %s", buf.String(), want)
	}
}

func TestParamList(t *testing.T) {
	p := List("fieldsToSet", nameValue("transport_url", "https://x"))
	got, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"type":"LIST","key":"fieldsToSet","list":[{"type":"MAP","map":[` +
		`{"type":"TEMPLATE","key":"name","value":"transport_url"},` +
		`{"type":"TEMPLATE","key":"value","value":"https://x"}]}]}`
	if string(got) != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestParamEmptyList(t *testing.T) {
	got, err := json.Marshal(List("map"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := `{"type":"LIST","key":"map","list":[]}`; string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestParamMapFromParameters(t *testing.T) {
	p := Param(TypeMap, "row", []Parameter{Boolean("on", true)})
	if len(p.Map) != 1 || p.Map[0].Key != "on" {
		t.Errorf("map = %+v", p.Map)
	}
}

func TestParamWrongShape(t *testing.T) {
	p := Param(TypeList, "x", "not a list")
	if p.List != nil || p.Value != "" {
		t.Errorf("wrong-shaped LIST should stay empty, got %+v", p)
	}
}
