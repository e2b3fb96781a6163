package container

// Variable type discriminators.
const (
	VariableCustomJS  = "jsm"
	VariableCookie    = "k"
	VariableDataLayer = "v"
	VariableConstant  = "c"
	VariableEventData = "ed"
	VariableLookup    = "smm"
)

// Variable is a named value declaration referenced by {{name}}.
type Variable struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Parameter []Parameter `json:"parameter"`
}

// Ref returns a placeholder pointing at v.
func (v Variable) Ref() Ref {
	return Ref(v.Name)
}

// ScriptVariable is a custom JavaScript variable; script must be a function expression.
func ScriptVariable(name, script string) Variable {
	return Variable{
		Name: name,
		Type: VariableCustomJS,
		Parameter: []Parameter{
			Template("javascript", script),
		},
	}
}

// CookieVariable reads a first-party cookie.
func CookieVariable(name, cookie string) Variable {
	return Variable{
		Name: name,
		Type: VariableCookie,
		Parameter: []Parameter{
			Boolean("decodeCookie", false),
			Template("name", cookie),
		},
	}
}

// DataLayerVariable reads a (dotted) data layer path.
func DataLayerVariable(name, path string) Variable {
	return Variable{
		Name: name,
		Type: VariableDataLayer,
		Parameter: []Parameter{
			Integer("dataLayerVersion", 2),
			Boolean("setDefaultValue", false),
			Template("name", path),
		},
	}
}

// ConstantVariable holds a literal value.
func ConstantVariable(name, value string) Variable {
	return Variable{
		Name: name,
		Type: VariableConstant,
		Parameter: []Parameter{
			Template("value", value),
		},
	}
}

// EventDataVariable reads a key path of the incoming event on the server.
func EventDataVariable(name, keyPath string) Variable {
	return Variable{
		Name: name,
		Type: VariableEventData,
		Parameter: []Parameter{
			Template("keyPath", keyPath),
		},
	}
}

// LookupVariable maps input through rows; unmatched input yields fallback.
func LookupVariable(name string, input Ref, rows []Pair, fallback any) Variable {
	table := make([]Parameter, len(rows))
	for i, row := range rows {
		table[i] = keyValue(row.Key, row.Value)
	}
	return Variable{
		Name: name,
		Type: VariableLookup,
		Parameter: []Parameter{
			Template("input", input),
			List("map", table...),
			Boolean("setDefaultValue", true),
			Template("defaultValue", fallback),
		},
	}
}

// FallbackVariable prefers the event-supplied value and falls back to the cookie
// when the event carries nothing.
func FallbackVariable(name string, preferred, fallback Ref) Variable {
	return LookupVariable(name, preferred, []Pair{
		{"", fallback.String()},
		{"undefined", fallback.String()},
	}, preferred)
}
