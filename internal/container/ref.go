package container

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ErrUnresolvedReference is returned by Document.Resolve when a placeholder names
// a variable the document does not declare.
var ErrUnresolvedReference = errors.New("unresolved variable reference")

// Ref is a symbolic reference to a variable by name. Its string form is the GTM
// placeholder {{name}}.
type Ref string

func (r Ref) String() string {
	return "{{" + string(r) + "}}"
}

var placeholderRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// References returns the distinct variable names referenced in s, in order of
// first appearance.
func References(s string) []string {
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(s, -1) {
		if !slices.Contains(out, m[1]) {
			out = append(out, m[1])
		}
	}
	return out
}

// Resolve checks every placeholder in the document against its declared
// variables and built-in variables.
func (d *Document) Resolve() error {
	cv := &d.ContainerVersion
	declared := make(map[string]bool, len(cv.Variable)+len(cv.BuiltInVariable))
	for _, v := range cv.Variable {
		declared[v.Name] = true
	}
	for _, b := range cv.BuiltInVariable {
		declared[b.placeholder()] = true
	}

	var missing []string
	check := func(owner string, params []Parameter) {
		walkValues(params, func(value string) {
			for _, name := range References(value) {
				if !declared[name] {
					missing = append(missing, fmt.Sprintf("%s -> %s", owner, Ref(name)))
				}
			}
		})
	}

	for _, v := range cv.Variable {
		check("variable "+v.Name, v.Parameter)
	}
	for _, t := range cv.Trigger {
		for _, f := range t.CustomEventFilter {
			check("trigger "+t.Name, f.Parameter)
		}
	}
	for _, t := range cv.Tag {
		check("tag "+t.Name, t.Parameter)
	}
	for _, c := range cv.Client {
		check("client "+c.Name, c.Parameter)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnresolvedReference, strings.Join(missing, "; "))
	}
	return nil
}

func walkValues(params []Parameter, fn func(string)) {
	for _, p := range params {
		if p.Value != "" {
			fn(p.Value)
		}
		walkValues(p.List, fn)
		walkValues(p.Map, fn)
	}
}
