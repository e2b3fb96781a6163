package container

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReferences(t *testing.T) {
	got := References(`a {{X}} b {{Y - z}} {{X}} { {not} } {{}}`)
	if diff := cmp.Diff([]string{"X", "Y - z"}, got); diff != "" {
		t.Errorf("References (-want +got):\n%s", diff)
	}
}

func TestResolve(t *testing.T) {
	doc := newDocument(fixedNow, ContainerInfo{Name: "t"})
	cv := &doc.ContainerVersion
	cv.BuiltInVariable = []BuiltInVariable{BuiltInEvent}
	cv.Variable = []Variable{ConstantVariable("Const - A", "a")}
	ids := NewAllocator()
	cv.Trigger = []Trigger{CustomEventTrigger(ids, "CE - x", BuiltInEvent.Ref(), "x")}
	cv.Tag = []Tag{{
		Name:      "T",
		Type:      TagHTML,
		Parameter: []Parameter{List("rows", nameValue("a", Ref("Const - A")))},
	}}

	if err := doc.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	cv.Tag[0].Parameter = append(cv.Tag[0].Parameter, Template("html", "<b>{{Missing}}</b>"))
	err := doc.Resolve()
	if !errors.Is(err, ErrUnresolvedReference) {
		t.Fatalf("Resolve error = %v, want ErrUnresolvedReference", err)
	}
	if !strings.Contains(err.Error(), "tag T -> {{Missing}}") {
		t.Errorf("error should name the owner and reference: %v", err)
	}
}

func TestResolveBuiltInNames(t *testing.T) {
	doc := newDocument(fixedNow, ContainerInfo{Name: "t"})
	doc.ContainerVersion.Variable = []Variable{ConstantVariable("V", BuiltInEventName.Ref().String())}

	if err := doc.Resolve(); !errors.Is(err, ErrUnresolvedReference) {
		t.Fatalf("undeclared built-in should fail, got %v", err)
	}
	doc.ContainerVersion.BuiltInVariable = []BuiltInVariable{BuiltInEventName}
	if err := doc.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}
