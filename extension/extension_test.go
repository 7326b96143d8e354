package extension

import (
	"testing"

	"github.com/jhunkeler/libasdf-sub000/internal/yamltree"
	"github.com/jhunkeler/libasdf-sub000/value"
)

type widget struct{ Name string }

func mustView(t *testing.T, yamlSrc string) *value.View {
	t.Helper()
	doc, err := yamltree.Parse([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("yamltree.Parse: %v", err)
	}
	return value.FromDocument(nil, doc)
}

func TestRegisterGetRoundTrip(t *testing.T) {
	RegisterType[widget]("test/widget-1.0.0", func(v *value.View) (widget, error) {
		nameV := v.Get("/name")
		name, err := nameV.AsString()
		return widget{Name: name}, err
	})

	v := mustView(t, `name: gizmo`)
	v.Node().Tag = "tag:stsci.edu:asdf/test/widget-1.0.0"

	got, err := As[widget](v)
	if err != nil {
		t.Fatalf("As: %v", err)
	}
	if got.Name != "gizmo" {
		t.Fatalf("got %+v", got)
	}
	if !Is[widget](v) {
		t.Fatal("expected Is[widget] to report true")
	}
}

func TestGetUnregisteredTag(t *testing.T) {
	if _, ok := Get("test/nonexistent-9.9.9"); ok {
		t.Fatal("expected no extension registered for an unused tag")
	}
}

func TestCanonicalizeEquivalence(t *testing.T) {
	RegisterType[widget]("canon/widget-2.0.0", func(v *value.View) (widget, error) {
		return widget{}, nil
	})
	a, okA := Get("canon/widget-2.0.0")
	b, okB := Get("tag:stsci.edu:asdf/canon/widget-2.0.0")
	if !okA || !okB || a.Tag != b.Tag {
		t.Fatalf("expected both tag spellings to resolve to the same entry, got %+v %+v", a, b)
	}
}
