package softwareext

import (
	"testing"

	"github.com/jhunkeler/libasdf-sub000/internal/yamltree"
	"github.com/jhunkeler/libasdf-sub000/value"
)

func mustView(t *testing.T, yamlSrc string) *value.View {
	t.Helper()
	doc, err := yamltree.Parse([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("yamltree.Parse: %v", err)
	}
	return value.FromDocument(nil, doc)
}

func TestDeserializeFull(t *testing.T) {
	v := mustView(t, `
name: asdf
version: 4.1.0
author: The ASDF Developers
homepage: https://asdf.readthedocs.io
`)
	info, err := Parse(v)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Info{Name: "asdf", Version: "4.1.0", Author: "The ASDF Developers", Homepage: "https://asdf.readthedocs.io"}
	if info != want {
		t.Fatalf("got %+v, want %+v", info, want)
	}
}

func TestDeserializeMissingRequired(t *testing.T) {
	v := mustView(t, `
name: asdf
`)
	if _, err := Parse(v); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestDeserializeOptionalFieldsAbsent(t *testing.T) {
	v := mustView(t, `
name: asdf
version: "1.0"
`)
	info, err := Parse(v)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if info.Author != "" || info.Homepage != "" {
		t.Fatalf("expected empty optional fields, got %+v", info)
	}
}
