// Package softwareext implements the core/software-* schema adapter,
// grounded on original_source/src/core/software.c: a small, self-
// registering extension demonstrating the Extension Registry mechanism
// end to end, per SPEC_FULL.md §3.5/§4.
package softwareext

import (
	"fmt"

	"github.com/jhunkeler/libasdf-sub000/extension"
	"github.com/jhunkeler/libasdf-sub000/value"
)

// Tag is the canonical schema tag this package registers.
const Tag = "core/software-1.0.0"

// Info mirrors the C library's asdf_software_t: name and version are
// required by the schema, author and homepage are optional.
type Info struct {
	Name     string
	Version  string
	Author   string
	Homepage string
}

func init() {
	extension.RegisterType[Info](Tag, deserialize)
}

// Parse is the exported form of this package's deserializer, for callers
// (e.g. extension/historyext) that need to coerce a nested software
// mapping regardless of whether it itself carries the core/software tag.
func Parse(v *value.View) (Info, error) { return deserialize(v) }

// deserialize follows asdf_software_deserialize's field rules: name and
// version missing or non-string is a parse failure; author/homepage
// present-but-invalid is not a failure and is not logged; the field is
// simply left empty.
func deserialize(v *value.View) (Info, error) {
	if v.StructuralKind() != value.KindMapping {
		return Info{}, fmt.Errorf("softwareext: expected a mapping, got %s", v.StructuralKind())
	}

	nameV := v.Get("/name")
	name, err := nameV.AsString()
	if err != nil {
		return Info{}, fmt.Errorf("softwareext: missing or non-string \"name\": %w", err)
	}

	versionV := v.Get("/version")
	version, err := versionV.AsString()
	if err != nil {
		return Info{}, fmt.Errorf("softwareext: missing or non-string \"version\": %w", err)
	}

	info := Info{Name: name, Version: version}

	if homepageV := v.Get("/homepage"); homepageV.Valid() {
		if s, err := homepageV.AsString(); err == nil {
			info.Homepage = s
		}
	}
	if authorV := v.Get("/author"); authorV.Valid() {
		if s, err := authorV.AsString(); err == nil {
			info.Author = s
		}
	}
	return info, nil
}
