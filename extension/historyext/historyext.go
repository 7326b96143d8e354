// Package historyext implements the core/history_entry-* schema
// adapter, grounded on original_source/src/core/history_entry.c. It is
// a second, deliberately small illustrative extension (SPEC_FULL.md §4)
// proving the registry handles more than one tag; the GWCS/time DSL
// machinery the original also wires in here is out of scope (spec §1
// Non-goals), so the "time" field is surfaced as its raw scalar text
// rather than decoded through a time extension.
package historyext

import (
	"fmt"

	"github.com/jhunkeler/libasdf-sub000/extension"
	"github.com/jhunkeler/libasdf-sub000/extension/softwareext"
	"github.com/jhunkeler/libasdf-sub000/value"
)

// Tag is the canonical schema tag this package registers.
const Tag = "core/history_entry-1.0.0"

// Entry mirrors asdf_history_entry_t, minus the decoded time.Time (see
// package doc).
type Entry struct {
	Description string
	Time        string // raw scalar text of the "time" field, if present
	Software    []softwareext.Info
}

func init() {
	extension.RegisterType[Entry](Tag, deserialize)
}

func deserialize(v *value.View) (Entry, error) {
	if v.StructuralKind() != value.KindMapping {
		return Entry{}, fmt.Errorf("historyext: expected a mapping, got %s", v.StructuralKind())
	}

	descV := v.Get("/description")
	desc, err := descV.AsString()
	if err != nil {
		return Entry{}, fmt.Errorf("historyext: missing or non-string \"description\": %w", err)
	}
	entry := Entry{Description: desc}

	if timeV := v.Get("/time"); timeV.Valid() {
		if s, err := timeV.AsString(); err == nil {
			entry.Time = s
		}
	}

	if swV := v.Get("/software"); swV.Valid() {
		entry.Software = deserializeSoftwareList(swV)
	}

	return entry, nil
}

// deserializeSoftwareList accepts either a single software mapping or a
// sequence of them, matching asdf_history_entry_deserialize_software;
// entries that fail to parse are dropped (the original logs a warning
// and continues).
func deserializeSoftwareList(v *value.View) []softwareext.Info {
	if v.StructuralKind() == value.KindSequence {
		var out []softwareext.Info
		for item := range v.Values() {
			if info, err := softwareext.Parse(item); err == nil {
				out = append(out, info)
			}
		}
		return out
	}
	if info, err := softwareext.Parse(v); err == nil {
		return []softwareext.Info{info}
	}
	return nil
}
