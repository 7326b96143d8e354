// Package extension implements the process-wide Extension Registry
// described in spec §3/§4.5: a canonicalized-tag keyed map from a YAML
// tag to a deserializer, expected to be populated once at process start
// (typically via each adapter package's blank-import init) before any
// file is opened.
package extension

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jhunkeler/libasdf-sub000/value"
)

// Deserialize converts a tagged value.View into its Go representation.
type Deserialize func(v *value.View) (any, error)

// Extension is one registered tag's record.
type Extension struct {
	Tag         string
	Deserialize Deserialize

	// ID disambiguates registrations in logs when two packages race to
	// register the same tag; it has no bearing on lookup, which is
	// keyed purely by Tag.
	ID uuid.UUID
}

var (
	registry  sync.Map // string (canonical tag) -> Extension
	typeTags  sync.Map // reflect.Type -> string (canonical tag)
	typeTagMu sync.Mutex
)

// canonicalize normalizes a tag the way spec §4.5 expects: ASDF schema
// tags are commonly written both as the bare "core/software-1.0.0" form
// and the fully qualified "tag:stsci.edu:asdf/core/software-1.0.0" form;
// both resolve to the same registry entry.
func canonicalize(tag string) string {
	tag = strings.TrimPrefix(tag, "tag:stsci.edu:asdf/")
	tag = strings.TrimPrefix(tag, "tag:")
	return tag
}

// Register installs deserialize under tag. Re-registering the same tag
// is idempotent in effect (the newer registration wins) but warns, per
// spec §4.5 and following the teacher's posture elsewhere of tolerating
// redundant work rather than failing on it.
func Register(tag string, deserialize Deserialize) Extension {
	key := canonicalize(tag)
	ext := Extension{Tag: key, Deserialize: deserialize, ID: uuid.New()}
	if _, loaded := registry.Swap(key, ext); loaded {
		slog.Warn("duplicateExtension", "tag", key, "ext_id", ext.ID)
	}
	return ext
}

// Get returns the Extension registered for tag, if any.
func Get(tag string) (Extension, bool) {
	v, ok := registry.Load(canonicalize(tag))
	if !ok {
		return Extension{}, false
	}
	return v.(Extension), true
}

// bindType records that T's registered tag is tag, so Is[T] can check a
// View's tag without re-deserializing it. RegisterType calls this
// alongside Register.
func bindType[T any](tag string) {
	typeTagMu.Lock()
	defer typeTagMu.Unlock()
	typeTags.Store(reflect.TypeFor[T](), canonicalize(tag))
}

// RegisterType is Register plus the Is[T] type binding, for adapter
// packages that deserialize into a single concrete Go type.
func RegisterType[T any](tag string, deserialize func(v *value.View) (T, error)) Extension {
	ext := Register(tag, func(v *value.View) (any, error) { return deserialize(v) })
	bindType[T](tag)
	return ext
}

// As looks up v's tag, invokes its deserializer, and asserts the result
// into T.
func As[T any](v *value.View) (T, error) {
	var zero T
	tag := v.Tag()
	ext, ok := Get(tag)
	if !ok {
		return zero, fmt.Errorf("extension: no extension registered for tag %q", tag)
	}
	out, err := ext.Deserialize(v)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("extension: tag %q deserialized to %T, not %T", tag, out, zero)
	}
	return typed, nil
}

// Is reports whether v's tag is the one registered (via RegisterType)
// for T.
func Is[T any](v *value.View) bool {
	want, ok := typeTags.Load(reflect.TypeFor[T]())
	if !ok {
		return false
	}
	return want.(string) == canonicalize(v.Tag())
}
