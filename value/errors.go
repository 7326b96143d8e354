package value

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound names a path that does not resolve. No function in
	// this package returns it: Get on such a path yields a View whose
	// Valid reports false, and typed getters on that View return
	// ErrTypeMismatch.
	ErrNotFound = errors.New("value: not found")

	// ErrTypeMismatch is returned when a View's Kind does not match the
	// requested accessor.
	ErrTypeMismatch = errors.New("value: type mismatch")

	// ErrParseFailure is returned when a scalar could not be interpreted
	// as its explicit tag demands.
	ErrParseFailure = errors.New("value: parse failure")
)

// OverflowError reports that a narrowing conversion clamped or truncated
// its input. The destination is still populated with that clamped value,
// matching spec §4.4/§7: callers can recover it via errors.As.
type OverflowError struct {
	Kind  string // destination type name, e.g. "int32"
	Value any    // the clamped/truncated value actually stored
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("value: overflow converting to %s (clamped to %v)", e.Kind, e.Value)
}
