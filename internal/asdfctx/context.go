// Package asdfctx holds the small piece of state a File shares with the
// Framing Parser it owns: the most-recent file-wide error and the logger,
// reference-counted so both sides can let go of it independently.
package asdfctx

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Context is the shared error slot + log configuration described in the
// data model: it lives as long as any object derived from the File does.
type Context struct {
	mu      sync.Mutex
	lastErr error

	logger *slog.Logger

	refs int32
}

// New creates a Context with one reference already held (the File's own).
func New(logger *slog.Logger) *Context {
	return &Context{logger: logger, refs: 1}
}

// Ref increments the reference count. The Framing Parser calls this once
// in internal/framing.New when constructed with a Ctx, taking its own
// share of the File's Context.
func (c *Context) Ref() { atomic.AddInt32(&c.refs, 1) }

// Unref decrements the reference count and returns the new count. It
// never frees anything itself (Go's GC owns that); File.Close calls it
// via Parser.Close and logs a warning if Refs() doesn't return to 1
// (the File's own share) afterward.
func (c *Context) Unref() int32 { return atomic.AddInt32(&c.refs, -1) }

// Refs reports the current reference count.
func (c *Context) Refs() int32 { return atomic.LoadInt32(&c.refs) }

// SetError latches a file-wide error, overwriting any previous one —
// matching the "most recent error" semantics of the spec.
func (c *Context) SetError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// Error returns the most recently latched file-wide error, or nil.
func (c *Context) Error() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ClearError resets the latched error, e.g. after Close.
func (c *Context) ClearError() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
}

// Logger returns the configured logger, never nil.
func (c *Context) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}
