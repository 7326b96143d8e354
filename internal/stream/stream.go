// Package stream implements the pull-based byte source interposed between
// the framing parser and the underlying file, memory buffer, or mapped
// region. Every operation is synchronous and non-blocking: a short read,
// an allocation failure, or a bad seek target sets the stream's error slot
// and returns a sentinel rather than raising.
package stream

import (
	"bytes"
	"errors"
)

// MaxTokenLen bounds the longest byte-sequence Scan is ever asked to find
// in this package's own callers (block magic, "#ASDF BLOCK INDEX"). The
// window is always refilled to admit at least this
// many bytes when more input exists.
const MaxTokenLen = 20

// NotFound is returned by Scan as the "which" index when none of the
// tokens occur before the stream is exhausted.
const NotFound = -1

// Stream is the abstract pull interface described in the data model:
// peek without consuming, consume (optionally capturing), read a line,
// scan for one of several tokens, and a seek/tell contract.
type Stream interface {
	// Peek returns the current window without consuming it. The window is
	// empty only at true end of input.
	Peek() ([]byte, error)

	// Consume advances the stream by n bytes, which must not exceed the
	// length of the slice last returned by Peek. Consumed bytes are
	// appended to the capture sink if one is installed.
	Consume(n int)

	// ReadLine returns the bytes up to and including the next LF. Memory
	// streams return to end-of-window when no LF is found; file streams
	// may truncate a line longer than the window but always advance past
	// the terminating LF when one exists in the underlying input.
	ReadLine() ([]byte, error)

	// Scan advances to the first occurrence of any of tokens, leaving the
	// stream positioned at the start of the match (not past it). It
	// returns the absolute offset of the match and which token matched,
	// or NotFound when the tokens never occur before EOF.
	Scan(tokens [][]byte) (offset int64, which int, err error)

	// Seek repositions the stream. Whence follows io.Seeker.
	Seek(offset int64, whence int) (int64, error)

	// Tell reports the absolute offset of the next byte Peek would
	// return.
	Tell() int64

	// Seekable reports whether Seek is meaningful for this stream.
	Seekable() bool

	// SetCapture installs (or, with nil, removes) a sink that every
	// consumed byte is appended to. This is how the YAML region of the
	// file is materialized into memory for the external YAML parser
	// without re-reading the underlying input.
	SetCapture(buf *bytes.Buffer)

	// Err returns the latched error, if any.
	Err() error

	Close() error
}

// errAt latches err (idempotently keeping the first one) and returns it.
func errAt(slot *error, err error) error {
	if *slot == nil {
		*slot = err
	}
	return *slot
}

var errClosed = errors.New("stream: use of closed stream")

// scanWindow implements the token search shared by both concrete Stream
// types: returns the byte offset within buf of the earliest match and
// which token, or -1, -1 if none of the tokens occur.
func scanWindow(buf []byte, tokens [][]byte) (pos int, which int) {
	best := -1
	bestTok := -1
	for i, tok := range tokens {
		if len(tok) == 0 {
			continue
		}
		if idx := bytes.Index(buf, tok); idx >= 0 && (best == -1 || idx < best) {
			best = idx
			bestTok = i
		}
	}
	return best, bestTok
}

// maxTokenLenOf returns the longest token length, floored at 1.
func maxTokenLenOf(tokens [][]byte) int {
	m := 1
	for _, t := range tokens {
		if len(t) > m {
			m = len(t)
		}
	}
	return m
}
