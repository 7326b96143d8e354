package stream

import (
	"bytes"
	"io"
)

// memStream addresses a fully in-memory buffer. Used both for streams the
// caller builds directly from a []byte and for the mmap-backed stream,
// which addresses the mapped region the same way. Captured tree bytes
// are not re-read through a Stream; they go straight to the YAML parser.
type memStream struct {
	buf     []byte
	pos     int
	capture *bytes.Buffer
	err     error
	closer  func() error
}

// NewMemory builds a Stream over buf. The stream does not take ownership
// of buf beyond reading it; mutating buf after construction is undefined.
func NewMemory(buf []byte) Stream {
	return &memStream{buf: buf}
}

// newMmap builds a Stream over a memory-mapped region, running closer on
// Close to release the mapping. This is the "mmap-backed" stream variant:
// structurally identical to memStream, it differs only in having
// something to unmap.
func newMmap(region []byte, closer func() error) Stream {
	return &memStream{buf: region, closer: closer}
}

func (s *memStream) Peek() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.buf[s.pos:], nil
}

func (s *memStream) Consume(n int) {
	if n <= 0 {
		return
	}
	end := s.pos + n
	if end > len(s.buf) {
		end = len(s.buf)
	}
	if s.capture != nil {
		s.capture.Write(s.buf[s.pos:end])
	}
	s.pos = end
}

func (s *memStream) ReadLine() ([]byte, error) {
	avail := s.buf[s.pos:]
	if idx := bytes.IndexByte(avail, '\n'); idx >= 0 {
		line := avail[:idx+1]
		s.Consume(idx + 1)
		return line, nil
	}
	// No LF: a memory stream returns everything to end-of-window.
	s.Consume(len(avail))
	return avail, nil
}

func (s *memStream) Scan(tokens [][]byte) (int64, int, error) {
	avail := s.buf[s.pos:]
	pos, which := scanWindow(avail, tokens)
	if pos < 0 {
		s.Consume(len(avail))
		return 0, NotFound, nil
	}
	s.Consume(pos)
	return int64(s.pos), which, nil
}

func (s *memStream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(s.pos) + offset
	case io.SeekEnd:
		abs = int64(len(s.buf)) + offset
	default:
		return 0, errAt(&s.err, io.EOF)
	}
	if abs < 0 || abs > int64(len(s.buf)) {
		return 0, errAt(&s.err, io.EOF)
	}
	s.pos = int(abs)
	return abs, nil
}

func (s *memStream) Tell() int64             { return int64(s.pos) }
func (s *memStream) Seekable() bool          { return true }
func (s *memStream) SetCapture(b *bytes.Buffer) { s.capture = b }
func (s *memStream) Err() error              { return s.err }

func (s *memStream) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
