package stream

import (
	"bytes"
	"io"
)

// DefaultWindowSize matches the spec's "8 KiB-class" sliding window.
const DefaultWindowSize = 8 << 10

// fileStream slides a window over an io.ReaderAt, refilling so that a
// token can never fall in the gap between two reads: the tail
// (maxTokenLen-1 bytes) of the previous window is always carried forward.
// Grounded on the windowing arithmetic in internal/sectionreader; this
// package does not import it.
type fileStream struct {
	r    io.ReaderAt
	size int64 // -1 if unknown

	winStart int64 // absolute offset of buf[0]
	buf      []byte
	pos      int // index into buf of the "current" position
	eof      bool

	capture *bytes.Buffer
	err     error
	closer  io.Closer
}

// NewFile builds a Stream over r, an io.ReaderAt of the given size (-1 if
// unknown), reading through a sliding window of windowSize bytes (the
// DefaultWindowSize constant if 0 is passed).
func NewFile(r io.ReaderAt, size int64, windowSize int) Stream {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	fs := &fileStream{r: r, size: size, buf: make([]byte, 0, windowSize)}
	if c, ok := r.(io.Closer); ok {
		fs.closer = c
	}
	fs.fill()
	return fs
}

func (s *fileStream) fill() {
	if s.err != nil || s.eof {
		return
	}
	// Slide: keep only the unconsumed tail, then top up to capacity.
	if s.pos > 0 {
		copy(s.buf, s.buf[s.pos:])
		s.buf = s.buf[:len(s.buf)-s.pos]
		s.winStart += int64(s.pos)
		s.pos = 0
	}
	for len(s.buf) < cap(s.buf) && !s.eof {
		n, err := s.r.ReadAt(s.buf[len(s.buf):cap(s.buf)], s.winStart+int64(len(s.buf)))
		if n > 0 {
			s.buf = s.buf[:len(s.buf)+n]
		}
		if err != nil {
			if err == io.EOF {
				s.eof = true
			} else {
				errAt(&s.err, err)
			}
			break
		}
		if n == 0 {
			s.eof = true
		}
	}
}

func (s *fileStream) Peek() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.pos >= len(s.buf) && !s.eof {
		s.fill()
	}
	return s.buf[s.pos:], nil
}

func (s *fileStream) Consume(n int) {
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
	if s.pos >= len(s.buf)-MaxTokenLen+1 && !s.eof {
		s.fill()
	}
}

func (s *fileStream) ReadLine() ([]byte, error) {
	var line []byte
	for {
		avail, err := s.Peek()
		if err != nil {
			return nil, err
		}
		if idx := bytes.IndexByte(avail, '\n'); idx >= 0 {
			line = append(line, avail[:idx+1]...)
			s.Consume(idx + 1)
			return line, nil
		}
		if len(avail) == 0 {
			// EOF with no trailing LF: return whatever was accumulated.
			return line, nil
		}
		if len(avail) == cap(s.buf) {
			// Window full and still no LF: the line is longer than the
			// window. File streams may truncate; always advance past
			// what's been seen so a subsequent readline can find the LF.
			line = append(line, avail...)
			s.Consume(len(avail))
			continue
		}
		// Not full yet but no more data arrived this round: genuine EOF.
		line = append(line, avail...)
		s.Consume(len(avail))
		return line, nil
	}
}

func (s *fileStream) Scan(tokens [][]byte) (int64, int, error) {
	want := maxTokenLenOf(tokens)
	for {
		avail, err := s.Peek()
		if err != nil {
			return 0, NotFound, err
		}
		if pos, which := scanWindow(avail, tokens); pos >= 0 {
			s.Consume(pos)
			return s.Tell(), which, nil
		}
		if s.eof && len(avail) < want {
			// Consume everything; no match possible.
			s.Consume(len(avail))
			return 0, NotFound, nil
		}
		// Keep want-1 bytes of lookback, consume the rest, and refill.
		keep := want - 1
		if keep < 0 {
			keep = 0
		}
		adv := len(avail) - keep
		if adv <= 0 {
			if s.eof {
				s.Consume(len(avail))
				return 0, NotFound, nil
			}
			s.fill()
			continue
		}
		s.Consume(adv)
	}
}

func (s *fileStream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.Tell() + offset
	case io.SeekEnd:
		if s.size < 0 {
			return 0, errAt(&s.err, io.ErrUnexpectedEOF)
		}
		abs = s.size + offset
	default:
		return 0, errAt(&s.err, io.EOF)
	}
	if abs < 0 {
		return 0, errAt(&s.err, io.EOF)
	}
	s.winStart = abs
	s.buf = s.buf[:0]
	s.pos = 0
	s.eof = false
	s.fill()
	return abs, nil
}

func (s *fileStream) Tell() int64     { return s.winStart + int64(s.pos) }
func (s *fileStream) Seekable() bool  { return true }
func (s *fileStream) SetCapture(b *bytes.Buffer) { s.capture = b }
func (s *fileStream) Err() error      { return s.err }

func (s *fileStream) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
