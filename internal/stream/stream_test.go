package stream

import (
	"bytes"
	"io"
	"testing"
)

type readerAt struct{ b []byte }

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(r.b)) {
		return 0, io.EOF
	}
	n := copy(p, r.b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestScanFindsTokenAcrossWindowBoundaries(t *testing.T) {
	token := []byte("\xD3BLK")
	for winSize := 5; winSize <= 64; winSize++ {
		for pad := 0; pad < 40; pad++ {
			data := append(bytes.Repeat([]byte{'x'}, pad), token...)
			data = append(data, "trailer"...)

			s := NewFile(readerAt{data}, int64(len(data)), winSize)
			off, which, err := s.Scan([][]byte{token})
			if err != nil {
				t.Fatalf("winSize=%d pad=%d: unexpected err %v", winSize, pad, err)
			}
			if which != 0 {
				t.Fatalf("winSize=%d pad=%d: which=%d", winSize, pad, which)
			}
			if off != int64(pad) {
				t.Fatalf("winSize=%d pad=%d: offset=%d want %d", winSize, pad, off, pad)
			}
		}
	}
}

func TestScanNotFound(t *testing.T) {
	s := NewMemory([]byte("no magic here"))
	_, which, err := s.Scan([][]byte{[]byte("\xD3BLK")})
	if err != nil {
		t.Fatal(err)
	}
	if which != NotFound {
		t.Fatalf("which=%d want NotFound", which)
	}
}

func TestCaptureEquivalence(t *testing.T) {
	data := []byte("#ASDF 1.0.0\n#ASDF_STANDARD 1.6.0\n%YAML 1.1\n---\nfoo: 1\n...\n\xD3BLK")
	treeStart := bytes.Index(data, []byte("%YAML"))
	treeEnd := bytes.Index(data, []byte("\xD3BLK"))

	for _, mk := range []func() Stream{
		func() Stream { return NewFile(readerAt{data}, int64(len(data)), 6) },
		func() Stream { return NewMemory(data) },
	} {
		s := mk()
		s.Consume(0)
		// Advance to TreeStart first.
		for s.Tell() < int64(treeStart) {
			avail, _ := s.Peek()
			if len(avail) == 0 {
				t.Fatal("ran out before TreeStart")
			}
			s.Consume(1)
		}

		var cap bytes.Buffer
		s.SetCapture(&cap)
		for s.Tell() < int64(treeEnd) {
			avail, _ := s.Peek()
			if len(avail) == 0 {
				t.Fatal("ran out before TreeEnd")
			}
			n := 1
			if len(avail) < n {
				n = len(avail)
			}
			s.Consume(n)
		}
		s.SetCapture(nil)

		want := data[treeStart:treeEnd]
		if !bytes.Equal(cap.Bytes(), want) {
			t.Fatalf("captured %q, want %q", cap.Bytes(), want)
		}
	}
}

func TestReadLineMemory(t *testing.T) {
	s := NewMemory([]byte("abc\ndef"))
	line, err := s.ReadLine()
	if err != nil || string(line) != "abc\n" {
		t.Fatalf("line=%q err=%v", line, err)
	}
	line, err = s.ReadLine()
	if err != nil || string(line) != "def" {
		t.Fatalf("line=%q err=%v", line, err)
	}
}
