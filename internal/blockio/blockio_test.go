package blockio

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jhunkeler/libasdf-sub000/internal/framing"
)

// fakeSource is a non-file-backed Source: it exercises the heap-copy
// path in Data() rather than mmap.
type fakeSource struct {
	r     *bytes.Reader
	descs []framing.BlockDescriptor
}

func (s *fakeSource) EnsureBlock(index int) (framing.BlockDescriptor, error) {
	if index >= len(s.descs) {
		return framing.BlockDescriptor{}, os.ErrNotExist
	}
	return s.descs[index], nil
}

func (s *fakeSource) ReaderAt() io.ReaderAt { return s.r }

func (s *fakeSource) File() (*os.File, bool) { return nil, false }

func (s *fakeSource) Logger() *slog.Logger { return slog.Default() }

func TestBlockHandleReadCopy(t *testing.T) {
	payload := []byte("hello block payload")
	buf := append([]byte("padding-before--"), payload...)
	src := &fakeSource{
		r: bytes.NewReader(buf),
		descs: []framing.BlockDescriptor{
			{
				Header:    framing.BlockHeader{Used: uint64(len(payload))},
				DataPos:   int64(len("padding-before--")),
				HeaderPos: 0,
			},
		},
	}

	h, err := Open(src, 0, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := h.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("got %q, want %q", data, payload)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestCacheEvictsUnderCapacity(t *testing.T) {
	evicted := 0
	c := NewCache(1)
	c.t.Add(0, &mapping{data: []byte("a"), unmap: func() error { evicted++; return nil }})
	c.t.Add(1, &mapping{data: []byte("b"), unmap: func() error { evicted++; return nil }})
	c.t.Add(2, &mapping{data: []byte("c"), unmap: func() error { evicted++; return nil }})
	if evicted == 0 {
		t.Fatalf("expected at least one eviction with capacity 1 and 3 adds")
	}
}
