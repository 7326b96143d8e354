//go:build !unix

package stream

import (
	"io"
	"os"
)

// NewMmap falls back to a heap copy on platforms without the unix mmap
// syscalls wired up (see mmap_unix.go for the primary implementation).
func NewMmap(f *os.File, size int64) (Stream, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(f, 0, size), buf); err != nil {
		return nil, err
	}
	return NewMemory(buf), nil
}
