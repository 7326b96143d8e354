//go:build !unix

package blockio

import (
	"io"
	"os"
)

// mapRange falls back to a heap copy on platforms without the unix mmap
// syscalls wired up (see mmap_unix.go for the primary implementation).
func mapRange(f *os.File, offset, size int64) ([]byte, func() error, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(f, offset, size), buf); err != nil {
		return nil, nil, err
	}
	return buf, func() error { return nil }, nil
}
