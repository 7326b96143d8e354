//go:build unix

package blockio

import (
	"os"

	"golang.org/x/sys/unix"
)

// pageSize is cached at init since Getpagesize is a syscall on some
// platforms.
var pageSize = os.Getpagesize()

// mapRange mmaps the [offset, offset+size) byte range of f read-only,
// returning a slice over exactly that range and a closer that unmaps the
// whole mapping. unix.Mmap requires a page-aligned offset, so the
// underlying mapping starts at the containing page and the returned
// slice is adjusted to begin at the true offset, following the usual
// mmap-with-alignment trick.
func mapRange(f *os.File, offset, size int64) ([]byte, func() error, error) {
	if size == 0 {
		return nil, func() error { return nil }, nil
	}
	aligned := offset - offset%int64(pageSize)
	delta := offset - aligned
	data, err := unix.Mmap(int(f.Fd()), aligned, int(delta+size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	closed := false
	closer := func() error {
		if closed {
			return nil
		}
		closed = true
		return unix.Munmap(data)
	}
	return data[delta : delta+size], closer, nil
}
