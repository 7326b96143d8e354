// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package sectionreader gives block bodies and payload spans a bounded
// io.ReaderAt without nesting io.SectionReader indirection: Section
// collapses a chain of sub-ranges into a single flat offset against the
// original source, which is what repeated Block Handle opens against the
// same File need.
package sectionreader

import (
	"io"
	"math"
)

// Section returns a bounded view of r starting at off for n bytes,
// collapsing through any section reader nesting so that, e.g., a
// Block Handle's data region doesn't grow an ever-longer indirection
// chain across repeated opens of the same file.
func Section(r io.ReaderAt, off int64, n int64) *ReaderAt {
	for {
		t, ok := r.(*io.SectionReader)
		if !ok {
			break
		}
		outer, outerOff, outerN := t.Outer()
		if off+n > outerN {
			break
		}
		r, off = outer, off+outerOff
	}

	return &ReaderAt{r, off, n}
}

type ReaderAt struct {
	r      io.ReaderAt
	off, n int64
}

func (r *ReaderAt) Outer() (io.ReaderAt, int64, int64) { return r.r, r.off, r.n }

func (s *ReaderAt) Size() int64 { return s.n }

func (s *ReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if s.n < 0 || s.off < 0 || off < 0 || s.off+off < 0 || off >= s.n {
		return 0, io.EOF
	}

	ourlimit := s.off + s.n
	if ourlimit < s.off { // integer overflow
		ourlimit = math.MaxInt64
	}

	off += s.off
	if max := ourlimit - off; int64(len(p)) > max {
		p = p[:max]
		n, err = s.r.ReadAt(p, off)
		if err == nil {
			err = io.EOF
		}
		return n, err
	}
	return s.r.ReadAt(p, off)
}
