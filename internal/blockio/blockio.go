// Package blockio implements the Block Handle described in spec §3/§4.6:
// a lazily-materialized view of one binary block's payload, preferring
// mmap over a heap copy when the underlying stream is file-backed.
package blockio

import (
	"io"
	"log/slog"
	"os"

	"github.com/jhunkeler/libasdf-sub000/internal/framing"
	"github.com/jhunkeler/libasdf-sub000/internal/sectionreader"
)

// Source is the subset of the File Facade a BlockHandle needs, kept as an
// interface so this package never imports the root asdf package (which
// would create an import cycle, since asdf.File composes blockio).
type Source interface {
	// EnsureBlock drives the Framing Parser forward, if necessary, until
	// the catalog holds at least index+1 entries, then returns that
	// entry.
	EnsureBlock(index int) (framing.BlockDescriptor, error)

	// ReaderAt is the underlying byte source, used for the heap-copy
	// fallback path.
	ReaderAt() io.ReaderAt

	// File returns the backing *os.File and true when the source is
	// file-backed and therefore mmap-eligible.
	File() (*os.File, bool)

	Logger() *slog.Logger
}

// BlockHandle is a handle on one block's payload, per spec §3 "Block
// Handle". Data() is lazy: the mapping (or copy) is acquired on first
// call and cached on the handle (and, if one was supplied, in the
// owning File's Cache) until Close.
type BlockHandle struct {
	source Source
	index  int
	desc   framing.BlockDescriptor
	cache  *Cache

	data  []byte
	unmap func() error
	open  bool
}

// Open ensures block index exists in source's catalog and returns a
// handle to it. cache may be nil, in which case each handle manages its
// own mapping lifetime independently.
func Open(source Source, index int, cache *Cache) (*BlockHandle, error) {
	desc, err := source.EnsureBlock(index)
	if err != nil {
		return nil, err
	}
	return &BlockHandle{source: source, index: index, desc: desc, cache: cache, open: true}, nil
}

// Descriptor returns the block's header and byte-range information.
func (h *BlockHandle) Descriptor() framing.BlockDescriptor { return h.desc }

// CompressionName returns the block's declared compression scheme, or ""
// for an uncompressed block. Decompression itself is left to an external
// caller (internal/codec), per spec §4.6.
func (h *BlockHandle) CompressionName() string { return h.desc.Header.CompressionName() }

// Data returns a view of the block's used_size raw (possibly compressed)
// bytes at data_pos, acquiring it on first call.
func (h *BlockHandle) Data() ([]byte, error) {
	if !h.open {
		return nil, os.ErrClosed
	}
	if h.data != nil {
		return h.data, nil
	}
	if h.cache != nil {
		if m, ok := h.cache.get(h.index); ok {
			h.data = m.data
			return h.data, nil
		}
	}

	used := int64(h.desc.Header.Used)
	var (
		data  []byte
		unmap func() error
		err   error
	)
	if f, ok := h.source.File(); ok {
		data, unmap, err = mapRange(f, h.desc.DataPos, used)
		if err != nil {
			h.source.Logger().Warn("mmapFailedFallingBackToCopy", "block", h.index, "err", err)
			data, unmap, err = h.readCopy(used)
		}
	} else {
		data, unmap, err = h.readCopy(used)
	}
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		h.cache.add(h.index, &mapping{data: data, unmap: unmap})
	} else {
		h.unmap = unmap
	}
	h.data = data
	return data, nil
}

// readCopy heap-copies the block's payload through a sectionreader.Section
// view, which collapses any io.SectionReader nesting back to a single flat
// offset against the underlying source rather than growing an
// ever-longer indirection chain across repeated opens of the same block.
func (h *BlockHandle) readCopy(used int64) ([]byte, func() error, error) {
	buf := make([]byte, used)
	if used > 0 {
		section := sectionreader.Section(h.source.ReaderAt(), h.desc.DataPos, used)
		if _, err := io.ReadFull(section, buf); err != nil && err != io.EOF {
			return nil, nil, err
		}
	}
	return buf, func() error { return nil }, nil
}

// Close releases the handle. When the handle's mapping is owned by a
// shared Cache, the mapping itself outlives Close and is only torn down
// on eviction; otherwise Close unmaps (or simply drops) it immediately.
func (h *BlockHandle) Close() error {
	if !h.open {
		return nil
	}
	h.open = false
	if h.cache == nil && h.unmap != nil {
		err := h.unmap()
		h.unmap = nil
		h.data = nil
		return err
	}
	h.data = nil
	return nil
}
