package asdf

import (
	"errors"
	"fmt"

	"github.com/jhunkeler/libasdf-sub000/internal/blockio"
	"github.com/jhunkeler/libasdf-sub000/internal/codec"
	"github.com/jhunkeler/libasdf-sub000/ndarray"
	"github.com/jhunkeler/libasdf-sub000/value"
)

// NdarrayMetadata parses v (which must carry a core/ndarray-* tagged
// mapping) into ndarray.Metadata, per spec §4.7.
func (f *File) NdarrayMetadata(v *value.View) (*ndarray.Metadata, error) {
	md, err := ndarray.Parse(v)
	if err != nil {
		return nil, NewError(ParseFailure, "parsing ndarray metadata", err)
	}
	return md, nil
}

// blockSource adapts a *File + ndarray.Metadata into the ndarray.Source
// dependency-inversion seam (Bytes() ([]byte, error)): it opens the
// backing block, decompresses its payload per the descriptor's declared
// compression scheme, and slices off Metadata.Offset, so the Tile
// Engine never has to import internal/blockio or internal/codec itself.
type blockSource struct {
	file *File
	md   *ndarray.Metadata
}

func (b blockSource) Bytes() ([]byte, error) {
	idx := b.md.Source

	if b.file.diskCache != nil {
		if cached, ok := b.file.diskCache.Get(b.file.cacheFingerprint, idx); ok {
			return sliceOffset(cached, b.md.Offset)
		}
	}

	h, err := b.file.BlockOpen(idx)
	if err != nil {
		return nil, fmt.Errorf("asdf: opening block %d for ndarray: %w", idx, err)
	}
	defer h.Close()

	raw, err := h.Data()
	if err != nil {
		return nil, fmt.Errorf("asdf: reading block %d payload: %w", idx, err)
	}

	name := h.CompressionName()
	var payload []byte
	if name == "" {
		payload = raw
	} else {
		// DataSize carries the decompressed size for compressed blocks
		// (Used is the compressed on-disk size), per spec §3.
		expected := int(h.Descriptor().Header.DataSize)
		payload, err = codec.Decompress(name, raw, expected)
		if err != nil {
			return nil, fmt.Errorf("asdf: decompressing block %d (%s): %w", idx, name, err)
		}
		if b.file.diskCache != nil {
			if err := b.file.diskCache.Put(b.file.cacheFingerprint, idx, payload); err != nil {
				b.file.Logger().Warn("blockCachePutFailed", "index", idx, "err", err)
			}
		}
	}

	return sliceOffset(payload, b.md.Offset)
}

func sliceOffset(payload []byte, offset uint64) ([]byte, error) {
	if offset > uint64(len(payload)) {
		return nil, NewError(OutOfMemory, "ndarray offset beyond block payload", nil)
	}
	return payload[offset:], nil
}

// ReadTile reads the sub-array bounded by [origin, origin+shape) out of
// the array described by md (bound to this File) into dst (allocating a
// buffer if dst is nil), converting elements to dstType. This is the
// File-bound entry point to the Tile Engine (ndarray.ReadTile);
// ndarray.Source's Bytes() is implemented here, not in package ndarray,
// so ndarray never has to import internal/blockio or this root package.
func (f *File) ReadTile(md *ndarray.Metadata, origin, shape []uint64, dstType ndarray.Datatype, dst []byte) ([]byte, bool, error) {
	src := blockSource{file: f, md: md}
	out, overflow, err := ndarray.ReadTile(md, src, origin, shape, dstType, dst)
	if err != nil {
		return nil, false, NewError(errKindForTileError(err), "reading ndarray tile", err)
	}
	return out, overflow, nil
}

func errKindForTileError(err error) ErrorKind {
	switch {
	case errors.Is(err, ndarray.TileErrOutOfBounds):
		return NotFound
	case errors.Is(err, ndarray.TileErrOOM):
		return OutOfMemory
	case errors.Is(err, ndarray.TileErrOverflow):
		return Overflow
	case errors.Is(err, ndarray.ErrUnsupportedDatatype):
		return TypeMismatch
	default:
		return ParseFailure
	}
}

var _ blockio.Source = (*File)(nil)
