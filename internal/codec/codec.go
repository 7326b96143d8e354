// Package codec implements the external decompression collaborator spec
// §4.6/§6 delegates block payload decoding to: `decompress(name, src,
// expected_uncompressed) -> bytes`, for the compression names a block
// header can carry. Core block reading (internal/blockio) never imports
// this package; callers invoke it explicitly on a BlockHandle's raw
// payload, per spec §9's deliberate choice to keep decompression outside
// the block-data API.
package codec

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/therootcompany/xz"
)

// Decompress decodes src (the raw payload of a block whose header names
// the given compression scheme) into expectedSize bytes. name is the
// 4-byte (zero-trimmed) ASCII string from BlockHeader.CompressionName:
// spec's core three are "zlib", "bzp2" (bzip2), and "lz4"; "xz" and
// "zstd" are accepted as a non-standard supplement some real-world
// writers emit, per SPEC_FULL.md's domain-stack wiring.
func Decompress(name string, src []byte, expectedSize int) ([]byte, error) {
	switch name {
	case "", "none":
		return src, nil
	case "zlib":
		return inflateZlib(src, expectedSize)
	case "bzp2":
		return inflateBzip2(src, expectedSize)
	case "lz4":
		return inflateLZ4(src, expectedSize)
	case "xz":
		return inflateXZ(src, expectedSize)
	case "zstd":
		return inflateZstd(src, expectedSize)
	default:
		return nil, fmt.Errorf("codec: unsupported compression %q", name)
	}
}

func readExact(r io.Reader, expectedSize int) ([]byte, error) {
	dst := make([]byte, expectedSize)
	n, err := io.ReadFull(r, dst)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return dst[:n], nil
}

func inflateZlib(src []byte, expectedSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("codec: zlib: %w", err)
	}
	defer zr.Close()
	return readExact(zr, expectedSize)
}

func inflateBzip2(src []byte, expectedSize int) ([]byte, error) {
	return readExact(bzip2.NewReader(bytes.NewReader(src)), expectedSize)
}

func inflateLZ4(src []byte, expectedSize int) ([]byte, error) {
	return readExact(lz4.NewReader(bytes.NewReader(src)), expectedSize)
}

func inflateXZ(src []byte, expectedSize int) ([]byte, error) {
	xr, err := xz.NewReader(bytes.NewReader(src), 0)
	if err != nil {
		return nil, fmt.Errorf("codec: xz: %w", err)
	}
	return readExact(xr, expectedSize)
}

func inflateZstd(src []byte, expectedSize int) ([]byte, error) {
	zr, err := zstd.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("codec: zstd: %w", err)
	}
	defer zr.Close()
	return readExact(zr, expectedSize)
}
