package framing

import (
	"encoding/binary"
)

// BlockMagic is the 4-byte marker that begins every block header.
var BlockMagic = [4]byte{0xD3, 'B', 'L', 'K'}

// MinHeaderSize is the on-wire minimum header_size (the fixed fields
// after the 2-byte length field) per spec §3.
const MinHeaderSize = 48

// BlockHeader is the on-disk, big-endian block header described in
// spec §3/§6.
type BlockHeader struct {
	HeaderSize  uint16
	Flags       uint32
	Compression [4]byte
	Allocated   uint64
	Used        uint64
	DataSize    uint64
	Checksum    [16]byte
}

// CompressionName returns the zero-padded ASCII compression name, or ""
// for an uncompressed block.
func (h BlockHeader) CompressionName() string {
	n := 0
	for n < len(h.Compression) && h.Compression[n] != 0 {
		n++
	}
	return string(h.Compression[:n])
}

// Valid checks the invariants from spec §3: header_size large enough,
// used_size <= allocated_size, and data_size == used_size when
// uncompressed.
func (h BlockHeader) Valid() bool {
	if h.HeaderSize < MinHeaderSize {
		return false
	}
	if h.Used > h.Allocated {
		return false
	}
	if h.CompressionName() == "" && h.DataSize != h.Used {
		return false
	}
	return true
}

// BlockDescriptor is the in-memory record of a discovered block: its
// header plus the absolute offsets of the magic and of the first payload
// byte.
type BlockDescriptor struct {
	Header    BlockHeader
	HeaderPos int64
	DataPos   int64
}

// parseBlockHeader decodes a header from raw, which must hold at least
// 2+MinHeaderSize bytes (the length-prefix plus the fixed fields); raw may
// be longer, reflecting a larger header_size, in which case the trailing
// bytes are padding and ignored.
func parseBlockHeader(raw []byte) (BlockHeader, bool) {
	if len(raw) < 2+MinHeaderSize {
		return BlockHeader{}, false
	}
	var h BlockHeader
	h.HeaderSize = binary.BigEndian.Uint16(raw[0:2])
	body := raw[2:]
	if len(body) < MinHeaderSize {
		return BlockHeader{}, false
	}
	h.Flags = binary.BigEndian.Uint32(body[0:4])
	copy(h.Compression[:], body[4:8])
	h.Allocated = binary.BigEndian.Uint64(body[8:16])
	h.Used = binary.BigEndian.Uint64(body[16:24])
	h.DataSize = binary.BigEndian.Uint64(body[24:32])
	copy(h.Checksum[:], body[32:48])
	return h, true
}
