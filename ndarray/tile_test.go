package ndarray

import (
	"encoding/binary"
	"errors"
	"testing"
)

type fakeSource struct {
	data []byte
}

func (f fakeSource) Bytes() ([]byte, error) { return f.data, nil }

func byteOrderFor(bo Byteorder) binary.ByteOrder {
	if bo == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func TestReadTileIdentity1D(t *testing.T) {
	values := []int32{1, 2, 3, 4}
	raw := make([]byte, len(values)*4)
	for i, v := range values {
		binary.NativeEndian.PutUint32(raw[i*4:], uint32(v))
	}
	md := &Metadata{Shape: []uint64{uint64(len(values))}, Datatype: TypeInt32, Byteorder: hostByteorder}
	src := fakeSource{data: raw}

	dst, overflow, err := ReadTile(md, src, []uint64{0}, []uint64{uint64(len(values))}, TypeInt32, nil)
	if err != nil {
		t.Fatalf("ReadTile: %v", err)
	}
	if overflow {
		t.Fatalf("unexpected overflow on identity conversion")
	}
	if string(dst) != string(raw) {
		t.Fatalf("identity conversion altered bytes: got %v, want %v", dst, raw)
	}
}

func TestReadTileByteswap(t *testing.T) {
	opposite := BigEndian
	if hostByteorder == BigEndian {
		opposite = LittleEndian
	}
	bo := byteOrderFor(opposite)
	values := []int16{100, -200, 32000}
	raw := make([]byte, len(values)*2)
	for i, v := range values {
		bo.PutUint16(raw[i*2:], uint16(v))
	}
	md := &Metadata{Shape: []uint64{uint64(len(values))}, Datatype: TypeInt16, Byteorder: opposite}
	src := fakeSource{data: raw}

	dst, overflow, err := ReadTile(md, src, []uint64{0}, []uint64{uint64(len(values))}, TypeInt16, nil)
	if err != nil {
		t.Fatalf("ReadTile: %v", err)
	}
	if overflow {
		t.Fatalf("unexpected overflow")
	}
	for i, want := range values {
		got := int16(binary.NativeEndian.Uint16(dst[i*2:]))
		if got != want {
			t.Errorf("element %d = %d, want %d", i, got, want)
		}
	}
}

func TestReadTileNarrowingClamp(t *testing.T) {
	values := []int32{300, -300, 10}
	raw := make([]byte, len(values)*4)
	for i, v := range values {
		binary.NativeEndian.PutUint32(raw[i*4:], uint32(v))
	}
	md := &Metadata{Shape: []uint64{uint64(len(values))}, Datatype: TypeInt32, Byteorder: hostByteorder}
	src := fakeSource{data: raw}

	dst, overflow, err := ReadTile(md, src, []uint64{0}, []uint64{uint64(len(values))}, TypeInt8, nil)
	if err != nil {
		t.Fatalf("ReadTile: %v", err)
	}
	if !overflow {
		t.Fatalf("expected overflow flag for out-of-range narrowing")
	}
	want := []int8{127, -128, 10}
	for i, w := range want {
		if int8(dst[i]) != w {
			t.Errorf("element %d = %d, want %d", i, int8(dst[i]), w)
		}
	}
}

func TestReadTile2DOdometer(t *testing.T) {
	values := []int32{0, 1, 2, 3, 4, 5} // shape [2,3], row-major
	raw := make([]byte, len(values)*4)
	for i, v := range values {
		binary.NativeEndian.PutUint32(raw[i*4:], uint32(v))
	}
	md := &Metadata{Shape: []uint64{2, 3}, Datatype: TypeInt32, Byteorder: hostByteorder}
	src := fakeSource{data: raw}

	dst, overflow, err := ReadTile(md, src, []uint64{0, 1}, []uint64{2, 2}, TypeInt32, nil)
	if err != nil {
		t.Fatalf("ReadTile: %v", err)
	}
	if overflow {
		t.Fatalf("unexpected overflow")
	}
	want := []int32{1, 2, 4, 5}
	for i, w := range want {
		got := int32(binary.NativeEndian.Uint32(dst[i*4:]))
		if got != w {
			t.Errorf("element %d = %d, want %d", i, got, w)
		}
	}
}

func TestReadTileOutOfBounds(t *testing.T) {
	md := &Metadata{Shape: []uint64{4}, Datatype: TypeInt32, Byteorder: hostByteorder}
	src := fakeSource{data: make([]byte, 16)}

	_, _, err := ReadTile(md, src, []uint64{0}, []uint64{5}, TypeInt32, nil)
	if !errors.Is(err, TileErrOutOfBounds) {
		t.Fatalf("got %v, want TileErrOutOfBounds", err)
	}
}

func TestReadTileRejectsNonNumericDatatype(t *testing.T) {
	md := &Metadata{Shape: []uint64{4}, Datatype: TypeRecord, Byteorder: hostByteorder}
	src := fakeSource{data: make([]byte, 16)}

	_, _, err := ReadTile(md, src, []uint64{0}, []uint64{4}, TypeInt32, nil)
	if !errors.Is(err, ErrUnsupportedDatatype) {
		t.Fatalf("got %v, want ErrUnsupportedDatatype", err)
	}
}
