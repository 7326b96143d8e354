package ndarray

import (
	"math"
	"testing"
)

func TestClampToSignedFromFloat(t *testing.T) {
	v, of := clampToSigned(decoded{kind: floatCat, f: 1e20}, -128, 127)
	if !of || v != 127 {
		t.Errorf("got (%d,%v), want (127,true)", v, of)
	}
	v, of = clampToSigned(decoded{kind: floatCat, f: 10}, -128, 127)
	if of || v != 10 {
		t.Errorf("got (%d,%v), want (10,false)", v, of)
	}
}

func TestClampToUnsignedFromSignedNegative(t *testing.T) {
	v, of := clampToUnsigned(decoded{kind: signedCat, i: -5}, 255)
	if !of || v != 0 {
		t.Errorf("got (%d,%v), want (0,true)", v, of)
	}
}

func TestClampToFloat32RangeClamp(t *testing.T) {
	v, of := clampToFloat32(decoded{kind: floatCat, f: 1e40})
	if !of || v != float32(3.4028235e38) {
		t.Errorf("got (%v,%v), want (MaxFloat32,true)", v, of)
	}
}

func TestLookupConversionIdentityIsMemcpy(t *testing.T) {
	conv := lookupConversion(TypeUint8, TypeUint8, false)
	src := []byte{1, 2, 3}
	dst := make([]byte, 3)
	if conv(dst, src, 3) {
		t.Fatalf("unexpected overflow")
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("byte %d = %d, want %d", i, dst[i], src[i])
		}
	}
}

func TestLookupConversionWideningSignedToFloat(t *testing.T) {
	conv := lookupConversion(TypeInt16, TypeFloat64, false)
	src := make([]byte, 2)
	nativeOrder.PutUint16(src, uint16(int16(-42)))
	dst := make([]byte, 8)
	if conv(dst, src, 1) {
		t.Fatalf("unexpected overflow")
	}
	f := math.Float64frombits(nativeOrder.Uint64(dst))
	if f != -42 {
		t.Errorf("got %v, want -42", f)
	}
}
