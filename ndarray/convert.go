package ndarray

import (
	"encoding/binary"
	"math"
	"sync"
)

// hostByteorder is this process's native byte order, determined without
// unsafe via encoding/binary.NativeEndian (Go 1.21+).
var hostByteorder = func() Byteorder {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 1)
	if buf[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}()

var (
	nativeOrder  binary.ByteOrder = binary.NativeEndian
	swappedOrder binary.ByteOrder = func() binary.ByteOrder {
		if hostByteorder == LittleEndian {
			return binary.BigEndian
		}
		return binary.LittleEndian
	}()
)

// ConvFunc converts n elements from src (in srcType's on-disk layout,
// already byteswap-resolved by the table key) into dst (in dstType's
// host-native layout), returning true if any element's conversion
// clamped or truncated.
type ConvFunc func(dst, src []byte, n int) bool

type convKey struct {
	src, dst Datatype
	byteswap bool
}

var (
	convOnce  sync.Once
	convTable map[convKey]ConvFunc
)

// numericTypes lists the ten scalar types the dispatch table covers, per
// spec §4.8.
var numericTypes = []Datatype{
	TypeInt8, TypeUint8, TypeInt16, TypeUint16, TypeInt32, TypeUint32,
	TypeInt64, TypeUint64, TypeFloat32, TypeFloat64,
}

// buildConvTable constructs the full 10x10x2 dispatch table once, per
// spec §4.8's "lazily built... one-time initializer protected by an
// atomic flag" (sync.Once is the idiomatic Go equivalent of the C
// original's atomic_bool-guarded double-checked init).
func buildConvTable() {
	convOnce.Do(func() {
		convTable = make(map[convKey]ConvFunc, len(numericTypes)*len(numericTypes)*2)
		for _, s := range numericTypes {
			for _, d := range numericTypes {
				for _, swap := range [2]bool{false, true} {
					convTable[convKey{s, d, swap}] = makeConv(s, d, swap)
				}
			}
		}
	})
}

// lookupConversion returns the conversion function for (srcType,
// dstType, byteswap), building the table on first use. A pair outside
// the ten numeric types (which ReadTile already rejects before reaching
// here) falls back to a raw memcpy, per spec §4.8 step 4.
func lookupConversion(srcType, dstType Datatype, byteswap bool) ConvFunc {
	buildConvTable()
	if fn, ok := convTable[convKey{srcType, dstType, byteswap}]; ok {
		return fn
	}
	return memcpyFallback(srcType.ElementSize())
}

func memcpyFallback(elsize int) ConvFunc {
	return func(dst, src []byte, n int) bool {
		copy(dst, src[:n*elsize])
		return false
	}
}

// makeConv builds one cell of the dispatch table. The "Identity" rule
// (same type, no byteswap) shortcuts to a plain copy; every other pair
// goes through decodeElem/encodeElem, which implement the widening,
// narrowing, and sign-change rules of spec §4.8.
func makeConv(srcType, dstType Datatype, byteswap bool) ConvFunc {
	srcElsize := srcType.ElementSize()
	dstElsize := dstType.ElementSize()

	if srcType == dstType && !byteswap {
		return func(dst, src []byte, n int) bool {
			copy(dst, src[:n*srcElsize])
			return false
		}
	}

	order := nativeOrder
	if byteswap {
		order = swappedOrder
	}

	return func(dst, src []byte, n int) bool {
		overflow := false
		for i := 0; i < n; i++ {
			s := src[i*srcElsize : (i+1)*srcElsize]
			d := dst[i*dstElsize : (i+1)*dstElsize]
			elem := decodeElem(srcType, s, order)
			if encodeElem(dstType, d, elem) {
				overflow = true
			}
		}
		return overflow
	}
}

// category tags which union member of decoded holds the value.
type category int

const (
	signedCat category = iota
	unsignedCat
	floatCat
)

// decoded is a tagged union of the three representations a numeric
// scalar can carry through a conversion without losing precision:
// signed and unsigned integers up to 64 bits exactly, floats as
// float64.
type decoded struct {
	kind category
	i    int64
	u    uint64
	f    float64
}

func decodeElem(t Datatype, b []byte, order binary.ByteOrder) decoded {
	switch t {
	case TypeInt8:
		return decoded{kind: signedCat, i: int64(int8(b[0]))}
	case TypeUint8:
		return decoded{kind: unsignedCat, u: uint64(b[0])}
	case TypeInt16:
		return decoded{kind: signedCat, i: int64(int16(order.Uint16(b)))}
	case TypeUint16:
		return decoded{kind: unsignedCat, u: uint64(order.Uint16(b))}
	case TypeInt32:
		return decoded{kind: signedCat, i: int64(int32(order.Uint32(b)))}
	case TypeUint32:
		return decoded{kind: unsignedCat, u: uint64(order.Uint32(b))}
	case TypeInt64:
		return decoded{kind: signedCat, i: int64(order.Uint64(b))}
	case TypeUint64:
		return decoded{kind: unsignedCat, u: order.Uint64(b)}
	case TypeFloat32:
		return decoded{kind: floatCat, f: float64(math.Float32frombits(order.Uint32(b)))}
	case TypeFloat64:
		return decoded{kind: floatCat, f: math.Float64frombits(order.Uint64(b))}
	default:
		return decoded{}
	}
}

// encodeElem writes elem into dst in dstType's layout (always host-
// native order: the destination buffer is meant to be read back as
// ordinary Go scalars, not re-serialized), applying the widening/
// narrowing/sign-change rules of spec §4.8 and reporting overflow.
func encodeElem(t Datatype, dst []byte, elem decoded) bool {
	switch t {
	case TypeInt8:
		v, of := clampToSigned(elem, math.MinInt8, math.MaxInt8)
		dst[0] = byte(int8(v))
		return of
	case TypeUint8:
		v, of := clampToUnsigned(elem, math.MaxUint8)
		dst[0] = byte(v)
		return of
	case TypeInt16:
		v, of := clampToSigned(elem, math.MinInt16, math.MaxInt16)
		nativeOrder.PutUint16(dst, uint16(int16(v)))
		return of
	case TypeUint16:
		v, of := clampToUnsigned(elem, math.MaxUint16)
		nativeOrder.PutUint16(dst, uint16(v))
		return of
	case TypeInt32:
		v, of := clampToSigned(elem, math.MinInt32, math.MaxInt32)
		nativeOrder.PutUint32(dst, uint32(int32(v)))
		return of
	case TypeUint32:
		v, of := clampToUnsigned(elem, math.MaxUint32)
		nativeOrder.PutUint32(dst, uint32(v))
		return of
	case TypeInt64:
		v, of := clampToSigned(elem, math.MinInt64, math.MaxInt64)
		nativeOrder.PutUint64(dst, uint64(v))
		return of
	case TypeUint64:
		v, of := clampToUnsigned(elem, math.MaxUint64)
		nativeOrder.PutUint64(dst, v)
		return of
	case TypeFloat32:
		v, of := clampToFloat32(elem)
		nativeOrder.PutUint32(dst, math.Float32bits(v))
		return of
	case TypeFloat64:
		nativeOrder.PutUint64(dst, math.Float64bits(toFloat64(elem)))
		return false
	default:
		return true
	}
}

// clampToSigned implements the narrowing/sign-change rules for a signed
// integer destination: a signed source clamps to [lo, hi]; an unsigned
// source clamps to hi (never negative, so lo never binds); a float
// source clamps at the IEEE-representable bounds, NaN mapping to 0 with
// overflow set.
func clampToSigned(d decoded, lo, hi int64) (int64, bool) {
	switch d.kind {
	case signedCat:
		if d.i < lo {
			return lo, true
		}
		if d.i > hi {
			return hi, true
		}
		return d.i, false
	case unsignedCat:
		if d.u > uint64(hi) {
			return hi, true
		}
		return int64(d.u), false
	case floatCat:
		if math.IsNaN(d.f) {
			return 0, true
		}
		if d.f < float64(lo) {
			return lo, true
		}
		if d.f > float64(hi) {
			return hi, true
		}
		return int64(d.f), false
	}
	return 0, true
}

// clampToUnsigned is clampToSigned's unsigned-destination counterpart:
// negative signed or float sources truncate to 0 with overflow set.
func clampToUnsigned(d decoded, hi uint64) (uint64, bool) {
	switch d.kind {
	case unsignedCat:
		if d.u > hi {
			return hi, true
		}
		return d.u, false
	case signedCat:
		if d.i < 0 {
			return 0, true
		}
		u := uint64(d.i)
		if u > hi {
			return hi, true
		}
		return u, false
	case floatCat:
		if math.IsNaN(d.f) || d.f < 0 {
			return 0, true
		}
		if d.f > float64(hi) {
			return hi, true
		}
		return uint64(d.f), false
	}
	return 0, true
}

// clampToFloat32 implements "any integer -> float of sufficient width:
// straight cast, no overflow possible" and "double to float clamps at
// [-FLT_MAX, FLT_MAX]"; ordinary precision loss within range is not
// treated as overflow, matching spec §4.8's wording (only out-of-range
// clamping is).
func clampToFloat32(d decoded) (float32, bool) {
	switch d.kind {
	case signedCat:
		return float32(d.i), false
	case unsignedCat:
		return float32(d.u), false
	case floatCat:
		f := d.f
		switch {
		case math.IsNaN(f):
			return float32(math.NaN()), false
		case math.IsInf(f, 1):
			return float32(math.Inf(1)), false
		case math.IsInf(f, -1):
			return float32(math.Inf(-1)), false
		case f > math.MaxFloat32:
			return math.MaxFloat32, true
		case f < -math.MaxFloat32:
			return -math.MaxFloat32, true
		default:
			return float32(f), false
		}
	}
	return 0, true
}

func toFloat64(d decoded) float64 {
	switch d.kind {
	case signedCat:
		return float64(d.i)
	case unsignedCat:
		return float64(d.u)
	case floatCat:
		return d.f
	}
	return 0
}
