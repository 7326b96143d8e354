// Package ndarray implements the Ndarray Metadata Parser and Tile Engine
// described in spec §3/§4.7/§4.8, grounded on
// original_source/src/core/ndarray.c and
// original_source/src/core/ndarray_convert.c.
package ndarray

import "fmt"

// Datatype enumerates the core/ndarray-* schema's recognized element
// types (spec §4.7). Only the ten numeric kinds participate in the Tile
// Engine's conversion dispatch table; the rest are recognized and
// reported but rejected by tile reads (spec §1 Non-goals).
type Datatype int

const (
	TypeUnknown Datatype = iota
	TypeInt8
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat16
	TypeFloat32
	TypeFloat64
	TypeComplex64
	TypeComplex128
	TypeBool8
	TypeASCII
	TypeUCS4
	TypeRecord
)

func (d Datatype) String() string {
	switch d {
	case TypeInt8:
		return "int8"
	case TypeUint8:
		return "uint8"
	case TypeInt16:
		return "int16"
	case TypeUint16:
		return "uint16"
	case TypeInt32:
		return "int32"
	case TypeUint32:
		return "uint32"
	case TypeInt64:
		return "int64"
	case TypeUint64:
		return "uint64"
	case TypeFloat16:
		return "float16"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	case TypeComplex64:
		return "complex64"
	case TypeComplex128:
		return "complex128"
	case TypeBool8:
		return "bool8"
	case TypeASCII:
		return "ascii"
	case TypeUCS4:
		return "ucs4"
	case TypeRecord:
		return "record"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether d is one of the ten scalar numeric types the
// Tile Engine's conversion dispatch table covers.
func (d Datatype) IsNumeric() bool {
	switch d {
	case TypeInt8, TypeUint8, TypeInt16, TypeUint16, TypeInt32, TypeUint32,
		TypeInt64, TypeUint64, TypeFloat32, TypeFloat64:
		return true
	}
	return false
}

// ElementSize returns the on-disk size in bytes of one element of d, or 0
// for datatypes without a fixed per-element size (Record/Unknown). For
// ASCII and UCS4 it is the size of one character (1 and 4 bytes); the
// character count is Metadata.ElemLen.
func (d Datatype) ElementSize() int {
	switch d {
	case TypeInt8, TypeUint8, TypeBool8:
		return 1
	case TypeInt16, TypeUint16, TypeFloat16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat32:
		return 4
	case TypeInt64, TypeUint64, TypeFloat64, TypeComplex64:
		return 8
	case TypeComplex128:
		return 16
	case TypeUCS4:
		return 4 // one UCS-4 code point
	case TypeASCII:
		return 1
	default:
		return 0
	}
}

// Byteorder is the source array's on-disk byte order.
type Byteorder byte

const (
	LittleEndian Byteorder = '<'
	BigEndian    Byteorder = '>'
)

func (b Byteorder) String() string {
	if b == BigEndian {
		return "big"
	}
	return "little"
}

// ErrUnsupportedDatatype is returned by the Tile Engine for any datatype
// outside the ten numeric scalar types, per spec §1 Non-goals.
var ErrUnsupportedDatatype = fmt.Errorf("ndarray: unsupported datatype for tile reads")
