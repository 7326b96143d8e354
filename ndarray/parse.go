package ndarray

import (
	"fmt"
	"log/slog"

	"github.com/jhunkeler/libasdf-sub000/value"
)

// Metadata is the parsed form of a tagged core/ndarray-* mapping, per
// spec §4.7, grounded on the internal fields of original_source's
// asdf_ndarray_t (minus the file/block plumbing, which belongs to the
// Block Handle in this port rather than the metadata struct itself).
type Metadata struct {
	Source    int
	Shape     []uint64
	Datatype  Datatype
	ElemLen   int // element length N for ASCII/UCS4; 0 otherwise
	Byteorder Byteorder
	Offset    uint64
	Strides   []int64 // parsed, not honored by the Tile Engine (spec §9)
}

var datatypeNames = map[string]Datatype{
	"int8": TypeInt8, "uint8": TypeUint8,
	"int16": TypeInt16, "uint16": TypeUint16,
	"int32": TypeInt32, "uint32": TypeUint32,
	"int64": TypeInt64, "uint64": TypeUint64,
	"float16": TypeFloat16, "float32": TypeFloat32, "float64": TypeFloat64,
	"complex64": TypeComplex64, "complex128": TypeComplex128,
	"bool8": TypeBool8,
}

// Parse decodes a tagged core/ndarray-* mapping view into Metadata,
// following original_source/src/core/ndarray.c's field-by-field
// deserialization. source, shape and datatype are required: a missing
// one is a hard error, as is a malformed source or shape. A datatype
// that is present but not recognized is reported as TypeRecord with a
// warning. Optional fields that fail validation leave the field at its
// default rather than failing the whole parse; a bad byteorder string
// or strides list is logged as a warning, while a non-string byteorder
// or a non-uint64 offset is ignored without a log line.
func Parse(v *value.View) (*Metadata, error) {
	if v.StructuralKind() != value.KindMapping {
		return nil, fmt.Errorf("ndarray: expected a mapping, got %s", v.StructuralKind())
	}
	log := v.Logger()
	path := v.Path()

	sourceV := v.Get("/source")
	source, err := sourceV.AsInt64()
	if err != nil || source < 0 {
		return nil, fmt.Errorf("ndarray: required property \"source\" missing or invalid at %s", path)
	}

	shapeV := v.Get("/shape")
	shape, ok := parseShape(shapeV)
	if !ok {
		log.Warn("invalidNdarrayShape", "path", path)
		return nil, fmt.Errorf("ndarray: invalid shape for ndarray at %s", path)
	}

	datatypeV := v.Get("/datatype")
	if !datatypeV.Valid() {
		return nil, fmt.Errorf("ndarray: required property \"datatype\" missing at %s", path)
	}
	datatype, elemLen := parseDatatype(datatypeV, log, path)

	md := &Metadata{
		Source:    int(source),
		Shape:     shape,
		Datatype:  datatype,
		ElemLen:   elemLen,
		Byteorder: LittleEndian,
		Offset:    0,
	}

	if byteorderV := v.Get("/byteorder"); byteorderV.Valid() {
		if s, err := byteorderV.AsString(); err == nil {
			switch s {
			case "big":
				md.Byteorder = BigEndian
			case "little":
				md.Byteorder = LittleEndian
			default:
				log.Warn("invalidNdarrayByteorder", "path", path, "value", s)
			}
		}
	}

	if offsetV := v.Get("/offset"); offsetV.Valid() {
		if u, err := offsetV.AsUint64(); err == nil {
			md.Offset = u
		}
	}

	if stridesV := v.Get("/strides"); stridesV.Valid() {
		strides, ok := parseStrides(stridesV, len(shape))
		if !ok {
			log.Warn("invalidNdarrayStrides", "path", path)
		} else {
			md.Strides = strides
		}
	}

	return md, nil
}

func parseShape(v *value.View) ([]uint64, bool) {
	if v.StructuralKind() != value.KindSequence {
		return nil, false
	}
	var shape []uint64
	for elem := range v.Values() {
		n, err := elem.AsUint64()
		if err != nil || n == 0 {
			return nil, false
		}
		shape = append(shape, n)
	}
	if len(shape) == 0 {
		return nil, false
	}
	return shape, true
}

func parseStrides(v *value.View, ndim int) ([]int64, bool) {
	if v.StructuralKind() != value.KindSequence {
		return nil, false
	}
	var strides []int64
	for elem := range v.Values() {
		n, err := elem.AsInt64()
		if err != nil || n == 0 {
			return nil, false
		}
		strides = append(strides, n)
	}
	if len(strides) != ndim {
		return nil, false
	}
	return strides, true
}

// parseDatatype implements asdf_ndarray_deserialize_datatype: a scalar
// name string maps directly via datatypeNames; a 2-element sequence
// [name, N] with a uint64 second element is ascii/ucs4 of length N;
// anything else (other sequences, mappings) is reported as Record.
func parseDatatype(v *value.View, log *slog.Logger, path string) (Datatype, int) {
	if v.StructuralKind() == value.KindSequence {
		elems := collect(v)
		if len(elems) == 2 {
			if n, err := elems[1].AsUint64(); err == nil {
				if name, err := elems[0].AsString(); err == nil {
					switch name {
					case "ascii":
						return TypeASCII, int(n)
					case "ucs4":
						return TypeUCS4, int(n)
					}
				}
			}
		}
		log.Warn("unsupportedNdarrayDatatype", "path", path)
		return TypeRecord, 0
	}
	if v.StructuralKind() == value.KindMapping {
		log.Warn("unsupportedNdarrayDatatype", "path", path)
		return TypeRecord, 0
	}
	name, err := v.AsString()
	if err != nil {
		log.Warn("unsupportedNdarrayDatatype", "path", path)
		return TypeRecord, 0
	}
	if dt, ok := datatypeNames[name]; ok {
		return dt, 0
	}
	log.Warn("unsupportedNdarrayDatatype", "path", path, "name", name)
	return TypeRecord, 0
}

func collect(v *value.View) []*value.View {
	var out []*value.View
	for elem := range v.Values() {
		out = append(out, elem)
	}
	return out
}
