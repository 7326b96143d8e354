package ndarray

import (
	"testing"

	"github.com/jhunkeler/libasdf-sub000/internal/yamltree"
	"github.com/jhunkeler/libasdf-sub000/value"
)

func mustView(t *testing.T, yamlSrc string) *value.View {
	t.Helper()
	doc, err := yamltree.Parse([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("yamltree.Parse: %v", err)
	}
	return value.FromDocument(nil, doc)
}

func TestParseBasic(t *testing.T) {
	v := mustView(t, `
source: 0
shape: [2, 3]
datatype: float64
byteorder: big
offset: 128
`)
	md, err := Parse(v)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if md.Source != 0 {
		t.Errorf("Source = %d, want 0", md.Source)
	}
	if len(md.Shape) != 2 || md.Shape[0] != 2 || md.Shape[1] != 3 {
		t.Errorf("Shape = %v, want [2 3]", md.Shape)
	}
	if md.Datatype != TypeFloat64 {
		t.Errorf("Datatype = %v, want float64", md.Datatype)
	}
	if md.Byteorder != BigEndian {
		t.Errorf("Byteorder = %v, want big", md.Byteorder)
	}
	if md.Offset != 128 {
		t.Errorf("Offset = %d, want 128", md.Offset)
	}
}

func TestParseDefaultsByteorderLittle(t *testing.T) {
	v := mustView(t, `
source: 0
shape: [4]
datatype: int32
`)
	md, err := Parse(v)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if md.Byteorder != LittleEndian {
		t.Errorf("Byteorder = %v, want little (default)", md.Byteorder)
	}
	if md.Offset != 0 {
		t.Errorf("Offset = %d, want 0 (default)", md.Offset)
	}
}

func TestParseMissingSource(t *testing.T) {
	v := mustView(t, `
shape: [4]
datatype: int32
`)
	if _, err := Parse(v); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestParseInvalidShape(t *testing.T) {
	v := mustView(t, `
source: 0
shape: []
datatype: int32
`)
	if _, err := Parse(v); err == nil {
		t.Fatal("expected error for empty shape")
	}
}

func TestParseAsciiDatatype(t *testing.T) {
	v := mustView(t, `
source: 0
shape: [1]
datatype: [ascii, 16]
`)
	md, err := Parse(v)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if md.Datatype != TypeASCII || md.ElemLen != 16 {
		t.Errorf("got datatype=%v elemLen=%d, want ascii/16", md.Datatype, md.ElemLen)
	}
}

func TestParseUnsupportedDatatypeFallsBackToRecord(t *testing.T) {
	v := mustView(t, `
source: 0
shape: [1]
datatype:
  name: custom
`)
	md, err := Parse(v)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if md.Datatype != TypeRecord {
		t.Errorf("Datatype = %v, want record", md.Datatype)
	}
}

func TestParseStrides(t *testing.T) {
	v := mustView(t, `
source: 0
shape: [2, 3]
datatype: int16
strides: [6, 2]
`)
	md, err := Parse(v)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(md.Strides) != 2 || md.Strides[0] != 6 || md.Strides[1] != 2 {
		t.Errorf("Strides = %v, want [6 2]", md.Strides)
	}
}

func TestParseInvalidStridesWarnsButSucceeds(t *testing.T) {
	v := mustView(t, `
source: 0
shape: [2, 3]
datatype: int16
strides: [6]
`)
	md, err := Parse(v)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if md.Strides != nil {
		t.Errorf("Strides = %v, want nil (invalid length should be dropped)", md.Strides)
	}
}
