package codec

import (
	"bytes"
	"compress/zlib"
	"testing"
)

func TestDecompressZlib(t *testing.T) {
	want := []byte("the quick brown fox jumps over the lazy dog")
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(want)
	zw.Close()

	got, err := Decompress("zlib", buf.Bytes(), len(want))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecompressNone(t *testing.T) {
	src := []byte("raw bytes")
	got, err := Decompress("", src, len(src))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("got %q, want %q", got, src)
	}
}

func TestDecompressUnsupported(t *testing.T) {
	if _, err := Decompress("bogus", nil, 0); err == nil {
		t.Fatal("expected error for unsupported compression name")
	}
}
