package asdf

import (
	"bytes"
	"errors"
	"testing"
)

// buildMinimalFile assembles a minimal well-formed ASDF byte stream: the
// version header, a one-key tree document, and one zero-compression
// block, following the same raw-byte construction internal/framing's own
// parser_test.go uses for TestTreeAndBlock.
func buildMinimalFile(tree string) []byte {
	var data []byte
	data = append(data, "#ASDF 1.0.0\n#ASDF_STANDARD 1.6.0\n%YAML 1.1\n"...)
	data = append(data, tree...)

	header := make([]byte, 2+48)
	header[1] = 48 // header_size = 48
	header[2+8+7] = 64
	header[2+16+7] = 64
	header[2+24+7] = 64

	data = append(data, []byte{0xd3, 0x42, 0x4c, 0x4b}...) // BlockMagic
	data = append(data, header...)
	data = append(data, make([]byte, 64)...)
	return data
}

func openMinimal(t *testing.T, tree string, opts ...Option) *File {
	t.Helper()
	data := buildMinimalFile(tree)
	f, err := OpenReader(bytes.NewReader(data), int64(len(data)), opts...)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	return f
}

func TestOpenReaderDecodesVersionsAndTree(t *testing.T) {
	f := openMinimal(t, "---\nfoo: 1\n...\n")
	defer f.Close()

	if f.AsdfVersion() != "1.0.0" {
		t.Fatalf("AsdfVersion() = %q", f.AsdfVersion())
	}
	if f.StandardVersion() != "1.6.0" {
		t.Fatalf("StandardVersion() = %q", f.StandardVersion())
	}
	got, err := f.Tree().Get("/foo").AsInt64()
	if err != nil || got != 1 {
		t.Fatalf("Tree /foo = %d, %v", got, err)
	}
	if f.Err() != nil {
		t.Fatalf("Err() = %v, want nil", f.Err())
	}
}

func TestBlockCountDrivesParserToCompletion(t *testing.T) {
	f := openMinimal(t, "---\nfoo: 1\n...\n")
	defer f.Close()

	n, err := f.BlockCount()
	if err != nil {
		t.Fatalf("BlockCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("BlockCount() = %d, want 1", n)
	}
}

func TestBlockOpenReadsBlockData(t *testing.T) {
	f := openMinimal(t, "---\nfoo: 1\n...\n")
	defer f.Close()

	h, err := f.BlockOpen(0)
	if err != nil {
		t.Fatalf("BlockOpen: %v", err)
	}
	defer h.Close()
	data, err := h.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if len(data) != 64 {
		t.Fatalf("len(Data()) = %d, want 64", len(data))
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	f := openMinimal(t, "---\nfoo: 1\n...\n")
	if err := f.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestCloseLeavesContextAtOneReference(t *testing.T) {
	f := openMinimal(t, "---\nfoo: 1\n...\n")
	if f.ctx.Refs() != 2 {
		t.Fatalf("before Close: ctx.Refs() = %d, want 2 (File + Parser)", f.ctx.Refs())
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if f.ctx.Refs() != 1 {
		t.Fatalf("after Close: ctx.Refs() = %d, want 1 (File's own share)", f.ctx.Refs())
	}
}

func TestOpenReaderRejectsMalformedHeader(t *testing.T) {
	data := []byte("not an asdf file")
	_, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		t.Fatal("expected an error for a malformed header")
	}
}

func TestErrLatchesOnTreeDecodeFailure(t *testing.T) {
	// An unterminated flow mapping is invalid YAML, so tree decoding
	// fails after the Framing Parser successfully finds TreeEnd.
	data := buildMinimalFile("{not: valid")
	_, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err == nil {
		t.Fatal("expected a tree-decode error")
	}
	var asdfErr *Error
	if !errors.As(err, &asdfErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
}
