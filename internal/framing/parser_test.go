package framing

import (
	"testing"

	"github.com/jhunkeler/libasdf-sub000/internal/stream"
)

func events(t *testing.T, data []byte, opts Options) []Event {
	t.Helper()
	s := stream.NewMemory(data)
	p := New(s, opts)
	var got []Event
	for {
		ev, err := p.Parse()
		got = append(got, ev)
		if _, ok := ev.(EventEnd); ok {
			if err != nil {
				t.Fatalf("unexpected terminal error: %v", err)
			}
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return got
}

func TestEpsilonFile(t *testing.T) {
	data := []byte("#ASDF 1.0.0\n#ASDF_STANDARD 1.6.0\n")
	got := events(t, data, Options{})

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3: %#v", len(got), got)
	}
	av, ok := got[0].(EventAsdfVersion)
	if !ok || av.Version != "1.0.0" {
		t.Fatalf("event 0 = %#v", got[0])
	}
	sv, ok := got[1].(EventStandardVersion)
	if !ok || sv.Version != "1.6.0" {
		t.Fatalf("event 1 = %#v", got[1])
	}
	if _, ok := got[2].(EventEnd); !ok {
		t.Fatalf("event 2 = %#v", got[2])
	}
}

func TestExtraCommentFile(t *testing.T) {
	data := []byte("#ASDF 1.0.0\n#ASDF_STANDARD 1.6.0\n#NONSTANDARD HEADER COMMENT\n")
	got := events(t, data, Options{})

	if len(got) != 4 {
		t.Fatalf("got %d events, want 4: %#v", len(got), got)
	}
	c, ok := got[2].(EventComment)
	if !ok || c.Text != "NONSTANDARD HEADER COMMENT" {
		t.Fatalf("event 2 = %#v", got[2])
	}
}

func TestTreeAndBlock(t *testing.T) {
	tree := "---\nfoo: 1\n...\n"
	var data []byte
	data = append(data, "#ASDF 1.0.0\n#ASDF_STANDARD 1.6.0\n%YAML 1.1\n"...)
	data = append(data, tree...)

	header := make([]byte, 2+48)
	header[1] = 48 // header_size = 48
	// flags=0, compression=zeros, allocated=used=data=64
	header[2+8+7] = 64
	header[2+16+7] = 64
	header[2+24+7] = 64

	data = append(data, BlockMagic[:]...)
	data = append(data, header...)
	data = append(data, make([]byte, 64)...)

	got := events(t, data, Options{BufferTree: true})

	var treeStartIdx, treeEndIdx, blockIdx = -1, -1, -1
	for i, ev := range got {
		switch ev.(type) {
		case EventTreeStart:
			treeStartIdx = i
		case EventTreeEnd:
			treeEndIdx = i
		case EventBlock:
			blockIdx = i
		}
	}
	if treeStartIdx < 0 || treeEndIdx < 0 || blockIdx < 0 {
		t.Fatalf("missing expected events: %#v", got)
	}

	te := got[treeEndIdx].(EventTreeEnd)
	if want := "%YAML 1.1\n" + tree; string(te.Buffer) != want {
		t.Fatalf("captured tree = %q, want %q", te.Buffer, want)
	}

	blk := got[blockIdx].(EventBlock)
	if blk.Info.Header.Allocated != 64 || blk.Info.Header.Used != 64 || blk.Info.Header.DataSize != 64 {
		t.Fatalf("block header = %#v", blk.Info.Header)
	}
	if blk.Info.Header.HeaderSize != 48 {
		t.Fatalf("header size = %d", blk.Info.Header.HeaderSize)
	}
}
