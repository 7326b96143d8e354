package blockcache

import (
	"bytes"
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	fp := Fingerprint([]byte("/tmp/example.asdf"))
	payload := []byte("decompressed block bytes")

	if _, ok := c.Get(fp, 0); ok {
		t.Fatal("expected cache miss before Put")
	}
	if err := c.Put(fp, 0, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := c.Get(fp, 0)
	if !ok {
		t.Fatal("expected cache hit after Put")
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}
