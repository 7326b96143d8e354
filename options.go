package asdf

import (
	"log/slog"

	"github.com/jhunkeler/libasdf-sub000/internal/blockio"
)

// config accumulates the functional options passed to Open/OpenReader,
// following the teacher's variadic-constructor style (tar.New2,
// zip.New2, hfs.New2) rather than a config struct: the teacher never
// threads an options struct through its constructors.
type config struct {
	logger        *slog.Logger
	bufferSize    int
	bufferTree    bool
	withoutMmap   bool
	blockCacheDir string
	blockCacheCap int
}

// Option configures Open/OpenReader.
type Option func(*config)

// WithLogger injects a *slog.Logger, overriding the ASDF_LOG_LEVEL-
// derived default built by internal/logconf.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBufferSize sets the file stream's sliding-window size in bytes
// (internal/stream's DefaultWindowSize if unset or <= 0).
func WithBufferSize(n int) Option {
	return func(c *config) { c.bufferSize = n }
}

// WithBufferTree forces tree-byte capture. File always needs this to
// decode the Tree Document, so Open sets it unconditionally; exposed so
// callers constructing a bare framing parser (via internal packages) can
// match File's behavior.
func WithBufferTree(v bool) Option {
	return func(c *config) { c.bufferTree = v }
}

// WithoutMmap disables mmap for both the tree stream and Block Handles,
// forcing heap copies even on platforms where mmap is available.
func WithoutMmap() Option {
	return func(c *config) { c.withoutMmap = true }
}

// WithBlockCache enables an on-disk cache (internal/blockcache, backed
// by pebble) of decompressed block payloads rooted at dir, mirroring
// the teacher's decompressioncache/prefetch.go caching strategy.
func WithBlockCache(dir string) Option {
	return func(c *config) { c.blockCacheDir = dir }
}

// WithMmapCacheSize bounds the number of concurrently-mmapped blocks the
// TinyLFU admission cache (internal/blockio.Cache) keeps warm across
// repeated BlockOpen/BlockClose cycles. 0 keeps the package default.
func WithMmapCacheSize(n int) Option {
	return func(c *config) { c.blockCacheCap = n }
}

func newMmapBlockCache(c *config) *blockio.Cache {
	if c.withoutMmap {
		return nil
	}
	if c.blockCacheCap > 0 {
		return blockio.NewCache(c.blockCacheCap)
	}
	return blockio.NewCache(0)
}
