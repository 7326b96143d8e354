package asdf

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jhunkeler/libasdf-sub000/internal/asdfctx"
	"github.com/jhunkeler/libasdf-sub000/internal/blockcache"
	"github.com/jhunkeler/libasdf-sub000/internal/blockio"
	"github.com/jhunkeler/libasdf-sub000/internal/framing"
	"github.com/jhunkeler/libasdf-sub000/internal/logconf"
	"github.com/jhunkeler/libasdf-sub000/internal/sectionreader"
	"github.com/jhunkeler/libasdf-sub000/internal/stream"
	"github.com/jhunkeler/libasdf-sub000/internal/yamltree"
	"github.com/jhunkeler/libasdf-sub000/value"
)

// File is the File Facade of spec §3/§4.6/§4.8 (component K): it composes
// the Context, Stream, Framing Parser, Block Catalog, Tree Document,
// Value View, Extension Registry, Block Handle, and Ndarray components
// into the public API, mirroring how the teacher's FS composes its own
// internal archive-format readers behind one fs.FS.
type File struct {
	ctx    *asdfctx.Context
	s      stream.Stream
	parser *framing.Parser

	ra    io.ReaderAt
	osf   *os.File // non-nil when file-backed (mmap-eligible)
	close func() error

	treeDoc  *yamltree.Document
	treeView *value.View

	blockCache       *blockio.Cache
	diskCache        *blockcache.Cache
	cacheFingerprint uint64

	asdfVersion     string
	standardVersion string
}

// Open opens path, following the teacher's New(r io.ReaderAt)-over-a-path
// convention (tar.New, zip.New, hfs.New) by doing the os.Open + Stat
// legwork itself before delegating to OpenReader.
func Open(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asdf: opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("asdf: statting %s: %w", path, err)
	}
	file, err := openFrom(f, f, info.Size(), opts, f.Close)
	if err != nil {
		f.Close()
		return nil, err
	}
	return file, nil
}

// OpenReader opens an already-open, explicitly-sized reader, following
// the teacher's New2(headerReader, dataReader)-style second constructor
// (tar.New2, zip.New2, hfs.New2) for callers bringing their own handle
// rather than a path; collapsed to one reader since ASDF has no
// header/data split. size may be -1 if unknown (disables mmap and
// Stream.Seekable's SeekEnd).
func OpenReader(r io.ReaderAt, size int64, opts ...Option) (*File, error) {
	osf, _ := r.(*os.File)
	var extraClose []func() error
	if c, ok := r.(io.Closer); ok {
		extraClose = append(extraClose, c.Close)
	}
	return openFrom(r, osf, size, opts, extraClose...)
}

func openFrom(r io.ReaderAt, osf *os.File, size int64, opts []Option, extraClose ...func() error) (*File, error) {
	var c config
	for _, o := range opts {
		o(&c)
	}
	c.bufferTree = true // File always needs the tree's bytes to decode it

	logger := c.logger
	if logger == nil {
		logger = logconf.NewLogger()
	}

	ctx := asdfctx.New(logger)

	useMmap := osf != nil && !c.withoutMmap && size >= 0
	var s stream.Stream
	var err error
	if useMmap {
		s, err = stream.NewMmap(osf, size)
	} else {
		s = stream.NewFile(r, size, c.bufferSize)
	}
	if err != nil {
		return nil, fmt.Errorf("asdf: mapping stream: %w", err)
	}

	parser := framing.New(s, framing.Options{
		BufferTree: c.bufferTree,
		Logger:     logger,
		Ctx:        ctx,
	})

	f := &File{
		ctx:        ctx,
		s:          s,
		parser:     parser,
		ra:         r,
		blockCache: newMmapBlockCache(&c),
	}
	if useMmap {
		// Block Handles map through File(); leaving osf unset makes them
		// take the heap-copy path instead.
		f.osf = osf
	}
	f.close = func() error {
		var firstErr error
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		for _, cl := range extraClose {
			if cl == nil {
				continue
			}
			if err := cl(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	if c.blockCacheDir != "" {
		dc, err := blockcache.Open(c.blockCacheDir)
		if err != nil {
			logger.Warn("blockCacheUnavailable", "dir", c.blockCacheDir, "err", err)
		} else {
			f.diskCache = dc
			// Fingerprint identifies this file across process runs by path
			// + size when file-backed (blockcache.Cache is meant to persist
			// across invocations); an OpenReader caller with no backing
			// *os.File still gets a cache that's at least self-consistent
			// for this process, keyed on the reader's identity instead.
			var seed string
			if osf != nil {
				seed = fmt.Sprintf("%s:%d", osf.Name(), size)
			} else {
				seed = fmt.Sprintf("anon:%d:%p", size, r)
			}
			f.cacheFingerprint = blockcache.Fingerprint([]byte(seed))
		}
	}

	if err := f.decodeHeaderAndTree(); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// decodeHeaderAndTree drives the Framing Parser from BEGIN through
// TreeEnd, recording the version lines and decoding the captured tree
// bytes into a Tree Document and root Value View.
func (f *File) decodeHeaderAndTree() error {
	for {
		ev, err := f.parser.Parse()
		if err != nil {
			f.ctx.SetError(err)
			return err
		}
		switch e := ev.(type) {
		case framing.EventAsdfVersion:
			f.asdfVersion = e.Version
		case framing.EventStandardVersion:
			f.standardVersion = e.Version
		case framing.EventTreeEnd:
			doc, err := yamltree.Parse(e.Buffer)
			if err != nil {
				wrapped := NewError(ParseFailure, "decoding tree YAML", err)
				f.ctx.SetError(wrapped)
				return wrapped
			}
			f.treeDoc = doc
			f.treeView = value.FromDocument(f.ctx, doc)
			return nil
		case framing.EventEnd:
			// End before TreeEnd means either the parser latched an error
			// or the input ended after the header lines with no %YAML
			// directive (a file with no tree).
			if err := f.parser.Err(); err != nil {
				f.ctx.SetError(err)
				return err
			}
			return NewError(InvalidHeader, "stream ended before tree was found", nil)
		}
	}
}

// AsdfVersion returns the "#ASDF <ver>" line's version string.
func (f *File) AsdfVersion() string { return f.asdfVersion }

// StandardVersion returns the "#ASDF_STANDARD <ver>" line's version
// string.
func (f *File) StandardVersion() string { return f.standardVersion }

// Tree returns a Value View over the decoded tree's root.
func (f *File) Tree() *value.View { return f.treeView }

// Logger returns the File's configured logger.
func (f *File) Logger() *slog.Logger { return f.ctx.Logger() }

// Err returns the most recently latched file-wide error, matching spec
// §7's file_error, or nil.
func (f *File) Err() error { return f.ctx.Error() }

// Close tears down Block Handles' shared cache, the Framing Parser, Tree
// Document, and Context, in that order, per spec §5. Idempotent.
//
// Closing the Parser releases its share of the Context (see
// internal/asdfctx.Context); once File's own share is the only one left,
// Refs() reports 1. A higher count here would mean something else besides
// File and Parser is still holding the Context open, which Warn logs
// rather than asserting, since Close must remain safe to call during
// error unwinding.
func (f *File) Close() error {
	if f.s == nil {
		return nil
	}
	if err := f.parser.Close(); err != nil {
		return err
	}
	err := f.close()
	if f.diskCache != nil {
		if cerr := f.diskCache.Close(); cerr != nil && err == nil {
			err = cerr
		}
		f.diskCache = nil
	}
	f.s = nil
	f.treeDoc = nil
	f.treeView = nil
	if refs := f.ctx.Refs(); refs != 1 {
		f.ctx.Logger().Warn("contextRefsLeaked", "refs", refs)
	}
	f.ctx.ClearError()
	return err
}

// ReaderAt exposes the File's underlying byte source, used by
// internal/blockio's heap-copy fallback.
func (f *File) ReaderAt() io.ReaderAt { return f.ra }

// File implements blockio.Source.
func (f *File) File() (*os.File, bool) { return f.osf, f.osf != nil }

// EnsureBlock implements blockio.Source: drives the Framing Parser
// forward until the catalog holds at least index+1 entries, per spec
// §4.3.
func (f *File) EnsureBlock(index int) (framing.BlockDescriptor, error) {
	for len(f.parser.Catalog()) <= index {
		if f.parser.BlocksExhausted() {
			return framing.BlockDescriptor{}, NewError(NotFound, fmt.Sprintf("no block at index %d", index), nil)
		}
		if _, err := f.parser.Parse(); err != nil {
			f.ctx.SetError(err)
			return framing.BlockDescriptor{}, err
		}
	}
	return f.parser.Catalog()[index], nil
}

// BlockCount drives the parser to completion (spec §4.3's block_count
// contract) and returns the total number of blocks discovered.
func (f *File) BlockCount() (int, error) {
	for !f.parser.BlocksExhausted() {
		if _, err := f.parser.Parse(); err != nil {
			f.ctx.SetError(err)
			return 0, err
		}
	}
	return len(f.parser.Catalog()), nil
}

// BlockOpen ensures block index exists and returns a Block Handle over
// it, preferring the File's mmap-admission cache when one is configured.
func (f *File) BlockOpen(index int) (*blockio.BlockHandle, error) {
	return blockio.Open(f, index, f.blockCache)
}

// blockSection returns a bounded io.ReaderAt over one block's raw
// payload range, collapsing through any nesting (internal/sectionreader),
// for callers that want a plain io.ReaderAt rather than a fully
// materialized []byte (e.g. a decompressor streaming rather than
// buffering).
func (f *File) blockSection(desc framing.BlockDescriptor) *sectionreader.ReaderAt {
	return sectionreader.Section(f.ra, desc.DataPos, int64(desc.Header.Used))
}
