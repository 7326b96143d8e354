package framing

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/jhunkeler/libasdf-sub000/internal/asdfctx"
	"github.com/jhunkeler/libasdf-sub000/internal/stream"
)

type state int

const (
	stateInitial state = iota
	stateAsdfVersion
	stateStandardVersion
	stateComment
	stateYamlDirective
	stateTree
	stateAfterTree
	stateEnd
	stateError
)

var (
	blockIndexLine = []byte("#ASDF BLOCK INDEX")
)

// Options configures the Framing Parser.
type Options struct {
	// BufferTree captures the tree's raw bytes so a Tree Document can be
	// decoded from them after TreeEnd.
	BufferTree bool

	Logger *slog.Logger

	// Ctx, when set, is Ref'd once by New and Unref'd once by Close,
	// implementing the File/Parser shared ownership of spec §3's
	// Context: File and Parser both point at the same Context without
	// forming a cycle, and each releases its own share independently.
	Ctx *asdfctx.Context
}

// Parser is the framing state machine over a Stream, producing one Event
// per Parse call. It latches into a terminal error state on any malformed
// header, short block body, or stream error, per spec §4.2's error
// policy: further Parse calls return EventEnd after the error is
// reported once.
type Parser struct {
	s    stream.Stream
	opts Options
	log  *slog.Logger

	state      state
	err        error
	reported   bool
	treeStart  int64
	treeBuf    *bytes.Buffer
	blocks     []BlockDescriptor
	blocksDone bool // true once scanning has reached End or BlockIndex
	pendingIdx []int64

	closed bool
}

// New builds a Parser over s. If opts.Ctx is set, New takes its own share
// of the Context (Ref), released by Close.
func New(s stream.Stream, opts Options) *Parser {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Ctx != nil {
		opts.Ctx.Ref()
	}
	return &Parser{s: s, opts: opts, log: log, state: stateInitial}
}

// Close releases the Parser's share of opts.Ctx, if any. Idempotent.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.opts.Ctx != nil {
		p.opts.Ctx.Unref()
	}
	return nil
}

// Catalog returns the blocks discovered so far, in discovery order.
func (p *Parser) Catalog() []BlockDescriptor { return p.blocks }

// BlocksExhausted reports whether scanning has reached a point (End or
// BlockIndex) after which no further blocks can be discovered.
func (p *Parser) BlocksExhausted() bool { return p.blocksDone }

// Err returns the latched parse error, if any.
func (p *Parser) Err() error { return p.err }

func (p *Parser) fail(kind string, err error) (Event, error) {
	p.state = stateError
	if p.err == nil {
		p.err = err
	}
	if !p.reported {
		p.reported = true
		p.log.Error("framingError", "kind", kind, "err", err)
	}
	return EventEnd{}, p.err
}

// Parse advances the state machine and returns the next Event. Once
// latched into an error state, every subsequent call returns EventEnd
// with the latched error.
func (p *Parser) Parse() (Event, error) {
	switch p.state {
	case stateInitial:
		return p.parseAsdfVersion()
	case stateAsdfVersion:
		return p.parseStandardVersion()
	case stateStandardVersion, stateComment:
		return p.parseCommentOrDirective()
	case stateYamlDirective:
		return p.parseTreeStart()
	case stateTree:
		return p.parseTreeBody()
	case stateAfterTree, stateEnd:
		return p.parseAfterTree()
	case stateError:
		return EventEnd{}, p.err
	default:
		return EventEnd{}, nil
	}
}

func stripLineEnding(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	b = bytes.TrimSuffix(b, []byte("\r"))
	return b
}

func (p *Parser) parseAsdfVersion() (Event, error) {
	line, err := p.s.ReadLine()
	if err != nil {
		return p.fail("header", err)
	}
	const prefix = "#ASDF "
	if !bytes.HasPrefix(line, []byte(prefix)) {
		return p.fail("header", fmt.Errorf("expected %q line, got %q", prefix, line))
	}
	ver := string(stripLineEnding(line[len(prefix):]))
	p.state = stateAsdfVersion
	return EventAsdfVersion{Version: ver}, nil
}

func (p *Parser) parseStandardVersion() (Event, error) {
	line, err := p.s.ReadLine()
	if err != nil {
		return p.fail("header", err)
	}
	const prefix = "#ASDF_STANDARD "
	if !bytes.HasPrefix(line, []byte(prefix)) {
		return p.fail("header", fmt.Errorf("expected %q line, got %q", prefix, line))
	}
	ver := string(stripLineEnding(line[len(prefix):]))
	p.state = stateStandardVersion
	return EventStandardVersion{Version: ver}, nil
}

// parseCommentOrDirective handles the "(Comment)* then %YAML" run.
func (p *Parser) parseCommentOrDirective() (Event, error) {
	avail, err := p.s.Peek()
	if err != nil {
		return p.fail("header", err)
	}
	if len(avail) == 0 {
		// Header lines only (no tree, no blocks): a valid, empty file.
		p.blocksDone = true
		p.state = stateEnd
		return EventEnd{}, nil
	}
	if bytes.HasPrefix(avail, []byte("%YAML")) {
		p.state = stateYamlDirective
		return p.parseTreeStart()
	}
	if bytes.HasPrefix(avail, []byte("#")) {
		line, err := p.s.ReadLine()
		if err != nil {
			return p.fail("header", err)
		}
		p.state = stateComment
		return EventComment{Text: string(stripLineEnding(line[1:]))}, nil
	}
	return p.fail("header", fmt.Errorf("expected comment or %%YAML directive, got %q", avail))
}

func (p *Parser) parseTreeStart() (Event, error) {
	offset := p.s.Tell()
	line, err := p.s.ReadLine()
	if err != nil {
		return p.fail("header", err)
	}
	trimmed := stripLineEnding(line)
	if !bytes.HasPrefix(trimmed, []byte("%YAML ")) {
		return p.fail("header", fmt.Errorf("expected %%YAML directive, got %q", line))
	}
	ver := string(trimmed[len("%YAML "):])
	if ver != "1.1" {
		p.log.Warn("unexpectedYamlVersion", "version", ver)
	}
	p.treeStart = offset
	if p.opts.BufferTree {
		p.treeBuf = new(bytes.Buffer)
		p.treeBuf.Write(line)
		p.s.SetCapture(p.treeBuf)
	}
	p.state = stateTree
	return EventTreeStart{Offset: offset}, nil
}

// parseTreeBody scans to either the next block magic or EOF, ending the
// tree region there (mode (b) of spec §4.2: skip the YAML document).
func (p *Parser) parseTreeBody() (Event, error) {
	_, which, err := p.s.Scan([][]byte{BlockMagic[:]})
	if err != nil {
		return p.fail("tree", err)
	}
	end := p.s.Tell()
	p.s.SetCapture(nil)
	var buf []byte
	if p.opts.BufferTree {
		buf = p.treeBuf.Bytes()
	}
	p.state = stateAfterTree
	_ = which
	return EventTreeEnd{Start: p.treeStart, End: end, Buffer: buf}, nil
}

// parseAfterTree drives Block/Padding/BlockIndex/End transitions.
func (p *Parser) parseAfterTree() (Event, error) {
	avail, err := p.s.Peek()
	if err != nil {
		return p.fail("block", err)
	}
	if len(avail) == 0 {
		p.blocksDone = true
		p.state = stateEnd
		return EventEnd{}, nil
	}

	if bytes.HasPrefix(avail, BlockMagic[:]) {
		return p.parseBlockAt()
	}
	if bytes.HasPrefix(avail, blockIndexLine) {
		return p.parseBlockIndex()
	}

	// Padding: scan forward to the next block magic, the index line, or
	// EOF; everything skipped is padding.
	start := p.s.Tell()
	_, _, err = p.s.Scan([][]byte{BlockMagic[:], blockIndexLine})
	if err != nil {
		return p.fail("padding", err)
	}
	end := p.s.Tell()
	return EventPadding{Start: start, End: end}, nil
}

func (p *Parser) parseBlockAt() (Event, error) {
	for {
		headerPos := p.s.Tell()
		// Peek enough to cover the length prefix + minimum header.
		avail, err := p.s.Peek()
		if err != nil {
			return p.fail("block", err)
		}
		if len(avail) < 4+2+MinHeaderSize {
			return p.fail("block", fmt.Errorf("truncated block header at %d", headerPos))
		}
		// Candidate bytes matching the magic but failing validation are
		// rejected and the scan resumes after the candidate (spec §4.2).
		raw := avail[4 : 4+2+MinHeaderSize]
		hdr, ok := parseBlockHeader(raw)
		if !ok || !hdr.Valid() {
			p.s.Consume(4) // past the rejected candidate's magic
			_, _, err := p.s.Scan([][]byte{BlockMagic[:], blockIndexLine})
			if err != nil {
				return p.fail("block", err)
			}
			avail2, _ := p.s.Peek()
			if bytes.HasPrefix(avail2, blockIndexLine) || len(avail2) == 0 {
				return p.parseAfterTree()
			}
			continue
		}

		totalHeaderBytes := int64(4 + 2 + int(hdr.HeaderSize))
		dataPos := headerPos + totalHeaderBytes
		if _, err := p.s.Seek(dataPos, io.SeekStart); err != nil {
			return p.fail("block", err)
		}
		desc := BlockDescriptor{Header: hdr, HeaderPos: headerPos, DataPos: dataPos}
		p.blocks = append(p.blocks, desc)

		if _, err := p.s.Seek(dataPos+int64(hdr.Allocated), io.SeekStart); err != nil {
			return p.fail("block", err)
		}
		p.state = stateAfterTree
		return EventBlock{Info: desc}, nil
	}
}

func (p *Parser) parseBlockIndex() (Event, error) {
	line, err := p.s.ReadLine()
	if err != nil {
		return p.fail("blockindex", err)
	}
	_ = line // "#ASDF BLOCK INDEX" line itself, discarded

	rest, err := io.ReadAll(readerFromStream(p.s))
	if err != nil {
		return p.fail("blockindex", err)
	}
	offsets := parseBlockIndexYAML(rest)
	p.blocksDone = true
	p.state = stateEnd
	return EventBlockIndex{Offsets: offsets}, nil
}

// readerFromStream adapts the remaining stream contents (to EOF) into an
// io.Reader, used only for the trailing block index which is always the
// final section of the file.
func readerFromStream(s stream.Stream) io.Reader {
	return streamReader{s}
}

type streamReader struct{ s stream.Stream }

func (r streamReader) Read(p []byte) (int, error) {
	avail, err := r.s.Peek()
	if err != nil {
		return 0, err
	}
	if len(avail) == 0 {
		return 0, io.EOF
	}
	n := copy(p, avail)
	r.s.Consume(n)
	return n, nil
}
