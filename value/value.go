// Package value implements the Value View described in spec §3/§4.4: a
// non-owning, zero-copy handle over a YAML node that infers a scalar's
// narrowest concrete type from its textual form and/or tag, widens or
// narrows it with overflow detection, and supports path lookup and
// iteration.
package value

import (
	"log/slog"

	"go.yaml.in/yaml/v3"

	"github.com/jhunkeler/libasdf-sub000/internal/asdfctx"
	"github.com/jhunkeler/libasdf-sub000/internal/yamltree"
)

// Kind is the View's structural or (once inferred) scalar type.
type Kind int

const (
	KindUnknown Kind = iota
	KindSequence
	KindMapping
	KindScalar // structural-only; not yet reclassified

	KindString
	KindBool
	KindNull
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat
	KindDouble
	KindExtension
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// scalarUnion holds the memoized, narrowest concrete scalar value.
type scalarUnion struct {
	i   int64
	u   uint64
	f32 float32
	f64 float64
	b   bool
	s   string
}

// View is the non-owning handle over a YAML node described in spec §3.
// The inferred_type starts as the node's structural kind and is
// reclassified to a scalar Kind on first typed access; inference is
// memoized.
type View struct {
	ctx  *asdfctx.Context
	node *yaml.Node
	path string

	kind      Kind // structural kind, set at construction
	inferred  bool
	inferErr  error
	inferKind Kind
	scalar    scalarUnion
}

// New wraps node as a root-level View. ctx supplies logging and the
// file-wide error latch; it may be nil for standalone use (e.g. tests).
func New(ctx *asdfctx.Context, node *yaml.Node) *View {
	return newChild(ctx, node, "")
}

// FromDocument wraps a parsed Document's root as a View.
func FromDocument(ctx *asdfctx.Context, doc *yamltree.Document) *View {
	return New(ctx, doc.Root)
}

func newChild(ctx *asdfctx.Context, node *yaml.Node, path string) *View {
	v := &View{ctx: ctx, node: node, path: path}
	if node == nil {
		v.kind = KindUnknown
		return v
	}
	switch node.Kind {
	case yaml.SequenceNode:
		v.kind = KindSequence
	case yaml.MappingNode:
		v.kind = KindMapping
	case yaml.ScalarNode:
		v.kind = KindScalar
	case yaml.AliasNode:
		return newChild(ctx, resolveAlias(node), path)
	default:
		v.kind = KindUnknown
	}
	return v
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func (v *View) logger() *slog.Logger {
	if v.ctx != nil {
		return v.ctx.Logger()
	}
	return slog.Default()
}

// Logger returns the View's context logger (or slog.Default() for a
// View built without one), for adapter packages (ndarray, extension)
// that need to emit warnings the way the File's other components do.
func (v *View) Logger() *slog.Logger { return v.logger() }

func (v *View) setFileError(err error) {
	if v.ctx != nil && err != nil {
		v.ctx.SetError(err)
	}
}

// Valid reports whether this View refers to an existing node.
func (v *View) Valid() bool { return v.node != nil }

// StructuralKind returns the node's raw structural kind (Sequence,
// Mapping, or Scalar), ignoring any scalar type inference.
func (v *View) StructuralKind() Kind { return v.kind }

// Path returns the JSON-Pointer-like path this View was looked up at,
// "" for the root.
func (v *View) Path() string { return v.path }

// Tag returns the node's YAML tag, e.g. "!!int" or an application tag
// like "tag:stsci.edu:asdf/core/ndarray-1.1.0".
func (v *View) Tag() string {
	if v.node == nil {
		return ""
	}
	return v.node.Tag
}

// Node returns the underlying YAML node. Intended for adapter packages
// (ndarray, extension) that need direct node access; ordinary callers
// should prefer the typed accessors below.
func (v *View) Node() *yaml.Node { return v.node }

// Get resolves path (spec §6 syntax: "/" delimiter, numeric segments
// index sequences, other segments are mapping keys, "" is root) relative
// to this View.
func (v *View) Get(path string) *View {
	n, ok := yamltree.ByPath(v.node, path)
	if !ok {
		return &View{ctx: v.ctx, path: joinPath(v.path, path), kind: KindUnknown}
	}
	return newChild(v.ctx, n, joinPath(v.path, path))
}

func joinPath(base, rel string) string {
	if base == "" {
		return rel
	}
	if rel == "" || rel == "/" {
		return base
	}
	return base + rel
}
