package value

import (
	"iter"
	"strconv"

	"go.yaml.in/yaml/v3"
)

// MappingIter yields (key, value) pairs from a Mapping-kind View, in
// document order. Non-scalar keys produce a warning and a null key,
// matching spec §4.4.
type MappingIter struct {
	v   *View
	idx int
	n   int
}

// Mapping returns a MappingIter over v, or nil if v is not a Mapping.
func (v *View) Mapping() *MappingIter {
	if v.node == nil || v.node.Kind != yaml.MappingNode {
		return nil
	}
	return &MappingIter{v: v, n: len(v.node.Content) / 2}
}

// Next advances the iterator, returning false at exhaustion.
func (it *MappingIter) Next() bool {
	if it == nil || it.idx >= it.n {
		return false
	}
	return true
}

// Pair returns the current (key, value) pair and advances past it.
func (it *MappingIter) Pair() (string, *View) {
	keyNode := it.v.node.Content[it.idx*2]
	valNode := it.v.node.Content[it.idx*2+1]

	var key string
	if keyNode.Kind == yaml.ScalarNode {
		key = keyNode.Value
	} else {
		it.v.logger().Warn("nonScalarMappingKey", "path", it.v.path)
	}
	child := newChild(it.v.ctx, valNode, joinPath(it.v.path, "/"+key))
	it.idx++
	return key, child
}

// Close releases the iterator's internal state. Safe to call multiple
// times or not at all; running the iterator to exhaustion already
// cleans up automatically.
func (it *MappingIter) Close() {}

// Pairs returns a range-over-func form of MappingIter for callers that
// don't need early-Close semantics.
func (v *View) Pairs() iter.Seq2[string, *View] {
	return func(yield func(string, *View) bool) {
		it := v.Mapping()
		for it.Next() {
			k, val := it.Pair()
			if !yield(k, val) {
				return
			}
		}
	}
}

// SequenceIter yields values from a Sequence-kind View in order.
type SequenceIter struct {
	v   *View
	idx int
	n   int
}

// Sequence returns a SequenceIter over v, or nil if v is not a Sequence.
func (v *View) Sequence() *SequenceIter {
	if v.node == nil || v.node.Kind != yaml.SequenceNode {
		return nil
	}
	return &SequenceIter{v: v, n: len(v.node.Content)}
}

func (it *SequenceIter) Next() bool {
	return it != nil && it.idx < it.n
}

// Value returns the current element and advances past it.
func (it *SequenceIter) Value() *View {
	n := it.v.node.Content[it.idx]
	child := newChild(it.v.ctx, n, joinPath(it.v.path, "/"+strconv.Itoa(it.idx)))
	it.idx++
	return child
}

func (it *SequenceIter) Close() {}

// Values returns a range-over-func form of SequenceIter.
func (v *View) Values() iter.Seq[*View] {
	return func(yield func(*View) bool) {
		it := v.Sequence()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// ContainerItem is one element of a ContainerIter: either a mapping
// pair or a sequence element, discriminated by HasKey.
type ContainerItem struct {
	HasKey bool
	Key    string
	Index  int
	Value  *View
}

// ContainerIter yields a tagged union of mapping pairs or sequence
// elements, for callers that want to iterate without first checking
// which kind the container is.
type ContainerIter struct {
	mi *MappingIter
	si *SequenceIter
}

// Container returns a ContainerIter over v, or nil if v is neither a
// Mapping nor a Sequence.
func (v *View) Container() *ContainerIter {
	if mi := v.Mapping(); mi != nil {
		return &ContainerIter{mi: mi}
	}
	if si := v.Sequence(); si != nil {
		return &ContainerIter{si: si}
	}
	return nil
}

func (it *ContainerIter) Next() bool {
	if it.mi != nil {
		return it.mi.Next()
	}
	return it.si.Next()
}

func (it *ContainerIter) Item() ContainerItem {
	if it.mi != nil {
		k, v := it.mi.Pair()
		return ContainerItem{HasKey: true, Key: k, Value: v}
	}
	idx := it.si.idx
	v := it.si.Value()
	return ContainerItem{HasKey: false, Index: idx, Value: v}
}

func (it *ContainerIter) Close() {}

