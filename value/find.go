package value

import (
	"github.com/bmatcuk/doublestar/v4"
)

// Strategy selects breadth-first or depth-first descendant traversal for
// Find.
type Strategy int

const (
	DepthFirst Strategy = iota
	BreadthFirst
)

// Descend restricts which container kinds Find recurses into.
type Descend int

const (
	DescendAll Descend = iota
	DescendMappings
	DescendSequences
)

// FindItem carries one match from Find: its path and the matching View.
type FindItem struct {
	Path  string
	Value *View
}

type findFrame struct {
	v     *View
	depth int
}

// Find walks the tree rooted at v, applying pred to every descendant
// (v itself included) and returning all matches, per spec §4.4 "Tree
// traversal". maxDepth < 0 means unlimited.
func (v *View) Find(pred func(*View) bool, strategy Strategy, descend Descend, maxDepth int) []FindItem {
	var out []FindItem
	if v == nil || v.node == nil {
		return out
	}

	queue := []findFrame{{v, 0}}
	for len(queue) > 0 {
		var cur findFrame
		if strategy == BreadthFirst {
			cur, queue = queue[0], queue[1:]
		} else {
			cur, queue = queue[len(queue)-1], queue[:len(queue)-1]
		}

		if pred(cur.v) {
			out = append(out, FindItem{Path: cur.v.path, Value: cur.v})
		}

		if maxDepth >= 0 && cur.depth >= maxDepth {
			continue
		}

		canDescend := false
		switch cur.v.StructuralKind() {
		case KindMapping:
			canDescend = descend == DescendAll || descend == DescendMappings
		case KindSequence:
			canDescend = descend == DescendAll || descend == DescendSequences
		}
		if !canDescend {
			continue
		}

		var children []findFrame
		if it := cur.v.Container(); it != nil {
			for it.Next() {
				item := it.Item()
				children = append(children, findFrame{item.Value, cur.depth + 1})
			}
		}

		if strategy == DepthFirst {
			// Push in reverse so the first child is popped (and thus
			// visited) first, preserving document order.
			for i := len(children) - 1; i >= 0; i-- {
				queue = append(queue, children[i])
			}
		} else {
			queue = append(queue, children...)
		}
	}
	return out
}

// FindPaths is a convenience wrapper over Find using a doublestar glob
// pattern (e.g. "core/**/extension_metadata") against each descendant's
// path instead of a predicate function. This is a supplemental
// convenience beyond the raw predicate-based API spec §4.4 describes.
func (v *View) FindPaths(pattern string) []FindItem {
	return v.Find(func(c *View) bool {
		ok, _ := doublestar.Match(pattern, normalizeGlobPath(c.Path()))
		return ok
	}, BreadthFirst, DescendAll, -1)
}

// normalizeGlobPath strips the leading "/" from a View path so doublestar
// patterns like "core/**/name" (no leading slash) match naturally.
func normalizeGlobPath(p string) string {
	if len(p) > 0 && p[0] == '/' {
		return p[1:]
	}
	return p
}
