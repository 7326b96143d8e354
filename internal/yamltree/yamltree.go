// Package yamltree implements the small external-YAML-library adapter
// described in spec §6 over go.yaml.in/yaml/v3's Node tree: parsing the
// captured tree bytes into a Document, and a restricted JSON-Pointer-like
// path lookup over it.
package yamltree

import (
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Document holds the decoded root of a single ASDF tree.
type Document struct {
	Root *yaml.Node // the document's content node (not the outer DocumentNode)
}

// Parse decodes raw (the bytes captured between TreeStart and TreeEnd)
// into a Document.
func Parse(raw []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	root := &doc
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		root = doc.Content[0]
	}
	return &Document{Root: root}, nil
}

// ByPath resolves the restricted JSON-Pointer-like path syntax of spec
// §6: "/" segment delimiter, numeric segments index sequences, other
// segments are mapping keys, and the empty path refers to root.
func ByPath(root *yaml.Node, path string) (*yaml.Node, bool) {
	if path == "" || path == "/" {
		return root, root != nil
	}
	segs := strings.Split(strings.TrimPrefix(path, "/"), "/")
	cur := root
	for _, seg := range segs {
		if cur == nil {
			return nil, false
		}
		cur = resolveNodeAliases(cur)
		switch cur.Kind {
		case yaml.MappingNode:
			found := false
			for i := 0; i+1 < len(cur.Content); i += 2 {
				if cur.Content[i].Value == seg {
					cur = cur.Content[i+1]
					found = true
					break
				}
			}
			if !found {
				return nil, false
			}
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.Content) {
				return nil, false
			}
			cur = cur.Content[idx]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

func resolveNodeAliases(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
