// Package docnode adapts a parsed gopkg.in/yaml.v3 document into a node
// surface the path engine can query (kind/parent/documentRoot/anchor/
// sequenceLen/sequenceItem/mappingValueBySimpleKey/mappingValueByKey/
// children). The YAML parser itself is treated as a black box; this
// package only adds the traversal primitives (parent pointers, anchor
// lookup) the path engine needs on top of it.
package docnode

import "gopkg.in/yaml.v3"

// Kind is the three shapes a YAML node can take.
type Kind int

const (
	Scalar Kind = iota
	Sequence
	Mapping
)

// Document owns a parsed tree and the side tables (parent pointers,
// anchor lookup) the path engine needs. Build it once per document and
// reuse it across many compiles/evaluations. The document must stay
// live and unmodified while results are in use.
type Document struct {
	root    *yaml.Node
	parents map[*yaml.Node]*yaml.Node
	anchors map[string]*yaml.Node
}

// NewDocument builds a Document from a parsed *yaml.Node. root may be a
// DocumentNode (as produced by yaml.Unmarshal into a *yaml.Node) or
// already the content node; either is accepted.
func NewDocument(root *yaml.Node) *Document {
	d := &Document{
		parents: make(map[*yaml.Node]*yaml.Node),
		anchors: make(map[string]*yaml.Node),
	}
	if root != nil && root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	d.root = resolveAlias(root)
	if d.root != nil {
		d.index(d.root)
	}
	return d
}

func (d *Document) index(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Anchor != "" {
		d.anchors[n.Anchor] = n
	}
	for _, c := range n.Content {
		real := resolveAlias(c)
		if real == nil {
			continue
		}
		if _, seen := d.parents[real]; seen {
			// Shared/aliased subtree already indexed from its defining
			// location; do not re-walk it (would loop on self-reference).
			continue
		}
		d.parents[real] = n
		d.index(real)
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	seen := map[*yaml.Node]bool{}
	for n != nil && n.Kind == yaml.AliasNode {
		if seen[n] {
			return nil
		}
		seen[n] = true
		n = n.Alias
	}
	return n
}

// Node is a document node reference, the unit results are made of.
type Node struct {
	doc *Document
	n   *yaml.Node
}

// Root returns the document's root node, or the zero Node if the
// document is empty.
func (d *Document) Root() Node {
	return Node{doc: d, n: d.root}
}

// Wrap adapts an arbitrary *yaml.Node belonging to this document (for
// example, one returned from a prior Eval call) into a Node, resolving
// through any alias. A nil n yields the zero (invalid) Node, the
// evaluator's "None" input.
func (d *Document) Wrap(n *yaml.Node) Node {
	return Node{doc: d, n: resolveAlias(n)}
}

// Raw exposes the underlying *yaml.Node, for callers (such as MapKey
// structural-equality comparisons) that need it directly.
func (n Node) Raw() *yaml.Node { return n.n }

// Valid reports whether n refers to an actual node.
func (n Node) Valid() bool { return n.n != nil }

// Identity returns a value usable for identity-based deduplication: a
// match set never contains the same node twice.
func (n Node) Identity() *yaml.Node { return n.n }

func (n Node) Kind() Kind {
	if n.n == nil {
		return Scalar
	}
	switch n.n.Kind {
	case yaml.SequenceNode:
		return Sequence
	case yaml.MappingNode:
		return Mapping
	default:
		return Scalar
	}
}

// Parent returns the node's parent, or the zero (invalid) Node if none.
func (n Node) Parent() Node {
	if n.n == nil {
		return Node{}
	}
	return Node{doc: n.doc, n: n.doc.parents[n.n]}
}

// DocumentRoot returns the owning document's root node.
func (n Node) DocumentRoot() Node {
	return n.doc.Root()
}

// Anchor looks up an anchor by name in the owning document. The second
// return is false if no such anchor exists; that is not an error, just
// no match.
func (n Node) Anchor(name string) (Node, bool) {
	target, ok := n.doc.anchors[name]
	if !ok {
		return Node{}, false
	}
	return Node{doc: n.doc, n: target}, true
}

func (n Node) SequenceLen() int {
	if n.n == nil || n.n.Kind != yaml.SequenceNode {
		return 0
	}
	return len(n.n.Content)
}

// SequenceItem returns the i'th item of a sequence node. The caller must
// check bounds first (or rely on the zero Node result for out-of-range).
func (n Node) SequenceItem(i int) Node {
	if n.n == nil || n.n.Kind != yaml.SequenceNode || i < 0 || i >= len(n.n.Content) {
		return Node{}
	}
	return Node{doc: n.doc, n: resolveAlias(n.n.Content[i])}
}

// MappingValueBySimpleKey looks up the value whose key is the plain
// scalar key.
func (n Node) MappingValueBySimpleKey(key string) (Node, bool) {
	if n.n == nil || n.n.Kind != yaml.MappingNode {
		return Node{}, false
	}
	for i := 0; i+1 < len(n.n.Content); i += 2 {
		k := n.n.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			return Node{doc: n.doc, n: resolveAlias(n.n.Content[i+1])}, true
		}
	}
	return Node{}, false
}

// MappingValueByKey looks up the value whose key structurally equals the
// parsed YAML fragment (quoted strings, flow mapping/sequence keys).
func (n Node) MappingValueByKey(fragment *yaml.Node) (Node, bool) {
	if n.n == nil || n.n.Kind != yaml.MappingNode || fragment == nil {
		return Node{}, false
	}
	for i := 0; i+1 < len(n.n.Content); i += 2 {
		if nodeEqual(n.n.Content[i], fragment) {
			return Node{doc: n.doc, n: resolveAlias(n.n.Content[i+1])}, true
		}
	}
	return Node{}, false
}

// Children returns, in document order, the immediate children of a
// sequence (its items) or mapping (its values, skipping keys). For a
// scalar it returns nil.
func (n Node) Children() []Node {
	if n.n == nil {
		return nil
	}
	switch n.n.Kind {
	case yaml.SequenceNode:
		out := make([]Node, 0, len(n.n.Content))
		for _, c := range n.n.Content {
			out = append(out, Node{doc: n.doc, n: resolveAlias(c)})
		}
		return out
	case yaml.MappingNode:
		out := make([]Node, 0, len(n.n.Content)/2)
		for i := 1; i < len(n.n.Content); i += 2 {
			out = append(out, Node{doc: n.doc, n: resolveAlias(n.n.Content[i])})
		}
		return out
	default:
		return nil
	}
}

func nodeEqual(a, b *yaml.Node) bool {
	a = resolveAlias(a)
	b = resolveAlias(b)
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case yaml.ScalarNode:
		return a.Tag == b.Tag && a.Value == b.Value
	case yaml.SequenceNode:
		if len(a.Content) != len(b.Content) {
			return false
		}
		for i := range a.Content {
			if !nodeEqual(a.Content[i], b.Content[i]) {
				return false
			}
		}
		return true
	case yaml.MappingNode:
		if len(a.Content) != len(b.Content) {
			return false
		}
		// Order-independent key match; mappings with the same key/value
		// pairs in different emission order are the same structural key.
		used := make([]bool, len(b.Content)/2)
		for i := 0; i+1 < len(a.Content); i += 2 {
			found := false
			for j := 0; j+1 < len(b.Content); j += 2 {
				if used[j/2] {
					continue
				}
				if nodeEqual(a.Content[i], b.Content[j]) && nodeEqual(a.Content[i+1], b.Content[j+1]) {
					used[j/2] = true
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return false
	}
}
