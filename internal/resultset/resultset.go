// Package resultset implements an ordered, duplicate-free collection of
// document node references with add/iterate/free.
package resultset

import "github.com/go-yamlpath/yamlpath/internal/docnode"

// List is an insertion-ordered, identity-deduplicated sequence of nodes.
// O(n) per Add is acceptable for typical path sizes.
type List struct {
	items []docnode.Node
}

// New returns an empty List.
func New() *List {
	return &List{}
}

// Add appends n if no node with the same identity is already present.
// Returns true if n was newly added.
func (l *List) Add(n docnode.Node) bool {
	if !n.Valid() {
		return false
	}
	id := n.Identity()
	for _, existing := range l.items {
		if existing.Identity() == id {
			return false
		}
	}
	l.items = append(l.items, n)
	return true
}

// AddAll appends every node of other in order, deduplicating against
// both the receiver's current contents and earlier nodes of other.
func (l *List) AddAll(other *List) {
	if other == nil {
		return
	}
	for _, n := range other.items {
		l.Add(n)
	}
}

// Len returns the number of nodes currently held.
func (l *List) Len() int { return len(l.items) }

// Nodes returns the nodes in insertion order. The caller must not
// mutate the returned slice.
func (l *List) Nodes() []docnode.Node { return l.items }

// Free drops the list's contents. Results are caller-owned; this
// exists for symmetry with an explicit free-as-a-unit lifecycle and to
// release the backing array promptly.
func (l *List) Free() {
	l.items = nil
}
