// Package exprtree defines the expression tree built by the parser and
// walked by the evaluator.
package exprtree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-yamlpath/yamlpath/internal/pathh"
	"gopkg.in/yaml.v3"
)

// Expr is a node in the immutable-after-build expression tree.
//
// Invariants:
//   - Multi and Chain have >= 1 child; all other kinds have none.
//   - Chain never contains Chain as a direct child (flattened at build).
//   - Multi never contains Multi as a direct child (flattened at build).
//   - Span endpoints are monotonically ordered within a parent.
type Expr struct {
	Kind     pathh.ExprKind
	Start    pathh.Mark
	End      pathh.Mark
	Children []*Expr

	// Payload, meaningful only for the corresponding Kind.
	Name      string        // SimpleMapKey
	Fragment  *yaml.Node    // MapKey: owned by this Expr
	Alias     string        // Alias
	Index     int           // SeqIndex
	SliceFrom int           // SeqSlice
	SliceTo   pathh.SliceEnd // SeqSlice
}

func leaf(kind pathh.ExprKind, start, end pathh.Mark) *Expr {
	return &Expr{Kind: kind, Start: start, End: end}
}

// NewRoot, NewThis, ... construct operand leaves, named one-to-one
// after the ExprKind variants.
func NewRoot(start, end pathh.Mark) *Expr   { return leaf(pathh.KindRoot, start, end) }
func NewThis(start, end pathh.Mark) *Expr   { return leaf(pathh.KindThis, start, end) }
func NewParent(start, end pathh.Mark) *Expr { return leaf(pathh.KindParent, start, end) }
func NewEveryChild(start, end pathh.Mark) *Expr {
	return leaf(pathh.KindEveryChild, start, end)
}
func NewEveryChildRecursive(start, end pathh.Mark) *Expr {
	return leaf(pathh.KindEveryChildRecursive, start, end)
}
func NewEveryLeaf(start, end pathh.Mark) *Expr {
	return leaf(pathh.KindEveryLeaf, start, end)
}
func NewAssertCollection(start, end pathh.Mark) *Expr {
	return leaf(pathh.KindAssertCollection, start, end)
}
func NewAssertScalar(start, end pathh.Mark) *Expr {
	return leaf(pathh.KindAssertScalar, start, end)
}
func NewAssertSequence(start, end pathh.Mark) *Expr {
	return leaf(pathh.KindAssertSequence, start, end)
}
func NewAssertMapping(start, end pathh.Mark) *Expr {
	return leaf(pathh.KindAssertMapping, start, end)
}

func NewSimpleMapKey(name string, start, end pathh.Mark) *Expr {
	e := leaf(pathh.KindSimpleMapKey, start, end)
	e.Name = name
	return e
}

func NewMapKey(fragment *yaml.Node, start, end pathh.Mark) *Expr {
	e := leaf(pathh.KindMapKey, start, end)
	e.Fragment = fragment
	return e
}

func NewAlias(name string, start, end pathh.Mark) *Expr {
	e := leaf(pathh.KindAlias, start, end)
	e.Alias = name
	return e
}

func NewSeqIndex(i int, start, end pathh.Mark) *Expr {
	e := leaf(pathh.KindSeqIndex, start, end)
	e.Index = i
	return e
}

func NewSeqSlice(from int, to pathh.SliceEnd, start, end pathh.Mark) *Expr {
	e := leaf(pathh.KindSeqSlice, start, end)
	e.SliceFrom = from
	e.SliceTo = to
	return e
}

// IsMapKey reports whether e is a (simple or flow) map-key operand, the
// only operand the SIBLING prefix operator may wrap.
func (e *Expr) IsMapKey() bool {
	return e.Kind == pathh.KindSimpleMapKey || e.Kind == pathh.KindMapKey
}

// NewChain builds a Chain[left, right], splicing either operand's own
// children in if it is already a Chain.
func NewChain(left, right *Expr, start, end pathh.Mark) *Expr {
	var children []*Expr
	if left.Kind == pathh.KindChain {
		children = append(children, left.Children...)
	} else {
		children = append(children, left)
	}
	if right.Kind == pathh.KindChain {
		children = append(children, right.Children...)
	} else {
		children = append(children, right)
	}
	return &Expr{Kind: pathh.KindChain, Start: start, End: end, Children: children}
}

// AppendChain appends a single (non-Chain) expr to an existing Chain,
// returning a Chain whose children include it. Used by the *_FILTER
// suffix-operator rule.
func AppendChain(chain *Expr, next *Expr, end pathh.Mark) *Expr {
	if chain.Kind == pathh.KindChain {
		chain.Children = append(chain.Children, next)
		chain.End = end
		return chain
	}
	return &Expr{
		Kind:     pathh.KindChain,
		Start:    chain.Start,
		End:      end,
		Children: []*Expr{chain, next},
	}
}

// NewMulti builds a Multi[left, right], splicing either operand's own
// children in if it is already a Multi.
func NewMulti(left, right *Expr, start, end pathh.Mark) *Expr {
	var children []*Expr
	if left.Kind == pathh.KindMulti {
		children = append(children, left.Children...)
	} else {
		children = append(children, left)
	}
	if right.Kind == pathh.KindMulti {
		children = append(children, right.Children...)
	} else {
		children = append(children, right)
	}
	return &Expr{Kind: pathh.KindMulti, Start: start, End: end, Children: children}
}

// String renders e back out to a path-expression string close to its
// source span. Printed by cmd/ypath check and used by tests; it does not
// change evaluation semantics.
func (e *Expr) String() string {
	var b strings.Builder
	e.render(&b)
	return b.String()
}

func (e *Expr) render(b *strings.Builder) {
	switch e.Kind {
	case pathh.KindRoot:
		b.WriteByte('^')
	case pathh.KindThis:
		b.WriteByte('.')
	case pathh.KindParent:
		b.WriteString("..")
	case pathh.KindEveryChild:
		b.WriteByte('*')
	case pathh.KindEveryChildRecursive:
		b.WriteString("**")
	case pathh.KindEveryLeaf:
		b.WriteString("**$")
	case pathh.KindAssertCollection:
		b.WriteByte('%')
	case pathh.KindAssertScalar:
		b.WriteByte('$')
	case pathh.KindAssertSequence:
		b.WriteString("[]")
	case pathh.KindAssertMapping:
		b.WriteString("{}")
	case pathh.KindSimpleMapKey:
		b.WriteString(e.Name)
	case pathh.KindMapKey:
		out, _ := yaml.Marshal(e.Fragment)
		b.WriteString(strings.TrimSpace(string(out)))
	case pathh.KindAlias:
		b.WriteByte('*')
		b.WriteString(e.Alias)
	case pathh.KindSeqIndex:
		b.WriteString(strconv.Itoa(e.Index))
	case pathh.KindSeqSlice:
		b.WriteString(strconv.Itoa(e.SliceFrom))
		b.WriteByte(':')
		if !e.SliceTo.IsInf {
			b.WriteString(strconv.Itoa(e.SliceTo.Value))
		}
	case pathh.KindChain:
		for i, c := range e.Children {
			if i > 0 {
				b.WriteByte('/')
			}
			c.render(b)
		}
	case pathh.KindMulti:
		for i, c := range e.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			c.render(b)
		}
	default:
		fmt.Fprintf(b, "<%s>", e.Kind)
	}
}
