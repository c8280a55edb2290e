// Package eval walks an exprtree.Expr against a starting docnode.Node
// and accumulates an ordered, deduplicated result list.
package eval

import (
	"github.com/go-yamlpath/yamlpath/internal/docnode"
	"github.com/go-yamlpath/yamlpath/internal/exprtree"
	"github.com/go-yamlpath/yamlpath/internal/pathh"
	"github.com/go-yamlpath/yamlpath/internal/resultset"
)

// Evaluator walks expression trees against document nodes.
//
// MaxDepth bounds EveryChildRecursive/EveryLeaf traversal depth; 0
// means unbounded. It exists purely as a defensive guard against
// pathological self-referential documents, not as a semantic feature.
type Evaluator struct {
	MaxDepth int
}

// New returns an Evaluator with no recursion limit.
func New() *Evaluator {
	return &Evaluator{}
}

// Eval walks expr against node and returns the ordered, deduplicated
// match set. Given an invalid (None) node, it yields the
// empty set. It returns an error only when the defensive recursion
// guard trips or expr has an unknown kind; missing keys, out-of-range
// indices and kind mismatches are not errors.
func (e *Evaluator) Eval(expr *exprtree.Expr, node docnode.Node) (*resultset.List, error) {
	return e.eval(expr, node, 0)
}

func (e *Evaluator) eval(expr *exprtree.Expr, node docnode.Node, depth int) (*resultset.List, error) {
	out := resultset.New()

	switch expr.Kind {
	case pathh.KindRoot:
		if node.Valid() {
			out.Add(node.DocumentRoot())
		}

	case pathh.KindThis:
		if node.Valid() {
			out.Add(node)
		}

	case pathh.KindParent:
		if node.Valid() {
			if p := node.Parent(); p.Valid() {
				out.Add(p)
			}
		}

	case pathh.KindAlias:
		if node.Valid() {
			if target, ok := node.Anchor(expr.Alias); ok {
				out.Add(target)
			}
		}

	case pathh.KindSimpleMapKey:
		if node.Valid() && node.Kind() == docnode.Mapping {
			if v, ok := node.MappingValueBySimpleKey(expr.Name); ok {
				out.Add(v)
			}
		}

	case pathh.KindMapKey:
		if node.Valid() && node.Kind() == docnode.Mapping {
			if v, ok := node.MappingValueByKey(expr.Fragment); ok {
				out.Add(v)
			}
		}

	case pathh.KindSeqIndex:
		if node.Valid() && node.Kind() == docnode.Sequence && expr.Index >= 0 && expr.Index < node.SequenceLen() {
			out.Add(node.SequenceItem(expr.Index))
		}
		// Negative indices never match: the tokenizer accepts a leading
		// '-' but the evaluator does no wrap-around. Deliberate.

	case pathh.KindAssertScalar:
		if node.Valid() && node.Kind() == docnode.Scalar {
			out.Add(node)
		}

	case pathh.KindAssertCollection:
		if node.Valid() && node.Kind() != docnode.Scalar {
			out.Add(node)
		}

	case pathh.KindAssertSequence:
		if node.Valid() && node.Kind() == docnode.Sequence {
			out.Add(node)
		}

	case pathh.KindAssertMapping:
		if node.Valid() && node.Kind() == docnode.Mapping {
			out.Add(node)
		}

	case pathh.KindEveryChild:
		if node.Valid() {
			switch node.Kind() {
			case docnode.Scalar:
				out.Add(node)
			default:
				for _, c := range node.Children() {
					out.Add(c)
				}
			}
		}

	case pathh.KindEveryChildRecursive:
		if node.Valid() {
			if err := e.recurse(node, depth, out, false); err != nil {
				return nil, err
			}
		}

	case pathh.KindEveryLeaf:
		if node.Valid() {
			if err := e.recurse(node, depth, out, true); err != nil {
				return nil, err
			}
		}

	case pathh.KindSeqSlice:
		if node.Valid() && node.Kind() == docnode.Sequence {
			l := node.SequenceLen()
			s := expr.SliceFrom
			end := l
			if !expr.SliceTo.IsInf && expr.SliceTo.Value < l {
				end = expr.SliceTo.Value
			}
			if s < end && s < l {
				for i := s; i < end; i++ {
					out.Add(node.SequenceItem(i))
				}
			}
		}

	case pathh.KindChain:
		cur := []docnode.Node{}
		if node.Valid() {
			cur = []docnode.Node{node}
		}
		for _, stage := range expr.Children {
			next := resultset.New()
			for _, n := range cur {
				sub, err := e.eval(stage, n, depth+1)
				if err != nil {
					return nil, err
				}
				next.AddAll(sub)
			}
			cur = next.Nodes()
		}
		for _, n := range cur {
			out.Add(n)
		}

	case pathh.KindMulti:
		for _, branch := range expr.Children {
			sub, err := e.eval(branch, node, depth+1)
			if err != nil {
				return nil, err
			}
			out.AddAll(sub)
		}

	default:
		return nil, pathh.NewError(pathh.Internal, expr.Start, expr.End, "unhandled expression kind %s", expr.Kind)
	}

	return out, nil
}

// recurse implements the shared pre-order walk behind EveryChildRecursive
// (leavesOnly=false) and EveryLeaf (leavesOnly=true): emit the node
// first, then recurse through sequence items / mapping values.
func (e *Evaluator) recurse(node docnode.Node, depth int, out *resultset.List, leavesOnly bool) error {
	if e.MaxDepth > 0 && depth > e.MaxDepth {
		return pathh.NewError(pathh.Internal, pathh.Mark{}, pathh.Mark{}, "maximum recursion depth exceeded")
	}
	if !leavesOnly || node.Kind() == docnode.Scalar {
		out.Add(node)
	}
	for _, c := range node.Children() {
		if err := e.recurse(c, depth+1, out, leavesOnly); err != nil {
			return err
		}
	}
	return nil
}
