// Package yamlpath is the surface API of the path-expression engine:
// compile a path expression into a reusable, immutable Expr, then
// evaluate it against a YAML document node to get the ordered,
// duplicate-free set of matches.
//
// The tokenizer, parser and evaluator live in internal packages; this
// package is the only one external callers need.
package yamlpath

import (
	"github.com/go-yamlpath/yamlpath/internal/diag"
	"github.com/go-yamlpath/yamlpath/internal/docnode"
	"github.com/go-yamlpath/yamlpath/internal/eval"
	"github.com/go-yamlpath/yamlpath/internal/exprparser"
	"github.com/go-yamlpath/yamlpath/internal/exprtree"
	"github.com/go-yamlpath/yamlpath/internal/pathh"
	"github.com/go-yamlpath/yamlpath/internal/resultset"
	"gopkg.in/yaml.v3"
)

// Expr is a compiled path expression: an immutable-after-build expression
// tree. It is safe to share read-only across goroutines for
// concurrent evaluations.
type Expr = exprtree.Expr

// Error is returned by Compile and Eval. Its Kind distinguishes the
// error categories a failed compile or evaluation can fall into.
type Error = pathh.Error

// ErrorKind classifies a compile/eval failure.
type ErrorKind = pathh.ErrorKind

const (
	ErrSyntax      = pathh.PathSyntax
	ErrUnsupported = pathh.PathUnsupported
	ErrOverflow    = pathh.Overflow
	ErrTruncated   = pathh.Truncated
	ErrInternal    = pathh.Internal
)

// CompileOption configures Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	diag diag.Sink
}

// WithDiagnostics attaches a diagnostics sink that receives an
// error-severity message when compiling fails. It never affects the
// compiled Expr.
func WithDiagnostics(sink diag.Sink) CompileOption {
	return func(c *compileConfig) { c.diag = sink }
}

// Compile parses a path expression into a reusable Expr.
//
// path is tokenized and parsed with a two-stack shunting-yard driver.
// A *Error is returned on any lexical or syntactic problem; compile
// never returns a partially valid Expr.
func Compile(path string, opts ...CompileOption) (*Expr, error) {
	cfg := compileConfig{diag: diag.NoOp()}
	for _, o := range opts {
		o(&cfg)
	}
	expr, err := exprparser.Parse(path)
	if err != nil {
		if perr, ok := err.(*pathh.Error); ok {
			cfg.diag.Emit(diag.Message{
				Severity: diag.Error,
				Text:     perr.Problem,
				Span:     &perr.Start,
			})
		}
		return nil, err
	}
	return expr, nil
}

// FreeExpr exists for API parity with callers that track an explicit
// free-as-a-unit Expr lifecycle. Go's garbage collector reclaims the
// tree once it is unreferenced; this is a no-op kept so that call
// sequence compiles unchanged.
func FreeExpr(*Expr) {}

// Document wraps a parsed YAML document with the traversal side-tables
// (parent pointers, anchor lookup) the evaluator needs on top of the
// external YAML parser. Build one per document and reuse it across every
// Compile/Eval pair against that document.
type Document struct {
	inner *docnode.Document
}

// NewDocument builds a Document from a parsed node. root may be the
// *yaml.Node produced by unmarshalling into a *yaml.Node (a
// DocumentNode) or an already-unwrapped content node.
func NewDocument(root *yaml.Node) *Document {
	return &Document{inner: docnode.NewDocument(root)}
}

// Root returns the document's root *yaml.Node.
func (d *Document) Root() *yaml.Node {
	return d.inner.Root().Raw()
}

// EvalOption configures Eval.
type EvalOption func(*evalConfig)

type evalConfig struct {
	maxDepth int
}

// WithMaxDepth bounds EveryChildRecursive/EveryLeaf traversal depth, a
// defensive guard against pathological self-referential documents. 0
// (the default) means unbounded.
func WithMaxDepth(n int) EvalOption {
	return func(c *evalConfig) { c.maxDepth = n }
}

// Eval walks expr starting at start (a node belonging to doc) and
// returns the ordered, duplicate-free match set. start may
// be doc.Root() or any node reachable from it, letting callers
// re-evaluate sub-expressions against an intermediate match — the same
// shape the evaluator itself uses internally for Chain stages.
func Eval(expr *Expr, doc *Document, start *yaml.Node, opts ...EvalOption) (*Results, error) {
	cfg := evalConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	ev := &eval.Evaluator{MaxDepth: cfg.maxDepth}
	startNode := doc.inner.Wrap(start)
	list, err := ev.Eval(expr, startNode)
	if err != nil {
		return nil, err
	}
	return &Results{list: list}, nil
}

// Find is the one-shot convenience form: compile path and evaluate it
// against root in a single call, building a throwaway Document.
func Find(path string, root *yaml.Node) ([]*yaml.Node, error) {
	expr, err := Compile(path)
	if err != nil {
		return nil, err
	}
	doc := NewDocument(root)
	results, err := Eval(expr, doc, doc.Root())
	if err != nil {
		return nil, err
	}
	return results.Nodes(), nil
}

// Results is the ordered, duplicate-free match set an Eval produces.
// Results are caller-owned and not thread-safe.
type Results struct {
	list *resultset.List
}

// Len returns the number of matched nodes.
func (r *Results) Len() int { return r.list.Len() }

// Nodes returns the matched *yaml.Node values in match order.
func (r *Results) Nodes() []*yaml.Node {
	ns := r.list.Nodes()
	out := make([]*yaml.Node, len(ns))
	for i, n := range ns {
		out[i] = n.Raw()
	}
	return out
}

// FreeResults releases the result list's backing storage. Like FreeExpr, this
// exists for API parity with an explicit lifecycle; Go's garbage
// collector would reclaim it regardless.
func FreeResults(r *Results) {
	r.list.Free()
}
