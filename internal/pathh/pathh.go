// Package pathh holds the low-level types shared by the tokenizer, parser
// and evaluator of a path expression: source positions, error kinds, token
// kinds and expression-tree node kinds.
package pathh

import "fmt"

// Mark is a position in the original path-expression text.
type Mark struct {
	Index  int // code-point (rune) offset
	Line   int
	Column int
}

// ErrorKind classifies why compiling or evaluating a path expression failed.
type ErrorKind int

const (
	// NoError is never attached to a returned *Error; it exists so the
	// zero value of ErrorKind is not mistaken for a real kind.
	NoError ErrorKind = iota

	// PathSyntax: the tokenizer or parser rejected the input.
	PathSyntax
	// PathUnsupported: syntactically fine, semantically disallowed
	// (sibling mark on a non-key operand, trailing operator, filter
	// with no operand, ...).
	PathUnsupported
	// Overflow: a numeric literal does not fit a 32-bit signed integer.
	Overflow
	// Truncated: end of input inside a container literal (flow key).
	Truncated
	// Internal: allocation failure or unreachable state. Always fatal.
	Internal
)

func (k ErrorKind) String() string {
	switch k {
	case PathSyntax:
		return "syntax"
	case PathUnsupported:
		return "unsupported"
	case Overflow:
		return "overflow"
	case Truncated:
		return "truncated"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the error type returned by the lexer, the parser and the
// evaluator. It carries the source span of the offending
// text alongside a kind and free-form message.
type Error struct {
	Kind    ErrorKind
	Problem string
	Start   Mark
	End     Mark
}

func (e *Error) Error() string {
	if e.Start == (Mark{}) && e.End == (Mark{}) {
		return fmt.Sprintf("yamlpath: %s: %s", e.Kind, e.Problem)
	}
	return fmt.Sprintf("yamlpath: %s: %s at %d:%d", e.Kind, e.Problem, e.Start.Line, e.Start.Column)
}

// NewError builds an *Error with a formatted message.
func NewError(kind ErrorKind, start, end Mark, problem string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Problem: fmt.Sprintf(problem, args...),
		Start:   start,
		End:     end,
	}
}

// TokenType enumerates the lexical tokens produced by the tokenizer.
type TokenType int

const (
	NoToken TokenType = iota
	StreamStart
	StreamEnd
	Slash
	Root
	This
	Parent
	EveryChild
	EveryChildR
	AliasTok
	ScalarFilter
	CollectionFilter
	SeqFilter
	MapFilter
	Sibling
	Comma
	MapKeySimple
	MapKeyFlow
	SeqIndexTok
	SeqSliceTok
)

func (t TokenType) String() string {
	switch t {
	case StreamStart:
		return "STREAM_START"
	case StreamEnd:
		return "STREAM_END"
	case Slash:
		return "SLASH"
	case Root:
		return "ROOT"
	case This:
		return "THIS"
	case Parent:
		return "PARENT"
	case EveryChild:
		return "EVERY_CHILD"
	case EveryChildR:
		return "EVERY_CHILD_R"
	case AliasTok:
		return "ALIAS"
	case ScalarFilter:
		return "SCALAR_FILTER"
	case CollectionFilter:
		return "COLLECTION_FILTER"
	case SeqFilter:
		return "SEQ_FILTER"
	case MapFilter:
		return "MAP_FILTER"
	case Sibling:
		return "SIBLING"
	case Comma:
		return "COMMA"
	case MapKeySimple:
		return "MAP_KEY"
	case MapKeyFlow:
		return "MAP_KEY_FLOW"
	case SeqIndexTok:
		return "SEQ_INDEX"
	case SeqSliceTok:
		return "SEQ_SLICE"
	default:
		return "NO_TOKEN"
	}
}

// ExprKind is the tagged union of expression-tree node kinds. The 17
// variants are closed; adding one is a breaking change.
type ExprKind int

const (
	KindRoot ExprKind = iota
	KindThis
	KindParent
	KindEveryChild
	KindEveryChildRecursive
	KindEveryLeaf
	KindAssertCollection
	KindAssertScalar
	KindAssertSequence
	KindAssertMapping
	KindSimpleMapKey
	KindMapKey
	KindAlias
	KindSeqIndex
	KindSeqSlice
	KindMulti
	KindChain
)

func (k ExprKind) String() string {
	names := [...]string{
		"Root", "This", "Parent", "EveryChild", "EveryChildRecursive",
		"EveryLeaf", "AssertCollection", "AssertScalar", "AssertSequence",
		"AssertMapping", "SimpleMapKey", "MapKey", "Alias", "SeqIndex",
		"SeqSlice", "Multi", "Chain",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// SliceEnd represents the end bound of a SeqSlice; IsInf means "to end".
type SliceEnd struct {
	Value int
	IsInf bool
}
