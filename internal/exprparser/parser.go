// Package exprparser implements a two-stack shunting-yard driver that
// turns the tokenizer's stream into an exprtree.Expr.
//
// The driver alternates between pushing operands onto an operand stack
// and resolving pending operators by precedence, the standard two-stack
// shunting-yard shape generalized to this grammar's mix of prefix and
// infix operators.
package exprparser

import (
	"github.com/go-yamlpath/yamlpath/internal/exprtree"
	"github.com/go-yamlpath/yamlpath/internal/lexer"
	"github.com/go-yamlpath/yamlpath/internal/pathh"
)

// Parse compiles a path expression into an exprtree.Expr.
func Parse(path string) (*exprtree.Expr, error) {
	p := &parser{lex: lexer.New(path)}
	return p.run()
}

type parser struct {
	lex       *lexer.Lexer
	operators []*lexer.Token
	operands  []*exprtree.Expr
}

// precedence returns the binding power of an operator token; higher
// binds tighter. Only meaningful for operator tokens.
func precedence(t pathh.TokenType) int {
	switch t {
	case pathh.Slash:
		return 10
	case pathh.Comma:
		return 15
	case pathh.Sibling:
		return 20
	case pathh.ScalarFilter, pathh.CollectionFilter, pathh.SeqFilter, pathh.MapFilter:
		return 5
	default:
		return -1
	}
}

func isOperator(t pathh.TokenType) bool {
	switch t {
	case pathh.Slash, pathh.Comma, pathh.Sibling,
		pathh.ScalarFilter, pathh.CollectionFilter, pathh.SeqFilter, pathh.MapFilter:
		return true
	default:
		return false
	}
}

func isOperand(t pathh.TokenType) bool {
	switch t {
	case pathh.Root, pathh.This, pathh.Parent, pathh.MapKeySimple, pathh.MapKeyFlow,
		pathh.SeqIndexTok, pathh.SeqSliceTok, pathh.EveryChild, pathh.EveryChildR, pathh.AliasTok:
		return true
	default:
		return false
	}
}

func (p *parser) run() (*exprtree.Expr, error) {
	start, err := p.lex.Next()
	if err != nil {
		return nil, err
	}
	if start.Type != pathh.StreamStart {
		return nil, pathh.NewError(pathh.Internal, start.Start, start.End, "expected STREAM_START")
	}

	fetches := 0
	const maxStallFetches = 1 << 20 // defensive bound; a correct lexer always makes progress
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return nil, err
		}
		fetches++
		if fetches > maxStallFetches {
			return nil, pathh.NewError(pathh.Internal, tok.Start, tok.End, "out of tokens")
		}
		if tok.Type == pathh.StreamEnd {
			break
		}

		switch {
		case isOperand(tok.Type):
			leaf, err := operandExpr(tok)
			if err != nil {
				return nil, err
			}
			p.operands = append(p.operands, leaf)

		case isOperator(tok.Type):
			for len(p.operators) > 0 && precedence(p.operators[len(p.operators)-1].Type) >= precedence(tok.Type) {
				top := p.popOperator()
				if err := p.evaluate(top); err != nil {
					return nil, err
				}
			}
			p.operators = append(p.operators, tok)

		default:
			return nil, pathh.NewError(pathh.Internal, tok.Start, tok.End, "unclassified token %s", tok.Type)
		}
	}

	for len(p.operators) > 0 {
		top := p.popOperator()
		if err := p.evaluate(top); err != nil {
			return nil, err
		}
	}

	if len(p.operands) != 1 {
		var at pathh.Mark
		if len(p.operands) > 0 {
			at = p.operands[len(p.operands)-1].Start
		}
		return nil, pathh.NewError(pathh.PathSyntax, at, at,
			"expression did not reduce to a single operand (got %d)", len(p.operands))
	}
	return p.operands[0], nil
}

func (p *parser) popOperator() *lexer.Token {
	n := len(p.operators)
	t := p.operators[n-1]
	p.operators = p.operators[:n-1]
	return t
}

func (p *parser) popOperand() (*exprtree.Expr, bool) {
	n := len(p.operands)
	if n == 0 {
		return nil, false
	}
	e := p.operands[n-1]
	p.operands = p.operands[:n-1]
	return e, true
}

func (p *parser) pushOperand(e *exprtree.Expr) {
	p.operands = append(p.operands, e)
}

func operandExpr(tok *lexer.Token) (*exprtree.Expr, error) {
	switch tok.Type {
	case pathh.Root:
		return exprtree.NewRoot(tok.Start, tok.End), nil
	case pathh.This:
		return exprtree.NewThis(tok.Start, tok.End), nil
	case pathh.Parent:
		return exprtree.NewParent(tok.Start, tok.End), nil
	case pathh.EveryChild:
		return exprtree.NewEveryChild(tok.Start, tok.End), nil
	case pathh.EveryChildR:
		return exprtree.NewEveryChildRecursive(tok.Start, tok.End), nil
	case pathh.AliasTok:
		return exprtree.NewAlias(tok.Alias, tok.Start, tok.End), nil
	case pathh.MapKeySimple:
		return exprtree.NewSimpleMapKey(tok.Key, tok.Start, tok.End), nil
	case pathh.MapKeyFlow:
		return exprtree.NewMapKey(tok.Frag, tok.Start, tok.End), nil
	case pathh.SeqIndexTok:
		return exprtree.NewSeqIndex(tok.Int, tok.Start, tok.End), nil
	case pathh.SeqSliceTok:
		if tok.SliceStart < 0 {
			return nil, pathh.NewError(pathh.PathSyntax, tok.Start, tok.End, "slice start must be >= 0")
		}
		return exprtree.NewSeqSlice(tok.SliceStart, tok.SliceEnd, tok.Start, tok.End), nil
	default:
		return nil, pathh.NewError(pathh.Internal, tok.Start, tok.End, "not an operand token: %s", tok.Type)
	}
}

// evaluate performs the pop-and-evaluate step for one popped operator.
func (p *parser) evaluate(op *lexer.Token) error {
	switch op.Type {
	case pathh.Slash:
		return p.evalSlash(op)
	case pathh.Comma:
		return p.evalComma(op)
	case pathh.Sibling:
		return p.evalSibling(op)
	case pathh.ScalarFilter:
		return p.evalFilter(op, pathh.KindAssertScalar)
	case pathh.CollectionFilter:
		return p.evalFilter(op, pathh.KindAssertCollection)
	case pathh.SeqFilter:
		return p.evalFilter(op, pathh.KindAssertSequence)
	case pathh.MapFilter:
		return p.evalFilter(op, pathh.KindAssertMapping)
	default:
		return pathh.NewError(pathh.Internal, op.Start, op.End, "unhandled operator %s", op.Type)
	}
}

func (p *parser) evalSlash(op *lexer.Token) error {
	right, ok := p.popOperand()
	if !ok {
		// No right operand was pushed yet: slash at the beginning.
		p.pushOperand(exprtree.NewRoot(op.Start, op.End))
		return nil
	}
	left, ok := p.popOperand()
	if !ok {
		if op.Start.Index <= right.Start.Index {
			// Slash precedes the operand: "/foo" form.
			root := exprtree.NewRoot(op.Start, op.Start)
			p.pushOperand(exprtree.NewChain(root, right, op.Start, right.End))
		} else {
			// Slash follows the operand: trailing slash asserts collection.
			assert := exprtree.NewAssertCollection(op.Start, op.End)
			p.pushOperand(exprtree.NewChain(right, assert, right.Start, op.End))
		}
		return nil
	}
	p.pushOperand(exprtree.NewChain(left, right, left.Start, right.End))
	return nil
}

func (p *parser) evalComma(op *lexer.Token) error {
	right, ok := p.popOperand()
	if !ok {
		return pathh.NewError(pathh.PathUnsupported, op.Start, op.End, "comma operator missing right operand")
	}
	left, ok := p.popOperand()
	if !ok {
		return pathh.NewError(pathh.PathUnsupported, op.Start, op.End, "comma operator missing left operand")
	}
	p.pushOperand(exprtree.NewMulti(left, right, left.Start, right.End))
	return nil
}

func (p *parser) evalSibling(op *lexer.Token) error {
	operand, ok := p.popOperand()
	if !ok {
		return pathh.NewError(pathh.PathUnsupported, op.Start, op.End, "sibling operator missing operand")
	}
	if !operand.IsMapKey() {
		return pathh.NewError(pathh.PathUnsupported, op.Start, operand.End,
			"sibling operator applied to a non-map-key operand")
	}
	parent := exprtree.NewParent(op.Start, op.Start)
	p.pushOperand(exprtree.NewChain(parent, operand, op.Start, operand.End))
	return nil
}

func (p *parser) evalFilter(op *lexer.Token, assertKind pathh.ExprKind) error {
	operand, ok := p.popOperand()
	if !ok {
		return pathh.NewError(pathh.PathUnsupported, op.Start, op.End, "filter applied with no operand")
	}
	var assert *exprtree.Expr
	switch assertKind {
	case pathh.KindAssertScalar:
		assert = exprtree.NewAssertScalar(op.Start, op.End)
	case pathh.KindAssertCollection:
		assert = exprtree.NewAssertCollection(op.Start, op.End)
	case pathh.KindAssertSequence:
		assert = exprtree.NewAssertSequence(op.Start, op.End)
	case pathh.KindAssertMapping:
		assert = exprtree.NewAssertMapping(op.Start, op.End)
	}
	p.pushOperand(exprtree.AppendChain(operand, assert, op.End))
	return nil
}
