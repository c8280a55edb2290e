// Package lexer converts the reader's code-point stream into a sequence
// of typed path tokens with source spans.
//
// Tokens are produced one fetch at a time, one per call to Next, the
// classic scanner shape for a hand-written lexer with lookahead.
package lexer

import (
	"strings"
	"unicode"

	"github.com/go-yamlpath/yamlpath/internal/pathh"
	"github.com/go-yamlpath/yamlpath/internal/reader"
	"gopkg.in/yaml.v3"
)

// delimiters may never appear inside a simple (undelimited) map key.
const delimiters = ",[]{}#&*!|<>'\"%@`?:/$"

// Token is one lexical unit of a path expression. Not every field is
// populated for every Type; each is meaningful only for its matching
// Type, as noted alongside it.
type Token struct {
	Type  pathh.TokenType
	Start pathh.Mark
	End   pathh.Mark

	Key        string        // MapKeySimple
	Frag       *yaml.Node    // MapKeyFlow: the parsed value
	Int        int           // SeqIndexTok
	SliceStart int           // SeqSliceTok
	SliceEnd   pathh.SliceEnd
	Alias      string // AliasTok, without the leading '*'
}

// Lexer pulls tokens one at a time out of a reader.Reader.
type Lexer struct {
	r           *reader.Reader
	startEmitted bool
	endEmitted   bool
}

// New constructs a Lexer over path.
func New(path string) *Lexer {
	return &Lexer{r: reader.New(path)}
}

func isFirstAlpha(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isAlnum(c rune) bool {
	return isFirstAlpha(c) || unicode.IsDigit(c)
}

func isDelimiter(c rune) bool {
	return strings.ContainsRune(delimiters, c)
}

// Next returns the next token in the stream. Once STREAM_END has been
// produced, further calls keep returning STREAM_END (idempotent).
func (l *Lexer) Next() (*Token, error) {
	if !l.startEmitted {
		l.startEmitted = true
		m := l.r.Mark()
		return &Token{Type: pathh.StreamStart, Start: m, End: m}, nil
	}
	if l.endEmitted {
		m := l.r.Mark()
		return &Token{Type: pathh.StreamEnd, Start: m, End: m}, nil
	}
	if l.r.AtEnd() {
		l.endEmitted = true
		m := l.r.Mark()
		return &Token{Type: pathh.StreamEnd, Start: m, End: m}, nil
	}
	return l.fetchNextToken()
}

func (l *Lexer) fetchNextToken() (*Token, error) {
	start := l.r.Mark()
	c := l.r.Peek()

	switch {
	case c == '/':
		l.r.Advance(1)
		return l.finish(pathh.Slash, start)

	case c == '^':
		l.r.Advance(1)
		return l.finish(pathh.Root, start)

	case c == '.':
		if l.r.PeekAt(1) == '.' {
			l.r.Advance(2)
			return l.finish(pathh.Parent, start)
		}
		l.r.Advance(1)
		return l.finish(pathh.This, start)

	case c == '*':
		nxt := l.r.PeekAt(1)
		switch {
		case nxt == '*':
			l.r.Advance(2)
			return l.finish(pathh.EveryChildR, start)
		case isFirstAlpha(nxt):
			l.r.Advance(1)
			name := l.scanIdent()
			tok, err := l.finish(pathh.AliasTok, start)
			if err != nil {
				return nil, err
			}
			tok.Alias = name
			return tok, nil
		default:
			l.r.Advance(1)
			return l.finish(pathh.EveryChild, start)
		}

	case c == '$':
		l.r.Advance(1)
		return l.finish(pathh.ScalarFilter, start)

	case c == '%':
		l.r.Advance(1)
		return l.finish(pathh.CollectionFilter, start)

	case c == '[':
		if l.r.PeekAt(1) == ']' {
			l.r.Advance(2)
			return l.finish(pathh.SeqFilter, start)
		}
		return l.scanFlowKey(start)

	case c == '{':
		if l.r.PeekAt(1) == '}' {
			l.r.Advance(2)
			return l.finish(pathh.MapFilter, start)
		}
		return l.scanFlowKey(start)

	case c == '"' || c == '\'':
		return l.scanFlowKey(start)

	case c == ',':
		l.r.Advance(1)
		return l.finish(pathh.Comma, start)

	case c == ':':
		l.r.Advance(1)
		return l.finish(pathh.Sibling, start)

	case c == '-' || unicode.IsDigit(c):
		return l.scanNumber(start)

	case isFirstAlpha(c) && !isDelimiter(c):
		name := l.scanIdent()
		tok, err := l.finish(pathh.MapKeySimple, start)
		if err != nil {
			return nil, err
		}
		tok.Key = name
		return tok, nil

	default:
		l.r.Advance(1)
		return nil, pathh.NewError(pathh.PathSyntax, start, l.r.Mark(),
			"unexpected character %q", c)
	}
}

func (l *Lexer) finish(t pathh.TokenType, start pathh.Mark) (*Token, error) {
	return &Token{Type: t, Start: start, End: l.r.Mark()}, nil
}

// scanIdent consumes first-alpha alnum* starting at the current position
// (the caller has already verified/consumed any leading sigil such as
// '*') and returns the identifier text.
func (l *Lexer) scanIdent() string {
	var b strings.Builder
	for {
		c := l.r.Peek()
		if c == reader.EOF || !isAlnum(c) || isDelimiter(c) {
			break
		}
		b.WriteRune(c)
		l.r.Advance(1)
	}
	return b.String()
}

// scanNumber lexes SEQ_INDEX (optional '-' then digits) or SEQ_SLICE
// (digits ':' digits?).
func (l *Lexer) scanNumber(start pathh.Mark) (*Token, error) {
	neg := false
	if l.r.Peek() == '-' {
		neg = true
		l.r.Advance(1)
	}
	digits := l.scanDigits()
	if digits == "" {
		return nil, pathh.NewError(pathh.PathSyntax, start, l.r.Mark(), "expected digits")
	}
	if !neg && l.r.Peek() == ':' {
		l.r.Advance(1)
		endDigits := l.scanDigits()
		startVal, err := parseInt32(digits, false, start, l.r.Mark())
		if err != nil {
			return nil, err
		}
		var end pathh.SliceEnd
		if endDigits == "" {
			end = pathh.SliceEnd{IsInf: true}
		} else {
			v, err := parseInt32(endDigits, false, start, l.r.Mark())
			if err != nil {
				return nil, err
			}
			end = pathh.SliceEnd{Value: v}
		}
		tok, err := l.finish(pathh.SeqSliceTok, start)
		if err != nil {
			return nil, err
		}
		tok.SliceStart = startVal
		tok.SliceEnd = end
		return tok, nil
	}
	v, err := parseInt32(digits, neg, start, l.r.Mark())
	if err != nil {
		return nil, err
	}
	tok, err := l.finish(pathh.SeqIndexTok, start)
	if err != nil {
		return nil, err
	}
	tok.Int = v
	return tok, nil
}

func (l *Lexer) scanDigits() string {
	var b strings.Builder
	for unicode.IsDigit(l.r.Peek()) {
		b.WriteRune(l.r.Peek())
		l.r.Advance(1)
	}
	return b.String()
}

func parseInt32(digits string, neg bool, start, end pathh.Mark) (int, error) {
	const maxInt32 = 1<<31 - 1
	const minInt32 = -(1 << 31)
	var v int64
	for _, c := range digits {
		v = v*10 + int64(c-'0')
		if v > maxInt32+1 {
			return 0, pathh.NewError(pathh.Overflow, start, end, "numeric literal %q overflows int32", digits)
		}
	}
	if neg {
		v = -v
	}
	if v > maxInt32 || v < minInt32 {
		return 0, pathh.NewError(pathh.Overflow, start, end, "numeric literal %q overflows int32", digits)
	}
	return int(v), nil
}

// scanFlowKey consumes a complete YAML flow fragment starting at the
// current position: a quoted scalar ('"'/'\'') or a flow collection
// ('{...}' / '[...]'). It pre-scans the span with delimiter/quote/escape
// matching to find the closing delimiter, then hands the exact
// substring to the real YAML parser to produce the parsed fragment
// payload.
func (l *Lexer) scanFlowKey(start pathh.Mark) (*Token, error) {
	open := l.r.Peek()
	switch open {
	case '"', '\'':
		if err := l.scanQuoted(open); err != nil {
			return nil, err
		}
	case '{', '[':
		close := '}'
		if open == '[' {
			close = ']'
		}
		if err := l.scanBracketed(open, close); err != nil {
			return nil, err
		}
	default:
		return nil, pathh.NewError(pathh.PathSyntax, start, l.r.Mark(), "not a flow key")
	}
	end := l.r.Mark()
	text := l.r.FillAtom(start, end)

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, pathh.NewError(pathh.PathSyntax, start, end, "invalid flow key %q: %v", text, err)
	}
	if len(doc.Content) == 0 {
		return nil, pathh.NewError(pathh.PathSyntax, start, end, "empty flow key")
	}
	tok, err := l.finish(pathh.MapKeyFlow, start)
	if err != nil {
		return nil, err
	}
	tok.Frag = doc.Content[0]
	return tok, nil
}

func (l *Lexer) scanQuoted(quote rune) error {
	startMark := l.r.Mark()
	l.r.Advance(1) // opening quote
	for {
		c := l.r.Peek()
		if c == reader.EOF {
			return pathh.NewError(pathh.Truncated, startMark, l.r.Mark(), "unterminated quoted key")
		}
		if quote == '\'' && c == '\'' {
			// single-quoted YAML escapes a literal quote as ''
			if l.r.PeekAt(1) == '\'' {
				l.r.Advance(2)
				continue
			}
			l.r.Advance(1)
			return nil
		}
		if quote == '"' && c == '\\' {
			l.r.Advance(2)
			continue
		}
		if quote == '"' && c == '"' {
			l.r.Advance(1)
			return nil
		}
		l.r.Advance(1)
	}
}

func (l *Lexer) scanBracketed(open, close rune) error {
	startMark := l.r.Mark()
	depth := 0
	for {
		c := l.r.Peek()
		if c == reader.EOF {
			return pathh.NewError(pathh.Truncated, startMark, l.r.Mark(), "unterminated flow key")
		}
		switch c {
		case '"', '\'':
			if err := l.scanQuoted(c); err != nil {
				return err
			}
			continue
		case open:
			depth++
		case close:
			depth--
			l.r.Advance(1)
			if depth == 0 {
				return nil
			}
			continue
		}
		l.r.Advance(1)
	}
}
