// Package reader implements a UTF-8 code-point cursor over the
// expression text: peek/advance over a single in-memory buffer, with
// line/column tracking and a dedicated end-of-input sentinel.
package reader

import (
	"github.com/go-yamlpath/yamlpath/internal/pathh"
)

// EOF is returned by Peek/PeekAt once the cursor has run off the end of
// the buffer. It is distinct from any valid Unicode code point.
const EOF rune = -1

// Reader is a single-buffer code-point cursor with peek-at-offset and
// positional marks.
type Reader struct {
	runes []rune
	pos   int
	line  int
	col   int
}

// New decodes path into a Reader. The whole expression is assumed to
// fit in memory.
func New(path string) *Reader {
	return &Reader{
		runes: []rune(path),
		pos:   0,
		line:  1,
		col:   1,
	}
}

// Peek returns the current code point, or EOF.
func (r *Reader) Peek() rune {
	return r.PeekAt(0)
}

// PeekAt returns the nth following code point (PeekAt(0) == Peek()), or
// EOF if that offset is past the end of the buffer.
func (r *Reader) PeekAt(n int) rune {
	i := r.pos + n
	if i < 0 || i >= len(r.runes) {
		return EOF
	}
	return r.runes[i]
}

// Advance consumes n code points, updating line and column. Path
// expressions are typically single-line, but newlines are tracked for
// completeness.
func (r *Reader) Advance(n int) {
	for i := 0; i < n && r.pos < len(r.runes); i++ {
		if r.runes[r.pos] == '\n' {
			r.line++
			r.col = 1
		} else {
			r.col++
		}
		r.pos++
	}
}

// Mark captures the current source position.
func (r *Reader) Mark() pathh.Mark {
	return pathh.Mark{Index: r.pos, Line: r.line, Column: r.col}
}

// FillAtom returns the slice of the original text spanning [start, end),
// identified by rune index.
func (r *Reader) FillAtom(start, end pathh.Mark) string {
	s, e := start.Index, end.Index
	if s < 0 {
		s = 0
	}
	if e > len(r.runes) {
		e = len(r.runes)
	}
	if s >= e {
		return ""
	}
	return string(r.runes[s:e])
}

// AtEnd reports whether the cursor has reached end-of-input.
func (r *Reader) AtEnd() bool {
	return r.pos >= len(r.runes)
}
