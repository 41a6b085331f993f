package parable

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

var (
	ErrUnexpectedEOF = errors.New("unexpected end of file")
	ErrMalformed     = errors.New("malformed input")
)

// ReadError is a fatal reader failure: the input is truncated or cannot be
// read as a form at all.
type ReadError struct {
	Msg    string
	Row    int
	Col    int
	Source string
	err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Row+1, e.Col+1, e.Msg)
}

func (e *ReadError) Unwrap() error {
	return e.err
}

// Span returns the position the reader failed at.
func (e *ReadError) Span() *Span {
	return &Span{
		StartRow: e.Row,
		StartCol: e.Col,
		EndRow:   e.Row,
		EndCol:   e.Col,
		Source:   e.Source,
	}
}

var shorthands = map[rune]string{
	'\'': "quote",
	'`':  "backquote",
	',':  "unquote",
}

// Reader turns buffered source text into forms. It is a cursor over the
// lines of the input; Read returns io.EOF once all forms are consumed.
type Reader struct {
	source  string
	lines   [][]rune
	row     int
	col     int
	lastRow int
	lastCol int
	err     error
}

func NewReader(src io.Reader, source string) *Reader {
	r := &Reader{source: source}
	br := bufio.NewReader(src)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			r.lines = append(r.lines, []rune(line))
		}
		if err != nil {
			if err != io.EOF {
				r.err = errors.Wrapf(err, "reading %s", source)
			}
			break
		}
	}
	return r
}

func NewStringReader(text, source string) *Reader {
	return NewReader(strings.NewReader(text), source)
}

// ReadString reads the first form of text.
func ReadString(text, source string) (Value, error) {
	return NewStringReader(text, source).Read()
}

func (r *Reader) Source() string {
	return r.source
}

func (r *Reader) Read() (Value, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.skipWhitespace()
	if _, ok := r.peek(); !ok {
		return nil, io.EOF
	}
	v, err := r.readForm()
	if err != nil {
		r.err = err
		return nil, err
	}
	return v, nil
}

func (r *Reader) peek() (rune, bool) {
	for r.row < len(r.lines) {
		if r.col < len(r.lines[r.row]) {
			return r.lines[r.row][r.col], true
		}
		r.row++
		r.col = 0
	}
	return 0, false
}

func (r *Reader) next() (rune, bool) {
	c, ok := r.peek()
	if !ok {
		return 0, false
	}
	r.lastRow, r.lastCol = r.row, r.col
	r.col++
	return c, true
}

func (r *Reader) pos() (int, int) {
	r.peek()
	return r.row, r.col
}

func (r *Reader) spanFrom(row, col int) *Span {
	return &Span{
		StartRow: row,
		StartCol: col,
		EndRow:   r.lastRow,
		EndCol:   r.lastCol,
		Source:   r.source,
	}
}

func (r *Reader) fail(err error, msg string) error {
	row, col := r.pos()
	if row >= len(r.lines) {
		row, col = r.lastRow, r.lastCol
	}
	return &ReadError{Msg: msg, Row: row, Col: col, Source: r.source, err: err}
}

func (r *Reader) skipWhitespace() {
	for {
		c, ok := r.peek()
		if !ok {
			return
		}
		switch {
		case c == ';':
			for {
				c, ok := r.next()
				if !ok || c == '\n' {
					break
				}
			}
		case unicode.IsSpace(c):
			r.next()
		default:
			return
		}
	}
}

func (r *Reader) readForm() (Value, error) {
	c, ok := r.peek()
	if !ok {
		return nil, r.fail(ErrUnexpectedEOF, "unexpected end of file")
	}
	switch c {
	case '(':
		return r.readList()
	case ')':
		return nil, r.fail(ErrMalformed, "unexpected ')'")
	case '"':
		return r.readString()
	case '\'', '`', ',':
		return r.readShorthand(shorthands[c])
	default:
		return r.readAtom()
	}
}

func (r *Reader) readList() (Value, error) {
	row, col := r.pos()
	if c, _ := r.next(); c != '(' {
		return nil, r.fail(ErrMalformed, "expected '('")
	}
	var items []Value
	for {
		r.skipWhitespace()
		c, ok := r.peek()
		if !ok {
			return nil, r.fail(ErrUnexpectedEOF, "unexpected end of file")
		}
		if c == ')' {
			r.next()
			l := NewList(items...)
			l.setSpan(r.spanFrom(row, col))
			return l, nil
		}
		v, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

// readShorthand reads 'x, `x, ,x and ,@x as two-element lists.
func (r *Reader) readShorthand(name string) (Value, error) {
	row, col := r.pos()
	r.next()
	if name == "unquote" {
		if c, ok := r.peek(); ok && c == '@' {
			r.next()
			name = "unquote-splicing"
		}
	}
	marker := NewSymbol(name)
	marker.setSpan(r.spanFrom(row, col))
	r.skipWhitespace()
	form, err := r.readForm()
	if err != nil {
		return nil, err
	}
	l := NewList(marker, form)
	l.setSpan(r.spanFrom(row, col))
	return l, nil
}

func (r *Reader) readString() (Value, error) {
	row, col := r.pos()
	r.next()
	var sb strings.Builder
	for {
		c, ok := r.next()
		if !ok {
			return nil, r.fail(ErrUnexpectedEOF, "unexpected end of file in string literal")
		}
		switch c {
		case '"':
			s := NewString(sb.String())
			s.setSpan(r.spanFrom(row, col))
			return s, nil
		case '\\':
			c, ok = r.next()
			if !ok {
				return nil, r.fail(ErrUnexpectedEOF, "unexpected end of file in string literal")
			}
			sb.WriteRune(c)
		default:
			sb.WriteRune(c)
		}
	}
}

func isAtomChar(c rune) bool {
	switch c {
	case '(', ')', '\'', ';':
		return false
	}
	return !unicode.IsSpace(c)
}

func (r *Reader) readAtom() (Value, error) {
	row, col := r.pos()
	var sb strings.Builder
	for {
		c, ok := r.peek()
		if !ok || !isAtomChar(c) {
			break
		}
		r.next()
		sb.WriteRune(c)
	}
	text := sb.String()
	span := r.spanFrom(row, col)
	var v Value
	// literals outside int64 read as symbols
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		v = NewInteger(n)
	} else {
		switch text {
		case "#t":
			v = NewBool(true)
		case "#f":
			v = NewBool(false)
		default:
			v = NewSymbol(text)
		}
	}
	v.setSpan(span)
	return v, nil
}
