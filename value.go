package parable

import (
	"fmt"
	"strings"
)

// value types

type Kind int

const (
	KindSymbol Kind = iota
	KindList
	KindInteger
	KindString
	KindBool
	KindError
	KindFunction
	KindMacro
)

func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindList:
		return "list"
	case KindInteger:
		return "int"
	case KindString:
		return "str"
	case KindBool:
		return "bool"
	case KindError:
		return "error"
	case KindFunction:
		return "function"
	case KindMacro:
		return "macro"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Span locates a value in its source. Rows and columns are zero-based and
// the end position is inclusive.
type Span struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
	Source   string
}

func (s *Span) String() string {
	if s == nil {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Source, s.StartRow+1, s.StartCol+1, s.EndRow+1, s.EndCol+1)
}

// Value is one of *Symbol, *List, *Integer, *String, *Bool, *Error,
// *Function or *Macro. The set is closed: only this package can add to it.
type Value interface {
	Kind() Kind
	Span() *Span
	String() string
	setSpan(span *Span)
}

type node struct {
	span *Span
}

func (n *node) Span() *Span {
	return n.span
}

func (n *node) setSpan(span *Span) {
	n.span = span
}

// Symbol

type Symbol struct {
	node
	Name string
}

func NewSymbol(name string) *Symbol {
	return &Symbol{Name: name}
}

func (sym *Symbol) Kind() Kind {
	return KindSymbol
}

func (sym *Symbol) IsKeyword() bool {
	return strings.HasPrefix(sym.Name, ":")
}

func (sym *Symbol) String() string {
	return sym.Name
}

// List

type List struct {
	node
	Items []Value
}

func NewList(items ...Value) *List {
	return &List{Items: items}
}

func (l *List) Kind() Kind {
	return KindList
}

func (l *List) Len() int {
	return len(l.Items)
}

func (l *List) Empty() bool {
	return len(l.Items) == 0
}

func (l *List) String() string {
	return Pprint(l)
}

// Integer

type Integer struct {
	node
	N int64
}

func NewInteger(n int64) *Integer {
	return &Integer{N: n}
}

func (i *Integer) Kind() Kind {
	return KindInteger
}

func (i *Integer) String() string {
	return Pprint(i)
}

// String

type String struct {
	node
	S string
}

func NewString(s string) *String {
	return &String{S: s}
}

func (s *String) Kind() Kind {
	return KindString
}

func (s *String) String() string {
	return Pprint(s)
}

// Bool

type Bool struct {
	node
	B bool
}

func NewBool(b bool) *Bool {
	return &Bool{B: b}
}

func (b *Bool) Kind() Kind {
	return KindBool
}

func (b *Bool) String() string {
	return Pprint(b)
}

// Error

// Error is a language-level failure. It is an ordinary value: it is returned,
// not raised, and every form decides whether to propagate it.
type Error struct {
	node
	Type  *Symbol
	Attrs *List
}

func (e *Error) Kind() Kind {
	return KindError
}

func (e *Error) String() string {
	return Pprint(e)
}

// Error makes *Error usable as a Go error by the shells around the
// evaluator.
func (e *Error) Error() string {
	if msg := ErrorMessage(e); msg != "" {
		return fmt.Sprintf("%s: %s", e.Type.Name, msg)
	}
	return e.Type.Name
}

func IsError(v Value) bool {
	_, ok := v.(*Error)
	return ok
}

// Function

type Function struct {
	node
	Params *List
	Body   Value
	Env    *Env
}

func (f *Function) Kind() Kind {
	return KindFunction
}

func (f *Function) String() string {
	return Pprint(f)
}

// Macro

type Macro struct {
	node
	Params *List
	Body   Value
	Env    *Env
}

func (m *Macro) Kind() Kind {
	return KindMacro
}

func (m *Macro) String() string {
	return Pprint(m)
}

// Equal reports whether a and b denote the same value. Lists compare
// element-wise, Errors by type alone, Functions and Macros by identity.
// Spans never take part.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case *Symbol:
		b, ok := b.(*Symbol)
		return ok && a.Name == b.Name
	case *List:
		b, ok := b.(*List)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case *Integer:
		b, ok := b.(*Integer)
		return ok && a.N == b.N
	case *String:
		b, ok := b.(*String)
		return ok && a.S == b.S
	case *Bool:
		b, ok := b.(*Bool)
		return ok && a.B == b.B
	case *Error:
		b, ok := b.(*Error)
		return ok && a.Type.Name == b.Type.Name
	case *Function:
		b, ok := b.(*Function)
		return ok && a == b
	case *Macro:
		b, ok := b.(*Macro)
		return ok && a == b
	default:
		panic(fmt.Sprintf("unknown value type %T", a))
	}
}

// spanBetween covers first through last, or returns fallback when either
// end is unknown.
func spanBetween(first, last, fallback *Span) *Span {
	if first == nil || last == nil {
		return fallback
	}
	return &Span{
		StartRow: first.StartRow,
		StartCol: first.StartCol,
		EndRow:   last.EndRow,
		EndCol:   last.EndCol,
		Source:   first.Source,
	}
}

// spanOf covers the given values, or is nil if any of the ends is unknown.
func spanOf(items []Value) *Span {
	if len(items) == 0 {
		return nil
	}
	return spanBetween(items[0].Span(), items[len(items)-1].Span(), nil)
}
