package parable

import (
	"fmt"
)

// error types produced by the evaluator
const (
	VariableError = ":variable-error"
	ArgError      = ":arg-error"
	TypeError     = ":type-error"
	ValueError    = ":value-error"
	IndexError    = ":index-error"
	ParamError    = ":param-error"
	FormError     = ":form-error"
	ErrorError    = ":error-error"
)

const (
	attrMsg  = ":msg"
	attrForm = ":form"
)

// CreateError builds an Error of type typ. attrs alternates attribute names
// (string or *Symbol) and values (Value, string or int). A malformed attrs
// list is a bug in the caller and panics.
//
// If a :form attribute is present, the Error takes over its span.
func CreateError(typ string, attrs ...any) *Error {
	if len(attrs)%2 != 0 {
		panic(fmt.Sprintf("CreateError(%s): odd number of attribute items", typ))
	}
	items := make([]Value, 0, len(attrs))
	for i := 0; i < len(attrs); i += 2 {
		var key *Symbol
		switch k := attrs[i].(type) {
		case string:
			key = NewSymbol(k)
		case *Symbol:
			key = k
		default:
			panic(fmt.Sprintf("CreateError(%s): invalid attribute name %#v", typ, attrs[i]))
		}
		var value Value
		switch v := attrs[i+1].(type) {
		case Value:
			value = v
		case string:
			value = NewString(v)
		case int:
			value = NewInteger(int64(v))
		default:
			panic(fmt.Sprintf("CreateError(%s): invalid value %#v for attribute %s", typ, attrs[i+1], key.Name))
		}
		items = append(items, key, value)
	}
	e := &Error{
		Type:  NewSymbol(typ),
		Attrs: NewList(items...),
	}
	e.adoptFormSpan()
	return e
}

func (e *Error) adoptFormSpan() {
	form, err := Assoc(e.Attrs, NewSymbol(attrForm))
	if err != nil {
		return
	}
	if span := form.Span(); span != nil {
		e.setSpan(span)
	}
}

// ErrorMessage returns the :msg attribute of e, or "" if there is none.
func ErrorMessage(e *Error) string {
	msg, err := Assoc(e.Attrs, NewSymbol(attrMsg))
	if err != nil {
		return ""
	}
	if s, ok := msg.(*String); ok {
		return s.S
	}
	return Pprint(msg)
}

// ErrorForm returns the :form attribute of e.
func ErrorForm(e *Error) (Value, bool) {
	form, err := Assoc(e.Attrs, NewSymbol(attrForm))
	return form, err == nil
}
