package parable

import (
	"fmt"
	"strconv"
	"strings"
)

var sigils = map[string]string{
	"quote":            "'",
	"backquote":        "`",
	"unquote":          ",",
	"unquote-splicing": ",@",
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Pprint renders v in the concrete syntax the reader accepts.
func Pprint(v Value) string {
	var sb strings.Builder
	writeValue(&sb, v)
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value) {
	switch v := v.(type) {
	case *Symbol:
		sb.WriteString(v.Name)
	case *Integer:
		sb.WriteString(strconv.FormatInt(v.N, 10))
	case *String:
		sb.WriteByte('"')
		stringEscaper.WriteString(sb, v.S)
		sb.WriteByte('"')
	case *Bool:
		if v.B {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case *List:
		writeList(sb, v)
	case *Function:
		writeCallable(sb, "fn", v.Params, v.Body)
	case *Macro:
		writeCallable(sb, "mac", v.Params, v.Body)
	case *Error:
		sb.WriteString("(error ")
		sb.WriteString(v.Type.Name)
		for _, attr := range v.Attrs.Items {
			sb.WriteByte(' ')
			writeValue(sb, attr)
		}
		sb.WriteByte(')')
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

func writeList(sb *strings.Builder, l *List) {
	if l.Empty() {
		sb.WriteString("nil")
		return
	}
	if len(l.Items) == 2 {
		if head, ok := l.Items[0].(*Symbol); ok {
			if sigil, ok := sigils[head.Name]; ok {
				sb.WriteString(sigil)
				writeValue(sb, l.Items[1])
				return
			}
		}
	}
	writeItems(sb, l.Items)
}

func writeItems(sb *strings.Builder, items []Value) {
	sb.WriteByte('(')
	for i, item := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeValue(sb, item)
	}
	sb.WriteByte(')')
}

func writeCallable(sb *strings.Builder, head string, params *List, body Value) {
	sb.WriteByte('(')
	sb.WriteString(head)
	sb.WriteByte(' ')
	writeItems(sb, params.Items)
	sb.WriteByte(' ')
	writeValue(sb, body)
	sb.WriteByte(')')
}
