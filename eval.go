package parable

import (
	"fmt"
)

// Eval evaluates form in env. Language-level failures come back as *Error
// values; Eval never panics on user input.
func Eval(form Value, env *Env) Value {
	switch v := form.(type) {
	case *Integer, *String, *Bool, *Error, *Function, *Macro:
		return form
	case *Symbol:
		return evalSymbol(v, env)
	case *List:
		if v.Empty() {
			return NewList()
		}
		return evalList(v, env)
	default:
		panic(fmt.Sprintf("unknown value type %T", form))
	}
}

func evalSymbol(sym *Symbol, env *Env) Value {
	if sym.Name == "nil" {
		return NewList()
	}
	if sym.IsKeyword() {
		return sym
	}
	if v, ok := env.Lookup(sym.Name); ok {
		return v
	}
	return CreateError(VariableError,
		attrMsg, fmt.Sprintf("Undefined variable: %s", sym.Name),
		attrForm, sym)
}

func evalList(form *List, env *Env) Value {
	if head, ok := form.Items[0].(*Symbol); ok {
		switch head.Name {
		case "fn":
			return evalFn(form, env)
		case "mac":
			return evalMac(form, env)
		}
		if sf, ok := specialForms[head.Name]; ok {
			return sf(form, env)
		}
	}
	callee := Eval(form.Items[0], env)
	switch c := callee.(type) {
	case *Error:
		return c
	case *Integer:
		return evalIndex(c, form, env)
	case *Function:
		return c.Call(evalArgs(form, env))
	case *Macro:
		args := NewList(form.Items[1:]...)
		args.setSpan(form.Span())
		return Eval(c.Expand(args), env)
	default:
		return CreateError(ValueError,
			attrMsg, fmt.Sprintf("Not a function or a macro: %s", Pprint(callee)),
			attrForm, form.Items[0])
	}
}

// evalArgs evaluates the operands of a call left to right. Errors are
// passed on to the callee like any other value.
func evalArgs(form *List, env *Env) *List {
	operands := form.Items[1:]
	args := make([]Value, len(operands))
	for i, operand := range operands {
		args[i] = Eval(operand, env)
	}
	l := NewList(args...)
	if len(operands) > 0 {
		l.setSpan(spanBetween(operands[0].Span(), operands[len(operands)-1].Span(), form.Span()))
	} else {
		l.setSpan(form.Span())
	}
	return l
}

// evalIndex handles (n list): an Integer in call position indexes a list.
func evalIndex(n *Integer, form *List, env *Env) Value {
	if len(form.Items) != 2 {
		return CreateError(ArgError,
			attrMsg, fmt.Sprintf("List index expects exactly 1 argument; %d given.", len(form.Items)-1),
			attrForm, form)
	}
	target := Eval(form.Items[1], env)
	if IsError(target) {
		return target
	}
	l, ok := target.(*List)
	if !ok {
		return CreateError(TypeError,
			attrMsg, fmt.Sprintf("Only lists can be indexed; got a %s.", target.Kind()),
			attrForm, form.Items[1])
	}
	if n.N < 0 || n.N >= int64(len(l.Items)) {
		return CreateError(IndexError,
			attrMsg, fmt.Sprintf("Index %d out of range for a list of length %d.", n.N, len(l.Items)),
			attrForm, form)
	}
	return l.Items[n.N]
}

func evalFn(form *List, env *Env) Value {
	if len(form.Items) != 3 {
		return CreateError(FormError,
			attrMsg, "Invalid fn expression.",
			attrForm, form)
	}
	params, failure := checkParams(form.Items[1], false)
	if failure != nil {
		return CreateError(ParamError,
			attrMsg, failure.msg,
			attrForm, failure.form)
	}
	return &Function{
		Params: params,
		Body:   form.Items[2],
		Env:    env,
	}
}

func evalMac(form *List, env *Env) Value {
	if len(form.Items) != 3 {
		return CreateError(FormError,
			attrMsg, "Invalid mac expression.",
			attrForm, form)
	}
	params, failure := checkParams(form.Items[1], true)
	if failure != nil {
		return CreateError(ParamError,
			attrMsg, failure.msg,
			attrForm, failure.form)
	}
	return &Macro{
		Params: params,
		Body:   form.Items[2],
		Env:    env,
	}
}

// Call applies f to already evaluated arguments.
func (f *Function) Call(args *List) Value {
	params := f.Params.Items
	if hasRest(f.Params) {
		if len(args.Items) < len(params)-2 {
			return CreateError(ArgError,
				attrMsg, fmt.Sprintf("Expected at least %d argument(s) but got %d.", len(params)-2, len(args.Items)),
				attrForm, args)
		}
	} else if len(args.Items) != len(params) {
		return CreateError(ArgError,
			attrMsg, fmt.Sprintf("Expected %d argument(s) but got %d.", len(params), len(args.Items)),
			attrForm, args)
	}
	bindings, failure := destructure(f.Params, args)
	if failure != nil {
		return CreateError(ArgError,
			attrMsg, failure.msg,
			attrForm, failure.form)
	}
	return Eval(f.Body, f.Env.Extend(bindings))
}

// Expand binds the unevaluated argument forms and evaluates the macro body,
// yielding the replacement form.
func (m *Macro) Expand(args *List) Value {
	v, _ := m.expand(args)
	return v
}

func (m *Macro) expand(args *List) (Value, bool) {
	bindings, failure := destructure(m.Params, args)
	if failure != nil {
		return CreateError(ArgError,
			attrMsg, failure.msg,
			attrForm, failure.form), false
	}
	return Eval(m.Body, m.Env.Extend(bindings)), true
}
