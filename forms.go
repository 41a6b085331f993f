package parable

import (
	"fmt"
	"maps"
	"slices"
)

type specialForm func(form *List, env *Env) Value

var specialForms map[string]specialForm

func init() {
	specialForms = map[string]specialForm{
		"if":          evalIf,
		"quote":       evalQuote,
		"first":       evalFirst,
		"rest":        evalRest,
		"prep":        evalPrep,
		"eq":          evalEq,
		"typeof":      evalTypeof,
		"error":       evalError,
		"error-type":  evalErrorType,
		"error-attrs": evalErrorAttrs,
		"apply":       evalApply,
		"iadd":        intForm("iadd", 2, opAdd),
		"imul":        intForm("imul", 2, opMul),
		"idiv":        intForm("idiv", 2, opDiv),
		"imod":        intForm("imod", 2, opMod),
		"ineg":        intForm("ineg", 1, opNeg),
		"ilt":         intForm("ilt", 2, opLt),
	}
}

// SpecialForms lists the head symbols the evaluator handles itself.
func SpecialForms() []string {
	names := append([]string{"fn", "mac"}, slices.Collect(maps.Keys(specialForms))...)
	slices.Sort(names)
	return names
}

func checkArity(form *List, name string, n int) *Error {
	if given := len(form.Items) - 1; given != n {
		return CreateError(ArgError,
			attrMsg, fmt.Sprintf("`%s` form accepts exactly %d argument(s); %d given.", name, n, given),
			attrForm, form)
	}
	return nil
}

// evalOperands evaluates operands in order and stops at the first Error,
// which is returned as the second result.
func evalOperands(operands []Value, env *Env) ([]Value, Value) {
	values := make([]Value, len(operands))
	for i, operand := range operands {
		v := Eval(operand, env)
		if IsError(v) {
			return nil, v
		}
		values[i] = v
	}
	return values, nil
}

func evalIf(form *List, env *Env) Value {
	if err := checkArity(form, "if", 3); err != nil {
		return err
	}
	cond := Eval(form.Items[1], env)
	if IsError(cond) {
		return cond
	}
	b, ok := cond.(*Bool)
	if !ok {
		return CreateError(TypeError,
			attrMsg, fmt.Sprintf("`if` condition can only be a boolean; got a %s.", cond.Kind()),
			attrForm, form.Items[1])
	}
	if b.B {
		return Eval(form.Items[2], env)
	}
	return Eval(form.Items[3], env)
}

func evalQuote(form *List, env *Env) Value {
	if err := checkArity(form, "quote", 1); err != nil {
		return err
	}
	return form.Items[1]
}

func evalFirst(form *List, env *Env) Value {
	if err := checkArity(form, "first", 1); err != nil {
		return err
	}
	v := Eval(form.Items[1], env)
	if IsError(v) {
		return v
	}
	l, ok := v.(*List)
	if !ok {
		return CreateError(TypeError,
			attrMsg, "`first` argument must be a list.",
			attrForm, form.Items[1])
	}
	if l.Empty() {
		return CreateError(ValueError,
			attrMsg, "`first` argument cannot be an empty list.",
			attrForm, form.Items[1])
	}
	return l.Items[0]
}

func evalRest(form *List, env *Env) Value {
	if err := checkArity(form, "rest", 1); err != nil {
		return err
	}
	v := Eval(form.Items[1], env)
	if IsError(v) {
		return v
	}
	l, ok := v.(*List)
	if !ok {
		return CreateError(TypeError,
			attrMsg, "`rest` argument must be a list.",
			attrForm, form.Items[1])
	}
	if l.Empty() {
		return NewList()
	}
	return NewList(l.Items[1:]...)
}

func evalPrep(form *List, env *Env) Value {
	if err := checkArity(form, "prep", 2); err != nil {
		return err
	}
	args, failed := evalOperands(form.Items[1:], env)
	if failed != nil {
		return failed
	}
	l, ok := args[1].(*List)
	if !ok {
		return CreateError(TypeError,
			attrMsg, "`prep` second argument must be a list.",
			attrForm, form.Items[2])
	}
	items := make([]Value, 0, len(l.Items)+1)
	items = append(items, args[0])
	items = append(items, l.Items...)
	return NewList(items...)
}

// evalEq compares two values. Unlike every other form it does not propagate
// Errors: they compare by type like any other value. Non-empty lists are
// never eq.
func evalEq(form *List, env *Env) Value {
	if err := checkArity(form, "eq", 2); err != nil {
		return err
	}
	a := Eval(form.Items[1], env)
	b := Eval(form.Items[2], env)
	la, aIsList := a.(*List)
	lb, bIsList := b.(*List)
	switch {
	case !aIsList && !bIsList:
		return NewBool(Equal(a, b))
	case aIsList && bIsList:
		return NewBool(la.Empty() && lb.Empty())
	default:
		return NewBool(false)
	}
}

func evalTypeof(form *List, env *Env) Value {
	if err := checkArity(form, "typeof", 1); err != nil {
		return err
	}
	return NewSymbol(Eval(form.Items[1], env).Kind().String())
}

func evalError(form *List, env *Env) Value {
	if len(form.Items) < 2 {
		return CreateError(ArgError,
			attrMsg, "`error` form expects at least 1 argument; 0 given.",
			attrForm, form)
	}
	head := Eval(form.Items[1], env)
	if IsError(head) {
		return head
	}
	typ, ok := head.(*Symbol)
	if !ok {
		return CreateError(ErrorError,
			attrMsg, fmt.Sprintf("Invalid error type; expected a symbol, got a %s.", head.Kind()),
			attrForm, form.Items[1])
	}
	attrs, failed := evalOperands(form.Items[2:], env)
	if failed != nil {
		return failed
	}
	e := &Error{
		Type:  typ,
		Attrs: NewList(attrs...),
	}
	e.setSpan(form.Span())
	e.adoptFormSpan()
	return e
}

func evalErrorType(form *List, env *Env) Value {
	e, failure := evalErrorOperand(form, env, "error-type")
	if failure != nil {
		return failure
	}
	return e.Type
}

func evalErrorAttrs(form *List, env *Env) Value {
	e, failure := evalErrorOperand(form, env, "error-attrs")
	if failure != nil {
		return failure
	}
	return e.Attrs
}

// evalErrorOperand evaluates the operand of an introspection form. An Error
// here is the subject, not a failure to propagate.
func evalErrorOperand(form *List, env *Env, name string) (*Error, Value) {
	if err := checkArity(form, name, 1); err != nil {
		return nil, err
	}
	v := Eval(form.Items[1], env)
	e, ok := v.(*Error)
	if !ok {
		return nil, CreateError(TypeError,
			attrMsg, fmt.Sprintf("`%s` argument must be an error; got a %s.", name, v.Kind()),
			attrForm, form.Items[1])
	}
	return e, nil
}

func evalApply(form *List, env *Env) Value {
	if err := checkArity(form, "apply", 2); err != nil {
		return err
	}
	callee := Eval(form.Items[1], env)
	if IsError(callee) {
		return callee
	}
	f, ok := callee.(*Function)
	if !ok {
		return CreateError(TypeError,
			attrMsg, fmt.Sprintf("`apply` first argument must be a function; got a %s.", callee.Kind()),
			attrForm, form.Items[1])
	}
	args := Eval(form.Items[2], env)
	if IsError(args) {
		return args
	}
	l, ok := args.(*List)
	if !ok {
		return CreateError(TypeError,
			attrMsg, fmt.Sprintf("`apply` second argument must be a list; got a %s.", args.Kind()),
			attrForm, form.Items[2])
	}
	return f.Call(l)
}

// integer arithmetic

type intOp func(form *List, n []int64) Value

func intForm(name string, arity int, op intOp) specialForm {
	return func(form *List, env *Env) Value {
		if err := checkArity(form, name, arity); err != nil {
			return err
		}
		args, failed := evalOperands(form.Items[1:], env)
		if failed != nil {
			return failed
		}
		n := make([]int64, arity)
		for i, arg := range args {
			v, ok := arg.(*Integer)
			if !ok {
				return CreateError(TypeError,
					attrMsg, fmt.Sprintf("`%s` operands must be integers; got a %s.", name, arg.Kind()),
					attrForm, form.Items[i+1])
			}
			n[i] = v.N
		}
		return op(form, n)
	}
}

func opAdd(form *List, n []int64) Value {
	return NewInteger(n[0] + n[1])
}

func opMul(form *List, n []int64) Value {
	return NewInteger(n[0] * n[1])
}

func opDiv(form *List, n []int64) Value {
	if n[1] == 0 {
		return CreateError(ValueError,
			attrMsg, "Integer division by zero.",
			attrForm, form)
	}
	return NewInteger(n[0] / n[1])
}

func opMod(form *List, n []int64) Value {
	if n[1] == 0 {
		return CreateError(ValueError,
			attrMsg, "Integer modulo by zero.",
			attrForm, form)
	}
	return NewInteger(n[0] % n[1])
}

func opNeg(form *List, n []int64) Value {
	return NewInteger(-n[0])
}

func opLt(form *List, n []int64) Value {
	return NewBool(n[0] < n[1])
}
