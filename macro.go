package parable

// MacroExpand1 expands form once if it is a call to a macro. It reports
// false, returning form unchanged, when the head is not a macro or cannot be
// evaluated. If the arguments do not fit the macro's parameters the result
// is the resulting :arg-error and false.
func MacroExpand1(form Value, env *Env) (Value, bool) {
	l, ok := form.(*List)
	if !ok || l.Empty() {
		return form, false
	}
	m, ok := Eval(l.Items[0], env).(*Macro)
	if !ok {
		return form, false
	}
	args := NewList(l.Items[1:]...)
	args.setSpan(l.Span())
	return m.expand(args)
}

// MacroExpand expands the outermost form until it is no longer a macro
// call. Sub-forms are left alone. The flag tells whether anything expanded.
func MacroExpand(form Value, env *Env) (Value, bool) {
	expanded := false
	for {
		next, ok := MacroExpand1(form, env)
		if !ok {
			return next, expanded
		}
		form = next
		expanded = true
	}
}
