package parable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalString(t *testing.T, text string, env *Env) Value {
	t.Helper()
	return Eval(readOne(t, text), env)
}

func assertErrorType(t *testing.T, v Value, typ string) *Error {
	t.Helper()
	e, ok := v.(*Error)
	require.True(t, ok, "expected an error, got %s", Pprint(v))
	assert.Equal(t, typ, e.Type.Name, Pprint(v))
	return e
}

func assertEval(t *testing.T, expected, text string, env *Env) {
	t.Helper()
	v := evalString(t, text, env)
	require.False(t, IsError(v), "%s: %s", text, Pprint(v))
	assert.Equal(t, expected, Pprint(v), text)
}

func TestEvalLiterals(t *testing.T) {

	assertEval(t, "42", "42", nil)
	assertEval(t, `"str"`, `"str"`, nil)
	assertEval(t, "#t", "#t", nil)
	assertEval(t, "nil", "nil", nil)
	assertEval(t, "nil", "()", nil)
	assertEval(t, ":keyword", ":keyword", nil)

	e := CreateError(":custom")
	assert.Same(t, e, Eval(e, nil))
}

func TestEvalSymbol(t *testing.T) {

	env := NewEnv(map[string]Value{"x": NewInteger(5)})
	assertEval(t, "5", "x", env)

	e := assertErrorType(t, evalString(t, "y", env), VariableError)
	assert.Equal(t, "Undefined variable: y", ErrorMessage(e))
	form, ok := ErrorForm(e)
	require.True(t, ok)
	assert.Equal(t, "y", form.(*Symbol).Name)
	assertSpan(t, e.Span(), 0, 0, 0, 0)
}

func TestEvalIf(t *testing.T) {

	assertEval(t, "1", "(if #t 1 2)", nil)
	assertEval(t, "2", "(if #f 1 2)", nil)

	// only the chosen branch is evaluated
	assertEval(t, "1", "(if #t 1 undefined)", nil)

	assertErrorType(t, evalString(t, "(if 0 1 2)", nil), TypeError)
	assertErrorType(t, evalString(t, "(if #t 1)", nil), ArgError)
	assertErrorType(t, evalString(t, "(if (error :boom) 1 2)", nil), ":boom")
}

func TestEvalQuote(t *testing.T) {

	assertEval(t, "(a b (c))", "(quote (a b (c)))", nil)
	assertEval(t, "undefined", "'undefined", nil)
	assertErrorType(t, evalString(t, "(quote a b)", nil), ArgError)
}

func TestEvalListForms(t *testing.T) {

	assertEval(t, "1", "(first '(1 2 3))", nil)
	assertEval(t, "(2 3)", "(rest '(1 2 3))", nil)
	assertEval(t, "nil", "(rest '(1))", nil)
	assertEval(t, "nil", "(rest nil)", nil)
	assertEval(t, "(0 1 2)", "(prep 0 '(1 2))", nil)
	assertEval(t, "(0)", "(prep 0 nil)", nil)

	assertErrorType(t, evalString(t, "(first nil)", nil), ValueError)
	assertErrorType(t, evalString(t, "(first 1)", nil), TypeError)
	assertErrorType(t, evalString(t, "(rest 1)", nil), TypeError)
	assertErrorType(t, evalString(t, "(prep 0 1)", nil), TypeError)
	assertErrorType(t, evalString(t, "(prep 0)", nil), ArgError)
}

func TestEvalEq(t *testing.T) {

	assertEval(t, "#t", "(eq 1 1)", nil)
	assertEval(t, "#f", "(eq 1 2)", nil)
	assertEval(t, "#t", "(eq 'a 'a)", nil)
	assertEval(t, "#t", `(eq "s" "s")`, nil)
	assertEval(t, "#f", `(eq "1" 1)`, nil)
	assertEval(t, "#t", "(eq nil nil)", nil)
	assertEval(t, "#f", "(eq '(1) '(1))", nil)
	assertEval(t, "#f", "(eq nil '(1))", nil)
	assertEval(t, "#f", "(eq 1 nil)", nil)

	// errors are compared by type and never propagated
	assertEval(t, "#t", "(eq (error :foo :a 1) (error :foo :b 2))", nil)
	assertEval(t, "#f", "(eq (error :foo) (error :bar))", nil)
	assertEval(t, "#f", "(eq undefined 1)", nil)
}

func TestEvalTypeof(t *testing.T) {

	tests := map[string]string{
		"(typeof 1)":             "int",
		`(typeof "s")`:           "str",
		"(typeof #f)":            "bool",
		"(typeof 'a)":            "symbol",
		"(typeof nil)":           "list",
		"(typeof '(1 2))":        "list",
		"(typeof (fn (x) x))":    "function",
		"(typeof (mac (x) x))":   "macro",
		"(typeof (error :x))":    "error",
		"(typeof undefined)":     "error",
		"(typeof (typeof :kwd))": "symbol",
		"(typeof (iadd 1 2))":    "int",
		"(typeof (ilt 1 2))":     "bool",
	}
	for text, expected := range tests {
		assertEval(t, expected, text, nil)
	}
}

func TestEvalError(t *testing.T) {

	e := assertErrorType(t, evalString(t, `(error :my-error :msg "oops" :code 7)`, nil), ":my-error")
	assert.Equal(t, "oops", ErrorMessage(e))
	assert.Equal(t, `(:msg "oops" :code 7)`, Pprint(e.Attrs))
	assertSpan(t, e.Span(), 0, 0, 0, 36)

	// an explicit :form attribute moves the span
	e = assertErrorType(t, evalString(t, "(error :bad :form '(x y))", nil), ":bad")
	assertSpan(t, e.Span(), 0, 19, 0, 23)

	assertErrorType(t, evalString(t, "(error)", nil), ArgError)
	assertErrorType(t, evalString(t, "(error 1)", nil), ErrorError)
	assertErrorType(t, evalString(t, `(error "type")`, nil), ErrorError)
	assertErrorType(t, evalString(t, "(error :outer (error :inner))", nil), ":inner")
}

func TestEvalErrorIntrospection(t *testing.T) {

	assertEval(t, ":x", "(error-type (error :x :a 1))", nil)
	assertEval(t, "(:a 1)", "(error-attrs (error :x :a 1))", nil)
	assertEval(t, "nil", "(error-attrs (error :x))", nil)
	assertEval(t, ":variable-error", "(error-type undefined)", nil)

	assertErrorType(t, evalString(t, "(error-type 1)", nil), TypeError)
	assertErrorType(t, evalString(t, "(error-attrs '(1))", nil), TypeError)
	assertErrorType(t, evalString(t, "(error-type)", nil), ArgError)
}

func TestEvalArithmetic(t *testing.T) {

	assertEval(t, "5", "(iadd 2 3)", nil)
	assertEval(t, "-6", "(imul 2 -3)", nil)
	assertEval(t, "3", "(idiv 7 2)", nil)
	assertEval(t, "-3", "(idiv -7 2)", nil)
	assertEval(t, "1", "(imod 7 2)", nil)
	assertEval(t, "-4", "(ineg 4)", nil)
	assertEval(t, "#t", "(ilt 1 2)", nil)
	assertEval(t, "#f", "(ilt 2 2)", nil)
	assertEval(t, "10", "(iadd (imul 2 3) (idiv 8 2))", nil)

	assertErrorType(t, evalString(t, "(idiv 1 0)", nil), ValueError)
	assertErrorType(t, evalString(t, "(imod 1 0)", nil), ValueError)
	assertErrorType(t, evalString(t, `(iadd 1 "2")`, nil), TypeError)
	assertErrorType(t, evalString(t, "(ineg 1 2)", nil), ArgError)
	assertErrorType(t, evalString(t, "(iadd 1)", nil), ArgError)
}

func TestEvalPropagation(t *testing.T) {

	forms := []string{
		"(if (error :x) 1 2)",
		"(first (error :x))",
		"(rest (error :x))",
		"(prep (error :x) nil)",
		"(prep 1 (error :x))",
		"(iadd (error :x) 1)",
		"(iadd 1 (error :x))",
		"(imul (error :x) (error :y))",
		"(ineg (error :x))",
		"(ilt (error :x) \"not an int\")",
		"(apply (error :x) nil)",
		"(apply (fn (a) a) (error :x))",
		"((error :x) 1)",
		"(0 (error :x))",
		"(error (error :x))",
	}
	for _, text := range forms {
		assertErrorType(t, evalString(t, text, nil), ":x")
	}

	// operands after the first failure are never evaluated
	assertErrorType(t, evalString(t, "(iadd (error :x) (error :y))", nil), ":x")
	assertErrorType(t, evalString(t, "(iadd \"a\" (error :y))", nil), ":y")

	// the leading operand of apply and error is checked before the rest runs
	assertErrorType(t, evalString(t, "(apply 1 (error :x))", nil), TypeError)
	assertErrorType(t, evalString(t, "(error 1 (error :x))", nil), ErrorError)
	assertErrorType(t, evalString(t, "(error :outer (error :x) (error :y))", nil), ":x")
}

func TestEvalFunction(t *testing.T) {

	assertEval(t, "3", "((fn (x y) (iadd x y)) 1 2)", nil)
	assertEval(t, "7", "((fn () 7))", nil)
	assertEval(t, "(fn (x) x)", "(fn (x) x)", nil)

	// errors are passed to functions as values
	assertEval(t, "error", "((fn (x) (typeof x)) (error :x))", nil)

	assertErrorType(t, evalString(t, "(fn (x))", nil), FormError)
	assertErrorType(t, evalString(t, "(fn x x)", nil), ParamError)
	assertErrorType(t, evalString(t, "(fn (x x) x)", nil), ParamError)
	assertErrorType(t, evalString(t, "(fn ((x)) x)", nil), ParamError)
	assertErrorType(t, evalString(t, "(fn (1) x)", nil), ParamError)
	assertErrorType(t, evalString(t, "(fn (& x y) x)", nil), ParamError)
	assertErrorType(t, evalString(t, "(mac (a & (b)) a)", nil), ParamError)
	assertErrorType(t, evalString(t, "(1 2 3)", nil), ArgError)
	assertErrorType(t, evalString(t, `("f" 1)`, nil), ValueError)
}

func TestEvalArity(t *testing.T) {

	assertErrorType(t, evalString(t, "((fn (x y) x) 1)", nil), ArgError)
	assertErrorType(t, evalString(t, "((fn (x y) x) 1 2 3)", nil), ArgError)
	assertErrorType(t, evalString(t, "((fn (x & y) x) )", nil), ArgError)

	assertEval(t, "nil", "((fn (x & y) y) 1)", nil)
	assertEval(t, "1", "((fn (x & y) x) 1)", nil)
	assertEval(t, "(2 3)", "((fn (x & y) y) 1 2 3)", nil)
	assertEval(t, "(1 2)", "((fn (& xs) xs) 1 2)", nil)

	e := assertErrorType(t, evalString(t, "((fn (x y) x) 1)", nil), ArgError)
	assert.Equal(t, "Expected 2 argument(s) but got 1.", ErrorMessage(e))
	assertSpan(t, e.Span(), 0, 14, 0, 14)
}

func TestEvalLexicalClosure(t *testing.T) {

	closure := evalString(t, "((fn (x) (fn () x)) 10)", nil)
	require.IsType(t, &Function{}, closure)

	env := NewEnv(map[string]Value{
		"x": NewInteger(20),
		"f": closure,
	})
	assertEval(t, "10", "(f)", env)
	assertEval(t, "20", "x", env)
}

func TestEvalApply(t *testing.T) {

	assertEval(t, "3", "(apply (fn (a b) (iadd a b)) '(1 2))", nil)
	assertEval(t, "nil", "(apply (fn (& r) r) nil)", nil)

	assertErrorType(t, evalString(t, "(apply 1 '(1))", nil), TypeError)
	assertErrorType(t, evalString(t, "(apply (fn (a) a) 1)", nil), TypeError)
	assertErrorType(t, evalString(t, "(apply (fn (a) a) '(1 2))", nil), ArgError)
	assertErrorType(t, evalString(t, "(apply (mac (a) a) '(1))", nil), TypeError)
}

func TestEvalListIndex(t *testing.T) {

	assertEval(t, "20", "(1 '(10 20 30))", nil)
	assertEval(t, "10", "(0 '(10 20 30))", nil)

	env := NewEnv(map[string]Value{"i": NewInteger(2)})
	assertEval(t, "30", "(i '(10 20 30))", env)

	assertErrorType(t, evalString(t, "(3 '(10 20 30))", nil), IndexError)
	assertErrorType(t, evalString(t, "(-1 '(10 20 30))", nil), IndexError)
	assertErrorType(t, evalString(t, "(0 nil)", nil), IndexError)
	assertErrorType(t, evalString(t, "(0 5)", nil), TypeError)
	assertErrorType(t, evalString(t, "(0)", nil), ArgError)
	assertErrorType(t, evalString(t, "(0 '(1) '(2))", nil), ArgError)
}

func TestEvalMacroCall(t *testing.T) {

	env := NewEnv(map[string]Value{
		"swap": evalString(t, "(mac (a b) (prep b (prep a nil)))", nil),
		"x":    NewInteger(1),
	})

	// the expansion (ineg x) is evaluated in the caller's env
	assertEval(t, "-1", "(swap x ineg)", env)

	assertErrorType(t, evalString(t, "(swap x)", env), ArgError)
}

func TestEvalArgsSpan(t *testing.T) {

	env := NewEnv(map[string]Value{
		"g": evalString(t, "(fn (a) a)", nil),
	})

	// arity errors point at the argument list
	e := assertErrorType(t, evalString(t, "(g 1 22)", env), ArgError)
	assertSpan(t, e.Span(), 0, 3, 0, 6)

	// without arguments the call form stands in
	e = assertErrorType(t, evalString(t, "(g)", env), ArgError)
	assertSpan(t, e.Span(), 0, 0, 0, 2)
}
