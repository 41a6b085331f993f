package parable

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LoadError rejects a top-level form. Warning is set for forms that are not
// definitions at all, as opposed to malformed definitions.
type LoadError struct {
	Msg     string
	Form    Value
	Warning bool
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", strings.TrimSuffix(e.Msg, "."), Pprint(e.Form))
}

// EvalFailure carries an Error value out of the loader.
type EvalFailure struct {
	Err  *Error
	Form Value
}

func (e *EvalFailure) Error() string {
	return fmt.Sprintf("evaluating %s: %v", Pprint(e.Form), e.Err)
}

func (e *EvalFailure) Unwrap() error {
	return e.Err
}

// Load reads (define name expr) forms from src and returns env extended with
// their values. Each form is macro-expanded first, so macros may produce
// definitions. On failure the environment built so far is returned with the
// error.
func Load(src io.Reader, source string, env *Env) (*Env, error) {
	rdr := NewReader(src, source)
	for {
		form, err := rdr.Read()
		if err == io.EOF {
			return env, nil
		}
		if err != nil {
			return env, errors.Wrapf(err, "loading %s", source)
		}
		expanded, _ := MacroExpand(form, env)
		def, ok := expanded.(*List)
		if !ok || len(def.Items) != 3 || !isSymbol(def.Items[0], "define") {
			return env, &LoadError{Msg: "Unrecognized top-level form.", Form: expanded, Warning: true}
		}
		name, ok := def.Items[1].(*Symbol)
		if !ok {
			return env, &LoadError{Msg: "Invalid top-level form.", Form: form}
		}
		value := Eval(def.Items[2], env)
		if e, ok := value.(*Error); ok {
			return env, &EvalFailure{Err: e, Form: def.Items[2]}
		}
		env = define(env, name.Name, value)
		log.WithFields(log.Fields{
			"name":   name.Name,
			"type":   value.Kind().String(),
			"source": source,
		}).Debug("Defined")
	}
}

func LoadString(text, source string, env *Env) (*Env, error) {
	return Load(strings.NewReader(text), source, env)
}

// define binds name in a new frame. A closure created directly in env is
// rebuilt over the new frame so that it can call itself by name.
func define(env *Env, name string, value Value) *Env {
	switch v := value.(type) {
	case *Function:
		if v.Env == env {
			return env.withRec(name, func(frame *Env) Value {
				return &Function{node: v.node, Params: v.Params, Body: v.Body, Env: frame}
			})
		}
	case *Macro:
		if v.Env == env {
			return env.withRec(name, func(frame *Env) Value {
				return &Macro{node: v.node, Params: v.Params, Body: v.Body, Env: frame}
			})
		}
	}
	return env.With(name, value)
}

func isSymbol(v Value, name string) bool {
	sym, ok := v.(*Symbol)
	return ok && sym.Name == name
}

// test runner

type TestStatus int

const (
	TestPassed TestStatus = iota
	TestFailed
	TestErrored
)

func (s TestStatus) String() string {
	switch s {
	case TestPassed:
		return "passed"
	case TestFailed:
		return "failed"
	default:
		return "error"
	}
}

type TestCase struct {
	Form   Value
	Result Value
	Status TestStatus
	Msg    string
}

type TestReport struct {
	Source  string
	Cases   []TestCase
	Passed  int
	Failed  int
	Errored int
}

func (r *TestReport) Total() int {
	return r.Passed + r.Failed + r.Errored
}

func (r *TestReport) add(c TestCase) {
	switch c.Status {
	case TestPassed:
		r.Passed++
	case TestFailed:
		r.Failed++
	default:
		r.Errored++
	}
	r.Cases = append(r.Cases, c)
}

// RunTests evaluates every top-level form of src as a test case: #t passes,
// #f fails, anything else is an error. A read failure aborts the run and is
// returned along with the cases run so far.
func RunTests(src io.Reader, source string, env *Env) (*TestReport, error) {
	report := &TestReport{Source: source}
	rdr := NewReader(src, source)
	log.WithFields(log.Fields{
		"source": source,
	}).Info("Running tests")
	for {
		form, err := rdr.Read()
		if err == io.EOF {
			return report, nil
		}
		if err != nil {
			return report, errors.Wrapf(err, "running tests in %s", source)
		}
		report.add(runTest(form, env))
	}
}

func runTest(form Value, env *Env) TestCase {
	result := Eval(form, env)
	c := TestCase{Form: form, Result: result}
	switch v := result.(type) {
	case *Bool:
		if v.B {
			c.Status = TestPassed
		} else {
			c.Status = TestFailed
		}
	case *Error:
		c.Status = TestErrored
		c.Msg = ErrorMessage(v)
	default:
		c.Status = TestErrored
		c.Msg = fmt.Sprintf("Test cases must return either #t or #f; got %s.", Pprint(result))
	}
	return c
}
