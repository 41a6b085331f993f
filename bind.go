package parable

import (
	"fmt"
)

const restMarker = "&"

// paramShapeError reports a malformed fn or mac parameter list. It never
// leaves the package: construction turns it into a :param-error value.
type paramShapeError struct {
	msg  string
	form Value
}

func (e *paramShapeError) Error() string {
	return e.msg
}

// argShapeError reports arguments that do not fit a parameter pattern.
// Macro expansion turns it into an :arg-error value.
type argShapeError struct {
	msg  string
	form Value
}

func (e *argShapeError) Error() string {
	return e.msg
}

func hasRest(pattern *List) bool {
	n := len(pattern.Items)
	if n < 2 {
		return false
	}
	sym, ok := pattern.Items[n-2].(*Symbol)
	return ok && sym.Name == restMarker
}

// checkParams validates a parameter pattern. Function patterns are flat
// lists of symbols; macro patterns may nest.
func checkParams(params Value, nested bool) (*List, *paramShapeError) {
	pattern, ok := params.(*List)
	if !ok {
		return nil, &paramShapeError{"Invalid parameter list; not a list.", params}
	}
	if err := checkPattern(pattern, nested, make(map[string]bool)); err != nil {
		return nil, err
	}
	return pattern, nil
}

func checkPattern(pattern *List, nested bool, seen map[string]bool) *paramShapeError {
	last := len(pattern.Items) - 1
	for i, p := range pattern.Items {
		switch p := p.(type) {
		case *Symbol:
			if p.Name == restMarker {
				if i != last-1 {
					return &paramShapeError{"The rest marker & must be the second-to-last parameter.", pattern}
				}
				continue
			}
			if seen[p.Name] {
				return &paramShapeError{fmt.Sprintf("Duplicate parameter: %s.", p.Name), p}
			}
			seen[p.Name] = true
		case *List:
			if !nested {
				return &paramShapeError{"Function parameter list should only contain symbols.", pattern}
			}
			if i == last && hasRest(pattern) {
				return &paramShapeError{"The rest parameter must be a symbol.", p}
			}
			if err := checkPattern(p, nested, seen); err != nil {
				return err
			}
		default:
			if !nested {
				return &paramShapeError{"Function parameter list should only contain symbols.", pattern}
			}
			return &paramShapeError{fmt.Sprintf("Only symbols and lists allowed in parameter list; got a %s.", p.Kind()), p}
		}
	}
	return nil
}

// destructure matches args against pattern and returns the resulting
// bindings.
func destructure(pattern *List, args Value) (map[string]Value, *argShapeError) {
	bindings := make(map[string]Value)
	if err := bindPattern(pattern, args, bindings); err != nil {
		return nil, err
	}
	return bindings, nil
}

func bindPattern(pattern *List, args Value, bindings map[string]Value) *argShapeError {
	argList, ok := args.(*List)
	if !ok {
		return &argShapeError{
			fmt.Sprintf("Parameter list and the provided arguments do not match. Expected a list in the arguments, got: %s", Pprint(args)),
			args,
		}
	}
	params := pattern.Items
	items := argList.Items
	if hasRest(pattern) {
		n := len(params) - 2
		if len(items) < n {
			return &argShapeError{
				fmt.Sprintf("Parameter list and the provided arguments do not match. Expected at least %d argument(s) but got %d.", n, len(items)),
				args,
			}
		}
		for i := range n {
			if err := bindParam(params[i], items[i], bindings); err != nil {
				return err
			}
		}
		rest := NewList(items[n:]...)
		rest.setSpan(spanOf(rest.Items))
		return bindParam(params[n+1], rest, bindings)
	}
	if len(params) != len(items) {
		return &argShapeError{
			fmt.Sprintf("Parameter list and the provided arguments do not match. Expected %d argument(s) but got %d.", len(params), len(items)),
			args,
		}
	}
	for i := range params {
		if err := bindParam(params[i], items[i], bindings); err != nil {
			return err
		}
	}
	return nil
}

func bindParam(param, arg Value, bindings map[string]Value) *argShapeError {
	switch p := param.(type) {
	case *Symbol:
		bindings[p.Name] = arg
		return nil
	case *List:
		return bindPattern(p, arg, bindings)
	default:
		return &argShapeError{fmt.Sprintf("Only symbols and lists allowed in parameter list; got a %s.", param.Kind()), param}
	}
}
