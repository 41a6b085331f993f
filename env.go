package parable

import (
	"maps"
	"slices"
)

// Env

// Env maps symbol names to values. An Env is never modified after it has
// been handed out: Extend and With return a new frame chained to the
// receiver, so closures keep seeing the bindings they were created with.
type Env struct {
	parent   *Env
	bindings map[string]Value
}

func NewEnv(bindings map[string]Value) *Env {
	return (*Env)(nil).Extend(bindings)
}

func (e *Env) Extend(bindings map[string]Value) *Env {
	if len(bindings) == 0 && e != nil {
		return e
	}
	return &Env{
		parent:   e,
		bindings: maps.Clone(bindings),
	}
}

func (e *Env) With(name string, value Value) *Env {
	return &Env{
		parent:   e,
		bindings: map[string]Value{name: value},
	}
}

// withRec binds name to the value built by build, which receives the new
// frame so the value may refer to itself through it.
func (e *Env) withRec(name string, build func(env *Env) Value) *Env {
	env := &Env{
		parent:   e,
		bindings: make(map[string]Value, 1),
	}
	env.bindings[name] = build(env)
	return env
}

func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Names lists every visible binding in sorted order.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})
	for env := e; env != nil; env = env.parent {
		for name := range env.bindings {
			seen[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
