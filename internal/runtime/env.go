package runtime

import "sort"

// Environment represents a variable scope with a link to its enclosing scope.
//
// Functions keep a pointer to the environment they were defined in, so an environment
// lives as long as any closure that captured it. An Environment is not safe for
// concurrent use; independent evaluations need independent environment trees.
type Environment struct {
	store map[string]Value
	outer *Environment
}

// NewEnvironment creates a new top-level environment.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Value)}
}

// NewEnclosedEnvironment creates a new environment nested inside outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Get looks up a variable by walking the scope chain outward.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if val, exists := env.store[name]; exists {
			return val, true
		}
	}
	return nil, false
}

// Set binds name in this scope. Rebinding an existing name replaces its value.
func (e *Environment) Set(name string, value Value) Value {
	e.store[name] = value
	return value
}

// Outer returns the enclosing environment, or nil for a top-level one.
func (e *Environment) Outer() *Environment {
	return e.outer
}

// Names returns every name visible from this scope, sorted and without duplicates.
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
