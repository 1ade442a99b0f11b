package runtime

import (
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

// builtinNames lists every built-in function name; newBuiltins must provide each.
var builtinNames = []string{"first", "last", "len", "push", "puts", "rest"}

// BuiltinNames returns the names of all built-in functions in sorted order.
func BuiltinNames() []string {
	names := make([]string, len(builtinNames))
	copy(names, builtinNames)
	sort.Strings(names)
	return names
}

// newBuiltins builds the built-in function table. puts writes to w.
func newBuiltins(w io.Writer) map[string]*BuiltinVal {
	table := map[string]*BuiltinVal{
		"len": {
			Name: "len",
			Fn: func(args ...Value) Value {
				if len(args) != 1 {
					return wrongArity(len(args), 1)
				}
				switch arg := args[0].(type) {
				case StringVal:
					return IntVal(utf8.RuneCountInString(string(arg)))
				case *ArrayVal:
					return IntVal(len(arg.Elements))
				default:
					return newError("argument to `len` not supported, got %s", args[0].Type())
				}
			},
		},

		"puts": {
			Name: "puts",
			Fn: func(args ...Value) Value {
				for _, arg := range args {
					fmt.Fprintln(w, arg.Inspect())
				}
				return NULL
			},
		},

		"first": {
			Name: "first",
			Fn: func(args ...Value) Value {
				arr, errVal := arrayArg("first", args)
				if errVal != nil {
					return errVal
				}
				if len(arr.Elements) > 0 {
					return arr.Elements[0]
				}
				return NULL
			},
		},

		"last": {
			Name: "last",
			Fn: func(args ...Value) Value {
				arr, errVal := arrayArg("last", args)
				if errVal != nil {
					return errVal
				}
				if n := len(arr.Elements); n > 0 {
					return arr.Elements[n-1]
				}
				return NULL
			},
		},

		// rest drops the first and the last element; see DESIGN.md.
		"rest": {
			Name: "rest",
			Fn: func(args ...Value) Value {
				arr, errVal := arrayArg("rest", args)
				if errVal != nil {
					return errVal
				}
				n := len(arr.Elements)
				if n == 0 {
					return NULL
				}
				end := n - 1
				if end < 1 {
					end = 1
				}
				elements := make([]Value, end-1)
				copy(elements, arr.Elements[1:end])
				return &ArrayVal{Elements: elements}
			},
		},

		"push": {
			Name: "push",
			Fn: func(args ...Value) Value {
				if len(args) != 2 {
					return wrongArity(len(args), 2)
				}
				arr, ok := args[0].(*ArrayVal)
				if !ok {
					return newError("argument to `push` must be ARRAY, got %s", args[0].Type())
				}
				elements := make([]Value, len(arr.Elements), len(arr.Elements)+1)
				copy(elements, arr.Elements)
				return &ArrayVal{Elements: append(elements, args[1])}
			},
		},
	}
	return table
}

func wrongArity(got, want int) *ErrorVal {
	return newError("wrong number of arguments. got=%d, want=%d", got, want)
}

// arrayArg checks the single-array argument shape shared by first, last and rest.
func arrayArg(name string, args []Value) (*ArrayVal, *ErrorVal) {
	if len(args) != 1 {
		return nil, wrongArity(len(args), 1)
	}
	arr, ok := args[0].(*ArrayVal)
	if !ok {
		return nil, newError("argument to `%s` must be ARRAY, got %s", name, args[0].Type())
	}
	return arr, nil
}
