// Package runtime implements the evaluator and runtime value system for monkey-lang.
package runtime

import (
	"fmt"
	"hash/fnv"
	"strings"

	"monkey-lang/internal/ast"
)

// ValueType is the type tag of a runtime value. The names appear verbatim in error
// messages, e.g. "type mismatch: INTEGER + BOOLEAN".
type ValueType string

const (
	INTEGER_VAL      ValueType = "INTEGER"
	BOOLEAN_VAL      ValueType = "BOOLEAN"
	NULL_VAL         ValueType = "NULL"
	STRING_VAL       ValueType = "STRING"
	ARRAY_VAL        ValueType = "ARRAY"
	HASH_VAL         ValueType = "HASH"
	FUNCTION_VAL     ValueType = "FUNCTION"
	BUILTIN_VAL      ValueType = "BUILTIN"
	RETURN_VALUE_VAL ValueType = "RETURN_VALUE"
	ERROR_VAL        ValueType = "ERROR"
)

// Value is the interface for all runtime values.
type Value interface {
	Type() ValueType
	Inspect() string
}

// Process-wide singletons. Equality on booleans and null is identity against these.
var (
	TRUE  = &BoolVal{Value: true}
	FALSE = &BoolVal{Value: false}
	NULL  = &NullVal{}
)

// ---- Primitive values ----

// IntVal represents an integer value.
type IntVal int64

func (v IntVal) Type() ValueType { return INTEGER_VAL }
func (v IntVal) Inspect() string { return fmt.Sprintf("%d", int64(v)) }

// StringVal represents a string value.
type StringVal string

func (v StringVal) Type() ValueType { return STRING_VAL }
func (v StringVal) Inspect() string { return string(v) }

// BoolVal represents a boolean. Only TRUE and FALSE exist; use nativeBool to get one.
type BoolVal struct {
	Value bool
}

func (v *BoolVal) Type() ValueType { return BOOLEAN_VAL }
func (v *BoolVal) Inspect() string { return fmt.Sprintf("%t", v.Value) }

// NullVal represents null. NULL is the only instance.
type NullVal struct{}

func (v *NullVal) Type() ValueType { return NULL_VAL }
func (v *NullVal) Inspect() string { return "null" }

// ---- Callable values ----

// FuncVal represents a user-defined function together with the environment it
// closes over.
type FuncVal struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (v *FuncVal) Type() ValueType { return FUNCTION_VAL }
func (v *FuncVal) Inspect() string {
	params := make([]string, len(v.Parameters))
	for i, p := range v.Parameters {
		params[i] = p.String()
	}
	body := "{ }"
	if v.Body != nil {
		body = v.Body.String()
	}
	return "fn(" + strings.Join(params, ", ") + ") " + body
}

// BuiltinFn is the Go signature for built-in functions. Failures are returned as
// *ErrorVal values, never as Go errors.
type BuiltinFn func(args ...Value) Value

// BuiltinVal represents a built-in (native) function.
type BuiltinVal struct {
	Name string
	Fn   BuiltinFn
}

func (v *BuiltinVal) Type() ValueType { return BUILTIN_VAL }
func (v *BuiltinVal) Inspect() string { return "builtin function" }

// ---- Collections ----

// ArrayVal represents an array value.
type ArrayVal struct {
	Elements []Value
}

func (v *ArrayVal) Type() ValueType { return ARRAY_VAL }
func (v *ArrayVal) Inspect() string {
	parts := make([]string, len(v.Elements))
	for i, elem := range v.Elements {
		parts[i] = elem.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// HashKey identifies a hashable value. The type tag is part of the key, so the
// integer 1 and the string "1" never collide.
type HashKey struct {
	Type  ValueType
	Value uint64
}

// Hashable is implemented by values usable as hash keys.
type Hashable interface {
	Value
	HashKey() HashKey
}

func (v IntVal) HashKey() HashKey {
	return HashKey{Type: v.Type(), Value: uint64(v)}
}

func (v *BoolVal) HashKey() HashKey {
	var value uint64
	if v.Value {
		value = 1
	}
	return HashKey{Type: v.Type(), Value: value}
}

func (v StringVal) HashKey() HashKey {
	h := fnv.New64a()
	h.Write([]byte(v))
	return HashKey{Type: v.Type(), Value: h.Sum64()}
}

// HashPair keeps the original key next to its value so inspection can print it.
type HashPair struct {
	Key   Value
	Value Value
}

// HashVal represents a hash map. Order records first insertion for stable output.
type HashVal struct {
	Pairs map[HashKey]HashPair
	Order []HashKey
}

// NewHash returns an empty hash value.
func NewHash() *HashVal {
	return &HashVal{Pairs: make(map[HashKey]HashPair)}
}

// Set stores value under key, replacing any previous value for an equal key.
func (v *HashVal) Set(key Hashable, value Value) {
	hk := key.HashKey()
	if _, exists := v.Pairs[hk]; !exists {
		v.Order = append(v.Order, hk)
	}
	v.Pairs[hk] = HashPair{Key: key, Value: value}
}

// Get returns the value stored under key.
func (v *HashVal) Get(key Hashable) (Value, bool) {
	pair, ok := v.Pairs[key.HashKey()]
	if !ok {
		return nil, false
	}
	return pair.Value, true
}

func (v *HashVal) Type() ValueType { return HASH_VAL }
func (v *HashVal) Inspect() string {
	parts := make([]string, 0, len(v.Order))
	for _, hk := range v.Order {
		pair := v.Pairs[hk]
		parts = append(parts, pair.Key.Inspect()+": "+pair.Value.Inspect())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ---- Control-flow signals ----

// ReturnVal wraps the value of a return statement while it travels up to the nearest
// function call or program boundary. It is never visible to user code.
type ReturnVal struct {
	Value Value
}

func (v *ReturnVal) Type() ValueType { return RETURN_VALUE_VAL }
func (v *ReturnVal) Inspect() string { return v.Value.Inspect() }

// ErrorVal carries an evaluation error. It short-circuits every enclosing evaluation.
type ErrorVal struct {
	Message string
}

func (v *ErrorVal) Type() ValueType { return ERROR_VAL }
func (v *ErrorVal) Inspect() string { return "ERROR: " + v.Message }

// newError builds an error value from a message template.
func newError(format string, args ...interface{}) *ErrorVal {
	return &ErrorVal{Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether v is an error value.
func IsError(v Value) bool {
	return v != nil && v.Type() == ERROR_VAL
}

// ---- Truthiness ----

// IsTruthy reports the truthiness of a value: null and false are falsy, everything
// else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	switch v {
	case NULL, FALSE:
		return false
	default:
		return true
	}
}

func nativeBool(b bool) *BoolVal {
	if b {
		return TRUE
	}
	return FALSE
}
