package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"monkey-lang/internal/ast"
)

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and evaluates it.
//
// Evaluation errors are never Go errors: they come back as *ErrorVal values and
// short-circuit every enclosing evaluation. An Interpreter keeps per-evaluation
// counters and must not be shared between goroutines.
type Interpreter struct {
	output   io.Writer
	logger   *slog.Logger
	builtins map[string]*BuiltinVal

	maxSteps int
	maxDepth int
	steps    int
	depth    int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer used by the puts built-in. Default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.output = w }
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interpreter) { i.logger = l }
}

// WithStepLimit bounds the number of nodes a single Eval call may evaluate.
// Zero or less means no limit.
func WithStepLimit(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// WithDepthLimit bounds the nesting of user function calls. Zero or less means no limit.
func WithDepthLimit(n int) Option {
	return func(i *Interpreter) { i.maxDepth = n }
}

// New creates an interpreter.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		output: os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.builtins = newBuiltins(i.output)
	return i
}

// Eval evaluates node in env using an interpreter that writes to stdout.
func Eval(node ast.Node, env *Environment) Value {
	return New().Eval(node, env)
}

// Eval evaluates node in env and returns the resulting value, which may be an *ErrorVal.
func (i *Interpreter) Eval(node ast.Node, env *Environment) Value {
	i.steps = 0
	i.depth = 0

	result := i.eval(node, env)
	if errVal, ok := result.(*ErrorVal); ok {
		i.logger.Debug("evaluation failed", "error", errVal.Message)
	}
	return result
}

// ============================================================
// Node dispatch
// ============================================================

func (i *Interpreter) eval(node ast.Node, env *Environment) Value {
	if node == nil {
		return NULL
	}
	if i.maxSteps > 0 {
		i.steps++
		if i.steps > i.maxSteps {
			i.logger.Warn("step limit exceeded", "limit", i.maxSteps)
			return newError("step limit exceeded: %d", i.maxSteps)
		}
	}

	switch n := node.(type) {
	// Statements
	case *ast.Program:
		return i.evalProgram(n, env)
	case *ast.BlockStatement:
		if n == nil {
			return NULL
		}
		return i.evalBlock(n, env)
	case *ast.ExpressionStatement:
		return i.eval(n.Expression, env)
	case *ast.LetStatement:
		return i.evalLet(n, env)
	case *ast.ReturnStatement:
		val := i.eval(n.ReturnValue, env)
		if IsError(val) {
			return val
		}
		return &ReturnVal{Value: val}

	// Literals
	case *ast.IntegerLiteral:
		return IntVal(n.Value)
	case *ast.StringLiteral:
		return StringVal(n.Value)
	case *ast.Bool:
		return nativeBool(n.Value)
	case *ast.ArrayLiteral:
		elements, errVal := i.evalExpressions(n.Elements, env)
		if errVal != nil {
			return errVal
		}
		return &ArrayVal{Elements: elements}
	case *ast.HashLiteral:
		return i.evalHashLiteral(n, env)
	case *ast.FunctionLiteral:
		return &FuncVal{Parameters: n.Parameters, Body: n.Body, Env: env}

	// Expressions
	case *ast.Identifier:
		if n == nil {
			return NULL
		}
		return i.evalIdentifier(n, env)
	case *ast.PrefixExpression:
		if n.Right == nil {
			return NULL
		}
		right := i.eval(n.Right, env)
		if IsError(right) {
			return right
		}
		return evalPrefix(n.Operator, right)
	case *ast.InfixExpression:
		if n.Right == nil {
			return NULL
		}
		left := i.eval(n.Left, env)
		if IsError(left) {
			return left
		}
		right := i.eval(n.Right, env)
		if IsError(right) {
			return right
		}
		return evalInfix(n.Operator, left, right)
	case *ast.IfExpression:
		return i.evalIf(n, env)
	case *ast.CallExpression:
		return i.evalCall(n, env)
	case *ast.IndexExpression:
		left := i.eval(n.Left, env)
		if IsError(left) {
			return left
		}
		index := i.eval(n.Index, env)
		if IsError(index) {
			return index
		}
		return evalIndex(left, index)
	}

	panic(fmt.Sprintf("runtime: unhandled node type %T", node))
}

// ============================================================
// Statement evaluation
// ============================================================

// evalProgram stops at the first return or error and unwraps a return value.
func (i *Interpreter) evalProgram(program *ast.Program, env *Environment) Value {
	var result Value = NULL
	for _, stmt := range program.Statements {
		result = i.eval(stmt, env)
		switch r := result.(type) {
		case *ReturnVal:
			return r.Value
		case *ErrorVal:
			return r
		}
	}
	return result
}

// evalBlock stops like evalProgram but leaves return values wrapped for the caller.
func (i *Interpreter) evalBlock(block *ast.BlockStatement, env *Environment) Value {
	var result Value = NULL
	for _, stmt := range block.Statements {
		result = i.eval(stmt, env)
		if rt := result.Type(); rt == RETURN_VALUE_VAL || rt == ERROR_VAL {
			return result
		}
	}
	return result
}

// evalLet binds the value in env. The statement itself evaluates to null.
func (i *Interpreter) evalLet(s *ast.LetStatement, env *Environment) Value {
	if s.Value == nil || s.Name == nil {
		return NULL
	}
	val := i.eval(s.Value, env)
	if IsError(val) {
		return val
	}
	env.Set(s.Name.Value, val)
	return NULL
}

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evalIdentifier(ident *ast.Identifier, env *Environment) Value {
	if val, ok := env.Get(ident.Value); ok {
		return val
	}
	if builtin, ok := i.builtins[ident.Value]; ok {
		return builtin
	}
	return newError("identifier not found: %s", ident.Value)
}

func evalPrefix(operator string, right Value) Value {
	switch operator {
	case "!":
		return nativeBool(!IsTruthy(right))
	case "-":
		v, ok := right.(IntVal)
		if !ok {
			return newError("unknown operator: -%s", right.Type())
		}
		return -v
	default:
		return newError("unknown operator: %s%s", operator, right.Type())
	}
}

func evalInfix(operator string, left, right Value) Value {
	l, lok := left.(IntVal)
	r, rok := right.(IntVal)
	if lok && rok {
		return evalIntegerInfix(operator, l, r)
	}

	ls, lok := left.(StringVal)
	rs, rok := right.(StringVal)
	if lok && rok {
		if operator != "+" {
			return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
		}
		return ls + rs
	}

	switch {
	case operator == "==":
		return nativeBool(left == right)
	case operator == "!=":
		return nativeBool(left != right)
	case left.Type() != right.Type():
		return newError("type mismatch: %s %s %s", left.Type(), operator, right.Type())
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalIntegerInfix(operator string, left, right IntVal) Value {
	switch operator {
	case "+":
		return left + right
	case "-":
		return left - right
	case "*":
		return left * right
	case "/":
		if right == 0 {
			return newError("division by zero")
		}
		return left / right
	case "<":
		return nativeBool(left < right)
	case ">":
		return nativeBool(left > right)
	case "==":
		return nativeBool(left == right)
	case "!=":
		return nativeBool(left != right)
	default:
		return newError("unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func (i *Interpreter) evalIf(ie *ast.IfExpression, env *Environment) Value {
	condition := i.eval(ie.Condition, env)
	if IsError(condition) {
		return condition
	}
	switch {
	case IsTruthy(condition):
		return i.eval(ie.Consequence, env)
	case ie.Alternative != nil:
		return i.eval(ie.Alternative, env)
	default:
		return NULL
	}
}

// evalExpressions evaluates exprs left to right, stopping at the first error.
func (i *Interpreter) evalExpressions(exprs []ast.Expression, env *Environment) ([]Value, Value) {
	result := make([]Value, 0, len(exprs))
	for _, e := range exprs {
		evaluated := i.eval(e, env)
		if IsError(evaluated) {
			return nil, evaluated
		}
		result = append(result, evaluated)
	}
	return result, nil
}

func (i *Interpreter) evalHashLiteral(h *ast.HashLiteral, env *Environment) Value {
	hash := NewHash()
	for _, pair := range h.Pairs {
		key := i.eval(pair.Key, env)
		if IsError(key) {
			return key
		}
		hashKey, ok := key.(Hashable)
		if !ok {
			return newError("unusable as hash key: %s", key.Type())
		}
		val := i.eval(pair.Value, env)
		if IsError(val) {
			return val
		}
		hash.Set(hashKey, val)
	}
	return hash
}

func evalIndex(left, index Value) Value {
	switch l := left.(type) {
	case *ArrayVal:
		idx, ok := index.(IntVal)
		if !ok {
			return newError("index operator not supported: %s", left.Type())
		}
		if idx < 0 || int64(idx) >= int64(len(l.Elements)) {
			return NULL
		}
		return l.Elements[idx]
	case *HashVal:
		key, ok := index.(Hashable)
		if !ok {
			return newError("unusable as hash key: %s", index.Type())
		}
		if val, found := l.Get(key); found {
			return val
		}
		return NULL
	default:
		return newError("index operator not supported: %s", left.Type())
	}
}

// ============================================================
// Function calls
// ============================================================

func (i *Interpreter) evalCall(call *ast.CallExpression, env *Environment) Value {
	fn := i.eval(call.Function, env)
	if IsError(fn) {
		return fn
	}
	args, errVal := i.evalExpressions(call.Arguments, env)
	if errVal != nil {
		return errVal
	}
	return i.apply(fn, args)
}

func (i *Interpreter) apply(fn Value, args []Value) Value {
	switch f := fn.(type) {
	case *FuncVal:
		if i.maxDepth > 0 && i.depth >= i.maxDepth {
			i.logger.Warn("call depth limit exceeded", "limit", i.maxDepth)
			return newError("maximum call depth exceeded: %d", i.maxDepth)
		}
		i.depth++
		defer func() { i.depth-- }()

		evaluated := i.eval(f.Body, extendFunctionEnv(f, args))
		if rv, ok := evaluated.(*ReturnVal); ok {
			return rv.Value
		}
		return evaluated
	case *BuiltinVal:
		return f.Fn(args...)
	default:
		return newError("not a function: %s", fn.Type())
	}
}

// extendFunctionEnv binds parameters positionally. Missing arguments bind to null and
// extra arguments are ignored.
func extendFunctionEnv(fn *FuncVal, args []Value) *Environment {
	env := NewEnclosedEnvironment(fn.Env)
	for idx, param := range fn.Parameters {
		if idx < len(args) {
			env.Set(param.Value, args[idx])
		} else {
			env.Set(param.Value, NULL)
		}
	}
	return env
}
