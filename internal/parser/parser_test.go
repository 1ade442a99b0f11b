package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"monkey-lang/internal/ast"
	"monkey-lang/internal/diag"
	"monkey-lang/internal/lexer"
)

// helper: parse source and fail on any parse error
func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	p := New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", source, errs)
	}
	return program
}

// helper: parse a single expression statement and return its expression
func parseExpr(t *testing.T, source string) ast.Expression {
	t.Helper()
	program := parseOK(t, source)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", program.Statements[0])
	}
	return stmt.Expression
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input string
		name  string
		value string
	}{
		{"let x = 5;", "x", "5"},
		{"let y = true;", "y", "true"},
		{"let foobar = y", "foobar", "y"},
		{"let s = \"hi\";", "s", `"hi"`},
	}

	for _, tt := range tests {
		program := parseOK(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		stmt, ok := program.Statements[0].(*ast.LetStatement)
		if !ok {
			t.Fatalf("%q: expected LetStatement, got %T", tt.input, program.Statements[0])
		}
		if stmt.TokenLiteral() != "let" {
			t.Errorf("%q: token literal = %q", tt.input, stmt.TokenLiteral())
		}
		if stmt.Name.Value != tt.name {
			t.Errorf("%q: name = %q, want %q", tt.input, stmt.Name.Value, tt.name)
		}
		if stmt.Value.String() != tt.value {
			t.Errorf("%q: value = %q, want %q", tt.input, stmt.Value.String(), tt.value)
		}
	}
}

func TestReturnStatements(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"return 5;", "return 5;"},
		{"return x + y;", "return (x + y);"},
		{"return;", "return;"},
		{"return", "return;"},
	}

	for _, tt := range tests {
		program := parseOK(t, tt.input)
		stmt, ok := program.Statements[0].(*ast.ReturnStatement)
		if !ok {
			t.Fatalf("%q: expected ReturnStatement, got %T", tt.input, program.Statements[0])
		}
		if got := stmt.String(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLiteralExpressions(t *testing.T) {
	if lit, ok := parseExpr(t, "foobar;").(*ast.Identifier); !ok || lit.Value != "foobar" {
		t.Errorf("identifier not parsed: %#v", lit)
	}
	if lit, ok := parseExpr(t, "5;").(*ast.IntegerLiteral); !ok || lit.Value != 5 {
		t.Errorf("integer not parsed: %#v", lit)
	}
	if lit, ok := parseExpr(t, "false").(*ast.Bool); !ok || lit.Value {
		t.Errorf("bool not parsed: %#v", lit)
	}
	if lit, ok := parseExpr(t, `"hello world";`).(*ast.StringLiteral); !ok || lit.Value != "hello world" {
		t.Errorf("string not parsed: %#v", lit)
	}
}

func TestPrefixExpressions(t *testing.T) {
	tests := []struct {
		input    string
		operator string
		right    string
	}{
		{"!5;", "!", "5"},
		{"-15;", "-", "15"},
		{"!true;", "!", "true"},
		{"!false;", "!", "false"},
	}

	for _, tt := range tests {
		expr, ok := parseExpr(t, tt.input).(*ast.PrefixExpression)
		if !ok {
			t.Fatalf("%q: expected PrefixExpression", tt.input)
		}
		if expr.Operator != tt.operator || expr.Right.String() != tt.right {
			t.Errorf("%q: got operator %q right %q", tt.input, expr.Operator, expr.Right.String())
		}
	}
}

func TestInfixExpressions(t *testing.T) {
	for _, op := range []string{"+", "-", "*", "/", ">", "<", "==", "!="} {
		input := "5 " + op + " 6;"
		expr, ok := parseExpr(t, input).(*ast.InfixExpression)
		if !ok {
			t.Fatalf("%q: expected InfixExpression", input)
		}
		if expr.Operator != op || expr.Left.String() != "5" || expr.Right.String() != "6" {
			t.Errorf("%q: got %s", input, expr.String())
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"3 + 4; -5 * 5", "(3 + 4); ((-5) * 5)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"true", "true"},
		{"3 > 5 == false", "((3 > 5) == false)"},
		{"1 + (2 + 3) + 4", "((1 + (2 + 3)) + 4)"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"-(5 + 5)", "(-(5 + 5))"},
		{"!(true == true)", "(!(true == true))"},
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"add(a, b, 1, 2 * 3, 4 + 5, add(6, 7 * 8))", "add(a, b, 1, (2 * 3), (4 + 5), add(6, (7 * 8)))"},
		{"add(a + b + c * d / f + g)", "add((((a + b) + ((c * d) / f)) + g))"},
		{"a * [1, 2, 3, 4][b * c] * d", "((a * ([1, 2, 3, 4][(b * c)])) * d)"},
		{"add(a * b[2], b[1], 2 * [1, 2][1])", "add((a * (b[2])), (b[1]), (2 * ([1, 2][1])))"},
	}

	for _, tt := range tests {
		program := parseOK(t, tt.input)
		if got := program.String(); got != tt.want {
			t.Errorf("%q:\nwant %q\n got %q", tt.input, tt.want, got)
		}
	}
}

func TestIfExpression(t *testing.T) {
	expr, ok := parseExpr(t, `if (x < y) { x }`).(*ast.IfExpression)
	if !ok {
		t.Fatal("expected IfExpression")
	}
	if expr.Condition.String() != "(x < y)" {
		t.Errorf("condition = %q", expr.Condition.String())
	}
	if len(expr.Consequence.Statements) != 1 {
		t.Errorf("consequence has %d statements", len(expr.Consequence.Statements))
	}
	if expr.Alternative != nil {
		t.Errorf("alternative should be nil, got %s", expr.Alternative.String())
	}
}

func TestIfElseExpression(t *testing.T) {
	expr, ok := parseExpr(t, `if (x < y) { x } else { y }`).(*ast.IfExpression)
	if !ok {
		t.Fatal("expected IfExpression")
	}
	if expr.Alternative == nil || expr.Alternative.String() != "{ y }" {
		t.Errorf("alternative not parsed: %v", expr.Alternative)
	}
}

func TestFunctionLiteral(t *testing.T) {
	fn, ok := parseExpr(t, `fn(x, y) { x + y; }`).(*ast.FunctionLiteral)
	if !ok {
		t.Fatal("expected FunctionLiteral")
	}
	var params []string
	for _, p := range fn.Parameters {
		params = append(params, p.Value)
	}
	if diff := cmp.Diff([]string{"x", "y"}, params); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
	if fn.Body.String() != "{ (x + y) }" {
		t.Errorf("body = %q", fn.Body.String())
	}
}

func TestFunctionParameters(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"fn() {};", nil},
		{"fn(x) {};", []string{"x"}},
		{"fn(x, y, z) {};", []string{"x", "y", "z"}},
	}

	for _, tt := range tests {
		fn := parseExpr(t, tt.input).(*ast.FunctionLiteral)
		var got []string
		for _, p := range fn.Parameters {
			got = append(got, p.Value)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%q parameters mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestCallExpression(t *testing.T) {
	call, ok := parseExpr(t, "add(1, 2 * 3, 4 + 5);").(*ast.CallExpression)
	if !ok {
		t.Fatal("expected CallExpression")
	}
	if call.Function.String() != "add" {
		t.Errorf("function = %q", call.Function.String())
	}
	var args []string
	for _, a := range call.Arguments {
		args = append(args, a.String())
	}
	if diff := cmp.Diff([]string{"1", "(2 * 3)", "(4 + 5)"}, args); diff != "" {
		t.Errorf("arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayAndIndex(t *testing.T) {
	arr, ok := parseExpr(t, "[1, 2 * 2, 3 + 3]").(*ast.ArrayLiteral)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("array not parsed: %#v", arr)
	}
	if arr.String() != "[1, (2 * 2), (3 + 3)]" {
		t.Errorf("array = %q", arr.String())
	}

	empty, ok := parseExpr(t, "[]").(*ast.ArrayLiteral)
	if !ok || len(empty.Elements) != 0 {
		t.Errorf("empty array not parsed: %#v", empty)
	}

	idx, ok := parseExpr(t, "myArray[1 + 1]").(*ast.IndexExpression)
	if !ok {
		t.Fatal("expected IndexExpression")
	}
	if idx.Left.String() != "myArray" || idx.Index.String() != "(1 + 1)" {
		t.Errorf("index = %q", idx.String())
	}
}

func TestHashLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  [][2]string
	}{
		{`{"one": 1, "two": 2, "three": 3}`, [][2]string{{`"one"`, "1"}, {`"two"`, "2"}, {`"three"`, "3"}}},
		{`{}`, nil},
		{`{"one": 0 + 1, "two": 10 - 8}`, [][2]string{{`"one"`, "(0 + 1)"}, {`"two"`, "(10 - 8)"}}},
		{`{1: true, false: "x"}`, [][2]string{{"1", "true"}, {"false", `"x"`}}},
	}

	for _, tt := range tests {
		hash, ok := parseExpr(t, tt.input).(*ast.HashLiteral)
		if !ok {
			t.Fatalf("%q: expected HashLiteral", tt.input)
		}
		var got [][2]string
		for _, pair := range hash.Pairs {
			got = append(got, [2]string{pair.Key.String(), pair.Value.String()})
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%q pairs mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		`let add = fn(a, b) { return a + b; }; add(1, 2 * 3);`,
		`let newAdder = fn(x) { fn(y) { x + y } }; let addTwo = newAdder(2); addTwo(2);`,
		`if (a > b) { a } else { b }; -a * b`,
		`let people = [{"name": "Alice", "age": 24}, {"name": "Anna", "age": 28}]; people[0]["name"];`,
		`a; -b; !c`,
		`let f = fn() { return; }; f()`,
		`let map = fn(arr, f) { let iter = fn(arr, acc) { if (len(arr) == 0) { acc } else { iter(rest(arr), push(acc, f(first(arr)))) } }; iter(arr, []) };`,
	}

	for _, source := range sources {
		first := parseOK(t, source).String()
		second := parseOK(t, first).String()
		if first != second {
			t.Errorf("round trip changed rendering:\nfirst  %q\nsecond %q", first, second)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"let = 5;", []string{
			"expected next token to be IDENT, got = instead",
			"no prefix parse function for = found",
		}},
		{"let x 5;", []string{"expected next token to be =, got INT instead"}},
		{"(1 + 2", []string{"expected next token to be ), got EOF instead"}},
		{"if (x) { x ", []string{"expected next token to be }, got EOF instead"}},
		{"fn(x, 1) {}", []string{
			"expected next token to be IDENT, got INT instead",
			"no prefix parse function for ) found",
		}},
		{"99999999999999999999", []string{"could not parse 99999999999999999999 as integer"}},
	}

	for _, tt := range tests {
		p := New(lexer.New(tt.input))
		p.ParseProgram()
		if diff := cmp.Diff(tt.want, p.Errors()); diff != "" {
			t.Errorf("%q errors mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestIllegalTokenDiagnostic(t *testing.T) {
	p := New(lexer.New("let x = @;"))
	p.ParseProgram()

	diags := p.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	d := diags[0]
	if d.Code != diag.CodeNoPrefixParse || d.Message != "no prefix parse function for ILLEGAL found" {
		t.Errorf("unexpected diagnostic: %s", d)
	}
	if d.Hint != `unexpected character "@"` {
		t.Errorf("unexpected hint: %q", d.Hint)
	}
	if d.Span.Start.Column != 9 {
		t.Errorf("expected column 9, got %d", d.Span.Start.Column)
	}
}

func TestMalformedInputTerminates(t *testing.T) {
	inputs := []string{
		"{", "{1:", "[1, 2", "f(1, 2", "fn(", "if", "if (", "let", "return", ")", "}}}",
		"{ \"a\" 1 }", "a[1", "fn(x) {",
	}
	for _, input := range inputs {
		p := New(lexer.New(input))
		program := p.ParseProgram()
		if program == nil {
			t.Errorf("%q: nil program", input)
		}
		_ = program.String()
	}
}

func TestProgramSpan(t *testing.T) {
	program := parseOK(t, "let x = 1;\nx + 2")
	s := program.Statements[1].GetSpan()
	if s.Start.Line != 2 || s.Start.Column != 1 {
		t.Errorf("second statement should start at 2:1, got %s", s.Start)
	}
	infix := program.Statements[1].(*ast.ExpressionStatement).Expression
	if infix.GetSpan().End.Column != 6 {
		t.Errorf("infix should end at column 6, got %s", infix.GetSpan().End)
	}
}
