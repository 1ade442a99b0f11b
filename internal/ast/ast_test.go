package ast

import (
	"encoding/json"
	"testing"

	"monkey-lang/internal/token"
)

func ident(name string) *Identifier {
	return &Identifier{
		ExprBase: ExprBase{NodeBase{Token: token.Token{Kind: token.IDENT, Literal: name}}},
		Value:    name,
	}
}

func intLit(lit string, v int64) *IntegerLiteral {
	return &IntegerLiteral{
		ExprBase: ExprBase{NodeBase{Token: token.Token{Kind: token.INT, Literal: lit}}},
		Value:    v,
	}
}

func TestLetStatementString(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&LetStatement{
				StmtBase: StmtBase{NodeBase{Token: token.Token{Kind: token.LET, Literal: "let"}}},
				Name:     ident("myVar"),
				Value:    ident("anotherVar"),
			},
		},
	}

	if got := program.String(); got != "let myVar = anotherVar;" {
		t.Errorf("program.String() wrong. got=%q", got)
	}
	if got := program.TokenLiteral(); got != "let" {
		t.Errorf("program.TokenLiteral() wrong. got=%q", got)
	}
}

func TestEmptyProgram(t *testing.T) {
	program := &Program{}
	if program.String() != "" || program.TokenLiteral() != "" {
		t.Errorf("empty program should render empty, got %q / %q", program.String(), program.TokenLiteral())
	}
}

func TestStatementSeparators(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&ExpressionStatement{Expression: ident("a")},
			&ExpressionStatement{Expression: &PrefixExpression{Operator: "-", Right: ident("b")}},
			&ReturnStatement{
				StmtBase:    StmtBase{NodeBase{Token: token.Token{Kind: token.RETURN, Literal: "return"}}},
				ReturnValue: intLit("5", 5),
			},
			&ExpressionStatement{Expression: ident("c")},
		},
	}

	want := "a; (-b); return 5; c"
	if got := program.String(); got != want {
		t.Errorf("program.String() wrong.\nwant=%q\n got=%q", want, got)
	}
}

func TestExpressionRendering(t *testing.T) {
	fnTok := token.Token{Kind: token.FUNCTION, Literal: "fn"}
	body := &BlockStatement{Statements: []Statement{
		&ExpressionStatement{Expression: &InfixExpression{Left: ident("x"), Operator: "+", Right: ident("y")}},
	}}

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"string", &StringLiteral{Value: "hi there"}, `"hi there"`},
		{"index", &IndexExpression{Left: ident("arr"), Index: intLit("1", 1)}, "(arr[1])"},
		{"array", &ArrayLiteral{Elements: []Expression{intLit("1", 1), ident("x")}}, "[1, x]"},
		{"empty array", &ArrayLiteral{}, "[]"},
		{"hash", &HashLiteral{Pairs: []HashPair{
			{Key: &StringLiteral{Value: "a"}, Value: intLit("1", 1)},
			{Key: &StringLiteral{Value: "b"}, Value: intLit("2", 2)},
		}}, `{"a": 1, "b": 2}`},
		{"function", &FunctionLiteral{
			ExprBase:   ExprBase{NodeBase{Token: fnTok}},
			Parameters: []*Identifier{ident("x"), ident("y")},
			Body:       body,
		}, "fn(x, y) { (x + y) }"},
		{"call", &CallExpression{Function: ident("add"), Arguments: []Expression{intLit("1", 1), ident("z")}}, "add(1, z)"},
		{"if else", &IfExpression{
			Condition:   &InfixExpression{Left: ident("x"), Operator: "<", Right: ident("y")},
			Consequence: &BlockStatement{Statements: []Statement{&ExpressionStatement{Expression: ident("x")}}},
			Alternative: &BlockStatement{},
		}, "if ((x < y)) { x } else { }"},
		{"missing operand", &PrefixExpression{Operator: "!"}, "(!)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() wrong.\nwant=%q\n got=%q", tt.want, got)
			}
		})
	}
}

func TestNodeToMap(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&ExpressionStatement{Expression: &InfixExpression{Left: intLit("1", 1), Operator: "+", Right: ident("x")}},
		},
	}

	data, err := json.Marshal(NodeToMap(program))
	if err != nil {
		t.Fatalf("json error: %v", err)
	}

	var decoded struct {
		Kind       string `json:"kind"`
		Statements []struct {
			Kind       string `json:"kind"`
			Expression struct {
				Kind     string `json:"kind"`
				Operator string `json:"operator"`
				Right    struct {
					Kind  string `json:"kind"`
					Value string `json:"value"`
				} `json:"right"`
			} `json:"expression"`
		} `json:"statements"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json decode error: %v", err)
	}

	if decoded.Kind != "Program" || len(decoded.Statements) != 1 {
		t.Fatalf("unexpected root: %s", data)
	}
	expr := decoded.Statements[0].Expression
	if expr.Kind != "InfixExpression" || expr.Operator != "+" {
		t.Errorf("unexpected expression: %s", data)
	}
	if expr.Right.Kind != "Identifier" || expr.Right.Value != "x" {
		t.Errorf("unexpected right operand: %s", data)
	}
}
