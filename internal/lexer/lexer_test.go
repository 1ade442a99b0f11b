package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"monkey-lang/internal/token"
)

type tokenPair struct {
	Kind    token.Kind
	Literal string
}

func scan(source string) []tokenPair {
	var out []tokenPair
	for _, tok := range New(source).Tokenize() {
		out = append(out, tokenPair{tok.Kind, tok.Literal})
	}
	return out
}

func TestNextTokenProgram(t *testing.T) {
	source := `let five = 5;
let ten = 10;

let add = fn(x, y) {
  x + y;
};

let result = add(five, ten);
!-/*5;
5 < 10 > 5;

if (5 < 10) {
	return true;
} else {
	return false;
}

10 == 10;
10 != 9;
"foobar"
"foo bar"
[1, 2];
{"foo": "bar"}
`
	expected := []tokenPair{
		{token.LET, "let"}, {token.IDENT, "five"}, {token.ASSIGN, "="}, {token.INT, "5"}, {token.SEMICOLON, ";"},
		{token.LET, "let"}, {token.IDENT, "ten"}, {token.ASSIGN, "="}, {token.INT, "10"}, {token.SEMICOLON, ";"},
		{token.LET, "let"}, {token.IDENT, "add"}, {token.ASSIGN, "="}, {token.FUNCTION, "fn"},
		{token.LPAREN, "("}, {token.IDENT, "x"}, {token.COMMA, ","}, {token.IDENT, "y"}, {token.RPAREN, ")"},
		{token.LBRACE, "{"}, {token.IDENT, "x"}, {token.PLUS, "+"}, {token.IDENT, "y"}, {token.SEMICOLON, ";"},
		{token.RBRACE, "}"}, {token.SEMICOLON, ";"},
		{token.LET, "let"}, {token.IDENT, "result"}, {token.ASSIGN, "="}, {token.IDENT, "add"},
		{token.LPAREN, "("}, {token.IDENT, "five"}, {token.COMMA, ","}, {token.IDENT, "ten"}, {token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.BANG, "!"}, {token.MINUS, "-"}, {token.SLASH, "/"}, {token.ASTERISK, "*"}, {token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.INT, "5"}, {token.LT, "<"}, {token.INT, "10"}, {token.GT, ">"}, {token.INT, "5"}, {token.SEMICOLON, ";"},
		{token.IF, "if"}, {token.LPAREN, "("}, {token.INT, "5"}, {token.LT, "<"}, {token.INT, "10"}, {token.RPAREN, ")"},
		{token.LBRACE, "{"}, {token.RETURN, "return"}, {token.TRUE, "true"}, {token.SEMICOLON, ";"},
		{token.RBRACE, "}"}, {token.ELSE, "else"}, {token.LBRACE, "{"}, {token.RETURN, "return"},
		{token.FALSE, "false"}, {token.SEMICOLON, ";"}, {token.RBRACE, "}"},
		{token.INT, "10"}, {token.EQ, "=="}, {token.INT, "10"}, {token.SEMICOLON, ";"},
		{token.INT, "10"}, {token.NOT_EQ, "!="}, {token.INT, "9"}, {token.SEMICOLON, ";"},
		{token.STRING, "foobar"},
		{token.STRING, "foo bar"},
		{token.LBRACKET, "["}, {token.INT, "1"}, {token.COMMA, ","}, {token.INT, "2"}, {token.RBRACKET, "]"},
		{token.SEMICOLON, ";"},
		{token.LBRACE, "{"}, {token.STRING, "foo"}, {token.COLON, ":"}, {token.STRING, "bar"}, {token.RBRACE, "}"},
		{token.EOF, ""},
	}

	if diff := cmp.Diff(expected, scan(source)); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeKeywords(t *testing.T) {
	got := scan(`fn let true false if else return fnx lets`)
	expected := []tokenPair{
		{token.FUNCTION, "fn"}, {token.LET, "let"}, {token.TRUE, "true"}, {token.FALSE, "false"},
		{token.IF, "if"}, {token.ELSE, "else"}, {token.RETURN, "return"},
		{token.IDENT, "fnx"}, {token.IDENT, "lets"},
		{token.EOF, ""},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeIdentifiers(t *testing.T) {
	// identifiers are letters and underscores only; digits start a new token
	got := scan(`foo_bar _x abc1`)
	expected := []tokenPair{
		{token.IDENT, "foo_bar"}, {token.IDENT, "_x"}, {token.IDENT, "abc"}, {token.INT, "1"},
		{token.EOF, ""},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeStringVerbatim(t *testing.T) {
	got := scan(`"line1\nline2" ""`)
	expected := []tokenPair{
		{token.STRING, `line1\nline2`}, {token.STRING, ""}, {token.EOF, ""},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("string mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	got := scan(`"abc def`)
	expected := []tokenPair{{token.STRING, "abc def"}, {token.EOF, ""}}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unterminated string mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeIllegal(t *testing.T) {
	got := scan(`a @ b # é`)
	expected := []tokenPair{
		{token.IDENT, "a"}, {token.ILLEGAL, "@"}, {token.IDENT, "b"},
		{token.ILLEGAL, "#"}, {token.ILLEGAL, "é"},
		{token.EOF, ""},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("illegal mismatch (-want +got):\n%s", diff)
	}
}

func TestNextTokenAfterEOF(t *testing.T) {
	l := New("x")
	if tok := l.NextToken(); tok.Kind != token.IDENT {
		t.Fatalf("expected IDENT, got %s", tok.Kind)
	}
	for i := 0; i < 5; i++ {
		tok := l.NextToken()
		if tok.Kind != token.EOF || tok.Literal != "" {
			t.Fatalf("call %d: expected EOF with empty literal, got %s %q", i, tok.Kind, tok.Literal)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	got := scan(" \t\r\n ")
	if diff := cmp.Diff([]tokenPair{{token.EOF, ""}}, got); diff != "" {
		t.Errorf("empty input mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens := New("let x = 1;\n  x").Tokenize()

	// "let" starts at line 1, col 1
	if tokens[0].Span.Start.Line != 1 || tokens[0].Span.Start.Column != 1 {
		t.Errorf("'let' position: expected 1:1, got %s", tokens[0].Span.Start)
	}
	// "x" starts at line 1, col 5
	if tokens[1].Span.Start.Line != 1 || tokens[1].Span.Start.Column != 5 {
		t.Errorf("'x' position: expected 1:5, got %s", tokens[1].Span.Start)
	}
	// second "x" is on line 2, col 3
	last := tokens[len(tokens)-2]
	if last.Span.Start.Line != 2 || last.Span.Start.Column != 3 {
		t.Errorf("second 'x' position: expected 2:3, got %s", last.Span.Start)
	}
	if tokens[0].Span.Len() != 3 {
		t.Errorf("'let' span length: expected 3, got %d", tokens[0].Span.Len())
	}
}
