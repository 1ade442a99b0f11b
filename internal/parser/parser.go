// Package parser implements the syntax analysis for monkey-lang.
// It uses recursive descent for statements and Pratt parsing (precedence climbing) for
// expressions, with prefix and infix parse functions registered per token kind.
package parser

import (
	"strconv"

	"monkey-lang/internal/ast"
	"monkey-lang/internal/diag"
	"monkey-lang/internal/lexer"
	"monkey-lang/internal/span"
	"monkey-lang/internal/token"
)

// ============================================================
// Precedence levels
// ============================================================

const (
	_ int = iota
	precLowest
	precEquals      // == !=
	precLessGreater // < >
	precSum         // + -
	precProduct     // * /
	precPrefix      // -x !x
	precCall        // f(x)
	precIndex       // a[i]
)

var precedences = map[token.Kind]int{
	token.EQ:       precEquals,
	token.NOT_EQ:   precEquals,
	token.LT:       precLessGreater,
	token.GT:       precLessGreater,
	token.PLUS:     precSum,
	token.MINUS:    precSum,
	token.SLASH:    precProduct,
	token.ASTERISK: precProduct,
	token.LPAREN:   precCall,
	token.LBRACKET: precIndex,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// ============================================================
// Parser
// ============================================================

// Parser builds an AST from the tokens produced by a lexer.
//
// Errors never abort parsing: each problem is recorded as a diagnostic and the
// offending construct is left absent (nil) in the tree. Callers must check Errors
// before trusting the returned program.
type Parser struct {
	l     *lexer.Lexer
	diags []diag.Diagnostic

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Kind]prefixParseFn
	infixParseFns  map[token.Kind]infixParseFn
}

// New creates a parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Kind]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntegerLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBool,
		token.FALSE:    p.parseBool,
		token.BANG:     p.parsePrefixExpression,
		token.MINUS:    p.parsePrefixExpression,
		token.LPAREN:   p.parseGroupedExpression,
		token.IF:       p.parseIfExpression,
		token.FUNCTION: p.parseFunctionLiteral,
		token.LBRACKET: p.parseArrayLiteral,
		token.LBRACE:   p.parseHashLiteral,
	}

	p.infixParseFns = make(map[token.Kind]infixParseFn)
	for _, kind := range []token.Kind{
		token.PLUS, token.MINUS, token.SLASH, token.ASTERISK,
		token.EQ, token.NOT_EQ, token.LT, token.GT,
	} {
		p.infixParseFns[kind] = p.parseInfixExpression
	}
	p.infixParseFns[token.LPAREN] = p.parseCallExpression
	p.infixParseFns[token.LBRACKET] = p.parseIndexExpression

	// Read two tokens so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the parse error messages in the order they were found.
func (p *Parser) Errors() []string {
	return diag.Messages(p.diags)
}

// Diagnostics returns the parse errors with their codes and source spans.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	return p.diags
}

// ParseProgram parses statements until EOF and returns the program root. The tree is a
// best-effort result whenever Errors is non-empty.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Token = p.curToken
	start := p.curToken.Span.Start

	for !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	program.Span = span.Span{Start: start, End: p.curToken.Span.End}
	return program
}

// ---- navigation helpers ----

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(kind token.Kind) bool {
	return p.curToken.Kind == kind
}

func (p *Parser) peekTokenIs(kind token.Kind) bool {
	return p.peekToken.Kind == kind
}

// expectPeek advances when the next token has the wanted kind and records an error
// otherwise.
func (p *Parser) expectPeek(kind token.Kind) bool {
	if p.peekTokenIs(kind) {
		p.nextToken()
		return true
	}
	p.peekError(kind)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Kind]; ok {
		return prec
	}
	return precLowest
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Kind]; ok {
		return prec
	}
	return precLowest
}

// ---- errors ----

func (p *Parser) peekError(kind token.Kind) {
	p.diags = append(p.diags, diag.Errorf(diag.CodeExpectedToken, p.peekToken.Span,
		"expected next token to be %s, got %s instead", kind, p.peekToken.Kind))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	d := diag.Errorf(diag.CodeNoPrefixParse, tok.Span, "no prefix parse function for %s found", tok.Kind)
	if tok.Kind == token.ILLEGAL {
		d.Hint = "unexpected character " + strconv.Quote(tok.Literal)
	}
	p.diags = append(p.diags, d)
}

// ============================================================
// Statement parsing
// ============================================================

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Kind {
	case token.LET:
		if stmt := p.parseLetStatement(); stmt != nil {
			return stmt
		}
		return nil
	case token.RETURN:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseLetStatement parses: let IDENT = expr [;]
func (p *Parser) parseLetStatement() *ast.LetStatement {
	stmt := &ast.LetStatement{}
	stmt.Token = p.curToken

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.newIdentifier(p.curToken)

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()
	stmt.Value = p.parseExpression(precLowest)

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	stmt.Span = p.spanFrom(stmt.Token)
	return stmt
}

// parseReturnStatement parses: return [expr] [;]
func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{}
	stmt.Token = p.curToken

	if !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		stmt.ReturnValue = p.parseExpression(precLowest)
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	stmt.Span = p.spanFrom(stmt.Token)
	return stmt
}

// parseExpressionStatement parses a bare expression with an optional trailing ';'.
func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{}
	stmt.Token = p.curToken
	stmt.Expression = p.parseExpression(precLowest)

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	stmt.Span = p.spanFrom(stmt.Token)
	return stmt
}

// parseBlockStatement parses: { stmts }. curToken is the opening brace.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{}
	block.Token = p.curToken

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	if p.curTokenIs(token.EOF) {
		p.diags = append(p.diags, diag.Errorf(diag.CodeExpectedToken, p.curToken.Span,
			"expected next token to be %s, got %s instead", token.RBRACE, token.EOF))
	}

	block.Span = p.spanFrom(block.Token)
	return block
}

// ============================================================
// Expression parsing (Pratt / precedence climbing)
// ============================================================

// parseExpression parses an expression whose operators bind tighter than precedence.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Kind]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Kind]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) newIdentifier(tok token.Token) *ast.Identifier {
	ident := &ast.Identifier{Value: tok.Literal}
	ident.Token = tok
	ident.Span = tok.Span
	return ident
}

func (p *Parser) parseIdentifier() ast.Expression {
	return p.newIdentifier(p.curToken)
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.diags = append(p.diags, diag.Errorf(diag.CodeBadInteger, p.curToken.Span,
			"could not parse %s as integer", p.curToken.Literal))
		return nil
	}
	lit := &ast.IntegerLiteral{Value: value}
	lit.Token = p.curToken
	lit.Span = p.curToken.Span
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	lit := &ast.StringLiteral{Value: p.curToken.Literal}
	lit.Token = p.curToken
	lit.Span = p.curToken.Span
	return lit
}

func (p *Parser) parseBool() ast.Expression {
	lit := &ast.Bool{Value: p.curTokenIs(token.TRUE)}
	lit.Token = p.curToken
	lit.Span = p.curToken.Span
	return lit
}

// parsePrefixExpression parses: ! expr / - expr
func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Operator: p.curToken.Literal}
	expr.Token = p.curToken

	p.nextToken()
	expr.Right = p.parseExpression(precPrefix)

	expr.Span = p.spanFrom(expr.Token)
	return expr
}

// parseInfixExpression parses the right operand at the operator's own precedence,
// which makes binary operators left-associative.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Left: left, Operator: p.curToken.Literal}
	expr.Token = p.curToken

	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)

	expr.Span = p.spanFromNode(left, expr.Token)
	return expr
}

// parseGroupedExpression parses: ( expr )
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(precLowest)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// parseIfExpression parses: if ( expr ) block [ else block ]
func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{}
	expr.Token = p.curToken

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	expr.Condition = p.parseExpression(precLowest)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		expr.Alternative = p.parseBlockStatement()
	}

	expr.Span = p.spanFrom(expr.Token)
	return expr
}

// parseFunctionLiteral parses: fn ( params ) block
func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{}
	lit.Token = p.curToken

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	lit.Parameters = params

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	lit.Body = p.parseBlockStatement()

	lit.Span = p.spanFrom(lit.Token)
	return lit
}

// parseFunctionParameters parses: ident, ident, ... ) with curToken on '('.
func (p *Parser) parseFunctionParameters() ([]*ast.Identifier, bool) {
	var params []*ast.Identifier

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	if !p.expectPeek(token.IDENT) {
		return nil, false
	}
	params = append(params, p.newIdentifier(p.curToken))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // consume ','
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		params = append(params, p.newIdentifier(p.curToken))
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseCallExpression parses: callee ( args )
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Function: function}
	expr.Token = p.curToken

	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	expr.Arguments = args

	expr.Span = p.spanFromNode(function, expr.Token)
	return expr
}

// parseArrayLiteral parses: [ expr, expr, ... ]
func (p *Parser) parseArrayLiteral() ast.Expression {
	lit := &ast.ArrayLiteral{}
	lit.Token = p.curToken

	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	lit.Elements = elements

	lit.Span = p.spanFrom(lit.Token)
	return lit
}

// parseExpressionList parses a comma separated list closed by end. curToken is the
// opening delimiter.
func (p *Parser) parseExpressionList(end token.Kind) ([]ast.Expression, bool) {
	var list []ast.Expression

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	list = append(list, p.parseExpression(precLowest))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // consume ','
		p.nextToken()
		list = append(list, p.parseExpression(precLowest))
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

// parseIndexExpression parses: left [ expr ]
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Left: left}
	expr.Token = p.curToken

	p.nextToken()
	expr.Index = p.parseExpression(precLowest)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}

	expr.Span = p.spanFromNode(left, expr.Token)
	return expr
}

// parseHashLiteral parses: { key : value, ... }
func (p *Parser) parseHashLiteral() ast.Expression {
	lit := &ast.HashLiteral{}
	lit.Token = p.curToken

	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		key := p.parseExpression(precLowest)

		if !p.expectPeek(token.COLON) {
			return nil
		}

		p.nextToken()
		value := p.parseExpression(precLowest)
		lit.Pairs = append(lit.Pairs, ast.HashPair{Key: key, Value: value})

		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}

	lit.Span = p.spanFrom(lit.Token)
	return lit
}

// ============================================================
// Span helpers
// ============================================================

// spanFrom covers the source from start up to the current token.
func (p *Parser) spanFrom(start token.Token) span.Span {
	return start.Span.Join(p.curToken.Span)
}

// spanFromNode covers the source from the left operand up to the current token.
func (p *Parser) spanFromNode(left ast.Node, fallback token.Token) span.Span {
	if left == nil {
		return p.spanFrom(fallback)
	}
	return left.GetSpan().Join(p.curToken.Span)
}
