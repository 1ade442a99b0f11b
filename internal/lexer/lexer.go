// Package lexer implements the lexical analysis (tokenization) for monkey-lang.
//
// The lexer is pull-based: each call to NextToken scans exactly one token. It never
// reports errors itself; characters it cannot classify come back as ILLEGAL tokens and
// the parser decides what to do with them.
package lexer

import (
	"unicode/utf8"

	"monkey-lang/internal/span"
	"monkey-lang/internal/token"
)

// Lexer tokenizes source code into a sequence of tokens.
type Lexer struct {
	source string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)
}

// New creates a new Lexer for the given source text.
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		pos:    0,
		line:   1,
		col:    1,
	}
}

// Tokenize scans the remaining source and returns all tokens up to and including EOF.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// ---- internal helpers ----

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// curPos returns the current position as a span.Position.
func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// makeSpan returns a span from start to current position.
func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

// skipWhitespace skips spaces, tabs, newlines and carriage returns.
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\n', '\r':
			l.advance()
		default:
			return
		}
	}
}

// ---- token reading ----

// NextToken scans and returns the next token. Once the input is exhausted every
// further call returns an EOF token with an empty literal.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	start := l.curPos()
	if l.atEnd() {
		return token.Token{Kind: token.EOF, Literal: "", Span: l.makeSpan(start)}
	}

	ch := l.peek()

	if ch == '"' {
		return l.readString(start)
	}
	if isDigit(ch) {
		return l.readNumber(start)
	}
	if isLetter(ch) {
		return l.readIdentifier(start)
	}
	return l.readOperator(start)
}

// readString reads a double-quoted string literal. The content is taken verbatim; an
// unterminated literal runs to the end of input.
func (l *Lexer) readString(start span.Position) token.Token {
	l.advance() // skip opening "
	contentStart := l.pos

	for !l.atEnd() && l.peek() != '"' {
		l.advance()
	}
	value := l.source[contentStart:l.pos]
	if !l.atEnd() {
		l.advance() // skip closing "
	}
	return token.Token{Kind: token.STRING, Literal: value, Span: l.makeSpan(start)}
}

// readNumber reads a run of decimal digits.
func (l *Lexer) readNumber(start span.Position) token.Token {
	numStart := l.pos
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	return token.Token{Kind: token.INT, Literal: l.source[numStart:l.pos], Span: l.makeSpan(start)}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(start span.Position) token.Token {
	identStart := l.pos
	for !l.atEnd() && isLetter(l.peek()) {
		l.advance()
	}
	lexeme := l.source[identStart:l.pos]
	return token.Token{Kind: token.LookupIdent(lexeme), Literal: lexeme, Span: l.makeSpan(start)}
}

// readOperator reads an operator, a delimiter, or an ILLEGAL character.
func (l *Lexer) readOperator(start span.Position) token.Token {
	ch := l.peek()

	kind, ok := singleChar[ch]
	if ok {
		// two-character operators share their first byte with = and !
		if l.peekNext() == '=' {
			switch ch {
			case '=':
				l.advance()
				l.advance()
				return token.Token{Kind: token.EQ, Literal: "==", Span: l.makeSpan(start)}
			case '!':
				l.advance()
				l.advance()
				return token.Token{Kind: token.NOT_EQ, Literal: "!=", Span: l.makeSpan(start)}
			}
		}
		l.advance()
		return token.Token{Kind: kind, Literal: string(ch), Span: l.makeSpan(start)}
	}

	// Unknown character: take the whole UTF-8 rune so the literal stays printable.
	_, size := utf8.DecodeRuneInString(l.source[l.pos:])
	literal := l.source[l.pos : l.pos+size]
	for i := 0; i < size; i++ {
		l.advance()
	}
	return token.Token{Kind: token.ILLEGAL, Literal: literal, Span: l.makeSpan(start)}
}

var singleChar = map[byte]token.Kind{
	'=': token.ASSIGN,
	'+': token.PLUS,
	'-': token.MINUS,
	'!': token.BANG,
	'*': token.ASTERISK,
	'/': token.SLASH,
	'<': token.LT,
	'>': token.GT,
	',': token.COMMA,
	';': token.SEMICOLON,
	':': token.COLON,
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'[': token.LBRACKET,
	']': token.RBRACKET,
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
