package ast

import "strings"

// Canonical rendering. Prefix, infix and index expressions are fully parenthesized so
// the rendering of a tree parses back into the same tree.

func (p *Program) String() string { return joinStatements(p.Statements) }

func (s *LetStatement) String() string {
	return s.TokenLiteral() + " " + str(s.Name) + " = " + str(s.Value) + ";"
}

func (s *ReturnStatement) String() string {
	if s.ReturnValue == nil {
		return s.TokenLiteral() + ";"
	}
	return s.TokenLiteral() + " " + s.ReturnValue.String() + ";"
}

func (s *ExpressionStatement) String() string { return str(s.Expression) }

func (b *BlockStatement) String() string {
	if len(b.Statements) == 0 {
		return "{ }"
	}
	return "{ " + joinStatements(b.Statements) + " }"
}

func (e *Identifier) String() string     { return e.Value }
func (e *IntegerLiteral) String() string { return e.Token.Literal }
func (e *Bool) String() string           { return e.Token.Literal }
func (e *StringLiteral) String() string  { return `"` + e.Value + `"` }

func (e *PrefixExpression) String() string {
	return "(" + e.Operator + str(e.Right) + ")"
}

func (e *InfixExpression) String() string {
	return "(" + str(e.Left) + " " + e.Operator + " " + str(e.Right) + ")"
}

func (e *IfExpression) String() string {
	var out strings.Builder
	out.WriteString("if (")
	out.WriteString(str(e.Condition))
	out.WriteString(") ")
	out.WriteString(blockStr(e.Consequence))
	if e.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(e.Alternative.String())
	}
	return out.String()
}

func (e *FunctionLiteral) String() string {
	params := make([]string, len(e.Parameters))
	for i, p := range e.Parameters {
		params[i] = p.String()
	}
	return e.TokenLiteral() + "(" + strings.Join(params, ", ") + ") " + blockStr(e.Body)
}

func (e *CallExpression) String() string {
	return str(e.Function) + "(" + joinExpressions(e.Arguments) + ")"
}

func (e *ArrayLiteral) String() string {
	return "[" + joinExpressions(e.Elements) + "]"
}

func (e *IndexExpression) String() string {
	return "(" + str(e.Left) + "[" + str(e.Index) + "])"
}

func (e *HashLiteral) String() string {
	pairs := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		pairs[i] = str(p.Key) + ": " + str(p.Value)
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// ---- helpers ----

// str renders a possibly-absent node. The parser leaves children nil after errors.
func str(n Node) string {
	if n == nil || isNilNode(n) {
		return ""
	}
	return n.String()
}

// isNilNode reports a typed nil pointer stored in an interface.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Identifier:
		return v == nil
	case *BlockStatement:
		return v == nil
	}
	return false
}

func blockStr(b *BlockStatement) string {
	if b == nil {
		return "{ }"
	}
	return b.String()
}

// joinStatements separates statements with "; " unless a rendering already ends in one.
func joinStatements(stmts []Statement) string {
	var out strings.Builder
	for i, s := range stmts {
		text := str(s)
		out.WriteString(text)
		if i == len(stmts)-1 {
			break
		}
		if !strings.HasSuffix(text, ";") {
			out.WriteString(";")
		}
		out.WriteString(" ")
	}
	return out.String()
}

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = str(e)
	}
	return strings.Join(parts, ", ")
}
