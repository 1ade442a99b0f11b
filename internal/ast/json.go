package ast

import (
	"monkey-lang/internal/span"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil || isNilNode(node) {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return m("Program", n.Span, "statements", stmtSlice(n.Statements))

	// ---- Statements ----
	case *LetStatement:
		return m("LetStatement", n.Span,
			"name", NodeToMap(n.Name),
			"value", NodeToMap(n.Value))
	case *ReturnStatement:
		result := m("ReturnStatement", n.Span)
		if n.ReturnValue != nil {
			result["value"] = NodeToMap(n.ReturnValue)
		}
		return result
	case *ExpressionStatement:
		return m("ExpressionStatement", n.Span, "expression", NodeToMap(n.Expression))
	case *BlockStatement:
		return m("BlockStatement", n.Span, "statements", stmtSlice(n.Statements))

	// ---- Expressions ----
	case *Identifier:
		return m("Identifier", n.Span, "value", n.Value)
	case *IntegerLiteral:
		return m("IntegerLiteral", n.Span, "value", n.Value)
	case *Bool:
		return m("Bool", n.Span, "value", n.Value)
	case *StringLiteral:
		return m("StringLiteral", n.Span, "value", n.Value)
	case *PrefixExpression:
		return m("PrefixExpression", n.Span, "operator", n.Operator, "right", NodeToMap(n.Right))
	case *InfixExpression:
		return m("InfixExpression", n.Span,
			"operator", n.Operator,
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *IfExpression:
		result := m("IfExpression", n.Span,
			"condition", NodeToMap(n.Condition),
			"consequence", NodeToMap(n.Consequence))
		if n.Alternative != nil {
			result["alternative"] = NodeToMap(n.Alternative)
		}
		return result
	case *FunctionLiteral:
		params := make([]interface{}, len(n.Parameters))
		for i, p := range n.Parameters {
			params[i] = p.Value
		}
		return m("FunctionLiteral", n.Span, "parameters", params, "body", NodeToMap(n.Body))
	case *CallExpression:
		return m("CallExpression", n.Span,
			"function", NodeToMap(n.Function),
			"arguments", exprSlice(n.Arguments))
	case *ArrayLiteral:
		return m("ArrayLiteral", n.Span, "elements", exprSlice(n.Elements))
	case *IndexExpression:
		return m("IndexExpression", n.Span,
			"left", NodeToMap(n.Left),
			"index", NodeToMap(n.Index))
	case *HashLiteral:
		pairs := make([]interface{}, len(n.Pairs))
		for i, p := range n.Pairs {
			pairs[i] = map[string]interface{}{
				"key":   NodeToMap(p.Key),
				"value": NodeToMap(p.Value),
			}
		}
		return m("HashLiteral", n.Span, "pairs", pairs)

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"offset": s.Start.Offset,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"offset": s.End.Offset,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func stmtSlice(stmts []Statement) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func exprSlice(exprs []Expression) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}
