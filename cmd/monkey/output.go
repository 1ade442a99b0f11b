package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/urfave/cli.v1"

	"monkey-lang/internal/ast"
	"monkey-lang/internal/diag"
	"monkey-lang/internal/lexer"
	"monkey-lang/internal/parser"
	"monkey-lang/internal/token"
)

// ---- tokens command ----

func (s *session) cmdTokens(ctx *cli.Context) error {
	filename, err := fileArg(ctx)
	if err != nil {
		return err
	}
	source, err := readSource(filename)
	if err != nil {
		return err
	}
	s.logger.Debug("tokenizing", "file", filename)

	tokens := lexer.New(source).Tokenize()
	if ctx.Bool("json") {
		return printTokensJSON(s.stdout, tokens)
	}
	printTokensText(s.stdout, tokens)
	return nil
}

// ---- parse command ----

func (s *session) cmdParse(ctx *cli.Context) error {
	filename, err := fileArg(ctx)
	if err != nil {
		return err
	}
	source, err := readSource(filename)
	if err != nil {
		return err
	}
	s.logger.Debug("parsing", "file", filename)

	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	diags := p.Diagnostics()

	if ctx.Bool("json") {
		if err := printJSON(s.stdout, map[string]interface{}{
			"ast":         ast.NodeToMap(program),
			"diagnostics": diagsToSlice(diags),
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(s.stdout, program.String())
		printDiagsText(s.stderr, diags)
	}

	if len(diags) > 0 {
		return fmt.Errorf("%s: %d parse error(s)", filename, len(diags))
	}
	return nil
}

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

func printDiagsText(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
	}
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = map[string]interface{}{
			"code":     d.Code,
			"severity": d.Severity.String(),
			"message":  d.Message,
			"line":     d.Span.Start.Line,
			"column":   d.Span.Start.Column,
			"offset":   d.Span.Start.Offset,
		}
		if d.Hint != "" {
			result[i]["hint"] = d.Hint
		}
	}
	return result
}

// ---- token output helpers ----

func printTokensText(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(w, "%-10s %-20q %d:%d\n", tok.Kind, tok.Literal, tok.Span.Start.Line, tok.Span.Start.Column)
	}
}

func printTokensJSON(w io.Writer, tokens []token.Token) error {
	type tokenJSON struct {
		Kind    string `json:"kind"`
		Literal string `json:"literal"`
		Line    int    `json:"line"`
		Column  int    `json:"column"`
		Offset  int    `json:"offset"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		toks = append(toks, tokenJSON{
			Kind:    tok.Kind.String(),
			Literal: tok.Literal,
			Line:    tok.Span.Start.Line,
			Column:  tok.Span.Start.Column,
			Offset:  tok.Span.Start.Offset,
		})
	}
	return printJSON(w, map[string]interface{}{"tokens": toks})
}
