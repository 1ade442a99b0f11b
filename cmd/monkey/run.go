package main

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"monkey-lang/internal/diag"
	"monkey-lang/internal/lexer"
	"monkey-lang/internal/parser"
	"monkey-lang/internal/runtime"
)

// maxParallelFiles bounds how many files run evaluates at once.
const maxParallelFiles = 8

// fileResult is the outcome of evaluating one file.
type fileResult struct {
	name   string
	output bytes.Buffer
	diags  []diag.Diagnostic
	result runtime.Value
}

func (r *fileResult) failed() bool {
	return len(r.diags) > 0 || runtime.IsError(r.result)
}

// ---- run command ----

// cmdRun evaluates every file concurrently, one environment per file, and prints
// the buffered output in argument order.
func (s *session) cmdRun(ctx *cli.Context) error {
	files := ctx.Args()
	if len(files) == 0 {
		return fmt.Errorf("run: missing file argument")
	}

	results := make([]*fileResult, len(files))
	g, gctx := errgroup.WithContext(context.Background())
	g.SetLimit(maxParallelFiles)
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.runFile(name)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failures := 0
	for _, res := range results {
		s.stdout.Write(res.output.Bytes())
		if len(res.diags) > 0 {
			printParseErrors(s.stderr, diag.Messages(res.diags))
		} else if runtime.IsError(res.result) {
			fmt.Fprintf(s.stderr, "%s: %s\n", res.name, res.result.Inspect())
		}
		if res.failed() {
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failures, len(files))
	}
	return nil
}

// runFile parses and evaluates one file in a fresh environment. Only host errors
// such as unreadable files are returned as Go errors.
func (s *session) runFile(name string) (*fileResult, error) {
	source, err := readSource(name)
	if err != nil {
		return nil, err
	}

	res := &fileResult{name: name}
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if res.diags = p.Diagnostics(); len(res.diags) > 0 {
		s.logger.Debug("parse failed", "file", name, "errors", len(res.diags))
		return res, nil
	}

	s.logger.Debug("evaluating", "file", name)
	res.result = s.newInterpreter(&res.output).Eval(program, runtime.NewEnvironment())
	s.logger.Debug("evaluated", "file", name, "type", res.result.Type())
	return res, nil
}
