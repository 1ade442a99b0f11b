package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"

	"monkey-lang/internal/ast"
	"monkey-lang/internal/config"
	"monkey-lang/internal/lexer"
	"monkey-lang/internal/parser"
	"monkey-lang/internal/runtime"
	"monkey-lang/internal/token"
)

const monkeyFace = `            __,__
   .--.  .-"     "-.  .--.
  / .. \/  .-. .-.  \/ .. \
 | |  '|  /   Y   \  |'  | |
 | \   \  \ 0 | 0 /  /   / |
  \ '- ,\.-"""""""-./, -' /
   ''-' /_   ^ ^   _\ '-''
       |  \._   _./  |
       \   \ '~' /   /
        '._ '-=-' _.'
           '-----'
`

// ---- colors ----

// palette holds the REPL colors. Every color is disabled when output is plain.
type palette struct {
	prompt *color.Color
	cont   *color.Color
	result *color.Color
	err    *color.Color
	hint   *color.Color
}

func newPalette(enabled bool) *palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &palette{
		prompt: mk(color.FgGreen),
		cont:   mk(color.FgHiBlack),
		result: mk(color.FgCyan),
		err:    mk(color.FgRed),
		hint:   mk(color.FgHiBlack),
	}
}

// colorEnabled resolves a color mode against the output file.
func colorEnabled(mode string, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ---- repl command ----

func (s *session) cmdRepl(ctx *cli.Context) error {
	colors := newPalette(colorEnabled(s.cfg.Color, os.Stdout))
	env := runtime.NewEnvironment()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            colors.prompt.Sprint(s.cfg.Prompt),
		HistoryFile:       config.ExpandHome(s.cfg.HistoryFile),
		AutoComplete:      &completer{env: env},
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	s.logger.Debug("repl started", "history", s.cfg.HistoryFile)
	fmt.Fprintln(rl.Stdout(), "Hello user! This is the Monkey programming language!")
	fmt.Fprintln(rl.Stdout(), colors.hint.Sprint("Feel free to type in commands (exit or Ctrl+D to quit)"))

	r := &repl{
		interp: s.newInterpreter(rl.Stdout()),
		env:    env,
		colors: colors,
	}

	var accumulated strings.Builder
	for {
		if accumulated.Len() > 0 {
			rl.SetPrompt(colors.cont.Sprint("... "))
		} else {
			rl.SetPrompt(colors.prompt.Sprint(s.cfg.Prompt))
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if accumulated.Len() > 0 {
					accumulated.Reset()
					continue
				}
				fmt.Fprintln(rl.Stdout(), colors.hint.Sprint("(use exit or Ctrl+D to quit)"))
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
				break
			}
			return err
		}

		if accumulated.Len() == 0 && strings.TrimSpace(line) == "exit" {
			break
		}

		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if braceBalance(accumulated.String()) > 0 {
			continue
		}

		source := accumulated.String()
		accumulated.Reset()
		r.evalInput(source, rl.Stdout())
	}
	s.logger.Debug("repl finished")
	return nil
}

// repl evaluates input lines against one persistent environment.
type repl struct {
	interp *runtime.Interpreter
	env    *runtime.Environment
	colors *palette
}

// evalInput parses and evaluates one complete input, printing the parse-error banner
// or the inspection of the result.
func (r *repl) evalInput(source string, w io.Writer) {
	if strings.TrimSpace(source) == "" {
		return
	}

	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		printParseErrors(w, errs)
		return
	}

	result := r.interp.Eval(program, r.env)
	switch {
	case runtime.IsError(result):
		fmt.Fprintln(w, r.colors.err.Sprint(result.Inspect()))
	case endsWithLet(program):
	default:
		fmt.Fprintln(w, r.colors.result.Sprint(result.Inspect()))
	}
}

// endsWithLet reports whether the last statement is a binding, whose null result is
// not echoed.
func endsWithLet(program *ast.Program) bool {
	if len(program.Statements) == 0 {
		return true
	}
	_, ok := program.Statements[len(program.Statements)-1].(*ast.LetStatement)
	return ok
}

func printParseErrors(w io.Writer, errs []string) {
	fmt.Fprint(w, monkeyFace)
	fmt.Fprintln(w, "Woops! We ran into some monkey business here!")
	fmt.Fprintln(w, " parser errors:")
	for _, msg := range errs {
		fmt.Fprintf(w, "\t%s\n", msg)
	}
}

// braceBalance returns open minus closed braces, ignoring braces inside string literals.
func braceBalance(source string) int {
	depth := 0
	inString := false
	for _, ch := range source {
		switch {
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
		}
	}
	return depth
}

// ---- completion ----

// completer completes keywords, built-ins and names bound in the REPL environment.
type completer struct {
	env *runtime.Environment
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && isIdentRune(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	var out [][]rune
	for _, name := range c.candidates() {
		if strings.HasPrefix(name, prefix) && name != prefix {
			out = append(out, []rune(name[len(prefix):]))
		}
	}
	return out, pos - start
}

// candidates returns every completable name, sorted and without duplicates.
func (c *completer) candidates() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(list []string) {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	add(token.Keywords())
	add(runtime.BuiltinNames())
	if c.env != nil {
		add(c.env.Names())
	}
	sort.Strings(names)
	return names
}

func isIdentRune(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
