// Command monkey is the CLI entry point for the monkey-lang interpreter.
//
// Usage:
//
//	monkey                          Start interactive REPL
//	monkey repl                     Start interactive REPL
//	monkey run <file>...            Run source files
//	monkey tokens <file> [--json]   Print tokens
//	monkey parse <file> [--json]    Print the parsed program
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"monkey-lang/internal/config"
	"monkey-lang/internal/runtime"
)

const version = "0.3.0"

// logLevelVar adapts a slog.LevelVar to a command-line flag value.
type logLevelVar struct {
	levelVar *slog.LevelVar
}

func (v *logLevelVar) String() string {
	if v.levelVar == nil {
		return ""
	}
	return v.levelVar.Level().String()
}

func (v *logLevelVar) Set(s string) error {
	level, err := config.ParseLevel(s)
	if err != nil {
		return err
	}
	v.levelVar.Set(level)
	return nil
}

// session carries state shared by all commands of one invocation.
type session struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logLevel *slog.LevelVar
	logger   *slog.Logger
	cfg      *config.Config
}

func newSession(stdin io.Reader, stdout, stderr io.Writer) *session {
	return &session{
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		logLevel: new(slog.LevelVar),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:      config.Default(),
	}
}

func newApp(s *session) *cli.App {
	app := cli.NewApp()
	app.Name = "monkey"
	app.Usage = "interpreter for the Monkey programming language"
	app.Version = version
	app.Writer = s.stdout
	app.ErrWriter = s.stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration file (default: $HOME/" + config.DefaultFileName + ")",
		},
		cli.GenericFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, warn, error)",
			Value: &logLevelVar{levelVar: s.logLevel},
		},
		cli.StringFlag{
			Name:  "color",
			Usage: "colorize output (auto, always, never)",
		},
		cli.IntFlag{
			Name:  "max-steps",
			Usage: "abort evaluation after this many steps (0 = unlimited)",
		},
		cli.IntFlag{
			Name:  "max-depth",
			Usage: "abort evaluation beyond this call depth (0 = unlimited)",
		},
	}
	app.Before = s.setup
	app.Action = s.cmdRepl
	app.Commands = []cli.Command{
		{
			Name:   "repl",
			Usage:  "Start the interactive REPL",
			Action: s.cmdRepl,
		},
		{
			Name:      "run",
			Usage:     "Evaluate source files, each in its own environment",
			ArgsUsage: "<file>...",
			Action:    s.cmdRun,
		},
		{
			Name:      "tokens",
			Usage:     "Tokenize a file and print the tokens",
			ArgsUsage: "<file>",
			Flags:     []cli.Flag{cli.BoolFlag{Name: "json", Usage: "print JSON"}},
			Action:    s.cmdTokens,
		},
		{
			Name:      "parse",
			Usage:     "Parse a file and print the canonical program",
			ArgsUsage: "<file>",
			Flags:     []cli.Flag{cli.BoolFlag{Name: "json", Usage: "print the AST as JSON"}},
			Action:    s.cmdParse,
		},
	}
	return app
}

// setup loads the configuration, applies flag overrides and installs the logger.
func (s *session) setup(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if ctx.IsSet("color") {
		cfg.Color = ctx.String("color")
	}
	if ctx.IsSet("max-steps") {
		cfg.MaxSteps = ctx.Int("max-steps")
	}
	if ctx.IsSet("max-depth") {
		cfg.MaxDepth = ctx.Int("max-depth")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = s.logLevel.Level().String()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	s.logLevel.Set(level)
	s.logger = slog.New(slog.NewTextHandler(s.stderr, &slog.HandlerOptions{Level: s.logLevel}))
	slog.SetDefault(s.logger)

	s.cfg = cfg
	s.logger.Debug("configuration loaded", "path", cfg.Path, "color", cfg.Color,
		"max_steps", cfg.MaxSteps, "max_depth", cfg.MaxDepth)
	return nil
}

// newInterpreter builds an interpreter honoring the configured limits.
func (s *session) newInterpreter(output io.Writer) *runtime.Interpreter {
	return runtime.New(
		runtime.WithOutput(output),
		runtime.WithLogger(s.logger),
		runtime.WithStepLimit(s.cfg.MaxSteps),
		runtime.WithDepthLimit(s.cfg.MaxDepth),
	)
}

// fileArg returns the single file argument of a command.
func fileArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() < 1 {
		return "", fmt.Errorf("%s: missing file argument", ctx.Command.Name)
	}
	return ctx.Args().First(), nil
}

func readSource(filename string) (string, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("cannot read file %s: %w", filename, err)
	}
	return string(source), nil
}

func main() {
	s := newSession(os.Stdin, os.Stdout, os.Stderr)
	if err := newApp(s).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
