package core

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/abiosoft/readline"
	"github.com/anmitsu/go-shlex"

	"github.com/josephlewis42/neoshell/commands"
	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/config"
	"github.com/josephlewis42/neoshell/core/parser"
)

// ReplSource names the scripts typed into the shell.
const ReplSource = "<repl>"

// Shell is an interactive read-eval-print loop around an Interpreter.
//
// Lines starting with ':' are shell commands, everything else is source.
// Source that ends in the middle of a command is kept until a later line
// completes it.
type Shell struct {
	Readline *readline.Instance

	interpreter *Interpreter
	prompt      config.Prompt
	stdout      io.Writer
	stderr      io.Writer
	pending     strings.Builder
	quit        bool
}

// NewShell creates a shell reading from stdin. History is kept in the file
// named by the configuration.
func NewShell(interpreter *Interpreter, configuration *config.Configuration, stdin io.ReadCloser, stdout, stderr io.Writer, isTerminal bool) (*Shell, error) {
	cfg := &readline.Config{
		Prompt:      configuration.Prompt.Primary,
		HistoryFile: configuration.HistoryPath(),
		Stdin:       readline.NewCancelableStdin(stdin),
		Stdout:      stdout,
		Stderr:      stderr,
		FuncIsTerminal: func() bool {
			return isTerminal
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	shell := newShell(interpreter, configuration.Prompt, rl, stderr)
	shell.Readline = rl
	return shell, nil
}

func newShell(interpreter *Interpreter, prompt config.Prompt, stdout, stderr io.Writer) *Shell {
	return &Shell{
		interpreter: interpreter,
		prompt:      prompt,
		stdout:      stdout,
		stderr:      stderr,
	}
}

// Prompt returns the prompt for the next line.
func (s *Shell) Prompt() string {
	if s.pending.Len() > 0 {
		return s.prompt.Continuation
	}
	return s.prompt.Primary
}

// Run reads lines until the input is closed or :quit is entered.
func (s *Shell) Run() {
	for !s.quit {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return // Input closed, quit.

		case err == readline.ErrInterrupt:
			s.pending.Reset()

		case err != nil:
			log.Printf("Error readline: %v", err)
			continue

		default:
			s.HandleLine(line)
		}
	}
}

// HandleLine processes one line of input. It reports whether the shell
// should stop.
func (s *Shell) HandleLine(line string) bool {
	if s.pending.Len() == 0 {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			return s.quit
		case strings.HasPrefix(trimmed, ":"):
			s.meta(trimmed[1:])
			return s.quit
		}
	}

	s.pending.WriteString(line)
	s.pending.WriteString("\n")

	v, err := s.interpreter.RunSource(ReplSource, s.pending.String())
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.AtEOF() {
		return s.quit
	}
	s.pending.Reset()

	s.report(v, err)
	return s.quit
}

func (s *Shell) report(v ast.Argument, err error) {
	var syntaxErr *parser.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		fmt.Fprintf(s.stderr, "%v\n%s\n", err, syntaxErr.Snippet())
	case err != nil:
		fmt.Fprintf(s.stderr, "error: %v\n", err)
	default:
		if out := commands.Display(v); out != "" {
			fmt.Fprintln(s.stdout, out)
		}
	}
}

func (s *Shell) meta(line string) {
	tokens, err := shlex.Split(line, true)
	if err != nil {
		fmt.Fprintf(s.stderr, ":%s: %v\n", line, err)
		return
	}
	if len(tokens) == 0 {
		fmt.Fprintln(s.stderr, "missing shell command, try :help")
		return
	}

	switch tokens[0] {
	case "q", "quit", "exit":
		s.quit = true
	case "help":
		s.help()
	case "vars":
		s.vars()
	case "builtins":
		s.builtins()
	case "load":
		if len(tokens) != 2 {
			fmt.Fprintln(s.stderr, "usage: :load FILE")
			return
		}
		s.report(s.interpreter.RunFile(tokens[1]))
	default:
		fmt.Fprintf(s.stderr, ":%s: unknown shell command, try :help\n", tokens[0])
	}
}

func (s *Shell) help() {
	w := tabwriter.NewWriter(s.stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, ":load FILE\tRun a script in the current scope.")
	fmt.Fprintln(w, ":vars\tList the variables of the current scope.")
	fmt.Fprintln(w, ":builtins\tList the registered commands.")
	fmt.Fprintln(w, ":quit\tLeave the shell.")
}

func (s *Shell) vars() {
	w := tabwriter.NewWriter(s.stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	scope := s.interpreter.Scope()
	for _, name := range scope.Names() {
		v, _ := scope.LookupLocal(name)
		value, ok := v.Value()
		if !ok {
			fmt.Fprintf(w, "$%s\tcommand\t-\n", name)
			continue
		}
		formatted, err := ast.FormatArgument(value)
		if err != nil {
			formatted = "<" + ast.KindOf(value) + ">"
		}
		fmt.Fprintf(w, "$%s\t%s\t%s\n", name, ast.KindOf(value), formatted)
	}
}

func (s *Shell) builtins() {
	w := tabwriter.NewWriter(s.stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	registry := s.interpreter.VM().Registry()
	for _, phase := range []ast.Time{ast.CompileTime, ast.Macro, ast.Runtime} {
		for _, name := range registry.Names(phase) {
			fmt.Fprintf(w, "%s\t%s\n", phase, name)
		}
	}
}

// Close releases the terminal.
func (s *Shell) Close() error {
	if s.Readline == nil {
		return nil
	}
	return s.Readline.Close()
}
