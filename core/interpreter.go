package core

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/afero"

	"github.com/josephlewis42/neoshell/commands"
	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/config"
	"github.com/josephlewis42/neoshell/core/logger"
	"github.com/josephlewis42/neoshell/core/parser"
	"github.com/josephlewis42/neoshell/core/vm"
)

// Interpreter runs scripts against a VM with the builtin commands and a
// root scope that persists between runs.
type Interpreter struct {
	configuration *config.Configuration
	fs            afero.Fs
	vm            *vm.VM
	scope         *vm.Scope
	events        *logger.SessionLogger
	log           *log.Logger
	toClose       listCloser
}

type options struct {
	stdout   io.Writer
	stderr   io.Writer
	log      *log.Logger
	recorder *logger.Logger
}

// Option configures an Interpreter.
type Option func(*options)

// WithStdout sets the writer commands print to.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithStderr sets the writer commands report diagnostics to.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

// WithLogger sets the logger for interpreter diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithEventLogger records events to l instead of the configured event log.
func WithEventLogger(l *logger.Logger) Option {
	return func(o *options) { o.recorder = l }
}

// NewInterpreter creates an interpreter. Scripts and include! paths are
// resolved against fs.
func NewInterpreter(configuration *config.Configuration, fs afero.Fs, opts ...Option) (*Interpreter, error) {
	o := &options{
		stdout: io.Discard,
		stderr: io.Discard,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = log.New(o.stderr, "", 0)
	}

	var toClose listCloser
	if o.recorder == nil {
		fd, err := configuration.OpenEventLog()
		if err != nil {
			return nil, fmt.Errorf("opening event log: %w", err)
		}
		if fd != nil {
			toClose = append(toClose, fd)
			o.recorder = logger.NewJsonLinesLogRecorder(fd)
		} else {
			o.recorder = logger.Discard()
		}
	}
	events := o.recorder.NewSession()

	machine := vm.New(
		vm.WithStdout(o.stdout),
		vm.WithStderr(o.stderr),
		vm.WithTracer(events),
		vm.WithMaxExpansionDepth(configuration.MaxExpansionDepth),
		vm.WithMaxExpansions(configuration.MaxExpansions),
	)
	if err := commands.Register(machine.Registry(), commands.Env{Fs: fs}); err != nil {
		toClose.Close()
		return nil, err
	}

	if err := events.Start(); err != nil {
		o.log.Printf("recording events: %v\n", err)
	}

	return &Interpreter{
		configuration: configuration,
		fs:            fs,
		vm:            machine,
		scope:         vm.NewScope(),
		events:        events,
		log:           o.log,
		toClose:       toClose,
	}, nil
}

// RunSource parses and runs src in the root scope. The name is used in
// syntax errors and the event log.
func (i *Interpreter) RunSource(name, src string) (ast.Argument, error) {
	i.events.RunScript(name)

	cmds, err := parser.ParseFile(name, src)
	if err != nil {
		return nil, err
	}
	return i.vm.Run(i.scope, cmds)
}

// RunFile reads a script from the interpreter's filesystem and runs it.
func (i *Interpreter) RunFile(path string) (ast.Argument, error) {
	src, err := afero.ReadFile(i.fs, path)
	if err != nil {
		return nil, err
	}
	return i.RunSource(path, string(src))
}

// RunPrelude runs the prelude scripts of the configuration in order.
func (i *Interpreter) RunPrelude() error {
	for _, name := range i.configuration.Prelude {
		src, err := i.configuration.ReadPrelude(name)
		if err != nil {
			return fmt.Errorf("prelude: %w", err)
		}
		if _, err := i.RunSource(name, string(src)); err != nil {
			return fmt.Errorf("prelude: %w", err)
		}
	}
	return nil
}

// Scope returns the root scope.
func (i *Interpreter) Scope() *vm.Scope {
	return i.scope
}

// VM returns the virtual machine.
func (i *Interpreter) VM() *vm.VM {
	return i.vm
}

// Close records the end of the session and closes the event log.
func (i *Interpreter) Close() error {
	i.events.End()
	if err := i.toClose.Close(); err != nil {
		i.log.Printf("closing event log: %v\n", err)
		return err
	}
	if err := i.events.Err(); err != nil {
		return fmt.Errorf("recording events: %w", err)
	}
	return nil
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
