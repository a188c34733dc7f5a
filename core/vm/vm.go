// Package vm executes neoshell commands.
//
// Execution is staged. Run first compiles a program: compile-time commands
// are executed and dropped, macros are replaced by their expansion, and the
// commands of evaluated blocks are compiled the same way. The remaining
// runtime commands are then executed in order.
package vm

import (
	"fmt"
	"io"
	"time"

	"github.com/josephlewis42/neoshell/core/ast"
)

const (
	// DefaultMaxExpansionDepth bounds how deeply macro output may nest.
	DefaultMaxExpansionDepth = 64
	// DefaultMaxExpansions bounds the number of macro expansions per Compile.
	DefaultMaxExpansions = 10000
)

// Tracer is notified after every executor call.
type Tracer interface {
	TraceCommand(phase ast.Time, name string, elapsed time.Duration, err error)
}

// VM dispatches commands to the executors of its registry. It keeps no
// state between calls other than the registry and its options.
type VM struct {
	registry *Registry

	stdout io.Writer
	stderr io.Writer
	tracer Tracer
	now    func() time.Time

	maxExpansionDepth int
	maxExpansions     int
}

// Option configures a VM.
type Option func(*VM)

// WithRegistry makes the VM use an existing registry.
func WithRegistry(r *Registry) Option {
	return func(m *VM) { m.registry = r }
}

// WithStdout sets the writer commands print to.
func WithStdout(w io.Writer) Option {
	return func(m *VM) { m.stdout = w }
}

// WithStderr sets the writer commands report diagnostics to.
func WithStderr(w io.Writer) Option {
	return func(m *VM) { m.stderr = w }
}

// WithTracer sets the command tracer.
func WithTracer(t Tracer) Option {
	return func(m *VM) { m.tracer = t }
}

// WithClock sets the time source used to measure commands.
func WithClock(now func() time.Time) Option {
	return func(m *VM) { m.now = now }
}

// WithMaxExpansionDepth bounds how deeply macro output may nest.
func WithMaxExpansionDepth(n int) Option {
	return func(m *VM) { m.maxExpansionDepth = n }
}

// WithMaxExpansions bounds the number of macro expansions per Compile.
func WithMaxExpansions(n int) Option {
	return func(m *VM) { m.maxExpansions = n }
}

// New creates a VM.
func New(opts ...Option) *VM {
	m := &VM{
		registry:          NewRegistry(),
		stdout:            io.Discard,
		stderr:            io.Discard,
		now:               time.Now,
		maxExpansionDepth: DefaultMaxExpansionDepth,
		maxExpansions:     DefaultMaxExpansions,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the command registry.
func (m *VM) Registry() *Registry {
	return m.registry
}

// Stdout returns the writer commands print to.
func (m *VM) Stdout() io.Writer {
	return m.stdout
}

// Stderr returns the writer commands report diagnostics to.
func (m *VM) Stderr() io.Writer {
	return m.stderr
}

// Run compiles and then executes program in scope, returning the value of
// the last runtime command.
func (m *VM) Run(scope *Scope, program []*ast.Command) (ast.Argument, error) {
	compiled, err := m.Compile(scope, program)
	if err != nil {
		return nil, err
	}
	return m.Execute(scope, compiled)
}

// Execute runs compiled runtime commands in order and returns the value of
// the last one, or None for an empty program.
func (m *VM) Execute(scope *Scope, program []*ast.Command) (ast.Argument, error) {
	var last ast.Argument = ast.None{}
	for _, cmd := range program {
		v, err := m.ExecuteCommand(scope, cmd)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (m *VM) checkPhase(requested ast.Time, cmd *ast.Command) {
	if cmd.Time != requested {
		panic(&PhaseMismatchError{Requested: requested, Command: cmd.Time})
	}
}

// commandName resolves the name of cmd to an executable identifier.
func (m *VM) commandName(cmd *ast.Command) (string, error) {
	switch n := cmd.Name.(type) {
	case ast.Ident:
		return string(n), nil
	case ast.Placeholder:
		return "", fmt.Errorf("%s command ~: %w", cmd.Time, ErrInvalidPlaceholderUse)
	case ast.Var:
		return "", fmt.Errorf("%s command $%s: %w: bound commands are %w", cmd.Time, string(n), ErrInvalidVariableCommandUse, ErrUnsupported)
	}
	return "", fmt.Errorf("%s command: unknown name %T", cmd.Time, cmd.Name)
}

func (m *VM) trace(phase ast.Time, name string, start time.Time, err error) {
	if m.tracer != nil {
		m.tracer.TraceCommand(phase, name, m.now().Sub(start), err)
	}
}

// ExecuteCompileTime runs a compile-time command. The executor is taken out
// of the registry while it runs, so it may re-register commands, itself
// included; a replacement registered during the call is kept.
func (m *VM) ExecuteCompileTime(scope *Scope, cmd *ast.Command) error {
	m.checkPhase(ast.CompileTime, cmd)

	name, err := m.commandName(cmd)
	if err != nil {
		return err
	}

	taken, ok := m.registry.Take(ast.CompileTime, name)
	if !ok {
		return &CommandNotFoundError{Phase: ast.CompileTime, Name: name}
	}
	executor := taken.(CompileTimeCommand)
	defer func() {
		if _, replaced := m.registry.LookupCompileTime(name); !replaced {
			m.registry.RegisterCompileTime(name, executor)
		}
	}()

	start := m.now()
	err = executor.Compile(m, scope, cmd)
	m.trace(ast.CompileTime, name, start, err)
	return wrapExecution(ast.CompileTime, name, err)
}

// ExecuteMacro runs a macro and returns its expansion.
func (m *VM) ExecuteMacro(scope *Scope, cmd *ast.Command) ([]*ast.Command, error) {
	m.checkPhase(ast.Macro, cmd)

	name, err := m.commandName(cmd)
	if err != nil {
		return nil, err
	}

	executor, ok := m.registry.LookupMacro(name)
	if !ok {
		return nil, &CommandNotFoundError{Phase: ast.Macro, Name: name}
	}

	start := m.now()
	expansion, err := executor.Expand(m, scope, cmd)
	m.trace(ast.Macro, name, start, err)
	if err != nil {
		return nil, wrapExecution(ast.Macro, name, err)
	}
	return expansion, nil
}

// ExecuteCommand runs a runtime command and returns its value.
//
// Arguments are resolved first: variables are replaced by their values,
// evaluated blocks are compiled and run in a child scope and replaced by
// their result.
// Quoted blocks are passed as they are.
func (m *VM) ExecuteCommand(scope *Scope, cmd *ast.Command) (ast.Argument, error) {
	m.checkPhase(ast.Runtime, cmd)

	name, err := m.commandName(cmd)
	if err != nil {
		return nil, err
	}

	executor, ok := m.registry.LookupRuntime(name)
	if !ok {
		return nil, &CommandNotFoundError{Phase: ast.Runtime, Name: name}
	}

	args, err := m.resolveArguments(scope, cmd.Arguments)
	if err != nil {
		return nil, wrapExecution(ast.Runtime, name, err)
	}

	start := m.now()
	v, err := executor.Execute(m, scope, ast.Extend(cmd, args))
	m.trace(ast.Runtime, name, start, err)
	if err != nil {
		return nil, wrapExecution(ast.Runtime, name, err)
	}
	if v == nil {
		v = ast.None{}
	}
	return v, nil
}

func (m *VM) resolveArguments(scope *Scope, args []ast.Argument) ([]ast.Argument, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]ast.Argument, len(args))
	for i, arg := range args {
		v, err := m.resolveArgument(scope, arg)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *VM) resolveArgument(scope *Scope, arg ast.Argument) (ast.Argument, error) {
	switch arg := arg.(type) {
	case ast.Var:
		return m.resolveVariable(scope, string(arg))
	case ast.Placeholder:
		return nil, fmt.Errorf("argument ~: %w", ErrInvalidPlaceholderUse)
	case ast.Option:
		v, err := m.resolveArgument(scope, arg.Value)
		if err != nil {
			return nil, err
		}
		return ast.Option{Name: arg.Name, Value: v}, nil
	case *ast.Block:
		if arg.Kind != ast.Evaluated {
			return arg, nil
		}
		return m.evaluateBlock(scope, arg)
	}
	return arg, nil
}

func (m *VM) resolveVariable(scope *Scope, name string) (ast.Argument, error) {
	v, ok := scope.Lookup(name)
	if !ok {
		return nil, &UndefinedVariableError{Name: name}
	}
	value, ok := v.Value()
	if !ok {
		return nil, fmt.Errorf("$%s: bound commands are %w", name, ErrUnsupported)
	}
	return value, nil
}

func (m *VM) evaluateBlock(scope *Scope, block *ast.Block) (ast.Argument, error) {
	child := scope.Extend()
	defer child.Close()

	// Blocks of commands that didn't go through Compile may still hold
	// compile-time commands and macros.
	return m.Run(child, block.Commands)
}
