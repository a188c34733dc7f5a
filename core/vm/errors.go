package vm

import (
	"errors"
	"fmt"

	"github.com/josephlewis42/neoshell/core/ast"
)

var (
	// ErrInvalidPlaceholderUse is returned when a `~` placeholder reaches
	// execution, either as a command name or as a runtime argument.
	ErrInvalidPlaceholderUse = errors.New("placeholders are only valid inside macro definitions")

	// ErrInvalidVariableCommandUse is returned when a `$name` is used where an
	// executable command name is required.
	ErrInvalidVariableCommandUse = errors.New("variables can't be used as command names")

	// ErrUnsupported marks behavior that is declared but not implemented, like
	// bound command variables.
	ErrUnsupported = errors.New("unsupported")

	// ErrExecutorKind is returned when registering an executor under a phase
	// whose capability it doesn't implement.
	ErrExecutorKind = errors.New("executor doesn't implement the phase capability")
)

// CommandNotFoundError is returned when no executor is registered for a name
// in the requested phase.
type CommandNotFoundError struct {
	Phase ast.Time
	Name  string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("%s command %q not found", e.Phase, e.Name)
}

// PhaseMismatchError is the panic value used when a command is dispatched
// through a phase other than its own. It is a programming error.
type PhaseMismatchError struct {
	Requested ast.Time
	Command   ast.Time
}

func (e *PhaseMismatchError) Error() string {
	return fmt.Sprintf("can't execute a %s command in the %s phase", e.Command, e.Requested)
}

// MacroExpansionLimitError is returned when macro expansion nests deeper, or
// runs more often, than the VM allows.
type MacroExpansionLimitError struct {
	Name  string
	Depth int
	Count int
	Limit int
}

func (e *MacroExpansionLimitError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("macro %q: expansion limit exceeded after %d expansions (limit %d)", e.Name, e.Count, e.Limit)
	}
	return fmt.Sprintf("macro %q: expansion depth %d exceeds limit %d", e.Name, e.Depth, e.Limit)
}

// UndefinedVariableError is returned when a variable isn't bound anywhere in
// the scope chain.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable $%s", e.Name)
}

// ExecutionError wraps a failure with the phase and name of the command that
// produced it.
type ExecutionError struct {
	Phase ast.Time
	Name  string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s command %q: %v", e.Phase, e.Name, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func wrapExecution(phase ast.Time, name string, err error) error {
	if err == nil {
		return nil
	}
	return &ExecutionError{Phase: phase, Name: name, Err: err}
}
