package vm

import "github.com/josephlewis42/neoshell/core/ast"

// CompileTimeCommand is an executor for `!name` commands. It runs before the
// program and may change the VM, e.g. by registering commands.
type CompileTimeCommand interface {
	Compile(vm *VM, scope *Scope, cmd *ast.Command) error
}

// MacroCommand is an executor for `name!` commands. The commands it returns
// replace the macro and are processed in turn.
type MacroCommand interface {
	Expand(vm *VM, scope *Scope, cmd *ast.Command) ([]*ast.Command, error)
}

// RuntimeCommand is an executor for plain commands.
type RuntimeCommand interface {
	Execute(vm *VM, scope *Scope, cmd *ast.Command) (ast.Argument, error)
}

// CompileTimeFunc adapts a function to CompileTimeCommand.
type CompileTimeFunc func(vm *VM, scope *Scope, cmd *ast.Command) error

func (f CompileTimeFunc) Compile(vm *VM, scope *Scope, cmd *ast.Command) error {
	return f(vm, scope, cmd)
}

// MacroFunc adapts a function to MacroCommand.
type MacroFunc func(vm *VM, scope *Scope, cmd *ast.Command) ([]*ast.Command, error)

func (f MacroFunc) Expand(vm *VM, scope *Scope, cmd *ast.Command) ([]*ast.Command, error) {
	return f(vm, scope, cmd)
}

// RuntimeFunc adapts a function to RuntimeCommand.
type RuntimeFunc func(vm *VM, scope *Scope, cmd *ast.Command) (ast.Argument, error)

func (f RuntimeFunc) Execute(vm *VM, scope *Scope, cmd *ast.Command) (ast.Argument, error) {
	return f(vm, scope, cmd)
}

var (
	_ CompileTimeCommand = (CompileTimeFunc)(nil)
	_ MacroCommand       = (MacroFunc)(nil)
	_ RuntimeCommand     = (RuntimeFunc)(nil)
)
