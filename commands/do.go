package commands

import (
	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/vm"
)

const doUse = "do &{ COMMAND... }"

// Do runs a quoted block in a child scope and returns its last value.
// Anything else is returned as is, so evaluated blocks work too.
func Do(m *vm.VM, scope *vm.Scope, cmd *ast.Command) (ast.Argument, error) {
	if len(cmd.Arguments) != 1 {
		return nil, usageError(cmd, doUse, "expected 1 argument, got %d", len(cmd.Arguments))
	}

	block, ok := cmd.Arguments[0].(*ast.Block)
	if !ok {
		return cmd.Arguments[0], nil
	}
	return inChildScope(scope, nil, func(child *vm.Scope) (ast.Argument, error) {
		return m.Run(child, block.Commands)
	})
}

// inChildScope calls f with a child of scope holding vars. The child is
// closed when f returns.
func inChildScope(scope *vm.Scope, vars map[string]ast.Argument, f func(child *vm.Scope) (ast.Argument, error)) (ast.Argument, error) {
	child := scope.Extend()
	defer child.Close()

	for name, value := range vars {
		child.Declare(name, vm.Value(value))
	}
	return f(child)
}

func init() {
	addRuntimeCmd(doUse, "Run a block in a new scope.", Do, "do")
}
