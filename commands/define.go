package commands

import (
	"strconv"

	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/vm"
)

const (
	aliasUse  = "!alias NEW EXISTING"
	defineUse = "!define NAME &{ COMMAND... }"
)

// Alias registers the runtime command bound to EXISTING under NEW too.
func Alias(m *vm.VM, scope *vm.Scope, cmd *ast.Command) error {
	if len(cmd.Arguments) != 2 {
		return usageError(cmd, aliasUse, "expected 2 arguments, got %d", len(cmd.Arguments))
	}
	alias, ok := identifier(cmd.Arguments[0])
	if !ok {
		return usageError(cmd, aliasUse, "invalid command name %s", Display(cmd.Arguments[0]))
	}
	existing, ok := identifier(cmd.Arguments[1])
	if !ok {
		return usageError(cmd, aliasUse, "invalid command name %s", Display(cmd.Arguments[1]))
	}

	executor, ok := m.Registry().LookupRuntime(existing)
	if !ok {
		return &vm.CommandNotFoundError{Phase: ast.Runtime, Name: existing}
	}
	m.Registry().RegisterRuntime(alias, executor)
	return nil
}

// Define registers a runtime command running a block. The block runs in a
// fresh scope below the caller's with $0 bound to the command name and $1
// onwards to its arguments.
func Define(m *vm.VM, scope *vm.Scope, cmd *ast.Command) error {
	if len(cmd.Arguments) != 2 {
		return usageError(cmd, defineUse, "expected 2 arguments, got %d", len(cmd.Arguments))
	}
	name, ok := identifier(cmd.Arguments[0])
	if !ok {
		return usageError(cmd, defineUse, "invalid command name %s", Display(cmd.Arguments[0]))
	}
	block, ok := cmd.Arguments[1].(*ast.Block)
	if !ok {
		return usageError(cmd, defineUse, "expected a block, got %s", ast.KindOf(cmd.Arguments[1]))
	}

	body, err := m.Compile(scope, block.Commands)
	if err != nil {
		return err
	}

	m.Registry().RegisterRuntime(name, &definedCommand{
		name: name,
		body: &ast.Block{Kind: ast.Quoted, Commands: body},
	})
	return nil
}

type definedCommand struct {
	name string
	body *ast.Block
}

func (d *definedCommand) Execute(m *vm.VM, scope *vm.Scope, cmd *ast.Command) (ast.Argument, error) {
	vars := map[string]ast.Argument{"0": ast.String(d.name)}
	for i, arg := range cmd.Arguments {
		vars[strconv.Itoa(i+1)] = arg
	}

	return inChildScope(scope, vars, func(child *vm.Scope) (ast.Argument, error) {
		return m.Execute(child, d.body.Commands)
	})
}

var _ vm.RuntimeCommand = (*definedCommand)(nil)

func identifier(arg ast.Argument) (string, bool) {
	name, ok := nameOf(arg)
	return name, ok && ast.IsIdentifier(name)
}

func init() {
	addCompileTimeCmd(aliasUse, "Make a runtime command available under another name.", Alias, "alias")
	addCompileTimeCmd(defineUse, "Define a runtime command from a block.", Define, "define")
}
