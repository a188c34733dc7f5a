package commands

import (
	"github.com/josephlewis42/neoshell/core/arguments"
	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/vm"
)

const (
	setUse    = "set [+update] NAME VALUE"
	getUse    = "get NAME"
	typeofUse = "typeof VALUE"
)

// Set binds a variable in the current scope and returns its value. With
// +update the nearest existing binding is assigned instead.
func Set(m *vm.VM, scope *vm.Scope, cmd *ast.Command) (ast.Argument, error) {
	args := arguments.Collect(cmd.Arguments)
	if err := arguments.CheckKnown(args, "update"); err != nil {
		return nil, usageError(cmd, setUse, "%v", err)
	}
	update, err := arguments.Resolve[bool](args, "update", arguments.EnablingSwitch[bool]{Enabled: true})
	if err != nil {
		return nil, usageError(cmd, setUse, "%v", err)
	}

	if len(args.Positionals) != 2 {
		return nil, usageError(cmd, setUse, "expected 2 arguments, got %d", len(args.Positionals))
	}
	name, ok := nameOf(args.Positionals[0])
	if !ok || !ast.IsVarName(name) {
		return nil, usageError(cmd, setUse, "invalid variable name %s", Display(args.Positionals[0]))
	}
	value := args.Positionals[1]

	if update {
		if err := scope.Assign(name, value); err != nil {
			return nil, err
		}
		return value, nil
	}

	scope.Declare(name, vm.Value(value))
	return value, nil
}

// Get returns the value of a variable.
func Get(m *vm.VM, scope *vm.Scope, cmd *ast.Command) (ast.Argument, error) {
	if len(cmd.Arguments) != 1 {
		return nil, usageError(cmd, getUse, "expected 1 argument, got %d", len(cmd.Arguments))
	}
	name, ok := nameOf(cmd.Arguments[0])
	if !ok {
		return nil, usageError(cmd, getUse, "invalid variable name %s", Display(cmd.Arguments[0]))
	}

	v, ok := scope.Lookup(name)
	if !ok {
		return nil, &vm.UndefinedVariableError{Name: name}
	}
	value, ok := v.Value()
	if !ok {
		return nil, usageError(cmd, getUse, "$%s is a bound command", name)
	}
	return value, nil
}

// Typeof returns the kind of its argument as a string.
func Typeof(m *vm.VM, scope *vm.Scope, cmd *ast.Command) (ast.Argument, error) {
	if len(cmd.Arguments) != 1 {
		return nil, usageError(cmd, typeofUse, "expected 1 argument, got %d", len(cmd.Arguments))
	}
	return ast.String(ast.KindOf(cmd.Arguments[0])), nil
}

func init() {
	addRuntimeCmd(setUse, "Bind a variable in the current scope.", Set, "set")
	addRuntimeCmd(getUse, "Return the value of a variable.", Get, "get")
	addRuntimeCmd(typeofUse, "Return the kind of a value.", Typeof, "typeof")
}
