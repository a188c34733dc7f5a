package commands

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/parser"
	"github.com/josephlewis42/neoshell/core/vm"
)

const (
	repeatUse  = "repeat! COUNT &{ COMMAND... }"
	eachUse    = "each! &{ COMMAND... } VALUE..."
	includeUse = `include! "PATH"`

	// maxRepeatedCommands bounds the output of a single repeat!.
	maxRepeatedCommands = 1 << 20
)

// Repeat expands to COUNT copies of the commands in a block.
func Repeat(m *vm.VM, scope *vm.Scope, cmd *ast.Command) ([]*ast.Command, error) {
	if len(cmd.Arguments) != 2 {
		return nil, usageError(cmd, repeatUse, "expected 2 arguments, got %d", len(cmd.Arguments))
	}
	count, ok := cmd.Arguments[0].(ast.Integer)
	if !ok || count < 0 {
		return nil, usageError(cmd, repeatUse, "expected a count, got %s", Display(cmd.Arguments[0]))
	}
	block, ok := cmd.Arguments[1].(*ast.Block)
	if !ok {
		return nil, usageError(cmd, repeatUse, "expected a block, got %s", ast.KindOf(cmd.Arguments[1]))
	}

	if int64(count)*int64(len(block.Commands)) > maxRepeatedCommands {
		return nil, usageError(cmd, repeatUse, "expansion would exceed %d commands", maxRepeatedCommands)
	}

	out := make([]*ast.Command, 0, int(count)*len(block.Commands))
	for i := 0; i < int(count); i++ {
		out = append(out, block.Commands...)
	}
	return out, nil
}

// Each expands a block once per value, replacing every `~` in it with the
// value. Placeholders in nested blocks are replaced too.
func Each(m *vm.VM, scope *vm.Scope, cmd *ast.Command) ([]*ast.Command, error) {
	if len(cmd.Arguments) < 1 {
		return nil, usageError(cmd, eachUse, "missing block")
	}
	block, ok := cmd.Arguments[0].(*ast.Block)
	if !ok {
		return nil, usageError(cmd, eachUse, "expected a block, got %s", ast.KindOf(cmd.Arguments[0]))
	}

	var out []*ast.Command
	for _, value := range cmd.Arguments[1:] {
		expanded, err := substituteCommands(block.Commands, value)
		if err != nil {
			return nil, usageError(cmd, eachUse, "%v", err)
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func substituteCommands(cmds []*ast.Command, value ast.Argument) ([]*ast.Command, error) {
	out := make([]*ast.Command, len(cmds))
	for i, cmd := range cmds {
		name := cmd.Name
		if _, ok := name.(ast.Placeholder); ok {
			if name, ok = value.(ast.Name); !ok {
				return nil, fmt.Errorf("can't use a %s as a command name", ast.KindOf(value))
			}
		}

		var args []ast.Argument
		for _, arg := range cmd.Arguments {
			substituted, err := substituteArgument(arg, value)
			if err != nil {
				return nil, err
			}
			args = append(args, substituted)
		}
		out[i] = &ast.Command{Time: cmd.Time, Name: name, Arguments: args}
	}
	return out, nil
}

func substituteArgument(arg, value ast.Argument) (ast.Argument, error) {
	switch arg := arg.(type) {
	case ast.Placeholder:
		return value, nil
	case ast.Option:
		v, err := substituteArgument(arg.Value, value)
		if err != nil {
			return nil, err
		}
		return ast.Option{Name: arg.Name, Value: v}, nil
	case *ast.Block:
		cmds, err := substituteCommands(arg.Commands, value)
		if err != nil {
			return nil, err
		}
		if len(cmds) == 0 {
			cmds = nil
		}
		return &ast.Block{Kind: arg.Kind, Commands: cmds}, nil
	}
	return arg, nil
}

// Include expands to the commands of a script read from fs.
func Include(fs afero.Fs) vm.MacroFunc {
	return func(m *vm.VM, scope *vm.Scope, cmd *ast.Command) ([]*ast.Command, error) {
		if len(cmd.Arguments) != 1 {
			return nil, usageError(cmd, includeUse, "expected 1 argument, got %d", len(cmd.Arguments))
		}
		path, ok := nameOf(cmd.Arguments[0])
		if !ok {
			return nil, usageError(cmd, includeUse, "expected a path, got %s", ast.KindOf(cmd.Arguments[0]))
		}

		src, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, err
		}
		return parser.ParseFile(path, string(src))
	}
}

func init() {
	addMacro(repeatUse, "Repeat the commands of a block.", func(Env) vm.MacroFunc { return Repeat }, "repeat")
	addMacro(eachUse, "Expand a block once per value, replacing ~.", func(Env) vm.MacroFunc { return Each }, "each")
	addMacro(includeUse, "Splice in the commands of another script.", func(env Env) vm.MacroFunc { return Include(env.Fs) }, "include")
}
