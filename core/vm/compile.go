package vm

import (
	"github.com/josephlewis42/neoshell/core/ast"
)

// pending is a command waiting to be compiled, depth counts the macro
// expansions that produced it.
type pending struct {
	cmd   *ast.Command
	depth int
}

type compilation struct {
	vm         *VM
	scope      *Scope
	expansions int
}

// Compile executes the compile-time commands of program, expands its macros
// and returns the runtime commands that are left. Macro output is processed
// before the commands that followed the macro, so expansions keep their place
// in the program. Evaluated blocks are compiled too; quoted blocks are left
// for the command receiving them.
func (m *VM) Compile(scope *Scope, program []*ast.Command) ([]*ast.Command, error) {
	c := &compilation{vm: m, scope: scope}
	return c.commands(program, 0)
}

func (c *compilation) commands(program []*ast.Command, depth int) ([]*ast.Command, error) {
	queue := make([]pending, 0, len(program))
	for _, cmd := range program {
		queue = append(queue, pending{cmd: cmd, depth: depth})
	}

	var out []*ast.Command
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		switch p.cmd.Time {
		case ast.CompileTime:
			if err := c.vm.ExecuteCompileTime(c.scope, p.cmd); err != nil {
				return nil, err
			}

		case ast.Macro:
			if err := c.checkLimits(p); err != nil {
				return nil, err
			}
			expansion, err := c.vm.ExecuteMacro(c.scope, p.cmd)
			if err != nil {
				return nil, err
			}
			next := make([]pending, 0, len(expansion)+len(queue))
			for _, cmd := range expansion {
				next = append(next, pending{cmd: cmd, depth: p.depth + 1})
			}
			queue = append(next, queue...)

		default:
			cmd, err := c.arguments(p.cmd, p.depth)
			if err != nil {
				return nil, err
			}
			out = append(out, cmd)
		}
	}
	return out, nil
}

func (c *compilation) checkLimits(p pending) error {
	name := ""
	if ident, ok := p.cmd.Name.(ast.Ident); ok {
		name = string(ident)
	}
	if p.depth >= c.vm.maxExpansionDepth {
		return &MacroExpansionLimitError{Name: name, Depth: p.depth + 1, Limit: c.vm.maxExpansionDepth}
	}
	c.expansions++
	if c.expansions > c.vm.maxExpansions {
		return &MacroExpansionLimitError{Name: name, Count: c.expansions, Limit: c.vm.maxExpansions}
	}
	return nil
}

// arguments compiles the evaluated blocks found in the arguments of a runtime
// command. The command is copied only if one of its blocks changed.
func (c *compilation) arguments(cmd *ast.Command, depth int) (*ast.Command, error) {
	var args []ast.Argument
	for i, arg := range cmd.Arguments {
		compiled, err := c.argument(arg, depth)
		if err != nil {
			return nil, err
		}
		if args == nil && compiled != arg {
			args = make([]ast.Argument, len(cmd.Arguments))
			copy(args, cmd.Arguments[:i])
		}
		if args != nil {
			args[i] = compiled
		}
	}
	if args == nil {
		return cmd, nil
	}
	return ast.Extend(cmd, args), nil
}

func (c *compilation) argument(arg ast.Argument, depth int) (ast.Argument, error) {
	switch arg := arg.(type) {
	case *ast.Block:
		if arg.Kind != ast.Evaluated {
			return arg, nil
		}
		cmds, err := c.commands(arg.Commands, depth)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Kind: ast.Evaluated, Commands: cmds}, nil
	case ast.Option:
		v, err := c.argument(arg.Value, depth)
		if err != nil {
			return nil, err
		}
		if v == arg.Value {
			return arg, nil
		}
		return ast.Option{Name: arg.Name, Value: v}, nil
	}
	return arg, nil
}
