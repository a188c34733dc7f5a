package vm

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/parser"
)

// testVM has a runtime `emit` that prints its arguments, a runtime `value`
// returning its first argument, a macro `twice` duplicating its block and a
// compile-time `register` that adds runtime aliases of `emit`.
func testVM(t *testing.T, opts ...Option) (*VM, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	m := New(append([]Option{WithStdout(&out)}, opts...)...)
	r := m.Registry()

	emit := RuntimeFunc(func(vm *VM, scope *Scope, cmd *ast.Command) (ast.Argument, error) {
		for _, arg := range cmd.Arguments {
			s, err := ast.FormatArgument(arg)
			if err != nil {
				return nil, err
			}
			fmt.Fprint(vm.Stdout(), s, " ")
		}
		fmt.Fprintln(vm.Stdout())
		return nil, nil
	})
	r.RegisterRuntime("emit", emit)
	r.RegisterRuntime("value", RuntimeFunc(func(vm *VM, scope *Scope, cmd *ast.Command) (ast.Argument, error) {
		if len(cmd.Arguments) == 0 {
			return nil, errors.New("no value")
		}
		return cmd.Arguments[0], nil
	}))
	r.RegisterMacro("twice", MacroFunc(func(vm *VM, scope *Scope, cmd *ast.Command) ([]*ast.Command, error) {
		block := cmd.Arguments[0].(*ast.Block)
		return append(append([]*ast.Command(nil), block.Commands...), block.Commands...), nil
	}))
	r.RegisterCompileTime("register", CompileTimeFunc(func(vm *VM, scope *Scope, cmd *ast.Command) error {
		for _, arg := range cmd.Arguments {
			vm.Registry().RegisterRuntime(string(arg.(ast.Ident)), emit)
		}
		return nil
	}))
	return m, &out
}

func mustRun(t *testing.T, m *VM, scope *Scope, cmds ...*ast.Command) ast.Argument {
	t.Helper()
	v, err := m.Run(scope, cmds)
	require.NoError(t, err)
	return v
}

func TestVM_Run(t *testing.T) {
	m, out := testVM(t)

	v := mustRun(t, m, NewScope(),
		ast.NewCommand(ast.CompileTime, ast.Ident("register"), ast.Ident("say")),
		ast.NewCommand(ast.Runtime, ast.Ident("say"), ast.Integer(1)),
		ast.NewCommand(ast.Macro, ast.Ident("twice"), &ast.Block{Kind: ast.Quoted, Commands: []*ast.Command{
			ast.NewCommand(ast.Runtime, ast.Ident("emit"), ast.String("x")),
		}}),
		ast.NewCommand(ast.Runtime, ast.Ident("value"), ast.Integer(9)),
	)

	assert.Equal(t, ast.Integer(9), v)
	assert.Equal(t, "1 \n\"x\" \n\"x\" \n", out.String())
}

func TestVM_Execute_empty(t *testing.T) {
	m, _ := testVM(t)
	v, err := m.Execute(NewScope(), nil)
	require.NoError(t, err)
	assert.Equal(t, ast.None{}, v)
}

func TestVM_ExecuteCommand_none(t *testing.T) {
	m, _ := testVM(t)
	v, err := m.ExecuteCommand(NewScope(), ast.NewCommand(ast.Runtime, ast.Ident("emit")))
	require.NoError(t, err)
	assert.Equal(t, ast.None{}, v, "nil results become None")
}

func TestVM_Compile(t *testing.T) {
	m, _ := testVM(t)

	inner := ast.NewCommand(ast.Macro, ast.Ident("twice"), &ast.Block{Kind: ast.Quoted, Commands: []*ast.Command{
		ast.NewCommand(ast.Runtime, ast.Ident("emit"), ast.Integer(1)),
	}})
	quoted := &ast.Block{Kind: ast.Quoted, Commands: []*ast.Command{inner}}
	program := []*ast.Command{
		ast.NewCommand(ast.Runtime, ast.Ident("emit"),
			&ast.Block{Kind: ast.Evaluated, Commands: []*ast.Command{inner}},
			quoted,
		),
		ast.NewCommand(ast.Runtime, ast.Ident("emit"), ast.Integer(2)),
	}

	compiled, err := m.Compile(NewScope(), program)
	require.NoError(t, err)
	require.Len(t, compiled, 2)

	evaluated := compiled[0].Arguments[0].(*ast.Block)
	assert.Len(t, evaluated.Commands, 2, "evaluated blocks are expanded")
	assert.Same(t, quoted, compiled[0].Arguments[1], "quoted blocks are left alone")
	assert.Same(t, program[1], compiled[1], "unchanged commands aren't copied")

	for _, cmd := range compiled {
		assert.Equal(t, ast.Runtime, cmd.Time)
	}
	assert.Len(t, program[0].Arguments[0].(*ast.Block).Commands, 1, "input isn't mutated")
}

func TestVM_Compile_expansionOrder(t *testing.T) {
	m, _ := testVM(t)
	m.Registry().RegisterMacro("wrap", MacroFunc(func(vm *VM, scope *Scope, cmd *ast.Command) ([]*ast.Command, error) {
		return []*ast.Command{
			ast.NewCommand(ast.Runtime, ast.Ident("emit"), ast.String("before")),
			ast.NewCommand(ast.Macro, ast.Ident("twice"), cmd.Arguments[0]),
			ast.NewCommand(ast.Runtime, ast.Ident("emit"), ast.String("after")),
		}, nil
	}))

	compiled, err := m.Compile(NewScope(), []*ast.Command{
		ast.NewCommand(ast.Macro, ast.Ident("wrap"), &ast.Block{Kind: ast.Quoted, Commands: []*ast.Command{
			ast.NewCommand(ast.Runtime, ast.Ident("emit"), ast.String("body")),
		}}),
		ast.NewCommand(ast.Runtime, ast.Ident("emit"), ast.String("last")),
	})
	require.NoError(t, err)

	var order []ast.Argument
	for _, cmd := range compiled {
		order = append(order, cmd.Arguments[0])
	}
	assert.Equal(t, []ast.Argument{
		ast.String("before"), ast.String("body"), ast.String("body"), ast.String("after"), ast.String("last"),
	}, order)
}

func TestVM_Compile_limits(t *testing.T) {
	forever := MacroFunc(func(vm *VM, scope *Scope, cmd *ast.Command) ([]*ast.Command, error) {
		return []*ast.Command{cmd}, nil
	})
	fanout := MacroFunc(func(vm *VM, scope *Scope, cmd *ast.Command) ([]*ast.Command, error) {
		return []*ast.Command{
			ast.NewCommand(ast.Runtime, ast.Ident("emit")),
			ast.NewCommand(ast.Runtime, ast.Ident("emit")),
		}, nil
	})

	t.Run("depth", func(t *testing.T) {
		m, _ := testVM(t, WithMaxExpansionDepth(5))
		m.Registry().RegisterMacro("forever", forever)

		_, err := m.Compile(NewScope(), []*ast.Command{ast.NewCommand(ast.Macro, ast.Ident("forever"))})

		var limitErr *MacroExpansionLimitError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, "forever", limitErr.Name)
		assert.Equal(t, 5, limitErr.Limit)
		assert.Equal(t, 6, limitErr.Depth)
	})

	t.Run("count", func(t *testing.T) {
		m, _ := testVM(t, WithMaxExpansions(3))
		m.Registry().RegisterMacro("fanout", fanout)

		program := make([]*ast.Command, 4)
		for i := range program {
			program[i] = ast.NewCommand(ast.Macro, ast.Ident("fanout"))
		}
		_, err := m.Compile(NewScope(), program)

		var limitErr *MacroExpansionLimitError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, 4, limitErr.Count)
		assert.Equal(t, 3, limitErr.Limit)
	})

	t.Run("within limits", func(t *testing.T) {
		m, _ := testVM(t, WithMaxExpansions(4))
		m.Registry().RegisterMacro("fanout", fanout)

		program := make([]*ast.Command, 4)
		for i := range program {
			program[i] = ast.NewCommand(ast.Macro, ast.Ident("fanout"))
		}
		compiled, err := m.Compile(NewScope(), program)
		require.NoError(t, err)
		assert.Len(t, compiled, 8)
	})
}

func TestVM_phaseMismatch(t *testing.T) {
	m, _ := testVM(t)
	scope := NewScope()

	assertMismatch := func(requested, actual ast.Time, f func()) {
		t.Helper()
		defer func() {
			r := recover()
			mismatch, ok := r.(*PhaseMismatchError)
			require.True(t, ok, "panic value %v", r)
			assert.Equal(t, requested, mismatch.Requested)
			assert.Equal(t, actual, mismatch.Command)
		}()
		f()
	}

	assertMismatch(ast.Runtime, ast.Macro, func() {
		m.ExecuteCommand(scope, ast.NewCommand(ast.Macro, ast.Ident("twice")))
	})
	assertMismatch(ast.Macro, ast.CompileTime, func() {
		m.ExecuteMacro(scope, ast.NewCommand(ast.CompileTime, ast.Ident("register")))
	})
	assertMismatch(ast.CompileTime, ast.Runtime, func() {
		m.ExecuteCompileTime(scope, ast.NewCommand(ast.Runtime, ast.Ident("emit")))
	})
}

func TestVM_errors(t *testing.T) {
	cases := map[string]struct {
		cmd   *ast.Command
		check func(t *testing.T, err error)
	}{
		"runtime not found": {
			cmd: ast.NewCommand(ast.Runtime, ast.Ident("missing")),
			check: func(t *testing.T, err error) {
				var notFound *CommandNotFoundError
				require.True(t, errors.As(err, &notFound))
				assert.Equal(t, ast.Runtime, notFound.Phase)
				assert.Equal(t, `runtime command "missing" not found`, err.Error())
			},
		},
		"phases don't share names": {
			cmd: ast.NewCommand(ast.Macro, ast.Ident("emit")),
			check: func(t *testing.T, err error) {
				var notFound *CommandNotFoundError
				require.True(t, errors.As(err, &notFound))
				assert.Equal(t, ast.Macro, notFound.Phase)
			},
		},
		"placeholder command": {
			cmd: ast.NewCommand(ast.Runtime, ast.Placeholder{}),
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrInvalidPlaceholderUse))
			},
		},
		"placeholder argument": {
			cmd: ast.NewCommand(ast.Runtime, ast.Ident("emit"), ast.Placeholder{}),
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrInvalidPlaceholderUse))
			},
		},
		"variable command": {
			cmd: ast.NewCommand(ast.Runtime, ast.Var("f")),
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrInvalidVariableCommandUse))
				assert.True(t, errors.Is(err, ErrUnsupported))
			},
		},
		"undefined variable": {
			cmd: ast.NewCommand(ast.Runtime, ast.Ident("emit"), ast.Var("nope")),
			check: func(t *testing.T, err error) {
				var undefined *UndefinedVariableError
				require.True(t, errors.As(err, &undefined))
				assert.Equal(t, "nope", undefined.Name)
			},
		},
		"executor failure": {
			cmd: ast.NewCommand(ast.Runtime, ast.Ident("value")),
			check: func(t *testing.T, err error) {
				var execErr *ExecutionError
				require.True(t, errors.As(err, &execErr))
				assert.Equal(t, "value", execErr.Name)
				assert.Equal(t, `runtime command "value": no value`, err.Error())
			},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			m, _ := testVM(t)
			_, err := m.Run(NewScope(), []*ast.Command{tc.cmd})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestVM_argumentResolution(t *testing.T) {
	m, _ := testVM(t)
	scope := NewScope()
	scope.Declare("x", Value(ast.String("hello")))

	quoted := &ast.Block{Kind: ast.Quoted, Commands: []*ast.Command{
		ast.NewCommand(ast.Runtime, ast.Ident("value"), ast.Var("undefined")),
	}}
	var seen []ast.Argument
	m.Registry().RegisterRuntime("capture", RuntimeFunc(func(vm *VM, scope *Scope, cmd *ast.Command) (ast.Argument, error) {
		seen = cmd.Arguments
		return nil, nil
	}))

	mustRun(t, m, scope, ast.NewCommand(ast.Runtime, ast.Ident("capture"),
		ast.Var("x"),
		ast.Option{Name: "o", Value: ast.Var("x")},
		&ast.Block{Kind: ast.Evaluated, Commands: []*ast.Command{
			ast.NewCommand(ast.Runtime, ast.Ident("value"), ast.Integer(1)),
			ast.NewCommand(ast.Runtime, ast.Ident("value"), ast.Var("x")),
		}},
		&ast.Block{Kind: ast.Evaluated},
		quoted,
	))

	assert.Equal(t, []ast.Argument{
		ast.String("hello"),
		ast.Option{Name: "o", Value: ast.String("hello")},
		ast.String("hello"),
		ast.None{},
		quoted,
	}, seen)
}

func TestVM_ExecuteCommand_uncompiledBlock(t *testing.T) {
	m, out := testVM(t)

	cmds, err := parser.Parse(`value { !register say; twice! &{ emit 1; }; say 2; value 3; };`)
	require.NoError(t, err)
	require.Len(t, cmds, 1)

	var v ast.Argument
	require.NotPanics(t, func() {
		v, err = m.ExecuteCommand(NewScope(), cmds[0])
	})
	require.NoError(t, err)
	assert.Equal(t, ast.Integer(3), v)
	assert.Equal(t, "1 \n1 \n2 \n", out.String())
}

func TestVM_ExecuteCommand_greet(t *testing.T) {
	m, out := testVM(t)

	var calls [][]ast.Argument
	m.Registry().RegisterRuntime("greet", RuntimeFunc(func(vm *VM, scope *Scope, cmd *ast.Command) (ast.Argument, error) {
		calls = append(calls, cmd.Arguments)
		fmt.Fprintf(vm.Stdout(), "Hello, %s\n", cmd.Arguments[0].(ast.String))
		return nil, nil
	}))

	cmds, err := parser.Parse(`greet "Alice";`)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, ast.Runtime, cmds[0].Time)
	assert.Equal(t, ast.Ident("greet"), cmds[0].Name)
	assert.Equal(t, []ast.Argument{ast.String("Alice")}, cmds[0].Arguments)

	v, err := m.ExecuteCommand(NewScope(), cmds[0])
	require.NoError(t, err)
	assert.Equal(t, ast.None{}, v)
	assert.Equal(t, [][]ast.Argument{{ast.String("Alice")}}, calls)
	assert.Equal(t, "Hello, Alice\n", out.String())
}

func TestVM_blockScope(t *testing.T) {
	m, _ := testVM(t)
	m.Registry().RegisterRuntime("let", RuntimeFunc(func(vm *VM, scope *Scope, cmd *ast.Command) (ast.Argument, error) {
		scope.Declare(string(cmd.Arguments[0].(ast.Ident)), Value(cmd.Arguments[1]))
		return nil, nil
	}))

	scope := NewScope()
	mustRun(t, m, scope, ast.NewCommand(ast.Runtime, ast.Ident("value"), &ast.Block{Commands: []*ast.Command{
		ast.NewCommand(ast.Runtime, ast.Ident("let"), ast.Ident("inner"), ast.Integer(1)),
	}}))

	_, ok := scope.Lookup("inner")
	assert.False(t, ok, "block declarations stay in the block")
	assert.Len(t, scope.arena.records, 1)
}

func TestVM_takeRestore(t *testing.T) {
	m, _ := testVM(t)
	r := m.Registry()

	var sawSelf bool
	r.RegisterCompileTime("self", CompileTimeFunc(func(vm *VM, scope *Scope, cmd *ast.Command) error {
		_, sawSelf = vm.Registry().LookupCompileTime("self")
		return nil
	}))
	mustRun(t, m, NewScope(), ast.NewCommand(ast.CompileTime, ast.Ident("self")))
	assert.False(t, sawSelf, "the executor is taken while it runs")
	_, ok := r.LookupCompileTime("self")
	assert.True(t, ok, "and restored after")

	var replaced bool
	replacement := CompileTimeFunc(func(vm *VM, scope *Scope, cmd *ast.Command) error {
		replaced = true
		return nil
	})
	r.RegisterCompileTime("replace", CompileTimeFunc(func(vm *VM, scope *Scope, cmd *ast.Command) error {
		vm.Registry().RegisterCompileTime("replace", replacement)
		return errors.New("failed after replacing")
	}))
	replace := ast.NewCommand(ast.CompileTime, ast.Ident("replace"))
	_, err := m.Run(NewScope(), []*ast.Command{replace})
	require.Error(t, err)

	mustRun(t, m, NewScope(), replace)
	assert.True(t, replaced, "replacements survive")
}

type recordingTracer struct {
	calls []string
}

func (r *recordingTracer) TraceCommand(phase ast.Time, name string, elapsed time.Duration, err error) {
	r.calls = append(r.calls, fmt.Sprintf("%s %s %s %v", phase, name, elapsed, err))
}

func TestVM_tracer(t *testing.T) {
	tracer := &recordingTracer{}
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	m, _ := testVM(t, WithTracer(tracer), WithClock(clock))

	mustRun(t, m, NewScope(),
		ast.NewCommand(ast.CompileTime, ast.Ident("register"), ast.Ident("say")),
		ast.NewCommand(ast.Macro, ast.Ident("twice"), &ast.Block{Kind: ast.Quoted}),
		ast.NewCommand(ast.Runtime, ast.Ident("say")),
	)

	assert.Equal(t, []string{
		"compile-time register 1s <nil>",
		"macro twice 1s <nil>",
		"runtime say 1s <nil>",
	}, tracer.calls)
}
