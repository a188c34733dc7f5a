// Package commands holds the builtin commands of neoshell.
package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/afero"

	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/vm"
)

// Env is what builtins need from the interpreter hosting them.
type Env struct {
	// Fs resolves the paths given to include!.
	Fs afero.Fs
}

// Builtin describes a builtin command.
type Builtin struct {
	Phase ast.Time
	Names []string
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string

	executor func(env Env) interface{}
}

// allBuiltins holds every registered builtin.
var allBuiltins []Builtin

func addBuiltin(phase ast.Time, use, short string, executor func(Env) interface{}, names ...string) {
	allBuiltins = append(allBuiltins, Builtin{
		Phase:    phase,
		Names:    names,
		Use:      use,
		Short:    short,
		executor: executor,
	})
}

// addRuntimeCmd adds a runtime command under each of names.
func addRuntimeCmd(use, short string, cmd vm.RuntimeFunc, names ...string) {
	addBuiltin(ast.Runtime, use, short, func(Env) interface{} { return cmd }, names...)
}

// addCompileTimeCmd adds a compile-time command under each of names.
func addCompileTimeCmd(use, short string, cmd vm.CompileTimeFunc, names ...string) {
	addBuiltin(ast.CompileTime, use, short, func(Env) interface{} { return cmd }, names...)
}

// addMacro adds a macro whose executor depends on the environment.
func addMacro(use, short string, cmd func(Env) vm.MacroFunc, names ...string) {
	addBuiltin(ast.Macro, use, short, func(env Env) interface{} { return cmd(env) }, names...)
}

// List returns the builtins ordered by phase, then by name.
func List() []Builtin {
	out := append([]Builtin(nil), allBuiltins...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Phase != out[j].Phase {
			return out[i].Phase < out[j].Phase
		}
		return out[i].Names[0] < out[j].Names[0]
	})
	return out
}

// Register installs every builtin into r.
func Register(r *vm.Registry, env Env) error {
	if env.Fs == nil {
		env.Fs = afero.NewMemMapFs()
	}
	for _, b := range allBuiltins {
		executor := b.executor(env)
		for _, name := range b.Names {
			if err := r.Register(b.Phase, name, executor); err != nil {
				return err
			}
		}
	}
	return nil
}

// UsageError is returned when a builtin gets arguments it can't use.
type UsageError struct {
	Command string
	Use     string
	Reason  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s (usage: %s)", e.Command, e.Reason, e.Use)
}

func usageError(cmd *ast.Command, use, format string, args ...interface{}) error {
	name, _ := ast.FormatArgument(cmd.Name)
	return &UsageError{
		Command: name,
		Use:     use,
		Reason:  fmt.Sprintf(format, args...),
	}
}

// Display renders a value the way print shows it: strings without quotes,
// None as nothing and everything else in surface syntax.
func Display(arg ast.Argument) string {
	switch arg := arg.(type) {
	case nil, ast.None:
		return ""
	case ast.String:
		return string(arg)
	case ast.Integer:
		return strconv.Itoa(int(arg))
	case ast.Float:
		return strconv.FormatFloat(float64(arg), 'f', -1, 32)
	}
	if s, err := ast.FormatArgument(arg); err == nil {
		return s
	}
	return "<" + ast.KindOf(arg) + ">"
}

// nameOf returns the text of an identifier or string argument.
func nameOf(arg ast.Argument) (string, bool) {
	switch arg := arg.(type) {
	case ast.Ident:
		return string(arg), true
	case ast.String:
		return string(arg), true
	}
	return "", false
}
