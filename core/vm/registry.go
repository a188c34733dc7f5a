package vm

import (
	"fmt"
	"sort"

	"github.com/josephlewis42/neoshell/core/ast"
)

// Registry holds the executors of each phase. Names are independent between
// phases and the last registration of a name wins.
type Registry struct {
	compileTime map[string]CompileTimeCommand
	macros      map[string]MacroCommand
	runtime     map[string]RuntimeCommand
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		compileTime: make(map[string]CompileTimeCommand),
		macros:      make(map[string]MacroCommand),
		runtime:     make(map[string]RuntimeCommand),
	}
}

func (r *Registry) RegisterCompileTime(name string, cmd CompileTimeCommand) {
	r.compileTime[name] = cmd
}

func (r *Registry) RegisterMacro(name string, cmd MacroCommand) {
	r.macros[name] = cmd
}

func (r *Registry) RegisterRuntime(name string, cmd RuntimeCommand) {
	r.runtime[name] = cmd
}

// Register adds executor under the given phase. It fails if the executor
// doesn't implement that phase's interface.
func (r *Registry) Register(phase ast.Time, name string, executor interface{}) error {
	var ok bool
	switch phase {
	case ast.CompileTime:
		var cmd CompileTimeCommand
		if cmd, ok = executor.(CompileTimeCommand); ok {
			r.RegisterCompileTime(name, cmd)
		}
	case ast.Macro:
		var cmd MacroCommand
		if cmd, ok = executor.(MacroCommand); ok {
			r.RegisterMacro(name, cmd)
		}
	case ast.Runtime:
		var cmd RuntimeCommand
		if cmd, ok = executor.(RuntimeCommand); ok {
			r.RegisterRuntime(name, cmd)
		}
	}
	if !ok {
		return fmt.Errorf("%w: %T as %s command %q", ErrExecutorKind, executor, phase, name)
	}
	return nil
}

func (r *Registry) LookupCompileTime(name string) (CompileTimeCommand, bool) {
	cmd, ok := r.compileTime[name]
	return cmd, ok
}

func (r *Registry) LookupMacro(name string) (MacroCommand, bool) {
	cmd, ok := r.macros[name]
	return cmd, ok
}

func (r *Registry) LookupRuntime(name string) (RuntimeCommand, bool) {
	cmd, ok := r.runtime[name]
	return cmd, ok
}

// Lookup returns the executor registered for name in the given phase.
func (r *Registry) Lookup(phase ast.Time, name string) (interface{}, bool) {
	switch phase {
	case ast.CompileTime:
		return r.LookupCompileTime(name)
	case ast.Macro:
		return r.LookupMacro(name)
	case ast.Runtime:
		return r.LookupRuntime(name)
	}
	return nil, false
}

// Take removes the executor registered for name in the given phase and
// returns it. Pair it with Restore.
func (r *Registry) Take(phase ast.Time, name string) (interface{}, bool) {
	executor, ok := r.Lookup(phase, name)
	if !ok {
		return nil, false
	}
	switch phase {
	case ast.CompileTime:
		delete(r.compileTime, name)
	case ast.Macro:
		delete(r.macros, name)
	case ast.Runtime:
		delete(r.runtime, name)
	}
	return executor, true
}

// Restore puts back an executor removed by Take.
func (r *Registry) Restore(phase ast.Time, name string, executor interface{}) error {
	return r.Register(phase, name, executor)
}

// Names returns the sorted names registered in the given phase.
func (r *Registry) Names(phase ast.Time) []string {
	var names []string
	switch phase {
	case ast.CompileTime:
		for k := range r.compileTime {
			names = append(names, k)
		}
	case ast.Macro:
		for k := range r.macros {
			names = append(names, k)
		}
	case ast.Runtime:
		for k := range r.runtime {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of executors registered in the given phase.
func (r *Registry) Len(phase ast.Time) int {
	switch phase {
	case ast.CompileTime:
		return len(r.compileTime)
	case ast.Macro:
		return len(r.macros)
	case ast.Runtime:
		return len(r.runtime)
	}
	return 0
}
