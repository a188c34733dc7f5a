package vm

import "github.com/josephlewis42/neoshell/core/ast"

// VariableKind tells whether a variable holds a value or a bound command.
type VariableKind int

const (
	KindValue VariableKind = iota
	// KindCommand is an instantiated command. It is reserved for bound
	// commands and has no behavior yet.
	KindCommand
)

// Variable is a scope binding.
type Variable struct {
	kind  VariableKind
	value ast.Argument
}

// Value creates a variable holding arg.
func Value(arg ast.Argument) *Variable {
	if arg == nil {
		arg = ast.None{}
	}
	return &Variable{kind: KindValue, value: arg}
}

// BoundCommand creates a command variable.
func BoundCommand() *Variable {
	return &Variable{kind: KindCommand}
}

// Kind returns the kind of the variable.
func (v *Variable) Kind() VariableKind {
	return v.kind
}

// Value returns the stored argument if the variable is a value.
func (v *Variable) Value() (ast.Argument, bool) {
	if v.kind != KindValue {
		return nil, false
	}
	return v.value, true
}

// Assign turns the variable into a value holding arg.
func (v *Variable) Assign(arg ast.Argument) {
	if arg == nil {
		arg = ast.None{}
	}
	v.kind, v.value = KindValue, arg
}

func (v *Variable) Name() (ast.Name, bool) {
	n, ok := v.value.(ast.Name)
	return n, ok && v.kind == KindValue
}

func (v *Variable) Integer() (int32, bool) {
	i, ok := v.value.(ast.Integer)
	return int32(i), ok && v.kind == KindValue
}

func (v *Variable) Float() (float32, bool) {
	f, ok := v.value.(ast.Float)
	return float32(f), ok && v.kind == KindValue
}

// Text returns the payload of a String value.
func (v *Variable) Text() (string, bool) {
	s, ok := v.value.(ast.String)
	return string(s), ok && v.kind == KindValue
}

func (v *Variable) Switch() (ast.Switch, bool) {
	s, ok := v.value.(ast.Switch)
	return s, ok && v.kind == KindValue
}

func (v *Variable) Block() (*ast.Block, bool) {
	b, ok := v.value.(*ast.Block)
	return b, ok && v.kind == KindValue
}

// The setters replace the payload only when the variable already holds the
// same variant, and report whether they did.

func (v *Variable) SetName(n ast.Name) bool {
	if _, ok := v.Name(); !ok || n == nil {
		return false
	}
	v.value = n
	return true
}

func (v *Variable) SetInteger(i int32) bool {
	if _, ok := v.Integer(); !ok {
		return false
	}
	v.value = ast.Integer(i)
	return true
}

func (v *Variable) SetFloat(f float32) bool {
	if _, ok := v.Float(); !ok {
		return false
	}
	v.value = ast.Float(f)
	return true
}

func (v *Variable) SetText(s string) bool {
	if _, ok := v.Text(); !ok {
		return false
	}
	v.value = ast.String(s)
	return true
}

func (v *Variable) SetSwitch(s ast.Switch) bool {
	if _, ok := v.Switch(); !ok || s == nil {
		return false
	}
	v.value = s
	return true
}

func (v *Variable) SetBlock(b *ast.Block) bool {
	if _, ok := v.Block(); !ok || b == nil {
		return false
	}
	v.value = b
	return true
}
