// Package ast holds the syntax tree shared by the parser and the VM.
package ast

import "fmt"

// Time is the phase a command executes in. It is fixed by the surface syntax:
// `!name` is compile-time, `name!` is a macro and a bare `name` runs at
// runtime.
type Time int

const (
	// CompileTime commands run before the program and may mutate the VM.
	CompileTime Time = iota
	// Macro commands run before the program and are replaced by the commands
	// they return.
	Macro
	// Runtime commands produce values while the program runs.
	Runtime
)

func (t Time) String() string {
	switch t {
	case CompileTime:
		return "compile-time"
	case Macro:
		return "macro"
	case Runtime:
		return "runtime"
	}
	return fmt.Sprintf("Time(%d)", int(t))
}

// Command is a single `;` terminated command.
type Command struct {
	Time      Time
	Name      Name
	Arguments []Argument
}

// NewCommand creates a command with the given arguments.
func NewCommand(time Time, name Name, args ...Argument) *Command {
	return &Command{
		Time:      time,
		Name:      name,
		Arguments: args,
	}
}

// Extend creates a command with the same time and name as cmd but different
// arguments.
func Extend(cmd *Command, args []Argument) *Command {
	return &Command{
		Time:      cmd.Time,
		Name:      cmd.Name,
		Arguments: args,
	}
}

// Name is a command or variable name: Placeholder, Ident or Var.
type Name interface {
	Argument
	isName()
}

// Placeholder is the `~` wildcard used by macros.
type Placeholder struct{}

// Ident is a plain, possibly `::` namespaced, identifier.
type Ident string

// Var is a `$` reference resolved against the scope at execution time.
type Var string

func (Placeholder) isName() {}
func (Ident) isName()       {}
func (Var) isName()         {}

// Argument is a command argument. Exactly one of None, Placeholder, Ident,
// Var, Integer, Float, String, On, Off, Option or *Block.
type Argument interface {
	isArgument()
}

// None is the absence of a value.
type None struct{}

// Integer is a 32-bit signed integer literal.
type Integer int32

// Float is a 32-bit float literal.
type Float float32

// String is a quoted string literal with its escapes already processed.
type String string

func (None) isArgument()        {}
func (Placeholder) isArgument() {}
func (Ident) isArgument()       {}
func (Var) isArgument()         {}
func (Integer) isArgument()     {}
func (Float) isArgument()       {}
func (String) isArgument()      {}
func (On) isArgument()          {}
func (Off) isArgument()         {}
func (Option) isArgument()      {}
func (*Block) isArgument()      {}

// SwitchShape is the surface form of a switch.
type SwitchShape int

const (
	ShapeOn SwitchShape = iota
	ShapeOff
	ShapeOption
)

func (s SwitchShape) String() string {
	switch s {
	case ShapeOn:
		return "on"
	case ShapeOff:
		return "off"
	case ShapeOption:
		return "option"
	}
	return fmt.Sprintf("SwitchShape(%d)", int(s))
}

// Switch is a named modifier attached to a command: On, Off or Option.
type Switch interface {
	Argument
	SwitchName() string
	Shape() SwitchShape
}

// On is an enabling switch: `+name`.
type On struct {
	Name string
}

// Off is a disabling switch: `-name`.
type Off struct {
	Name string
}

// Option is a switch carrying a value: `/name value`.
type Option struct {
	Name  string
	Value Argument
}

func (s On) SwitchName() string     { return s.Name }
func (s Off) SwitchName() string    { return s.Name }
func (s Option) SwitchName() string { return s.Name }

func (On) Shape() SwitchShape     { return ShapeOn }
func (Off) Shape() SwitchShape    { return ShapeOff }
func (Option) Shape() SwitchShape { return ShapeOption }

// BlockKind tells how the commands of a block reach the enclosing command.
type BlockKind int

const (
	// Evaluated blocks (`{ ... }`) run in a child scope and the enclosing
	// command receives their value.
	Evaluated BlockKind = iota
	// Quoted blocks (`&{ ... }`) are passed unevaluated for the receiving
	// command to interpret.
	Quoted
)

func (k BlockKind) String() string {
	switch k {
	case Evaluated:
		return "evaluated"
	case Quoted:
		return "quoted"
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// Block is a sequence of nested commands.
type Block struct {
	Kind     BlockKind
	Commands []*Command
}

// KindOf returns a short name for the variant of arg.
func KindOf(arg Argument) string {
	switch arg.(type) {
	case nil, None:
		return "none"
	case Placeholder, Ident, Var:
		return "name"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case On, Off, Option:
		return "switch"
	case *Block:
		return "block"
	}
	return fmt.Sprintf("%T", arg)
}
