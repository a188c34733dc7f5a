package ast

import (
	"fmt"
	"io"
	"strconv"
)

// Dump writes an indented tree of cmds to w for debugging.
func Dump(w io.Writer, cmds []*Command) error {
	d := &dumper{w: w}
	for _, cmd := range cmds {
		d.command(cmd, "")
	}
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) line(indent, format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, indent+format+"\n", args...)
}

func (d *dumper) command(cmd *Command, indent string) {
	d.line(indent, "Command(%s)", cmd.Time)
	d.line(indent, "  Name: %s", dumpName(cmd.Name))
	if len(cmd.Arguments) == 0 {
		return
	}
	d.line(indent, "  Arguments:")
	for _, arg := range cmd.Arguments {
		d.argument(arg, indent+"    ")
	}
}

func (d *dumper) argument(arg Argument, indent string) {
	switch arg := arg.(type) {
	case Name:
		d.line(indent, "%s", dumpName(arg))
	case nil, None:
		d.line(indent, "None")
	case Integer:
		d.line(indent, "Integer(%d)", int32(arg))
	case Float:
		d.line(indent, "Float(%s)", strconv.FormatFloat(float64(arg), 'g', -1, 32))
	case String:
		d.line(indent, "String(%q)", string(arg))
	case On:
		d.line(indent, "On(%s)", arg.Name)
	case Off:
		d.line(indent, "Off(%s)", arg.Name)
	case Option:
		d.line(indent, "Option(%s)", arg.Name)
		d.argument(arg.Value, indent+"  ")
	case *Block:
		d.line(indent, "Block(%s)", arg.Kind)
		for _, cmd := range arg.Commands {
			d.command(cmd, indent+"  ")
		}
	default:
		d.line(indent, "%T", arg)
	}
}

func dumpName(n Name) string {
	switch n := n.(type) {
	case Placeholder:
		return "Placeholder"
	case Ident:
		return fmt.Sprintf("Ident(%s)", string(n))
	case Var:
		return fmt.Sprintf("Var(%s)", string(n))
	}
	return fmt.Sprintf("%T", n)
}
