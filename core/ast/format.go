package ast

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrUnprintable is returned when a value has no surface syntax, e.g. None or
// a negative number.
var ErrUnprintable = errors.New("value has no surface syntax")

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// Format renders commands in canonical surface syntax, one top-level command
// per line. Parsing the output yields a tree equal to cmds.
func Format(cmds []*Command) (string, error) {
	var sb strings.Builder
	if err := WriteCommands(&sb, cmds); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteCommands writes the canonical form of cmds to w.
func WriteCommands(w io.Writer, cmds []*Command) error {
	for _, cmd := range cmds {
		s, err := FormatCommand(cmd)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}

// FormatCommand renders a single command, including its terminating `;`.
func FormatCommand(cmd *Command) (string, error) {
	p := &printer{}
	p.command(cmd, 0)
	return p.String(), p.err
}

// FormatArgument renders a single argument.
func FormatArgument(arg Argument) (string, error) {
	p := &printer{}
	p.argument(arg, 0)
	return p.String(), p.err
}

type printer struct {
	strings.Builder
	err error
}

func (p *printer) fail(format string, args ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s", ErrUnprintable, fmt.Sprintf(format, args...))
	}
}

func (p *printer) command(cmd *Command, indent int) {
	if cmd.Time == CompileTime {
		p.WriteByte('!')
	}
	p.name(cmd.Name)
	if cmd.Time == Macro {
		p.WriteByte('!')
	}
	for _, arg := range cmd.Arguments {
		p.WriteByte(' ')
		p.argument(arg, indent)
	}
	p.WriteByte(';')
}

func (p *printer) name(n Name) {
	switch n := n.(type) {
	case Placeholder:
		p.WriteByte('~')
	case Ident:
		if !IsIdentifier(string(n)) {
			p.fail("invalid identifier %q", string(n))
		}
		p.WriteString(string(n))
	case Var:
		if !IsVarName(string(n)) {
			p.fail("invalid variable name %q", string(n))
		}
		p.WriteByte('$')
		p.WriteString(string(n))
	default:
		p.fail("unknown name %T", n)
	}
}

func (p *printer) argument(arg Argument, indent int) {
	switch arg := arg.(type) {
	case Name:
		p.name(arg)
	case Integer:
		if arg < 0 {
			p.fail("negative integer %d", int32(arg))
		}
		p.WriteString(strconv.FormatInt(int64(arg), 10))
	case Float:
		p.float(arg)
	case String:
		p.WriteByte('"')
		p.WriteString(stringEscaper.Replace(string(arg)))
		p.WriteByte('"')
	case On:
		p.switchName('+', arg.Name)
	case Off:
		p.switchName('-', arg.Name)
	case Option:
		p.switchName('/', arg.Name)
		p.WriteByte(' ')
		p.argument(arg.Value, indent)
	case *Block:
		p.block(arg, indent)
	case nil, None:
		p.fail("none")
	default:
		p.fail("unknown argument %T", arg)
	}
}

func (p *printer) float(f Float) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Signbit(v) {
		p.fail("float %v", v)
	}
	s := strconv.FormatFloat(v, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	p.WriteString(s)
}

func (p *printer) switchName(prefix byte, name string) {
	if !IsIdentifier(name) {
		p.fail("invalid switch name %q", name)
	}
	p.WriteByte(prefix)
	p.WriteString(name)
}

func (p *printer) block(b *Block, indent int) {
	if b.Kind == Quoted {
		p.WriteByte('&')
	}
	p.WriteByte('{')
	if len(b.Commands) == 0 {
		p.WriteByte('}')
		return
	}
	p.WriteByte('\n')
	for _, cmd := range b.Commands {
		p.WriteString(strings.Repeat("\t", indent+1))
		p.command(cmd, indent+1)
		p.WriteByte('\n')
	}
	p.WriteString(strings.Repeat("\t", indent))
	p.WriteByte('}')
}
