package commands

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/josephlewis42/neoshell/core/arguments"
	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/vm"
)

var (
	escapeSequence = regexp.MustCompile(`\\(0[0-7]{0,3}|x[0-9a-fA-F]{1,2}|[nrt\\abfv])`)
	escapeChars    = map[byte]string{
		'n':  "\n",
		'r':  "\r",
		't':  "\t",
		'\\': `\`,
		'a':  "\a",
		'b':  "\b",
		'f':  "\f",
		'v':  "\v",
	}
)

// unescape interprets the backslash escapes echo -e knows: \0NNN is an
// octal byte and \xHH a hex byte. Unknown escapes are kept as written.
func unescape(s string) string {
	return escapeSequence.ReplaceAllStringFunc(s, func(seq string) string {
		var digits string
		var base int
		switch seq[1] {
		case '0':
			digits, base = seq[2:], 8
		case 'x':
			digits, base = seq[2:], 16
		default:
			return escapeChars[seq[1]]
		}
		if digits == "" {
			return "\x00"
		}
		n, err := strconv.ParseUint(digits, base, 8)
		if err != nil {
			return seq
		}
		return string([]byte{byte(n)})
	})
}

const printUse = `print [-newline] [+escape] [/sep "SEP"] [VALUE]...`

// Print writes its positional arguments to the VM's stdout.
func Print(m *vm.VM, scope *vm.Scope, cmd *ast.Command) (ast.Argument, error) {
	args := arguments.Collect(cmd.Arguments)
	if err := arguments.CheckKnown(args, "newline", "escape", "sep"); err != nil {
		return nil, usageError(cmd, printUse, "%v", err)
	}

	newline, err := arguments.Resolve[bool](args, "newline", arguments.DisablingSwitch[bool]{Default: true, Disabled: false})
	if err != nil {
		return nil, usageError(cmd, printUse, "%v", err)
	}
	escaped, err := arguments.Resolve[bool](args, "escape", arguments.EnablingSwitch[bool]{Default: false, Enabled: true})
	if err != nil {
		return nil, usageError(cmd, printUse, "%v", err)
	}
	sep, err := arguments.Resolve[arguments.OptionValue](args, "sep", arguments.ValueOptionSwitch{Default: ast.String(" ")})
	if err != nil {
		return nil, usageError(cmd, printUse, "%v", err)
	}

	w := m.Stdout()
	for i, arg := range args.Positionals {
		if i > 0 {
			fmt.Fprint(w, Display(sep.Value))
		}

		text := Display(arg)
		if escaped {
			text = unescape(text)
		}

		fmt.Fprint(w, text)
	}

	if newline {
		fmt.Fprintln(w)
	}

	return ast.None{}, nil
}

var _ vm.RuntimeFunc = Print

func init() {
	addRuntimeCmd(printUse, "Write values to standard output.", Print, "print", "echo")
}
