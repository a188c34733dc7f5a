package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/josephlewis42/neoshell/core/parser"
)

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldRed = color.New(color.FgRed, color.Bold)
	ColorFaint   = color.New(color.Faint)
)

// ColorPrinter writes diagnostics, colored when the mode and the output
// allow it.
type ColorPrinter struct {
	Mode string
	Out  io.Writer
}

func (c *ColorPrinter) ShouldColor() bool {
	switch c.Mode {
	case colorNever:
		return false
	case colorAlways:
		return true
	default:
		fd, ok := c.Out.(*os.File)
		return ok && term.IsTerminal(int(fd.Fd()))
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		color.EnableColor()
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}

// Error reports a failed script. Syntax errors are shown with the offending
// line.
func (c *ColorPrinter) Error(err error) {
	fmt.Fprintf(c.Out, "%s %v\n", c.Sprintf(ColorBoldRed, "error:"), err)

	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		fmt.Fprintln(c.Out, c.Sprintf(ColorFaint, "%s", syntaxErr.Snippet()))
	}
}
