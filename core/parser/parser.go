// Package parser turns neoshell source text into commands.
//
// The grammar, with `_` standing for any run of whitespace and `#` comments:
//
//	file       = _ command (_ command)* _ EOF
//	command    = ["!"] name ["!"] (_ argument)* _ ";"
//	name       = "~" | "$" (digits | identifier) | identifier
//	identifier = segment ("::" segment)*
//	segment    = [A-Za-z_] [A-Za-z0-9_-]*
//	argument   = name | float | integer | string | switch | block
//	integer    = digits
//	float      = digits "." digits
//	string     = '"' (char | "\" escape)* '"'
//	switch     = "+" identifier | "-" identifier | "/" identifier _ argument
//	block      = "{" _ (command _)* "}" | "&{" _ (command _)* "}"
//
// A leading `!` makes a compile-time command, a trailing `!` a macro.
package parser

import (
	"strconv"
	"strings"

	"github.com/josephlewis42/neoshell/core/ast"
)

// MaxNesting is the deepest nesting of blocks and option values the parser
// accepts.
const MaxNesting = 512

// Parse parses a complete source file.
func Parse(src string) ([]*ast.Command, error) {
	return ParseFile("", src)
}

// ParseFile parses a complete source file, using filename in errors.
func ParseFile(filename, src string) (cmds []*ast.Command, err error) {
	p := &parser{
		scanner:  scanner{input: src},
		filename: filename,
	}

	defer func() {
		if r := recover(); r != nil {
			bail, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			cmds, err = nil, bail.err
		}
	}()

	return p.parseFile(), nil
}

// bailout carries a SyntaxError up the recursive descent.
type bailout struct {
	err *SyntaxError
}

type parser struct {
	scanner
	filename string
	depth    int
}

// fail aborts parsing at the cursor.
func (p *parser) fail(expected string) {
	p.failAt(p.pos, expected, describe(p.peek()))
}

func (p *parser) failAt(offset int, expected, found string) {
	panic(bailout{newSyntaxError(p.filename, p.input, offset, expected, found)})
}

func (p *parser) parseFile() []*ast.Command {
	var cmds []*ast.Command

	p.skip()
	if p.peek() == eof {
		p.fail("command")
	}
	for p.peek() != eof {
		cmds = append(cmds, p.parseCommand())
		p.skip()
	}
	return cmds
}

func (p *parser) parseCommand() *ast.Command {
	cmd := &ast.Command{Time: ast.Runtime}

	if p.accept('!') {
		cmd.Time = ast.CompileTime
	}
	cmd.Name = p.parseName("command name")
	if cmd.Time == ast.Runtime && p.accept('!') {
		cmd.Time = ast.Macro
	}

	for {
		p.skip()
		if p.accept(';') {
			return cmd
		}
		cmd.Arguments = append(cmd.Arguments, p.parseArgument("argument or ';'"))
	}
}

func (p *parser) parseName(expected string) ast.Name {
	switch r := p.peek(); {
	case r == '~':
		p.next()
		return ast.Placeholder{}
	case r == '$':
		p.next()
		return ast.Var(p.parseVarName())
	case ast.IsIdentStart(r):
		return ast.Ident(p.parseIdentifier())
	}
	p.fail(expected)
	return nil
}

func (p *parser) parseVarName() string {
	if ast.IsDigit(p.peek()) {
		return p.parseDigits()
	}
	if ast.IsIdentStart(p.peek()) {
		return p.parseIdentifier()
	}
	p.fail("variable name")
	return ""
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	for {
		if !ast.IsIdentStart(p.peek()) {
			p.fail("identifier")
		}
		p.next()
		for ast.IsIdentContinue(p.peek()) {
			p.next()
		}
		if !p.acceptString(ast.NamespaceSeparator) {
			return p.input[start:p.pos]
		}
	}
}

func (p *parser) parseDigits() string {
	start := p.pos
	for ast.IsDigit(p.peek()) {
		p.next()
	}
	return p.input[start:p.pos]
}

func (p *parser) parseArgument(expected string) ast.Argument {
	switch r := p.peek(); {
	case r == '~' || r == '$' || ast.IsIdentStart(r):
		return p.parseName(expected)
	case ast.IsDigit(r):
		return p.parseNumber()
	case r == '"':
		return p.parseString()
	case r == '+':
		p.next()
		return ast.On{Name: p.parseIdentifier()}
	case r == '-':
		p.next()
		return ast.Off{Name: p.parseIdentifier()}
	case r == '/':
		p.next()
		name := p.parseIdentifier()
		p.skip()
		defer p.nest()()
		return ast.Option{
			Name:  name,
			Value: p.parseArgument("value for option /" + name),
		}
	case r == '{':
		return p.parseBlock(ast.Evaluated)
	case r == '&':
		p.next()
		if p.peek() != '{' {
			p.fail("'{' after '&'")
		}
		return p.parseBlock(ast.Quoted)
	}
	p.fail(expected)
	return nil
}

func (p *parser) parseNumber() ast.Argument {
	start := p.pos
	p.parseDigits()

	if p.peek() == '.' && ast.IsDigit(p.peekN(1)) {
		p.next()
		p.parseDigits()
		lit := p.input[start:p.pos]
		f, err := strconv.ParseFloat(lit, 32)
		if err != nil {
			p.failAt(start, "32-bit float", strconv.Quote(lit))
		}
		return ast.Float(f)
	}

	lit := p.input[start:p.pos]
	i, err := strconv.ParseInt(lit, 10, 32)
	if err != nil {
		p.failAt(start, "32-bit integer", strconv.Quote(lit))
	}
	return ast.Integer(i)
}

func (p *parser) parseString() ast.Argument {
	var sb strings.Builder

	p.next() // Consume opening quote
	for {
		switch r := p.next(); r {
		case eof:
			p.fail("closing '\"'")
		case '"':
			return ast.String(sb.String())
		case '\\':
			escStart := p.pos - p.width
			switch e := p.next(); e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 's', ' ':
				sb.WriteByte(' ')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				p.failAt(escStart, `escape sequence (\n \t \r \s \" \\)`, describe(e))
			}
		default:
			sb.WriteRune(r)
		}
	}
}

// nest enters a block or option value, failing past MaxNesting. The returned
// func leaves it.
func (p *parser) nest() func() {
	if p.depth >= MaxNesting {
		p.fail("at most " + strconv.Itoa(MaxNesting) + " nested blocks or options")
	}
	p.depth++
	return func() { p.depth-- }
}

func (p *parser) parseBlock(kind ast.BlockKind) *ast.Block {
	defer p.nest()()

	block := &ast.Block{Kind: kind}
	p.next() // Consume the opening brace
	for {
		p.skip()
		switch p.peek() {
		case '}':
			p.next()
			return block
		case eof:
			p.fail("command or '}'")
		}
		block.Commands = append(block.Commands, p.parseCommand())
	}
}
