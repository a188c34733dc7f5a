package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("syntax error")

const foundEOF = "end of input"

// SyntaxError describes where and why the source didn't match the grammar.
type SyntaxError struct {
	Filename string
	// Offset is the byte offset of the failure, Line and Column are 1-based
	// and count runes.
	Offset int
	Line   int
	Column int
	// Expected is a human readable description of what the grammar wanted.
	Expected string
	// Found describes what was there instead.
	Found string

	source string
}

func newSyntaxError(filename, source string, offset int, expected, found string) *SyntaxError {
	line, col := position(source, offset)
	return &SyntaxError{
		Filename: filename,
		Offset:   offset,
		Line:     line,
		Column:   col,
		Expected: expected,
		Found:    found,
		source:   source,
	}
}

func (e *SyntaxError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Line, e.Column)
	if e.Filename != "" {
		loc = e.Filename + ":" + loc
	}
	return fmt.Sprintf("%s: syntax error: expected %s, found %s", loc, e.Expected, e.Found)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// AtEOF reports whether parsing failed because the input ended early. An
// interactive reader can keep reading in that case.
func (e *SyntaxError) AtEOF() bool {
	return e.Found == foundEOF
}

// Snippet returns the offending source line followed by a caret under the
// failing column.
func (e *SyntaxError) Snippet() string {
	if e.Line < 1 {
		return ""
	}
	lines := strings.Split(e.source, "\n")
	if e.Line > len(lines) {
		return ""
	}
	text := strings.TrimRight(lines[e.Line-1], "\r")

	var caret strings.Builder
	col := 1
	for _, r := range text {
		if col >= e.Column {
			break
		}
		if r == '\t' {
			caret.WriteRune('\t')
		} else {
			caret.WriteRune(' ')
		}
		col++
	}
	caret.WriteRune('^')
	return text + "\n" + caret.String()
}

func position(source string, offset int) (line, col int) {
	if offset > len(source) {
		offset = len(source)
	}
	before := source[:offset]
	line = strings.Count(before, "\n") + 1
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return line, utf8.RuneCountInString(before) + 1
}

func describe(r rune) string {
	if r == eof {
		return foundEOF
	}
	return strconv.QuoteRune(r)
}
