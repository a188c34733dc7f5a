package parser

import "unicode/utf8"

const eof rune = -1

type scanner struct {
	input string // The source being parsed
	pos   int    // The position of the cursor in input
	width int    // Width of the last rune read
}

func (s *scanner) next() rune {
	if s.pos >= len(s.input) {
		s.width = 0
		return eof
	}
	var r rune
	r, s.width = utf8.DecodeRuneInString(s.input[s.pos:])
	s.pos += s.width
	return r
}

func (s *scanner) peek() rune {
	r := s.next()
	s.backup()
	return r
}

// peekN returns the rune n runes ahead of the cursor without consuming
// anything.
func (s *scanner) peekN(n int) rune {
	pos := s.pos
	r := eof
	for i := 0; i <= n; i++ {
		if pos >= len(s.input) {
			return eof
		}
		var w int
		r, w = utf8.DecodeRuneInString(s.input[pos:])
		pos += w
	}
	return r
}

// backup steps back one rune. It can only be called once per call of next.
func (s *scanner) backup() {
	s.pos -= s.width
}

func (s *scanner) accept(r rune) bool {
	if s.next() == r {
		return true
	}
	s.backup()
	return false
}

func (s *scanner) acceptString(prefix string) bool {
	if len(s.input)-s.pos >= len(prefix) && s.input[s.pos:s.pos+len(prefix)] == prefix {
		s.pos += len(prefix)
		s.width = 0
		return true
	}
	return false
}

// skip consumes whitespace and `#` comments.
func (s *scanner) skip() {
	for {
		switch s.peek() {
		case ' ', '\n', '\t', '\r':
			s.next()
		case '#':
			for r := s.next(); r != '\n' && r != '\r' && r != eof; r = s.next() {
			}
		default:
			return
		}
	}
}
