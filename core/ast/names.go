package ast

import "strings"

// IsIdentStart reports whether r may start an identifier segment.
func IsIdentStart(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z')
}

// IsIdentContinue reports whether r may follow the first rune of an
// identifier segment.
func IsIdentContinue(r rune) bool {
	return IsIdentStart(r) || IsDigit(r) || r == '-'
}

// IsDigit reports whether r is an ASCII digit.
func IsDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// NamespaceSeparator joins the segments of a namespaced identifier.
const NamespaceSeparator = "::"

// IsIdentifier reports whether s is a valid, possibly namespaced, identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, segment := range strings.Split(s, NamespaceSeparator) {
		if !isSegment(segment) {
			return false
		}
	}
	return true
}

// IsVarName reports whether s can follow `$` in a variable reference.
func IsVarName(s string) bool {
	if s == "" {
		return false
	}
	digits := true
	for _, r := range s {
		if !IsDigit(r) {
			digits = false
			break
		}
	}
	return digits || IsIdentifier(s)
}

func isSegment(s string) bool {
	for i, r := range s {
		if i == 0 && !IsIdentStart(r) {
			return false
		}
		if !IsIdentContinue(r) {
			return false
		}
	}
	return s != ""
}

// Namespace splits a namespaced identifier into its segments.
func (i Ident) Namespace() []string {
	return strings.Split(string(i), NamespaceSeparator)
}
