package vm

import (
	"fmt"
	"sort"

	"github.com/josephlewis42/neoshell/core/ast"
)

const noParent = -1

// scopeRecord is one entry of a scope arena.
type scopeRecord struct {
	parent    int
	gen       uint64
	closed    bool
	children  int
	variables map[string]*Variable
}

// scopeArena stores every scope of a chain by index, parents never point at
// children.
type scopeArena struct {
	records []scopeRecord
	nextGen uint64
}

func (a *scopeArena) alloc(parent int) *Scope {
	a.nextGen++
	a.records = append(a.records, scopeRecord{
		parent: parent,
		gen:    a.nextGen,
	})
	return &Scope{arena: a, index: len(a.records) - 1, gen: a.nextGen}
}

// reclaim drops closed records from the end of the arena.
func (a *scopeArena) reclaim() {
	n := len(a.records)
	for n > 0 && a.records[n-1].closed {
		n--
	}
	for i := n; i < len(a.records); i++ {
		a.records[i] = scopeRecord{}
	}
	a.records = a.records[:n]
}

// Scope is a handle to a lexical variable namespace. Scopes form a chain
// from child to root; lookups walk the chain outwards.
//
// A child borrows its parent exclusively: while it is open, the parent can't
// declare new variables and must be reached through the child. Scopes aren't
// safe for concurrent use.
type Scope struct {
	arena *scopeArena
	index int
	gen   uint64
}

// NewScope creates a root scope in a new arena.
func NewScope() *Scope {
	return (&scopeArena{}).alloc(noParent)
}

func (s *Scope) record() *scopeRecord {
	if s.index >= len(s.arena.records) {
		panic(fmt.Sprintf("scope %d: use of closed scope", s.index))
	}
	rec := &s.arena.records[s.index]
	if rec.gen != s.gen || rec.closed {
		panic(fmt.Sprintf("scope %d: use of closed scope", s.index))
	}
	return rec
}

// borrowed returns the record of a scope that is about to be written to. It
// panics if a child currently borrows the scope.
func (s *Scope) borrowed(format string, args ...interface{}) *scopeRecord {
	rec := s.record()
	if rec.children > 0 {
		panic(fmt.Sprintf("scope %d: can't %s while a child scope is open", s.index, fmt.Sprintf(format, args...)))
	}
	return rec
}

// Extend creates a child scope. The child must be closed before the parent
// can be written to or extended again.
func (s *Scope) Extend() *Scope {
	s.borrowed("extend").children++
	return s.arena.alloc(s.index)
}

// Close releases the scope. Closing a scope with open children panics.
func (s *Scope) Close() {
	rec := s.record()
	if rec.children > 0 {
		panic(fmt.Sprintf("scope %d: closed with %d open children", s.index, rec.children))
	}
	rec.closed = true
	rec.variables = nil
	if rec.parent != noParent {
		s.arena.records[rec.parent].children--
	}
	s.arena.reclaim()
}

// Parent returns the enclosing scope, if any.
func (s *Scope) Parent() (*Scope, bool) {
	rec := s.record()
	if rec.parent == noParent {
		return nil, false
	}
	parent := s.arena.records[rec.parent]
	return &Scope{arena: s.arena, index: rec.parent, gen: parent.gen}, true
}

// Depth returns the number of ancestors of the scope; zero for a root.
func (s *Scope) Depth() int {
	depth := 0
	for i := s.record().parent; i != noParent; i = s.arena.records[i].parent {
		depth++
	}
	return depth
}

// Lookup finds name in this scope or its ancestors. The nearest binding wins.
func (s *Scope) Lookup(name string) (*Variable, bool) {
	s.record()
	for i := s.index; i != noParent; i = s.arena.records[i].parent {
		if v, ok := s.arena.records[i].variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupLocal finds name in this scope only.
func (s *Scope) LookupLocal(name string) (*Variable, bool) {
	v, ok := s.record().variables[name]
	return v, ok
}

// Declare binds name to v in this scope, replacing any local binding.
// Declaring into a scope with open children panics.
func (s *Scope) Declare(name string, v *Variable) {
	rec := s.borrowed("declare %q", name)
	if rec.variables == nil {
		rec.variables = make(map[string]*Variable)
	}
	rec.variables[name] = v
}

// Assign stores arg in the nearest existing binding of name. Assigning
// through a scope with open children panics.
//
// A *Variable returned by Lookup is part of the scope it was found through;
// its setters must only be used while that handle could be assigned to.
func (s *Scope) Assign(name string, arg ast.Argument) error {
	s.borrowed("assign %q", name)
	existing, ok := s.Lookup(name)
	if !ok {
		return &UndefinedVariableError{Name: name}
	}
	existing.Assign(arg)
	return nil
}

// Names returns the sorted names declared directly in this scope.
func (s *Scope) Names() []string {
	rec := s.record()
	names := make([]string, 0, len(rec.variables))
	for k := range rec.variables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
