package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/neoshell/core/ast"
)

func TestScope_lookup(t *testing.T) {
	root := NewScope()
	root.Declare("x", Value(ast.Integer(1)))
	root.Declare("y", Value(ast.String("root")))

	child := root.Extend()
	child.Declare("y", Value(ast.String("child")))

	x, ok := child.Lookup("x")
	require.True(t, ok)
	i, _ := x.Integer()
	assert.Equal(t, int32(1), i)

	y, ok := child.Lookup("y")
	require.True(t, ok)
	s, _ := y.Text()
	assert.Equal(t, "child", s, "nearest binding wins")

	_, ok = child.LookupLocal("x")
	assert.False(t, ok)
	_, ok = child.Lookup("z")
	assert.False(t, ok)

	assert.Equal(t, 1, child.Depth())
	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, []string{"y"}, child.Names())

	child.Close()

	y, _ = root.Lookup("y")
	s, _ = y.Text()
	assert.Equal(t, "root", s, "child bindings are dropped on close")
	assert.Equal(t, []string{"x", "y"}, root.Names())
}

func TestScope_assign(t *testing.T) {
	root := NewScope()
	root.Declare("x", Value(ast.Integer(1)))

	child := root.Extend()
	require.NoError(t, child.Assign("x", ast.String("changed")))
	child.Close()

	x, _ := root.Lookup("x")
	s, ok := x.Text()
	assert.True(t, ok)
	assert.Equal(t, "changed", s)

	err := root.Assign("missing", ast.Integer(1))
	var undefined *UndefinedVariableError
	assert.True(t, errors.As(err, &undefined))
	assert.Equal(t, "undefined variable $missing", err.Error())
}

func TestScope_exclusiveBorrow(t *testing.T) {
	root := NewScope()
	root.Declare("y", Value(ast.Integer(1)))
	child := root.Extend()

	assert.Panics(t, func() { root.Declare("x", Value(nil)) }, "declare with open child")
	assert.Panics(t, func() { root.Extend() }, "extend with open child")
	assert.Panics(t, func() { root.Assign("y", ast.Integer(2)) }, "assign with open child")
	assert.NoError(t, child.Assign("y", ast.Integer(2)), "assign through the child")
	assert.Panics(t, func() { root.Close() }, "close with open child")

	grandchild := child.Extend()
	grandchild.Declare("x", Value(ast.Integer(3)))
	grandchild.Close()
	child.Close()

	assert.NotPanics(t, func() { root.Declare("x", Value(nil)) })
	assert.Panics(t, func() { child.Lookup("x") }, "use after close")
}

func TestScope_parent(t *testing.T) {
	root := NewScope()
	_, ok := root.Parent()
	assert.False(t, ok)

	child := root.Extend()
	parent, ok := child.Parent()
	require.True(t, ok)

	assert.Panics(t, func() { parent.Declare("x", Value(nil)) }, "parent is borrowed by child")

	child.Close()
	parent.Declare("x", Value(nil))
	_, ok = root.LookupLocal("x")
	assert.True(t, ok)
}

func TestScope_staleHandle(t *testing.T) {
	root := NewScope()
	first := root.Extend()
	first.Close()

	// The record of first is reused by second.
	second := root.Extend()
	assert.Panics(t, func() { first.Declare("x", Value(nil)) })
	assert.NotPanics(t, func() { second.Declare("x", Value(nil)) })
	second.Close()
}

func TestScope_reclaim(t *testing.T) {
	root := NewScope()
	for i := 0; i < 100; i++ {
		child := root.Extend()
		child.Extend().Close()
		child.Close()
	}
	assert.Len(t, root.arena.records, 1)
}
