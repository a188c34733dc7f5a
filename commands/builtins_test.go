package commands

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/neoshell/core/ast"
	"github.com/josephlewis42/neoshell/core/vm"
)

func TestPrint(t *testing.T) {
	cases := map[string]struct {
		script   string
		expected string
	}{
		"plain":               {`print a "b c" 1 2.5;`, "a b c 1 2.5\n"},
		"echo alias":          {`echo hi;`, "hi\n"},
		"no newline":          {`print -newline a; print b;`, "ab\n"},
		"escape":              {`print +escape "a\\tb\\x41";`, "a\tbA\n"},
		"raw":                 {`print "a\\tb";`, "a\\tb\n"},
		"separator":           {`print /sep ", " 1 2 3;`, "1, 2, 3\n"},
		"evaluated separator": {`print /sep { print -newline; } x y;`, "xy\n"},
		"empty":               {`print;`, "\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			out, v, err := runScript(t, nil, tc.script)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
			assert.Equal(t, ast.None{}, v)
		})
	}
}

func TestBuiltins_usageErrors(t *testing.T) {
	cases := map[string]string{
		"print unknown switch":    `print +loud x;`,
		"print newline on":        `print +newline x;`,
		"print repeated sep":      `print /sep a /sep b x;`,
		"print default sep twice": `print /sep " " /sep "x" a b;`,
		"set arity":               `set x;`,
		"set bad name":            `set 1.5 x;`,
		"get arity":               `get;`,
		"typeof arity":            `typeof 1 2;`,
		"do arity":                `do;`,
		"alias arity":             `!alias x;`,
		"define not a block":      `!define x 1;`,
		"define bad name":         `!define "a b" &{};`,
		"repeat bad count":        `repeat! x &{};`,
		"repeat not a block":      `repeat! 1 x;`,
		"repeat too many":         `repeat! 2000000 &{ a; };`,
		"each missing block":      `each!;`,
		"each bad name":           `each! &{ ~; } 1;`,
		"include arity":           `include!;`,
	}

	for tn, script := range cases {
		t.Run(tn, func(t *testing.T) {
			_, _, err := runScript(t, nil, script)
			var usageErr *UsageError
			require.True(t, errors.As(err, &usageErr), "got %v", err)

			var execErr *vm.ExecutionError
			assert.True(t, errors.As(err, &execErr), "wrapped with the command")
		})
	}
}

func TestSetGet(t *testing.T) {
	_, v, err := runScript(t, nil, `set x 1; set x { get x; }; get x;`)
	require.NoError(t, err)
	assert.Equal(t, ast.Integer(1), v)

	_, v, err = runScript(t, nil, `set s "str";`)
	require.NoError(t, err)
	assert.Equal(t, ast.String("str"), v, "set returns the value")

	_, _, err = runScript(t, nil, `get nope;`)
	var undefined *vm.UndefinedVariableError
	assert.True(t, errors.As(err, &undefined))

	_, _, err = runScript(t, nil, `set +update nope 1;`)
	assert.True(t, errors.As(err, &undefined))
}

func TestTypeof(t *testing.T) {
	cases := map[string]string{
		`typeof 1;`:   "integer",
		`typeof 1.0;`: "float",
		`typeof "s";`: "string",
		`typeof x;`:   "name",
		`typeof +x;`:  "switch",
		`typeof &{};`: "block",
		`typeof {};`:         "none",
		`typeof { typeof; };`: "",
	}
	delete(cases, `typeof { typeof; };`)

	for script, expected := range cases {
		_, v, err := runScript(t, nil, script)
		require.NoError(t, err, script)
		assert.Equal(t, ast.String(expected), v, script)
	}
}

func TestDo(t *testing.T) {
	_, v, err := runScript(t, nil, `do &{ set y 2; get y; };`)
	require.NoError(t, err)
	assert.Equal(t, ast.Integer(2), v)

	_, v, err = runScript(t, nil, `do 5;`)
	require.NoError(t, err)
	assert.Equal(t, ast.Integer(5), v)

	_, _, err = runScript(t, nil, `do &{ set y 2; }; get y;`)
	assert.Error(t, err, "block variables don't leak")
}

func TestDefine(t *testing.T) {
	out, v, err := runScript(t, nil, `
		!define show &{ print $0 $1 $2; get 1; };
		show a;
	`)
	require.Error(t, err, "$2 is unbound")
	assert.Empty(t, out)
	assert.Nil(t, v)

	out, v, err = runScript(t, nil, `
		!define pair &{ print $0 $1 $2; get 1; };
		pair a { typeof 1; };
	`)
	require.NoError(t, err)
	assert.Equal(t, "pair a integer\n", out)
	assert.Equal(t, ast.Ident("a"), v)

	_, _, err = runScript(t, nil, `!alias x missing;`)
	var notFound *vm.CommandNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestDefine_expandsOnce(t *testing.T) {
	out, _, err := runScript(t, nil, `
		!define three &{ repeat! 3 &{ print -newline $1; }; print; };
		three x;
		three y;
	`)
	require.NoError(t, err)
	assert.Equal(t, "xxx\nyyy\n", out)
}

func TestEach_nested(t *testing.T) {
	out, _, err := runScript(t, nil, `each! &{ do &{ print /sep ~ a b; }; } "-" "+";`)
	require.NoError(t, err)
	assert.Equal(t, "a-b\na+b\n", out)

	out, _, err = runScript(t, nil, `each! &{ ~ hi; } print echo;`)
	require.NoError(t, err)
	assert.Equal(t, "hi\nhi\n", out)

	out, _, err = runScript(t, nil, `each! &{ print ~; };`)
	require.NoError(t, err)
	assert.Empty(t, out, "no values, no commands")
}

func TestInclude(t *testing.T) {
	scripts := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(scripts, "lib.ns", []byte(`!define twice &{ print $1 $1; };`), 0644))
	require.NoError(t, afero.WriteFile(scripts, "loop.ns", []byte(`include! "loop.ns";`), 0644))
	require.NoError(t, afero.WriteFile(scripts, "broken.ns", []byte(`print`), 0644))

	out, _, err := runScript(t, scripts, `include! "lib.ns"; twice 3;`)
	require.NoError(t, err)
	assert.Equal(t, "3 3\n", out)

	_, _, err = runScript(t, scripts, `include! "loop.ns";`)
	var limitErr *vm.MacroExpansionLimitError
	assert.True(t, errors.As(err, &limitErr), "cycles hit the expansion limit")

	_, _, err = runScript(t, scripts, `include! "missing.ns";`)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, _, err = runScript(t, scripts, `include! "broken.ns";`)
	assert.ErrorContains(t, err, "broken.ns:1:6: syntax error")
}
