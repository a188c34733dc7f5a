package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/josephlewis42/neoshell/core/parser"
)

func TestColorPrinter_Error(t *testing.T) {
	cases := map[string]struct {
		mode     string
		err      error
		expected string
	}{
		"plain": {
			mode:     colorNever,
			err:      errors.New("boom"),
			expected: "error: boom\n",
		},
		"auto without a terminal": {
			mode:     colorAuto,
			err:      errors.New("boom"),
			expected: "error: boom\n",
		},
		"always": {
			mode:     colorAlways,
			err:      errors.New("boom"),
			expected: "\x1b[31;1merror:\x1b[0m boom\n",
		},
		"syntax": {
			mode: colorNever,
			err: func() error {
				_, err := parser.ParseFile("a.ns", "print }")
				return err
			}(),
			expected: "error: a.ns:1:7: syntax error: expected argument or ';', found '}'\nprint }\n      ^\n",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			var out bytes.Buffer
			printer := &ColorPrinter{Mode: tc.mode, Out: &out}
			printer.Error(tc.err)
			assert.Equal(t, tc.expected, out.String())
		})
	}
}
