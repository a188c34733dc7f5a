package arguments

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/josephlewis42/neoshell/core/ast"
)

// InvalidSwitchUsageError is returned when a switch is given in a form its
// usage doesn't accept.
type InvalidSwitchUsageError struct {
	Name   string
	Reason string
}

func (e *InvalidSwitchUsageError) Error() string {
	return fmt.Sprintf("invalid usage for switch %q: %s", e.Name, e.Reason)
}

func invalidUsage(name, format string, args ...interface{}) error {
	return &InvalidSwitchUsageError{Name: name, Reason: fmt.Sprintf(format, args...)}
}

// SwitchUsage defines how the occurrences of a switch map to a value.
type SwitchUsage[T any] interface {
	// Initial is the value when the switch isn't given.
	Initial() T
	// Collect folds one occurrence of the switch into the current value.
	Collect(name string, sw ast.Switch, current T) (T, error)
}

// Resolve folds every occurrence of the named switch through usage.
func Resolve[T any](c *Collector, name string, usage SwitchUsage[T]) (T, error) {
	v := usage.Initial()
	for _, sw := range c.Switches[name] {
		next, err := usage.Collect(name, sw, v)
		if err != nil {
			var zero T
			return zero, err
		}
		v = next
	}
	return v, nil
}

// CheckKnown fails on the first switch that isn't one of names.
func CheckKnown(c *Collector, names ...string) error {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	for _, n := range c.names {
		if !known[n] {
			return invalidUsage(n, "unknown switch")
		}
	}
	return nil
}

// EnablingSwitch only accepts the on form: `+name`.
type EnablingSwitch[T any] struct {
	Default T
	Enabled T
}

func (s EnablingSwitch[T]) Initial() T { return s.Default }

func (s EnablingSwitch[T]) Collect(name string, sw ast.Switch, _ T) (T, error) {
	if sw.Shape() == ast.ShapeOn {
		return s.Enabled, nil
	}
	return s.Default, invalidUsage(name, "only the on form is accepted (+%s)", name)
}

// DisablingSwitch only accepts the off form: `-name`.
type DisablingSwitch[T any] struct {
	Default  T
	Disabled T
}

func (s DisablingSwitch[T]) Initial() T { return s.Default }

func (s DisablingSwitch[T]) Collect(name string, sw ast.Switch, _ T) (T, error) {
	if sw.Shape() == ast.ShapeOff {
		return s.Disabled, nil
	}
	return s.Default, invalidUsage(name, "only the off form is accepted (-%s)", name)
}

// TernarySwitch accepts the on and off forms.
type TernarySwitch[T any] struct {
	Default  T
	Enabled  T
	Disabled T
}

func (s TernarySwitch[T]) Initial() T { return s.Default }

func (s TernarySwitch[T]) Collect(name string, sw ast.Switch, _ T) (T, error) {
	switch sw.Shape() {
	case ast.ShapeOn:
		return s.Enabled, nil
	case ast.ShapeOff:
		return s.Disabled, nil
	}
	return s.Default, invalidUsage(name, "only the on or off forms are accepted (+%s, -%s)", name, name)
}

// OptionValue is the result of a ValueOptionSwitch.
type OptionValue struct {
	Value ast.Argument
	// Given reports whether the option appeared.
	Given bool
}

// ValueOptionSwitch accepts a single option form and yields its value.
type ValueOptionSwitch struct {
	Default ast.Argument
}

func (s ValueOptionSwitch) Initial() OptionValue { return OptionValue{Value: s.Default} }

func (s ValueOptionSwitch) Collect(name string, sw ast.Switch, current OptionValue) (OptionValue, error) {
	opt, ok := sw.(ast.Option)
	if !ok {
		return current, invalidUsage(name, "only the option form is accepted (/%s <value>)", name)
	}
	if current.Given {
		return current, invalidUsage(name, "can only be given once")
	}
	return OptionValue{Value: opt.Value, Given: true}, nil
}

// ChoiceOptionSwitch accepts the option form with one of a fixed set of
// values. Names, strings and integers are matched by their text.
type ChoiceOptionSwitch[T any] struct {
	Default T
	Choices map[string]T
}

func (s ChoiceOptionSwitch[T]) Initial() T { return s.Default }

func (s ChoiceOptionSwitch[T]) Collect(name string, sw ast.Switch, current T) (T, error) {
	v, err := pickChoice(name, sw, s.Choices)
	if err != nil {
		return current, err
	}
	return v, nil
}

// MultiChoiceOptionSwitch accepts the option form any number of times,
// collecting the distinct choices in the order they were given.
type MultiChoiceOptionSwitch[T comparable] struct {
	Default []T
	Choices map[string]T
}

func (s MultiChoiceOptionSwitch[T]) Initial() []T {
	return append([]T(nil), s.Default...)
}

func (s MultiChoiceOptionSwitch[T]) Collect(name string, sw ast.Switch, current []T) ([]T, error) {
	v, err := pickChoice(name, sw, s.Choices)
	if err != nil {
		return current, err
	}
	for _, existing := range current {
		if existing == v {
			return current, nil
		}
	}
	return append(current, v), nil
}

func pickChoice[T any](name string, sw ast.Switch, choices map[string]T) (T, error) {
	var zero T

	opt, ok := sw.(ast.Option)
	if !ok {
		return zero, invalidUsage(name, "only the option form is accepted (/%s <value>)", name)
	}
	key, ok := choiceKey(opt.Value)
	if !ok {
		return zero, invalidUsage(name, "expected a name, string or integer, got %s", ast.KindOf(opt.Value))
	}
	v, ok := choices[key]
	if !ok {
		return zero, invalidUsage(name, "%q isn't one of %s", key, strings.Join(sortedKeys(choices), ", "))
	}
	return v, nil
}

func choiceKey(arg ast.Argument) (string, bool) {
	switch arg := arg.(type) {
	case ast.Ident:
		return string(arg), true
	case ast.String:
		return string(arg), true
	case ast.Integer:
		return strconv.Itoa(int(arg)), true
	}
	return "", false
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
