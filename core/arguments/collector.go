// Package arguments splits command arguments into positionals and switches
// and interprets switches for executors.
package arguments

import "github.com/josephlewis42/neoshell/core/ast"

// Collector holds the arguments of a command grouped for validation.
type Collector struct {
	// Positionals are the non-switch arguments in their original order.
	Positionals []ast.Argument
	// Switches holds every occurrence of each switch, in declaration order.
	Switches map[string][]ast.Switch

	names []string
}

// Collect groups args into a new Collector.
func Collect(args []ast.Argument) *Collector {
	c := &Collector{}
	c.Collect(args)
	return c
}

// Collect adds args to the collector.
func (c *Collector) Collect(args []ast.Argument) {
	for _, arg := range args {
		sw, ok := arg.(ast.Switch)
		if !ok {
			c.Positionals = append(c.Positionals, arg)
			continue
		}

		if c.Switches == nil {
			c.Switches = make(map[string][]ast.Switch)
		}
		name := sw.SwitchName()
		if _, seen := c.Switches[name]; !seen {
			c.names = append(c.names, name)
		}
		c.Switches[name] = append(c.Switches[name], sw)
	}
}

// SwitchNames returns the switch names in the order they first appeared.
func (c *Collector) SwitchNames() []string {
	return append([]string(nil), c.names...)
}

// Has reports whether the switch was given at least once.
func (c *Collector) Has(name string) bool {
	return len(c.Switches[name]) > 0
}

// Len returns the number of collected arguments.
func (c *Collector) Len() int {
	n := len(c.Positionals)
	for _, occurrences := range c.Switches {
		n += len(occurrences)
	}
	return n
}
