// Package filter provides the ordered chain of named table filters applied
// before a diagram is aggregated.
//
// A filter is a pure function from table to table. Filters are registered
// by name and applied in registration order, each receiving the previous
// filter's output:
//
//	var c filter.Chain
//	_ = c.Add("high", filter.Compare("value", filter.OpGreater, table.Number(15)))
//	_ = c.Add("top", filter.Limit(100))
//	filtered := c.Apply(t)
//
// Filters that remove every row are not an error: the result is an empty
// table and downstream aggregation yields an empty snapshot.
package filter

import (
	"slices"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// Func transforms a table. Implementations must not modify their input.
type Func func(*table.Table) *table.Table

type entry struct {
	name string
	fn   Func
}

// Chain is an ordered set of named filters. The zero value is an empty
// chain ready to use. A Chain is not safe for concurrent mutation.
type Chain struct {
	entries []entry
}

// Add registers fn under name. A name that is already registered keeps its
// position and has its function replaced.
func (c *Chain) Add(name string, fn Func) error {
	if err := errors.ValidateFilterName(name); err != nil {
		return err
	}
	if fn == nil {
		return errors.New(errors.ErrCodeInvalidFilter, "filter %q has no function", name)
	}
	if i := c.index(name); i >= 0 {
		c.entries[i].fn = fn
		return nil
	}
	c.entries = append(c.entries, entry{name: name, fn: fn})
	return nil
}

// Remove unregisters the filter with the given name. The remaining filters
// keep their relative order.
func (c *Chain) Remove(name string) error {
	i := c.index(name)
	if i < 0 {
		return errors.New(errors.ErrCodeUnknownFilter, "no filter named %q", name)
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	return nil
}

// Has reports whether a filter with the given name is registered.
func (c *Chain) Has(name string) bool {
	return c.index(name) >= 0
}

// Names returns the registered filter names in application order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered filters.
func (c *Chain) Len() int {
	return len(c.entries)
}

// Apply runs every filter in order and returns the final table. With no
// filters registered it returns t unchanged. A filter that returns nil is
// treated as having removed every row.
func (c *Chain) Apply(t *table.Table) *table.Table {
	out := t
	for _, e := range c.entries {
		next := e.fn(out)
		if next == nil {
			next = out.Empty()
		}
		out = next
	}
	return out
}

// Clone returns an independent copy of the chain.
func (c *Chain) Clone() *Chain {
	return &Chain{entries: slices.Clone(c.entries)}
}

func (c *Chain) index(name string) int {
	return slices.IndexFunc(c.entries, func(e entry) bool { return e.name == name })
}
