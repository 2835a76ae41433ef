// Package table provides the immutable typed table that sankey diagrams are
// built from.
//
// A [Table] is an ordered list of column names plus rows of [Value] cells.
// Cells are typed: numbers, times, strings or null. Tables never change after
// construction; filtering returns a new Table that shares the schema.
//
// Tables are usually read from CSV or JSON:
//
//	t, err := table.ReadFile("flows.csv")
//
// or built in code:
//
//	t := table.MustFromRecords(
//	    []string{"source", "target", "value"},
//	    [][]any{{"A", "C", 10}, {"A", "D", 20}, {"B", "D", 15}},
//	)
package table

import (
	"slices"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Table is an immutable collection of typed rows.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// Row is a read-only view of one table row.
type Row struct {
	t      *Table
	values []Value
}

// New creates a table from column names and rows. Every row must have
// exactly one value per column and column names must be unique.
// The rows are copied.
func New(columns []string, rows [][]Value) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate column %q", c)
		}
		index[c] = i
	}
	copied := make([][]Value, len(rows))
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"row %d has %d values, want %d", i, len(r), len(columns))
		}
		copied[i] = slices.Clone(r)
	}
	return &Table{
		columns: slices.Clone(columns),
		index:   index,
		rows:    copied,
	}, nil
}

// FromRecords builds a table from plain Go values, converting each cell
// with [ValueOf].
func FromRecords(columns []string, records [][]any) (*Table, error) {
	rows := make([][]Value, len(records))
	for i, rec := range records {
		row := make([]Value, len(rec))
		for j, x := range rec {
			row[j] = ValueOf(x)
		}
		rows[i] = row
	}
	return New(columns, rows)
}

// MustFromRecords is like FromRecords but panics on error.
func MustFromRecords(columns []string, records [][]any) *Table {
	t, err := FromRecords(columns, records)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns the i-th row. It panics if i is out of range.
func (t *Table) Row(i int) Row {
	return Row{t: t, values: t.rows[i]}
}

// Rows returns all rows in order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = Row{t: t, values: r}
	}
	return out
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) ([]Value, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingColumn, "column %q not found", name)
	}
	out := make([]Value, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, nil
}

// ColumnKinds returns the set of non-null kinds present in a column.
func (t *Table) ColumnKinds(name string) (map[Kind]bool, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	kinds := make(map[Kind]bool)
	for _, v := range values {
		if !v.IsNull() {
			kinds[v.Kind()] = true
		}
	}
	return kinds, nil
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	var rows [][]Value
	for _, r := range t.rows {
		if keep(Row{t: t, values: r}) {
			rows = append(rows, r)
		}
	}
	return t.derive(rows)
}

// Head returns a new table holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return t.derive(t.rows[:n:n])
}

// Empty returns a table with the same columns and no rows.
func (t *Table) Empty() *Table {
	return t.derive(nil)
}

// Select returns a new table holding the rows at the given indices, in the
// given order.
func (t *Table) Select(indices []int) *Table {
	rows := make([][]Value, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, t.rows[i])
	}
	return t.derive(rows)
}

// derive shares the schema and row storage. Rows are never mutated, so
// sharing the underlying slices is safe.
func (t *Table) derive(rows [][]Value) *Table {
	return &Table{columns: t.columns, index: t.index, rows: rows}
}

// Get returns the value of the named column and whether the column exists.
func (r Row) Get(column string) (Value, bool) {
	i, ok := r.t.index[column]
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// Values returns a copy of the row's cells in column order.
func (r Row) Values() []Value {
	return slices.Clone(r.values)
}

// Map returns the row as a column name to value map.
func (r Row) Map() map[string]Value {
	m := make(map[string]Value, len(r.values))
	for i, c := range r.t.columns {
		m[c] = r.values[i]
	}
	return m
}
