package filter

import (
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// Op is a comparison operator.
type Op string

// Comparison operators.
const (
	OpEqual        Op = "=="
	OpNotEqual     Op = "!="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
)

// validOps lists the operators longest first so that parsing prefers ">="
// over ">".
var validOps = []Op{OpGreaterEqual, OpLessEqual, OpEqual, OpNotEqual, OpGreater, OpLess}

// ParseOp returns the operator for s.
func ParseOp(s string) (Op, error) {
	for _, op := range validOps {
		if string(op) == s {
			return op, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFilter, "unknown operator %q", s)
}

// Holds reports whether a op b under the natural value ordering.
func (op Op) Holds(a, b table.Value) bool {
	c := table.Compare(a, b)
	switch op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	default:
		return false
	}
}

// Rows keeps the rows for which keep returns true.
func Rows(keep func(table.Row) bool) Func {
	return func(t *table.Table) *table.Table {
		return t.Filter(keep)
	}
}

// Compare keeps the rows whose column value satisfies op against value.
// Rows of a table without the column are all dropped. A cell of a
// different kind than value only satisfies !=.
func Compare(column string, op Op, value table.Value) Func {
	return Rows(func(r table.Row) bool {
		v, ok := r.Get(column)
		if !ok {
			return false
		}
		if v.Kind() != value.Kind() && op != OpNotEqual {
			return false
		}
		return op.Holds(v, value)
	})
}

// In keeps the rows whose column value equals one of values.
func In(column string, values ...table.Value) Func {
	keys := make(map[string]bool, len(values))
	for _, v := range values {
		keys[v.Key()] = true
	}
	return Rows(func(r table.Row) bool {
		v, ok := r.Get(column)
		return ok && keys[v.Key()]
	})
}

// Where keeps the rows matching every column/value criterion.
func Where(criteria map[string]table.Value) Func {
	return Rows(func(r table.Row) bool {
		for col, want := range criteria {
			v, ok := r.Get(col)
			if !ok || !v.Equal(want) {
				return false
			}
		}
		return true
	})
}

// Limit keeps the first n rows.
func Limit(n int) Func {
	return func(t *table.Table) *table.Table {
		return t.Head(n)
	}
}
