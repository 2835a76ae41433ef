package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

func flows() *table.Table {
	return table.MustFromRecords(
		[]string{"source", "target", "value"},
		[][]any{{"A", "C", 10}, {"A", "D", 20}, {"B", "D", 15}},
	)
}

func values(t *table.Table, col string) []string {
	vals, _ := t.Column(col)
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}

func TestChainAddRemove(t *testing.T) {
	var c Chain
	require.NoError(t, c.Add("a", Limit(3)))
	require.NoError(t, c.Add("b", Limit(2)))
	require.NoError(t, c.Add("c", Limit(1)))
	assert.Equal(t, []string{"a", "b", "c"}, c.Names())

	require.NoError(t, c.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, c.Names())
	assert.False(t, c.Has("b"))

	err := c.Remove("b")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownFilter), "got %v", err)
	assert.Equal(t, 2, c.Len())
}

func TestChainReAddReplacesInPlace(t *testing.T) {
	var c Chain
	require.NoError(t, c.Add("first", Limit(3)))
	require.NoError(t, c.Add("second", Limit(3)))
	require.NoError(t, c.Add("first", Limit(1)))

	assert.Equal(t, []string{"first", "second"}, c.Names())
	assert.Equal(t, 1, c.Apply(flows()).Len())
}

func TestChainAddInvalid(t *testing.T) {
	var c Chain
	assert.True(t, errors.Is(c.Add("", Limit(1)), errors.ErrCodeInvalidFilter))
	assert.True(t, errors.Is(c.Add("nil", nil), errors.ErrCodeInvalidFilter))
	assert.Zero(t, c.Len())
}

func TestChainApply(t *testing.T) {
	var c Chain
	assert.Equal(t, 3, c.Apply(flows()).Len())

	require.NoError(t, c.Add("high", Compare("value", OpGreater, table.Number(15))))
	out := c.Apply(flows())
	assert.Equal(t, []string{"D"}, values(out, "target"))

	require.NoError(t, c.Add("none", func(*table.Table) *table.Table { return nil }))
	empty := c.Apply(flows())
	assert.Equal(t, 0, empty.Len())
	assert.True(t, empty.HasColumn("value"))
}

func TestChainCloneIsIndependent(t *testing.T) {
	var c Chain
	require.NoError(t, c.Add("a", Limit(1)))
	clone := c.Clone()
	require.NoError(t, clone.Add("b", Limit(1)))

	assert.Equal(t, []string{"a"}, c.Names())
	assert.Equal(t, []string{"a", "b"}, clone.Names())
}

func TestBuilders(t *testing.T) {
	tests := []struct {
		name string
		fn   Func
		want []string
	}{
		{"equal", Compare("source", OpEqual, table.String("A")), []string{"C", "D"}},
		{"not equal", Compare("source", OpNotEqual, table.String("A")), []string{"D"}},
		{"greater", Compare("value", OpGreater, table.Number(10)), []string{"D", "D"}},
		{"greater equal", Compare("value", OpGreaterEqual, table.Number(15)), []string{"D", "D"}},
		{"less", Compare("value", OpLess, table.Number(15)), []string{"C"}},
		{"less equal", Compare("value", OpLessEqual, table.Number(15)), []string{"C", "D"}},
		{"kind mismatch", Compare("value", OpGreater, table.String("1")), []string{}},
		{"missing column", Compare("weight", OpGreater, table.Number(0)), []string{}},
		{"in", In("target", table.String("C"), table.String("X")), []string{"C"}},
		{"where", Where(map[string]table.Value{"source": table.String("A"), "target": table.String("D")}), []string{"D"}},
		{"limit", Limit(2), []string{"C", "D"}},
		{"rows", Rows(func(r table.Row) bool { v, _ := r.Get("source"); return v.String() == "B" }), []string{"D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, values(tt.fn(flows()), "target"))
		})
	}
}

// Applying a chain equals applying its filters one after another, and
// splitting a chain in two at any point gives the same result.
func TestChainCompositionProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(rt, "rows")
		records := make([][]any, n)
		for i := range records {
			records[i] = []any{
				rapid.SampledFrom([]string{"A", "B", "C"}).Draw(rt, "source"),
				rapid.SampledFrom([]string{"X", "Y"}).Draw(rt, "target"),
				rapid.IntRange(0, 100).Draw(rt, "value"),
			}
		}
		tbl := table.MustFromRecords([]string{"source", "target", "value"}, records)

		k := rapid.IntRange(0, 5).Draw(rt, "filters")
		var full Chain
		var fns []Func
		for i := 0; i < k; i++ {
			threshold := rapid.IntRange(0, 100).Draw(rt, "threshold")
			op := rapid.SampledFrom(validOps).Draw(rt, "op")
			fn := Compare("value", op, table.Number(float64(threshold)))
			fns = append(fns, fn)
			if err := full.Add(fmt.Sprintf("f%d", i), fn); err != nil {
				rt.Fatalf("Add: %v", err)
			}
		}

		sequential := tbl
		for _, fn := range fns {
			sequential = fn(sequential)
		}
		got := full.Apply(tbl)
		if got.Len() != sequential.Len() {
			rt.Fatalf("chain kept %d rows, sequential application kept %d", got.Len(), sequential.Len())
		}

		split := rapid.IntRange(0, k).Draw(rt, "split")
		var head, tail Chain
		for i, fn := range fns {
			target := &head
			if i >= split {
				target = &tail
			}
			_ = target.Add(fmt.Sprintf("f%d", i), fn)
		}
		if twoStep := tail.Apply(head.Apply(tbl)); twoStep.Len() != got.Len() {
			rt.Fatalf("split chain kept %d rows, full chain kept %d", twoStep.Len(), got.Len())
		}
	})
}
