package timeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSplitSortsChronologically(t *testing.T) {
	tbl := table.MustFromRecords(
		[]string{"source", "target", "value", "date"},
		[][]any{
			{"A", "B", 1, day(2024, 3, 1)},
			{"A", "C", 2, day(2024, 1, 1)},
			{"B", "C", 3, day(2024, 2, 1)},
			{"A", "B", 4, day(2024, 1, 1)},
		},
	)

	buckets, err := Split(tbl, "date")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	want := []struct {
		label string
		rows  int
	}{{"2024-01-01", 2}, {"2024-02-01", 1}, {"2024-03-01", 1}}
	if len(buckets) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(buckets), len(want))
	}
	for i, w := range want {
		if buckets[i].Label() != w.label {
			t.Errorf("bucket %d label = %q, want %q", i, buckets[i].Label(), w.label)
		}
		if buckets[i].Rows.Len() != w.rows {
			t.Errorf("bucket %d rows = %d, want %d", i, buckets[i].Rows.Len(), w.rows)
		}
	}

	first, _ := buckets[0].Rows.Row(0).Get("value")
	if f, _ := first.Float(); f != 2 {
		t.Errorf("rows should keep their relative order, first value = %v", f)
	}
}

func TestSplitNumericAndStringOrder(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   []string
	}{
		{"numbers", []any{10, 2, 33, 2}, []string{"2", "10", "33"}},
		{"strings", []any{"Q3", "Q1", "Q2"}, []string{"Q1", "Q2", "Q3"}},
		{"with null", []any{"b", nil, "a"}, []string{"(none)", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([][]any, len(tt.values))
			for i, v := range tt.values {
				records[i] = []any{"A", "B", 1, v}
			}
			tbl := table.MustFromRecords([]string{"source", "target", "value", "period"}, records)

			buckets, err := Split(tbl, "period")
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, b := range buckets {
				got = append(got, b.Label())
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("labels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitMissingColumn(t *testing.T) {
	tbl := table.MustFromRecords([]string{"source"}, nil)
	if _, err := Split(tbl, "date"); !errors.Is(err, errors.ErrCodeMissingColumn) {
		t.Errorf("Split error = %v, want MISSING_COLUMN", err)
	}
}

func TestPeriods(t *testing.T) {
	tbl := table.MustFromRecords([]string{"p"}, [][]any{{3}, {1}, {3}})
	periods, err := Periods(tbl, "p")
	if err != nil {
		t.Fatal(err)
	}
	if len(periods) != 2 || periods[0].String() != "1" {
		t.Errorf("Periods = %v", periods)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		v    table.Value
		want string
	}{
		{table.Time(day(2024, 5, 17)), "2024-05-17"},
		{table.Time(time.Date(2024, 5, 17, 8, 30, 0, 0, time.UTC)), "2024-05-17T08:30:00Z"},
		{table.Number(2024), "2024"},
		{table.Number(0.25), "0.25"},
		{table.String("Q1"), "Q1"},
	}
	for _, tt := range tests {
		if got := Label(tt.v); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestPlayback(t *testing.T) {
	if err := DefaultPlayback().Validate(); err != nil {
		t.Errorf("default playback invalid: %v", err)
	}

	p := Playback{}.WithDefaults()
	if p.Interval != 800*time.Millisecond || p.Easing != "cubic-in-out" {
		t.Errorf("WithDefaults = %+v", p)
	}

	bad := []Playback{
		{Interval: 0, Easing: "linear"},
		{Interval: -time.Second, Easing: "linear"},
		{Interval: time.Second, Easing: "wobble"},
	}
	for _, b := range bad {
		if err := b.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Validate(%+v) = %v, want INVALID_CONFIG", b, err)
		}
	}
}
